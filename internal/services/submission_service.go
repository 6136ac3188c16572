package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrevaleby/santamaria-backend/internal/auth"
	"github.com/andrevaleby/santamaria-backend/internal/constants"
	"github.com/andrevaleby/santamaria-backend/internal/db/repositories"
	"github.com/andrevaleby/santamaria-backend/internal/discord"
	"github.com/andrevaleby/santamaria-backend/internal/logging"
	"github.com/andrevaleby/santamaria-backend/internal/metrics"
	"github.com/andrevaleby/santamaria-backend/internal/models/dtos"
	gormModels "github.com/andrevaleby/santamaria-backend/internal/models/gorm"
	"github.com/andrevaleby/santamaria-backend/internal/providers"
)

// SubmissionService accepts whitelist applications. One application per
// user may be in flight; re-application is allowed once a decision has
// landed. The status flip to pending and the review card publish are
// all-or-nothing.
type SubmissionService struct {
	db           *gorm.DB
	channels     providers.ChannelAPI
	logChannelID string
	metricsReg   *metrics.MetricsRegistry
}

func NewSubmissionService(db *gorm.DB, channels providers.ChannelAPI, logChannelID string, metricsReg *metrics.MetricsRegistry) *SubmissionService {
	return &SubmissionService{
		db:           db,
		channels:     channels,
		logChannelID: logChannelID,
		metricsReg:   metricsReg,
	}
}

// Submit validates preconditions, flips the review status to pending
// and posts the review card inside one transaction. A failed publish
// rolls the status back.
func (s *SubmissionService) Submit(ctx context.Context, identity auth.Identity, answers []string) (*dtos.SubmissionResponse, error) {
	if !identity.IsMember {
		s.countSubmission("forbidden")
		return nil, ErrNotMember
	}

	var cardID string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Single conditional update: only a non-pending row may enter
		// pending. Zero rows means either a concurrent application or
		// an unknown user.
		res := tx.Model(&gormModels.User{}).
			Where("discord_id = ? AND review_status <> ?", identity.DiscordID, constants.ReviewStatusPending).
			Update("review_status", constants.ReviewStatusPending)
		if res.Error != nil {
			return fmt.Errorf("failed to mark application pending: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			var existing gormModels.User
			err := tx.Where("discord_id = ?", identity.DiscordID).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repositories.ErrUserNotFound
			}
			if err != nil {
				return fmt.Errorf("failed to look up applicant: %w", err)
			}
			return ErrAlreadyPending
		}

		card := discord.NewReviewCard(
			identity.DiscordID,
			identity.Username,
			discord.AvatarURL(identity.DiscordID, identity.Avatar),
			pairAnswers(answers),
		)

		msg, err := s.channels.CreateMessage(ctx, s.logChannelID, card)
		if err != nil {
			// Rolls the pending flip back; intake is all-or-nothing
			return fmt.Errorf("failed to publish review card: %w", err)
		}
		cardID = msg.ID
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyPending):
			s.countSubmission("duplicate")
		default:
			s.countSubmission("failed")
		}
		return nil, err
	}

	logging.Info("Whitelist application submitted",
		"subject_id", identity.DiscordID,
		"card_id", cardID,
	)
	s.countSubmission("accepted")

	return &dtos.SubmissionResponse{
		ReviewStatus: string(constants.ReviewStatusPending),
		CardID:       cardID,
	}, nil
}

// Status returns the caller's persisted review status
func (s *SubmissionService) Status(ctx context.Context, discordID string) (constants.ReviewStatus, error) {
	var user gormModels.User
	err := s.db.WithContext(ctx).Where("discord_id = ?", discordID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", repositories.ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch review status: %w", err)
	}
	return user.ReviewStatus, nil
}

func (s *SubmissionService) countSubmission(outcome string) {
	if s.metricsReg != nil {
		s.metricsReg.SubmissionsTotal.WithLabelValues(outcome).Inc()
	}
}

// pairAnswers zips the fixed question set with the submitted answers
func pairAnswers(answers []string) []discord.QA {
	qas := make([]discord.QA, len(constants.WhitelistQuestions))
	for i, q := range constants.WhitelistQuestions {
		answer := constants.EmptyAnswerPlaceholder
		if i < len(answers) && answers[i] != "" {
			answer = answers[i]
		}
		qas[i] = discord.QA{Question: q, Answer: answer}
	}
	return qas
}
