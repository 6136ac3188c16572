package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/andrevaleby/santamaria-backend/internal/common"
	"github.com/andrevaleby/santamaria-backend/internal/constants"
	"github.com/andrevaleby/santamaria-backend/internal/db/repositories"
	"github.com/andrevaleby/santamaria-backend/internal/discord"
	"github.com/andrevaleby/santamaria-backend/internal/logging"
	"github.com/andrevaleby/santamaria-backend/internal/metrics"
	"github.com/andrevaleby/santamaria-backend/internal/providers"
)

// ControlActivated is the event raised when a moderator presses one of
// the two buttons on a posted review card
type ControlActivated struct {
	Action    constants.ReviewAction
	SubjectID string
	CardID    string
	Moderator *discord.User
}

// JustificationCaptured is the event raised when the justification
// modal is submitted
type JustificationCaptured struct {
	Action        constants.ReviewAction
	SubjectID     string
	CardID        string
	ChannelID     string
	Moderator     *discord.User
	Justification string
}

// ReviewService is the review state machine. A card moves
// Posted -> ActionChosen -> Resolved; the decision guard is the sole
// serialization point, so duplicated or racing events collapse to one
// committed resolution per subject.
type ReviewService struct {
	guard           common.DecisionGuard
	channels        providers.ChannelAPI
	users           *repositories.UserRepository
	audit           *AuditService
	approvChannelID string
	reprovChannelID string
	metricsReg      *metrics.MetricsRegistry
}

func NewReviewService(
	guard common.DecisionGuard,
	channels providers.ChannelAPI,
	users *repositories.UserRepository,
	audit *AuditService,
	approvChannelID, reprovChannelID string,
	metricsReg *metrics.MetricsRegistry,
) *ReviewService {
	return &ReviewService{
		guard:           guard,
		channels:        channels,
		users:           users,
		audit:           audit,
		approvChannelID: approvChannelID,
		reprovChannelID: reprovChannelID,
		metricsReg:      metricsReg,
	}
}

// HandleControlActivated opens the justification prompt, or informs the
// moderator that the subject is already resolved. The guard is only
// read here: a moderator who opens the prompt and abandons it must not
// lock the card.
func (s *ReviewService) HandleControlActivated(ctx context.Context, ev ControlActivated) discord.InteractionResponse {
	if decided, found, err := s.guard.Get(ctx, ev.SubjectID); err == nil && found {
		s.countStale()
		return ephemeralReply(alreadyResolvedMessage(decided))
	} else if err != nil {
		logging.Error("Decision guard read failed",
			"subject_id", ev.SubjectID,
			"error", err.Error(),
		)
		return ephemeralReply("⚠️ Ocorreu um erro ao processar sua ação.")
	}

	return discord.NewJustificationModal(ev.Action, ev.SubjectID, ev.CardID)
}

// HandleJustificationCaptured commits a resolution. Step (a), the guard
// acquisition, is the single atomic commit point; every later step is
// best-effort and logged on failure, because the card must never be
// left stuck half-resolved.
func (s *ReviewService) HandleJustificationCaptured(ctx context.Context, ev JustificationCaptured) discord.InteractionResponse {
	log := logging.WithReview(ev.SubjectID, ev.CardID, ev.Moderator.ID)

	// (a) commit point
	won, decided, err := s.guard.TryAcquire(ctx, ev.SubjectID, ev.Action)
	if err != nil {
		// Fail closed: without the guard we cannot prove first-wins
		log.Errorw("Decision guard acquire failed", "error", err.Error())
		return ephemeralReply("⚠️ Ocorreu um erro ao processar sua ação.")
	}
	if !won {
		s.countStale()
		return ephemeralReply(alreadyResolvedMessage(decided))
	}

	log.Infow("Review resolution committed", "decision", string(ev.Action))
	if s.metricsReg != nil {
		s.metricsReg.ReviewsResolvedTotal.WithLabelValues(string(ev.Action.Terminal())).Inc()
	}

	// (b) outcome record to the decision channel
	outcomeChannel := s.reprovChannelID
	if ev.Action == constants.ActionApprove {
		outcomeChannel = s.approvChannelID
	}
	outcome := discord.NewOutcomeEmbed(ev.Action, ev.SubjectID, ev.Moderator.Tag(), ev.Justification)
	if _, err := s.channels.CreateMessage(ctx, outcomeChannel, discord.MessagePayload{Embeds: []discord.Embed{outcome}}); err != nil {
		log.Errorw("Failed to publish resolution record", "error", err.Error())
	}

	// (c) cosmetic card edit; a deleted card is skipped, not an error
	s.resolveCard(ctx, ev, log)

	// (e) durable status write
	if err := s.users.SetReviewStatus(ctx, ev.SubjectID, ev.Action.Terminal()); err != nil {
		log.Errorw("Failed to persist review status", "error", err.Error())
	}

	s.audit.NotifyResolution(ev.Action, ev.SubjectID, ev.Moderator.Tag(), ev.Justification)

	// (d) moderator acknowledgment is the interaction response itself
	return ephemeralReply(successMessage(ev.Action, ev.SubjectID))
}

func (s *ReviewService) resolveCard(ctx context.Context, ev JustificationCaptured, log *zap.SugaredLogger) {
	card, err := s.channels.GetMessage(ctx, ev.ChannelID, ev.CardID)
	if err != nil {
		if providers.IsNotFound(err) {
			log.Warnw("Review card not found, skipping edit (possibly deleted)")
		} else {
			log.Errorw("Failed to fetch review card", "error", err.Error())
		}
		return
	}

	payload := discord.ResolveCard(*card, ev.Action)
	if err := s.channels.EditMessage(ctx, ev.ChannelID, ev.CardID, payload); err != nil {
		log.Errorw("Failed to edit review card", "error", err.Error())
	}
}

func (s *ReviewService) countStale() {
	if s.metricsReg != nil {
		s.metricsReg.StaleReviewEvents.Inc()
	}
}

func ephemeralReply(content string) discord.InteractionResponse {
	return discord.InteractionResponse{
		Type: discord.ResponseChannelMessageWithSource,
		Data: &discord.ResponseData{
			Content: content,
			Flags:   discord.MessageFlagEphemeral,
		},
	}
}

func alreadyResolvedMessage(decided constants.ReviewAction) string {
	verb := "processou"
	switch decided {
	case constants.ActionApprove:
		verb = "aprovou"
	case constants.ActionReject:
		verb = "reprovou"
	}
	return fmt.Sprintf("⚠️ Alguém já %s este usuário!", verb)
}

func successMessage(action constants.ReviewAction, subjectID string) string {
	verb := "reprovou"
	if action == constants.ActionApprove {
		verb = "aprovou"
	}
	return fmt.Sprintf("✅ Você %s <@%s> com sucesso!", verb, subjectID)
}
