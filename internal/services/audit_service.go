package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/andrevaleby/santamaria-backend/internal/auth"
	"github.com/andrevaleby/santamaria-backend/internal/constants"
	"github.com/andrevaleby/santamaria-backend/internal/discord"
	"github.com/andrevaleby/santamaria-backend/internal/logging"
	"github.com/andrevaleby/santamaria-backend/internal/metrics"
)

// AuditEventKind labels the audit stream
type AuditEventKind string

const (
	AuditLogin      AuditEventKind = "login"
	AuditResolution AuditEventKind = "resolution"
)

// AuditEvent is one entry on the audit stream, rendered as a webhook
// embed by the audit worker
type AuditEvent struct {
	ID    string
	Kind  AuditEventKind
	Embed discord.Embed
}

// AuditService queues audit events for fire-and-forget delivery. A full
// queue drops the event: audit must never block a login or a review
// resolution.
type AuditService struct {
	queue      chan AuditEvent
	metricsReg *metrics.MetricsRegistry
}

const auditQueueSize = 256

func NewAuditService(metricsReg *metrics.MetricsRegistry) *AuditService {
	return &AuditService{
		queue:      make(chan AuditEvent, auditQueueSize),
		metricsReg: metricsReg,
	}
}

// Events exposes the queue to the audit worker
func (s *AuditService) Events() <-chan AuditEvent {
	return s.queue
}

// NotifyLogin records a portal login
func (s *AuditService) NotifyLogin(identity auth.Identity, at time.Time) {
	s.enqueue(AuditEvent{
		ID:   uuid.NewString(),
		Kind: AuditLogin,
		Embed: discord.NewLoginEmbed(
			identity.DiscordID,
			identity.Username,
			discord.AvatarURL(identity.DiscordID, identity.Avatar),
			identity.IsMember,
			at,
		),
	})
}

// NotifyResolution records a committed review decision
func (s *AuditService) NotifyResolution(action constants.ReviewAction, subjectID, moderatorTag, justification string) {
	s.enqueue(AuditEvent{
		ID:    uuid.NewString(),
		Kind:  AuditResolution,
		Embed: discord.NewOutcomeEmbed(action, subjectID, moderatorTag, justification),
	})
}

func (s *AuditService) enqueue(ev AuditEvent) {
	select {
	case s.queue <- ev:
	default:
		logging.Warn("Audit queue full, dropping event",
			"event_id", ev.ID,
			"kind", string(ev.Kind),
		)
		if s.metricsReg != nil {
			s.metricsReg.AuditEventsDropped.Inc()
		}
	}
}
