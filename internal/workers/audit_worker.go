package workers

import (
	"context"
	"time"

	"github.com/andrevaleby/santamaria-backend/internal/discord"
	"github.com/andrevaleby/santamaria-backend/internal/logging"
	"github.com/andrevaleby/santamaria-backend/internal/metrics"
	"github.com/andrevaleby/santamaria-backend/internal/providers"
	"github.com/andrevaleby/santamaria-backend/internal/services"
)

// AuditWorker drains the audit queue and delivers each event to the
// configured Discord webhook. Delivery failures are logged and counted,
// never retried.
type AuditWorker struct {
	events     <-chan services.AuditEvent
	channels   providers.ChannelAPI
	webhookURL string
	metricsReg *metrics.MetricsRegistry
}

func NewAuditWorker(events <-chan services.AuditEvent, channels providers.ChannelAPI, webhookURL string, metricsReg *metrics.MetricsRegistry) *AuditWorker {
	return &AuditWorker{
		events:     events,
		channels:   channels,
		webhookURL: webhookURL,
		metricsReg: metricsReg,
	}
}

// Run consumes events until ctx is cancelled. Intended to be started as
// a goroutine from main.
func (w *AuditWorker) Run(ctx context.Context) {
	if w.webhookURL == "" {
		logging.Warn("DISCORD_WEBHOOK_URL not set, audit events will be discarded")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.events:
			if !ok {
				return
			}
			w.deliver(ctx, ev)
		}
	}
}

func (w *AuditWorker) deliver(ctx context.Context, ev services.AuditEvent) {
	if w.webhookURL == "" {
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := w.channels.ExecuteWebhook(callCtx, w.webhookURL, discord.WebhookPayload{
		Embeds: []discord.Embed{ev.Embed},
	})
	if err != nil {
		logging.Error("Audit webhook delivery failed",
			"event_id", ev.ID,
			"kind", string(ev.Kind),
			"error", err.Error(),
		)
		if w.metricsReg != nil {
			w.metricsReg.AuditEventsDropped.Inc()
		}
		return
	}

	logging.Debug("Audit event delivered", "event_id", ev.ID, "kind", string(ev.Kind))
}
