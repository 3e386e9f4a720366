package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/gocharity/internal/pkg/config"
	"github.com/shandysiswandi/gocharity/internal/pkg/goroutine"
	"github.com/shandysiswandi/gocharity/internal/pkg/instrument"
	"github.com/shandysiswandi/gocharity/internal/pkg/messaging"
	"github.com/shandysiswandi/gocharity/internal/pkg/uid"
	"github.com/shandysiswandi/gocharity/internal/shared/event"
)

// RegisterMQConsumer starts the consumers listed in
// modules.notification.consumer_names on routine. Each runs until ctx is done.
func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	consumer messaging.Consumer,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) []string {
	handler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enabled := cfg.GetArray("modules.notification.consumer_names")

	consumers := []struct {
		name    string
		topic   string
		handler messaging.Handler
	}{
		{
			name:    event.VolunteerRegistrationConsumerNotification,
			topic:   event.VolunteerRegistrationDestination,
			handler: handler.VolunteerRegistrationNotification,
		},
	}

	var started []string
	for _, c := range consumers {
		if !slices.Contains(enabled, c.name) {
			continue
		}

		ok := routine.Go(ctx, func(pCtx context.Context) error {
			slog.InfoContext(pCtx, "Running job for handling consumer", "consumer", c.name)
			return consumer.Consume(pCtx,
				c.topic,
				c.handler,
				messaging.WithGroup(c.name),
				messaging.WithConcurrency(cfg.GetInt("modules.notification.consumer_concurrency")),
			)
		})
		if ok {
			started = append(started, c.name)
		}
	}

	return started
}
