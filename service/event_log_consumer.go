package service

import (
	"github.com/ChaosForCurio/Xieriee-Store/events"
	"github.com/ChaosForCurio/Xieriee-Store/logger"
)

// eventLogConsumer writes every store lifecycle and publish event to the log.
type eventLogConsumer struct{}

func (c *eventLogConsumer) ConsumeEvent(event *events.Event) {
	logger.Logger.Info().
		Str("event", event.Event).
		Interface("properties", event.Properties).
		Msg("Store event")
}
