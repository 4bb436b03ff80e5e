package events

import (
	"slices"
	"sync"

	"github.com/ChaosForCurio/Xieriee-Store/logger"
)

type Event struct {
	Event      string                 `json:"event"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

type EventSubscriber interface {
	ConsumeEvent(event *Event)
}

type EventPublisher interface {
	RegisterSubscriber(subscriber EventSubscriber)
	RemoveSubscriber(subscriber EventSubscriber)
	Publish(event *Event)
}

type eventPublisher struct {
	listeners []EventSubscriber
	mu        sync.RWMutex
}

func NewEventPublisher() *eventPublisher {
	return &eventPublisher{
		listeners: []EventSubscriber{},
	}
}

func (ep *eventPublisher) RegisterSubscriber(subscriber EventSubscriber) {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	ep.listeners = append(ep.listeners, subscriber)
}

func (ep *eventPublisher) RemoveSubscriber(subscriber EventSubscriber) {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	ep.listeners = slices.DeleteFunc(ep.listeners, func(s EventSubscriber) bool {
		return s == subscriber
	})
}

func (ep *eventPublisher) Publish(event *Event) {
	ep.mu.RLock()
	listeners := slices.Clone(ep.listeners)
	ep.mu.RUnlock()

	logger.Logger.Debug().Str("event", event.Event).Msg("Publishing event")
	for _, listener := range listeners {
		listener.ConsumeEvent(event)
	}
}
