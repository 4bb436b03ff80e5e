package service

import (
	"github.com/ChaosForCurio/Xieriee-Store/config"
	"github.com/ChaosForCurio/Xieriee-Store/events"
	"github.com/ChaosForCurio/Xieriee-Store/storeapi"
)

type Service interface {
	GetConfig() config.Config
	GetClient() storeapi.Client
	GetEventPublisher() events.EventPublisher
	Shutdown()
}
