package service

import (
	"context"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/ChaosForCurio/Xieriee-Store/config"
	"github.com/ChaosForCurio/Xieriee-Store/events"
	"github.com/ChaosForCurio/Xieriee-Store/logger"
	"github.com/ChaosForCurio/Xieriee-Store/pkg/version"
	"github.com/ChaosForCurio/Xieriee-Store/storeapi"
)

type service struct {
	cfg            config.Config
	client         storeapi.Client
	eventPublisher events.EventPublisher
	ctx            context.Context
}

func NewService(ctx context.Context) (*service, error) {
	// Load config from environment variables / .env file
	godotenv.Load(".env")
	appConfig := &config.AppConfig{}
	err := envconfig.Process("", appConfig)
	if err != nil {
		return nil, err
	}

	logger.Init(appConfig.LogLevel)
	logger.Logger.Info().Msg("Xieriee Store " + version.Tag)

	if appConfig.Workdir == "" {
		appConfig.Workdir = filepath.Join(xdg.DataHome, "/xieriee-store")
		logger.Logger.Info().Interface("workdir", appConfig.Workdir).Msg("No workdir specified, using default")
	}
	// make sure workdir exists
	os.MkdirAll(appConfig.Workdir, os.ModePerm)

	if appConfig.LogToFile {
		err = logger.AddFileLogger(appConfig.Workdir)
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.NewConfig(appConfig)
	if err != nil {
		return nil, err
	}

	if appConfig.PublishPassword == "" {
		logger.Logger.Warn().Msg("PUBLISH_PASSWORD not set, publisher sign-in is disabled")
	}

	eventPublisher := events.NewEventPublisher()
	eventPublisher.RegisterSubscriber(&eventLogConsumer{})

	svc := &service{
		cfg:            cfg,
		client:         storeapi.NewClient(cfg.GetUpstreamApiUrl()),
		eventPublisher: eventPublisher,
		ctx:            ctx,
	}

	eventPublisher.Publish(&events.Event{
		Event: "store_started",
		Properties: map[string]interface{}{
			"version":  version.Tag,
			"upstream": cfg.GetUpstreamApiUrl(),
		},
	})

	return svc, nil
}

func (svc *service) GetConfig() config.Config {
	return svc.cfg
}

func (svc *service) GetClient() storeapi.Client {
	return svc.client
}

func (svc *service) GetEventPublisher() events.EventPublisher {
	return svc.eventPublisher
}

func (svc *service) Shutdown() {
	svc.eventPublisher.Publish(&events.Event{
		Event: "store_stopped",
	})
}
