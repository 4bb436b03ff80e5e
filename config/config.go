package config

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

type config struct {
	Env       *AppConfig
	jwtSecret string
}

func NewConfig(env *AppConfig) (*config, error) {
	cfg := &config{
		Env: env,
	}

	cfg.jwtSecret = env.JWTSecret
	if cfg.jwtSecret == "" {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		cfg.jwtSecret = hex.EncodeToString(secret)
	}

	return cfg, nil
}

func (cfg *config) GetEnv() *AppConfig {
	return cfg.Env
}

func (cfg *config) GetJWTSecret() string {
	return cfg.jwtSecret
}

func (cfg *config) GetUpstreamApiUrl() string {
	return strings.TrimSuffix(cfg.Env.UpstreamApiUrl, "/")
}

func (cfg *config) CheckPublishPassword(password string) bool {
	if cfg.Env.PublishPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Env.PublishPassword)) == 1
}

func (cfg *config) GetDefaultWorkDir() string {
	return cfg.Env.Workdir
}
