package config

type AppConfig struct {
	Workdir        string `envconfig:"WORK_DIR"`
	Port           string `envconfig:"PORT" default:"8080"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"4"`
	LogToFile      bool   `envconfig:"LOG_TO_FILE" default:"true"`
	BaseUrl        string `envconfig:"BASE_URL"`
	UpstreamApiUrl string `envconfig:"UPSTREAM_API_URL" default:"http://localhost:5000/api"`

	// JWTSecret signs publisher session tokens. When empty a random secret is
	// generated at startup, which invalidates sessions across restarts.
	JWTSecret       string `envconfig:"JWT_SECRET"`
	PublishPassword string `envconfig:"PUBLISH_PASSWORD"`
}

type Config interface {
	GetEnv() *AppConfig
	GetJWTSecret() string
	GetUpstreamApiUrl() string
	CheckPublishPassword(password string) bool
	GetDefaultWorkDir() string
}
