package config

import "github.com/tendant/chi-demo/app"

// ServerConfig holds the HTTP listen address.
// The portal listens on every interface so it is reachable inside a container.
type ServerConfig struct {
	Host string `env:"HOST" env-default:"0.0.0.0"`
	Port int    `env:"PORT" env-default:"3001"`
}

// ToAppConfig converts the listen address to the chi-demo app configuration
func (s ServerConfig) ToAppConfig() app.AppConfig {
	return app.AppConfig{
		Server: app.Server{
			Host: s.Host,
			Port: s.Port,
		},
	}
}
