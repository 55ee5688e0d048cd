// Package config provides configuration structs and environment helpers for the grievance portal.
//
// Section structs carry cleanenv tags so a binary can compose them into one
// Config and load it with cleanenv.ReadEnv. The GetEnv* helpers cover small
// tools that read a handful of variables directly.
//
//	type Config struct {
//		Email config.EmailConfig
//		Auth  config.AuthConfig
//	}
//
//	var cfg Config
//	cleanenv.ReadEnv(&cfg)
//	if err := config.Validate(config.ValidateEmailConfig(cfg.Email)); err != nil {
//		slog.Error("Invalid configuration", "error", err)
//	}
package config
