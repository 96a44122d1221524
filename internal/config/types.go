package config

import "github.com/mauv0809/pool-ledger/internal/achievement"

// Config holds all configuration for the application.
type Config struct {
	DBName       string
	Port         string
	Slack        SlackConfig
	Turso        TursoConfig
	ProjectID    string
	Achievements achievement.Config
}
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
