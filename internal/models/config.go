package models

import "time"

// DatabaseConfig holds sqlite connection settings.
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	SeedDemoUser    bool
}

// SyncConfig holds Open Banking sync settings.
type SyncConfig struct {
	ProvidersFile  string
	LookbackWindow time.Duration
}

// Config is the full application configuration loaded from the environment.
type Config struct {
	Database DatabaseConfig
	Sync     SyncConfig
}
