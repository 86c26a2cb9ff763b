package config

import (
	"github.com/spf13/viper"
)

const DefaultDatabasePath = "./read.db"

type (
	Config struct {
		Database
		Seed
		Log
	}

	Database struct {
		Path     string
		InMemory bool // non-durable store, for tests and previews
	}
	Seed struct {
		TestData bool // load the fixed demonstration catalog on startup
	}
	Log struct {
		Level string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("memory", false)
	v.SetDefault("testdata", false)
	v.SetDefault("log_level", "info")

	return &Config{
		Database: Database{
			Path:     v.GetString("DATABASE_PATH"),
			InMemory: v.GetBool("MEMORY"),
		},
		Seed: Seed{
			TestData: v.GetBool("TESTDATA"),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
}
