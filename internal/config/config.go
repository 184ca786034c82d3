package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	cerr "github.com/saeidalz13/battleship-engine/internal/error"
)

const (
	StageProd = "prod"
	StageDev  = "dev"

	EnvStage       = "STAGE"
	EnvPort        = "PORT"
	EnvDatabaseUrl = "DATABASE_URL"
	EnvMigrateDir  = "MIGRATION_DIR"
)

type Config struct {
	Stage        string
	Port         int
	DatabaseUrl  string
	MigrationDir string
}

// AnalyticsEnabled is false when no database is configured.
func (c Config) AnalyticsEnabled() bool {
	return c.DatabaseUrl != ""
}

// Load reads the configuration from the environment. Outside of prod the
// variables are first loaded from envFile.
func Load(envFile string) (Config, error) {
	if os.Getenv(EnvStage) != StageProd {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, err
		}
		log.Println("Successfully loaded environment variables")
	}

	stage := os.Getenv(EnvStage)
	if stage != StageDev && stage != StageProd {
		return Config{}, cerr.ErrInvalidStage(stage)
	}

	portEnv := os.Getenv(EnvPort)
	if portEnv == "" {
		return Config{}, cerr.ErrMissingEnv(EnvPort)
	}
	port, err := strconv.Atoi(portEnv)
	if err != nil {
		return Config{}, err
	}

	migrationDir := os.Getenv(EnvMigrateDir)
	if migrationDir == "" {
		migrationDir = "file://db/migration"
	}

	return Config{
		Stage:        stage,
		Port:         port,
		DatabaseUrl:  os.Getenv(EnvDatabaseUrl),
		MigrationDir: migrationDir,
	}, nil
}
