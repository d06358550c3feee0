package config

import (
	"os"
	"strconv"

	"github.com/bastiangx/nlpserve/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	EnvHost     = "NLPSERVE_HOST"
	EnvPort     = "NLPSERVE_PORT"
	EnvLogLevel = "NLPSERVE_LOG_LEVEL"
)

// DotEnvFile is read from the working directory before overrides are applied.
var DotEnvFile = ".env"

// ApplyEnv overrides host, port and log level from the environment. Variables already set
// in the process win over the .env file.
func ApplyEnv(cfg *Config) error {
	if utils.FileExists(DotEnvFile) {
		if err := godotenv.Load(DotEnvFile); err != nil {
			return &ConfigError{Field: "env", Message: "cannot read " + DotEnvFile, Err: err}
		}
		log.Debugf("Loaded environment from %s", DotEnvFile)
	}
	if v, ok := os.LookupEnv(EnvHost); ok && v != "" {
		cfg.Host = v
	}
	if v, ok := os.LookupEnv(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: EnvPort, Message: "not a number", Err: err}
		}
		cfg.Port = port
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	return nil
}
