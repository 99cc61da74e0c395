// Package common holds pieces shared by both binaries, currently the
// logging setup.
package common

import (
	"os"

	"github.com/op/go-logging"
)

var stderrFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.5s} ▶ %{message}`,
)

// SetupLogging configures the process-wide logging backend: stderr with a
// timestamped format, level taken from the KV_LOG_LEVEL environment
// variable when set, defaultLevel otherwise. Returns the module logger.
func SetupLogging(module string, defaultLevel logging.Level) *logging.Logger {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetFormatter(stderrFormat)
	leveled := logging.AddModuleLevel(backend)

	switch os.Getenv("KV_LOG_LEVEL") {
	case "CRITICAL":
		leveled.SetLevel(logging.CRITICAL, "")
	case "ERROR":
		leveled.SetLevel(logging.ERROR, "")
	case "WARNING":
		leveled.SetLevel(logging.WARNING, "")
	case "NOTICE":
		leveled.SetLevel(logging.NOTICE, "")
	case "INFO":
		leveled.SetLevel(logging.INFO, "")
	case "DEBUG":
		leveled.SetLevel(logging.DEBUG, "")
	default:
		leveled.SetLevel(defaultLevel, "")
	}

	logging.SetBackend(leveled)
	return logging.MustGetLogger(module)
}

// LevelByName maps a config file loglevel string to a logging level,
// falling back to INFO for unknown names.
func LevelByName(name string) logging.Level {
	if lvl, err := logging.LogLevel(name); err == nil {
		return lvl
	}
	return logging.INFO
}
