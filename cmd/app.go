package cmd

import (
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-variables/cmd/config"
)

// App is what the root command prepares before any subcommand runs.
type App struct {
	Config *config.Config
	Logger *logrus.Entry
}
