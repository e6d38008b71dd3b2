package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/pybun/pybun/internal/config"
)

type globalOptions struct {
	configPath string
	verbose    bool
}

func (o *globalOptions) logger() *log.Logger {
	logger := log.New(os.Stderr)
	logger.SetReportTimestamp(false)
	if o.verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func (o *globalOptions) loadConfig() (config.Config, error) {
	return config.Load(o.configPath)
}

// interactive reports whether stdout is a terminal; progress chatter is only
// worth printing when someone is watching.
func interactive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
