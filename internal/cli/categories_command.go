package cli

import (
	"fmt"
	"io"

	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/config"
)

// CategoriesCommand handles the categories command
type CategoriesCommand struct {
	config       *config.Config
	errorHandler *ErrorHandler
}

// NewCategoriesCommand creates a new categories command handler
func NewCategoriesCommand(cfg *config.Config) *CategoriesCommand {
	return &CategoriesCommand{
		config:       cfg,
		errorHandler: NewErrorHandler(),
	}
}

// Execute prints the active profile's category labels, one per line
func (c *CategoriesCommand) Execute(out io.Writer) error {
	profile, err := config.LoadProfile(c.config)
	if err != nil {
		return c.errorHandler.Handle("load profile", err)
	}

	fmt.Fprintf(out, "%s (%d categories):\n", profile.AppName, len(profile.Events))
	for _, name := range profile.Events {
		fmt.Fprintf(out, "  %s\n", name)
	}
	return nil
}
