package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/config"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/domain"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/journal"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/logging"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/recorder"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/server"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/validation"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	config *config.Config
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(cfg *config.Config) *RootCommand {
	root := &RootCommand{
		config: cfg,
	}

	root.cmd = &cobra.Command{
		Use:   "eventlogger [project-id]",
		Short: "Event logger for clinical trial observation sessions",
		Long: `Event Logger records the start and stop of predefined event categories
during an observation session and appends each completed event as a row to a
timestamped CSV file.

It serves a browser form on a local address; pressing a category button starts
the event, pressing it again stops it, and switching buttons stops the running
event before starting the new one. At most one event is active at a time.

USAGE:
  eventlogger                    # Start with no project ID prefix
  eventlogger TRBD004            # Prefix log filenames with TRBD004_
  eventlogger categories         # Print the active profile's categories
  eventlogger summary <file>     # Per-category totals for a log file

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > defaults

    EVENTLOG_ADDR                Listen address (default: 127.0.0.1:8743)
    EVENTLOG_DIR                 Log root directory (default: ~/EventLogs)
    EVENTLOG_PROFILE             Deployment profile (default: NBU)
    EVENTLOG_PROFILE_FILE        YAML profile file (overrides EVENTLOG_PROFILE)
    EVENTLOG_NOTES_MAX           Max notes length (default: 500)
    EVENTLOG_VERBOSE             Enable verbose output (default: false)
    EVENTLOG_DEBUG               Enable debug logging when set`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Apply configuration overrides from flags before any command runs
			return root.getConfigFromFlags()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID := ""
			if len(args) == 1 {
				projectID = args[0]
			}
			return root.serve(cmd.Context(), projectID)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.cmd.ExecuteContext(ctx)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("addr", "", "Listen address (overrides EVENTLOG_ADDR)")
	flags.String("dir", "", "Log root directory (overrides EVENTLOG_DIR)")
	flags.String("profile", "", "Deployment profile name (overrides EVENTLOG_PROFILE)")
	flags.String("profile-file", "", "YAML profile file (overrides EVENTLOG_PROFILE_FILE)")
	flags.Int("notes-max", 0, "Maximum notes length (overrides EVENTLOG_NOTES_MAX)")
	flags.Bool("verbose", false, "Enable verbose output (overrides EVENTLOG_VERBOSE)")
}

// getConfigFromFlags applies flag overrides onto the configuration
func (r *RootCommand) getConfigFromFlags() error {
	flags := r.cmd.PersistentFlags()

	if addr, _ := flags.GetString("addr"); addr != "" {
		r.config.Server.Addr = addr
	}
	if dir, _ := flags.GetString("dir"); dir != "" {
		r.config.Journal.Dir = dir
	}
	if profile, _ := flags.GetString("profile"); profile != "" {
		r.config.Profile.Name = profile
	}
	if profileFile, _ := flags.GetString("profile-file"); profileFile != "" {
		r.config.Profile.File = profileFile
	}
	if notesMax, _ := flags.GetInt("notes-max"); notesMax > 0 {
		r.config.Validation.NotesMaxLength = notesMax
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		r.config.Application.Verbose = true
	}

	return r.config.Validate()
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "Print the active profile's event categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := NewCategoriesCommand(r.config)
			return handler.Execute(cmd.OutOrStdout())
		},
	}

	summaryCmd := &cobra.Command{
		Use:   "summary <file>",
		Short: "Show per-category totals for a log file",
		Long: `Parse an event log file and print the number of events and total duration
recorded for each category.

Example:
  eventlogger summary ~/EventLogs/2026-08-25/event_log_0825_09_30.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := NewSummaryCommand()
			return handler.Execute(cmd.OutOrStdout(), args[0])
		},
	}

	r.cmd.AddCommand(categoriesCmd, summaryCmd)
}

// serve wires the journal, recorder, and HTTP server together and runs until
// the context is canceled.
func (r *RootCommand) serve(ctx context.Context, projectID string) error {
	errorHandler := NewErrorHandler()

	projectValidator := validation.NewProjectIDValidator()
	if err := projectValidator.ValidateProjectID(projectID); err != nil {
		return errorHandler.Handle("start event logger", err)
	}
	projectID = projectValidator.CleanProjectID(projectID)

	profile, err := config.LoadProfile(r.config)
	if err != nil {
		return errorHandler.Handle("load profile", err)
	}

	jrnl, err := journal.New(
		r.config.Journal.Dir,
		projectID,
		os.FileMode(r.config.Journal.DirPermissions),
		timeNow(),
	)
	if err != nil {
		return errorHandler.Handle("create log file", err)
	}
	defer jrnl.Close()

	categories := domain.NewCategorySet(profile.Events)
	validator := validation.NewEventValidatorWithConfig(categories, r.config)
	rec := recorder.NewWithValidator(jrnl, categories, validator)

	logger := log.New(os.Stderr, "", log.LstdFlags)
	logger.Printf("%s (profile %s)", profile.AppName, profile.Name)
	logger.Printf("logging events to %s", jrnl.Path())
	if projectID != "" {
		logger.Printf("project %s, study %s", projectID, profile.StudyID(projectID))
	}
	logging.Debugf("categories: %v\n", categories.Names())

	srv := server.New(r.config, rec, logger)
	return srv.Run(ctx)
}
