package main

import (
	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/transit-catalogue/config"
	"github.com/theoremus-urban-solutions/transit-catalogue/internal"
	"github.com/theoremus-urban-solutions/transit-catalogue/metrics"
)

// app carries the state shared by every subcommand of one invocation
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg     config.AppConfig
	metrics *metrics.Recorder
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "transit-catalogue",
		Short: "Build and query transit catalogue snapshots",
		Long: `transit-catalogue loads stops, buses and road distances from a JSON
request document (or a GTFS feed), stores the result as a snapshot and
answers bus, stop and route requests against it.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config.yml (default: search config.yml, config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "text|json (overrides config)")

	root.AddCommand(
		a.makeBaseCmd(),
		a.processRequestsCmd(),
		a.importGTFSCmd(),
	)
	return root
}

// setup loads the configuration and initialises logging and metrics
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	a.cfg = cfg
	internal.InitLogging(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	a.metrics = metrics.NewRecorder()
	return nil
}
