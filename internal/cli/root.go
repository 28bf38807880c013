// Package cli implements the botanalyzer command line: report commands over
// the request log plus the interactive menu.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/your-username/poke-search-api/internal/analytics"
	"github.com/your-username/poke-search-api/internal/graph"
	"github.com/your-username/poke-search-api/internal/logger"
	"github.com/your-username/poke-search-api/internal/parsing"
)

const (
	keyLogFile        = "log_file"
	keyGraphHeight    = "graph_height"
	keyPreciseScaling = "graph_precise_scaling"
	keyDayKeyWithYear = "day_key_with_year"
	keyNoColor        = "no_color"
)

// app carries the state shared by every sub-command
type app struct {
	v       *viper.Viper
	cfgFile string
	in      io.Reader
	styles  styles
}

// NewRootCommand builds the command tree reading answers from in
func NewRootCommand(in io.Reader) *cobra.Command {
	a := &app{v: viper.New(), in: in}

	root := &cobra.Command{
		Use:   "botanalyzer",
		Short: "Latency and availability reports over the request log",
		Long: `botanalyzer reads the pipe-delimited request log written by the
Poke/Search API and prints per-day latency and availability reports and
ASCII trend graphs.

Run without a sub-command to open the interactive menu.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMenu(cmd.OutOrStdout())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./.botanalyzer.yaml)")
	flags.String("log-file", filepath.Join("logs", logger.DefaultFile), "request log to analyze")
	flags.Bool("no-color", false, "disable styled output")
	flags.Int("height", graph.DefaultHeight, "graph height in rows")
	flags.Bool("precise", false, "scale graph rows without truncating first")
	flags.Bool("with-year", false, "bucket days as YYYY/MM/DD")

	a.v.BindPFlag(keyLogFile, flags.Lookup("log-file"))
	a.v.BindPFlag(keyNoColor, flags.Lookup("no-color"))
	a.v.BindPFlag(keyGraphHeight, flags.Lookup("height"))
	a.v.BindPFlag(keyPreciseScaling, flags.Lookup("precise"))
	a.v.BindPFlag(keyDayKeyWithYear, flags.Lookup("with-year"))

	root.AddCommand(
		a.latencyCommand(),
		a.availabilityCommand(),
		a.graphCommand(),
		a.exportCommand(),
		a.menuCommand(),
	)
	return root
}

// Execute runs the botanalyzer command line
func Execute() {
	if err := NewRootCommand(os.Stdin).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) initConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.SetConfigName(".botanalyzer")
		a.v.SetConfigType("yaml")
	}

	a.v.AutomaticEnv()
	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && a.cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}

	a.styles = newStyles(a.v.GetBool(keyNoColor))
	return nil
}

func (a *app) analyzer() *analytics.Analyzer {
	return analytics.New(
		parsing.NewFileSource(a.v.GetString(keyLogFile), nil),
		analytics.Options{
			DayKeyWithYear: a.v.GetBool(keyDayKeyWithYear),
			GraphHeight:    a.v.GetInt(keyGraphHeight),
			PreciseScaling: a.v.GetBool(keyPreciseScaling),
		},
	)
}
