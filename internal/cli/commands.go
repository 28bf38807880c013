package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/your-username/poke-search-api/internal/analytics"
	"github.com/your-username/poke-search-api/internal/export"
	"github.com/your-username/poke-search-api/internal/models"
)

type filterFlags struct {
	module   string
	function string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.module, "module", "m", "", "module to report on (default: all modules)")
	cmd.Flags().StringVarP(&f.function, "function", "f", "", "function to report on")
}

// printOutcome prints text, styling it unless it is an outcome message
func (a *app) printOutcome(out io.Writer, text string, err error, style func(string) string) error {
	if err != nil {
		if analytics.KindOf(err) == analytics.KindIO {
			return err
		}
		fmt.Fprintln(out, a.styles.render(a.styles.message, analytics.Describe(err)))
		return nil
	}
	fmt.Fprintln(out, style(text))
	return nil
}

func (a *app) latencyCommand() *cobra.Command {
	var f filterFlags
	var start, end string

	cmd := &cobra.Command{
		Use:   "latency",
		Short: "Per-day mean latency",
		Example: `  botanalyzer latency --module PokeAPI
  botanalyzer latency -m PokeStats --start 2024-01-01 --end 2024-01-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.analyzer().CheckLatency(models.Query{
				Module:    f.module,
				Function:  f.function,
				StartDate: start,
				EndDate:   end,
			})
			var text string
			if err == nil {
				text = report.String()
			}
			return a.printOutcome(cmd.OutOrStdout(), text, err, a.styles.report)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	return cmd
}

func (a *app) availabilityCommand() *cobra.Command {
	var f filterFlags
	var days int

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Per-day availability over the last days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.analyzer().CheckAvailability(f.module, days, f.function)
			var text string
			if err == nil {
				text = report.String()
			}
			return a.printOutcome(cmd.OutOrStdout(), text, err, a.styles.report)
		},
	}
	f.register(cmd)
	cmd.Flags().IntVarP(&days, "days", "d", 7, "trailing window in days")
	return cmd
}

func (a *app) graphCommand() *cobra.Command {
	var f filterFlags
	var days int

	cmd := &cobra.Command{
		Use:   "graph <latency|availability>",
		Short: "ASCII trend graph of a metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chart, err := a.analyzer().RenderGraph(args[0], f.module, days, f.function)
			return a.printOutcome(cmd.OutOrStdout(), chart, err, a.styles.graph)
		},
	}
	f.register(cmd)
	cmd.Flags().IntVarP(&days, "days", "d", 7, "trailing window in days")
	return cmd
}

func (a *app) exportCommand() *cobra.Command {
	var f filterFlags
	var opts export.ExportOptions
	var format, output string

	cmd := &cobra.Command{
		Use:   "export <latency|availability>",
		Short: "Export a daily report as csv, json or xlsx",
		Example: `  botanalyzer export latency --format xlsx --output latency.xlsx
  botanalyzer export availability -m PokeAPI -d 30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			opts.Format = parsed
			opts.Metric = args[0]
			opts.Module = f.module
			opts.Function = f.function

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer file.Close()
				w = file
			}

			result, err := export.NewExporter(a.analyzer()).Export(w, opts)
			if err != nil {
				if k := analytics.KindOf(err); k == analytics.KindNoData || k == analytics.KindInvalidMetric {
					fmt.Fprintln(cmd.OutOrStdout(), analytics.Describe(err))
					return nil
				}
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", result.RowCount, output)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&format, "format", "csv", "csv, json or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: stdout)")
	cmd.Flags().StringVar(&opts.StartDate, "start", "", "first day for latency, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.EndDate, "end", "", "last day for latency, YYYY-MM-DD")
	cmd.Flags().IntVarP(&opts.Days, "days", "d", 7, "trailing window for availability")
	return cmd
}

func (a *app) menuCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive report menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMenu(cmd.OutOrStdout())
		},
	}
}
