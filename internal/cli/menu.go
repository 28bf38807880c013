package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/your-username/poke-search-api/internal/models"
)

type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// ask prints label and returns the trimmed answer. ok is false at end of input.
func (p *prompter) ask(label string) (string, bool) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.scanner.Text()), true
}

func (p *prompter) days() (int, bool) {
	raw, ok := p.ask("Enter number of days (default 7): ")
	if !ok {
		return 0, false
	}
	if raw == "" {
		return 7, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		fmt.Fprintln(p.out, "Invalid number of days, using 7.")
		return 7, true
	}
	return n, true
}

func (a *app) runMenu(out io.Writer) error {
	p := &prompter{scanner: bufio.NewScanner(a.in), out: out}
	analyzer := a.analyzer()

	fmt.Fprintln(out, a.styles.render(a.styles.title, "=== Bot Analyzer ==="))
	fmt.Fprintln(out, "1. Check Latency")
	fmt.Fprintln(out, "2. Check Availability")
	fmt.Fprintln(out, "3. Render Graph")
	fmt.Fprintln(out, "4. Exit")

	for {
		choice, ok := p.ask("\nSelect option (1-4): ")
		if !ok {
			return p.scanner.Err()
		}

		switch choice {
		case "1":
			var q models.Query
			if q.Module, ok = p.ask("Enter module name (optional): "); !ok {
				return nil
			}
			if q.StartDate, ok = p.ask("Enter start date (YYYY-MM-DD, optional): "); !ok {
				return nil
			}
			if q.EndDate, ok = p.ask("Enter end date (YYYY-MM-DD, optional): "); !ok {
				return nil
			}
			if q.Function, ok = p.ask("Enter function name (optional): "); !ok {
				return nil
			}
			fmt.Fprintln(out, "\n"+a.styles.report(analyzer.LatencyText(q)))

		case "2":
			module, ok := p.ask("Enter module name (optional): ")
			if !ok {
				return nil
			}
			days, ok := p.days()
			if !ok {
				return nil
			}
			function, ok := p.ask("Enter function name (optional): ")
			if !ok {
				return nil
			}
			fmt.Fprintln(out, "\n"+a.styles.report(analyzer.AvailabilityText(module, days, function)))

		case "3":
			metric, ok := p.ask("Enter metric (latency/availability): ")
			if !ok {
				return nil
			}
			module, ok := p.ask("Enter module name (optional): ")
			if !ok {
				return nil
			}
			days, ok := p.days()
			if !ok {
				return nil
			}
			function, ok := p.ask("Enter function name (optional): ")
			if !ok {
				return nil
			}
			fmt.Fprintln(out, "\n"+a.styles.graph(analyzer.GraphText(metric, module, days, function)))

		case "4":
			fmt.Fprintln(out, "Exiting...")
			return nil

		default:
			fmt.Fprintln(out, "Invalid choice. Please select 1-4.")
		}
	}
}
