package backtest

import (
	"fmt"
	"io"
	"time"
)

// PrintResult writes a human-readable run summary.
func PrintResult(w io.Writer, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Simulation Result")
	fmt.Fprintln(w, "==================================================")

	if !r.Start.IsZero() {
		fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
		fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))
	}

	fmt.Fprintf(w, "Ticks:         %d\n", r.Ticks)
	fmt.Fprintf(w, "Signals:       %d\n", r.Signals)
	fmt.Fprintf(w, "Orders:        %d\n", r.Orders)
	fmt.Fprintf(w, "Fills:         %d\n", r.Fills)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Final Cash:    %s\n", r.FinalCash)
	fmt.Fprintf(w, "Final Value:   %s\n", r.FinalValue)
}
