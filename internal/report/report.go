// Package report renders comparison reports over raw benchmark results:
// a host header, per-suite stat tables, and a cross-suite ranking for
// benchmarks that share an operation name.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"benchforge/internal/measure"
)

// ErrNoResults reports a render call with nothing to show. Campaigns log
// it and continue; it is not fatal.
var ErrNoResults = errors.New("no results to report")

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
)

func colorFprintLn(c *color.Color, w io.Writer, a ...any) {
	_, _ = c.Fprintln(w, a...)
}

func colorFprintf(c *color.Color, w io.Writer, format string, a ...any) {
	_, _ = c.Fprintf(w, format, a...)
}

// Print renders the full report to w.
func Print(w io.Writer, results []measure.Result) error {
	if len(results) == 0 {
		return ErrNoResults
	}

	printHeader(w, ProbeHost())
	printSuiteTables(w, results)
	printComparisons(w, results)
	printFooter(w, results)
	return nil
}

func printHeader(w io.Writer, host HostInfo) {
	_, _ = fmt.Fprintln(w)
	colorFprintLn(bold, w, "═══════════════════════════════════════════════════════════")
	colorFprintLn(bold, w, "📊 BENCHMARK RESULTS")
	colorFprintLn(bold, w, "═══════════════════════════════════════════════════════════")
	if host.CPUModel != "" {
		_, _ = fmt.Fprintf(w, "Host: %s (%d physical / %d logical cores)\n",
			host.CPUModel, host.PhysicalCores, host.LogicalCores)
	}
	if host.TotalMemory > 0 {
		_, _ = fmt.Fprintf(w, "Memory: %s\n", FormatBytes(host.TotalMemory))
	}
	_, _ = fmt.Fprintf(w, "Runtime: %s, GOMAXPROCS=%d\n\n", host.GoVersion, host.MaxProcs)
}

func printSuiteTables(w io.Writer, results []measure.Result) {
	var order []string
	bySuite := make(map[string][]measure.Result)
	for _, r := range results {
		if _, ok := bySuite[r.Suite]; !ok {
			order = append(order, r.Suite)
		}
		bySuite[r.Suite] = append(bySuite[r.Suite], r)
	}

	for _, name := range order {
		colorFprintLn(bold, w, "▶ "+name)

		table := tablewriter.NewWriter(w)
		table.Header("Benchmark", "Mode", "Iters", "Mean ops/s", "± Stddev", "Allocs/op", "B/op")
		for _, r := range bySuite[name] {
			_ = table.Append(
				r.Benchmark,
				string(r.Mode),
				fmt.Sprintf("%d", r.Iterations),
				FormatRate(r.MeanOpsPerSec()),
				FormatRate(r.StddevOpsPerSec()),
				fmt.Sprintf("%.1f", r.AllocsPerOp),
				fmt.Sprintf("%.0f", r.AllocBytesPerOp),
			)
		}
		_ = table.Render()
		_, _ = fmt.Fprintln(w)
	}
}

// printComparisons ranks suites that measure the same operation name.
func printComparisons(w io.Writer, results []measure.Result) {
	var names []string
	byBench := make(map[string][]measure.Result)
	for _, r := range results {
		if _, ok := byBench[r.Benchmark]; !ok {
			names = append(names, r.Benchmark)
		}
		byBench[r.Benchmark] = append(byBench[r.Benchmark], r)
	}
	sort.Strings(names)

	printed := false
	for _, name := range names {
		group := byBench[name]
		if len(group) < 2 {
			continue
		}
		if !printed {
			colorFprintLn(bold, w, "═══════════════════════════════════════════════════════════")
			colorFprintLn(bold, w, "🏁 CROSS-SUITE COMPARISON")
			colorFprintLn(bold, w, "═══════════════════════════════════════════════════════════")
			_, _ = fmt.Fprintln(w, "Suites measuring the same operation, ranked by throughput")
			_, _ = fmt.Fprintln(w)
			printed = true
		}

		sort.Slice(group, func(i, j int) bool {
			return group[i].MeanOpsPerSec() > group[j].MeanOpsPerSec()
		})
		fastest := group[0].MeanOpsPerSec()

		colorFprintLn(bold, w, "▶ "+name)
		table := tablewriter.NewWriter(w)
		table.Header("Rank", "Suite", "Mean ops/s", "vs Fastest")
		for i, r := range group {
			_ = table.Append(
				rankIcon(i+1),
				r.Suite,
				FormatRate(r.MeanOpsPerSec()),
				vsFastest(fastest, r.MeanOpsPerSec(), i+1),
			)
		}
		_ = table.Render()
		_, _ = fmt.Fprintln(w)
	}
}

func printFooter(w io.Writer, results []measure.Result) {
	suites := make(map[string]struct{})
	var totalOps int64
	for _, r := range results {
		suites[r.Suite] = struct{}{}
		for _, s := range r.Samples {
			totalOps += s.Ops
		}
	}
	colorFprintf(green, w, "✅ Measured %d benchmarks across %d suites (%s ops total)\n",
		len(results), len(suites), FormatCount(int(totalOps)))
}

func rankIcon(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d", rank)
	}
}

// vsFastest formats how far behind the group leader a result is.
func vsFastest(fastest, current float64, rank int) string {
	if rank == 1 {
		return "baseline"
	}
	if current <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2fx", fastest/current)
}
