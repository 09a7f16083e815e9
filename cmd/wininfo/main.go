// Command wininfo prints gain properties of the analysis windows.
//
// Usage:
//
//	wininfo [flags] [window-name ...]
//
// Without arguments it prints info for all known window types.
//
// Examples:
//
//	wininfo hann
//	wininfo -size 1024 blackman kaiser
//	wininfo -list
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-spectral/dsp/core"
	"github.com/cwbudde/algo-spectral/dsp/window"
)

type windowEntry struct {
	name string
	typ  window.Type
}

var registry = []windowEntry{
	{"rectangular", window.TypeRectangular},
	{"hann", window.TypeHann},
	{"hamming", window.TypeHamming},
	{"triangle", window.TypeTriangle},
	{"cosine", window.TypeCosine},
	{"blackman", window.TypeBlackman},
	{"blackman-62", window.TypeBlackman62},
	{"blackman-70", window.TypeBlackman70},
	{"blackman-74", window.TypeBlackman74},
	{"blackman-92", window.TypeBlackman92},
	{"blackman-harris", window.TypeBlackmanHarris},
	{"flat-top", window.TypeFlatTop},
	{"kaiser", window.TypeKaiser},
}

func main() {
	size := flag.Int("size", 1024, "window length in samples")
	all := flag.Bool("all", false, "show all window types")
	list := flag.Bool("list", false, "list available window names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wininfo [flags] [window-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints gain properties of the analysis windows.\n")
		fmt.Fprintf(os.Stderr, "Without arguments or with -all, prints info for all windows.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  wininfo hann blackman\n")
		fmt.Fprintf(os.Stderr, "  wininfo -size 4096 kaiser\n")
		fmt.Fprintf(os.Stderr, "  wininfo -list\n")
	}
	flag.Parse()

	if *list {
		printList()
		return
	}
	if *size < 2 {
		fmt.Fprintf(os.Stderr, "error: size must be at least 2\n")
		os.Exit(1)
	}

	names := flag.Args()
	if len(names) == 0 || *all {
		names = nil
		for _, e := range registry {
			names = append(names, e.name)
		}
	}

	entries := resolveEntries(names)
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching window types\n")
		os.Exit(1)
	}

	printAnalysis(entries, *size)
}

func printList() {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
}

func resolveEntries(names []string) []windowEntry {
	byName := make(map[string]windowEntry, len(registry))
	for _, e := range registry {
		byName[e.name] = e
	}

	var result []windowEntry
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		e, ok := byName[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: unknown window %q (use -list to see available)\n", name)
			continue
		}
		result = append(result, e)
	}
	return result
}

func printAnalysis(entries []windowEntry, size int) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tSize\tMean Gain\tPower Gain\tENBW [bins]\tCoherent Gain [dB]\n")
	fmt.Fprintf(tw, "------\t----\t---------\t----------\t-----------\t------------------\n")

	for _, e := range entries {
		coeffs := window.Generate(e.typ, size)
		n := float64(size)

		meanLin := floats.Sum(coeffs) / n
		meanSq := floats.Dot(coeffs, coeffs) / n
		enbw := meanSq / (meanLin * meanLin)
		gainDB := core.LinearPowerToDB(meanLin * meanLin)

		fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.6f\t%.4f\t%.2f\n",
			e.name, size, meanLin, meanSq, enbw, gainDB)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
