package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"git.home.luguber.info/inful/citepage/internal/build"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
	labelColor   = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
)

// printSummary writes the human-readable outcome of a run.
func printSummary(w io.Writer, r *build.Result) {
	_, _ = successColor.Fprint(w, "Generated site at ")
	_, _ = fmt.Fprintln(w, r.OutputDir)

	_, _ = labelColor.Fprint(w, "Title: ")
	_, _ = fmt.Fprintln(w, r.Title)

	_, _ = labelColor.Fprintln(w, "Citations:")
	for _, c := range r.Citations {
		_, _ = fmt.Fprintln(w, " -", c.Text)
	}

	_, _ = dimColor.Fprintf(w, "%d/%d citations in %d attempts, registry holds %d hashes, %s\n",
		len(r.Citations), r.Requested, r.Attempts, r.RegistrySize, r.Duration.Round(1e6))

	switch r.Status {
	case build.StatusSuccess:
		_, _ = successColor.Fprintln(w, "Done.")
	case build.StatusPartial:
		_, _ = warnColor.Fprintln(w, "Done, but the citation pool ran out of unique variants.")
	default:
		_, _ = failColor.Fprintf(w, "Finished with status %s.\n", r.Status)
	}
}
