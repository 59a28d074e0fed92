package upgrade

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/conn-castle/upgrade-console/internal/messages"
	"github.com/conn-castle/upgrade-console/internal/wizard"
)

// Reporter renders upgrade output. Results and listings go to Out; warnings
// and errors go to Err.
type Reporter struct {
	Out io.Writer
	Err io.Writer
}

// NewReporter returns a Reporter writing to out and errOut.
func NewReporter(out io.Writer, errOut io.Writer) *Reporter {
	return &Reporter{Out: out, Err: errOut}
}

// Listing prints scheduled wizards and, with all, the done ones.
func (r *Reporter) Listing(listing wizard.Listing, all bool, verbose bool) {
	if len(listing.Scheduled) == 0 {
		_, _ = fmt.Fprintln(r.Out, messages.UpgradeNoneScheduled)
	} else {
		_, _ = fmt.Fprintln(r.Out, color.New(color.Bold).Sprint(messages.UpgradeScheduledHeading))
		r.descriptors(listing.Scheduled, verbose)
	}
	if all && len(listing.Done) > 0 {
		_, _ = fmt.Fprintln(r.Out)
		_, _ = fmt.Fprintln(r.Out, color.New(color.Bold).Sprint(messages.UpgradeDoneHeading))
		r.descriptors(listing.Done, verbose)
	}
}

func (r *Reporter) descriptors(ds []wizard.Descriptor, verbose bool) {
	for _, d := range ds {
		_, _ = fmt.Fprintf(r.Out, messages.UpgradeListItemFmt, d.Identifier, d.Title)
		if verbose && d.Description != "" {
			_, _ = fmt.Fprintf(r.Out, messages.UpgradeListDescriptionFmt, d.Description)
		}
	}
}

// Result prints one wizard outcome followed by its message.
func (r *Reporter) Result(result wizard.Result) {
	r.Summary(result)
	if message := strings.TrimRight(result.Message, "\n"); message != "" {
		_, _ = fmt.Fprintln(r.Out, message)
	}
}

// Summary prints the outcome line alone.
func (r *Reporter) Summary(result wizard.Result) {
	var label string
	switch result.Status {
	case wizard.StatusDone:
		label = color.GreenString(messages.UpgradeLabelOK)
	case wizard.StatusSkipped:
		label = color.YellowString(messages.UpgradeLabelSkipped)
	default:
		label = color.RedString(messages.UpgradeLabelFailed)
	}
	_, _ = fmt.Fprintf(r.Out, messages.UpgradeResultLineFmt, label, result.Identifier, result.Duration.Round(time.Millisecond))
	if result.Error != nil {
		_, _ = fmt.Fprintf(r.Out, messages.UpgradeResultErrorFmt, result.Error.Message)
	}
}

// Report prints every result with its message.
func (r *Reporter) Report(results []wizard.Result) {
	_, _ = fmt.Fprintln(r.Out)
	_, _ = fmt.Fprintln(r.Out, color.New(color.Bold).Sprint(messages.UpgradeReportHeading))
	if len(results) == 0 {
		_, _ = fmt.Fprintln(r.Out, messages.UpgradeNothingExecuted)
		return
	}
	for _, result := range results {
		r.Result(result)
	}
}

// Heading prints a bold line.
func (r *Reporter) Heading(text string) {
	_, _ = fmt.Fprintln(r.Out, color.New(color.Bold).Sprint(text))
}

// Success prints a green line.
func (r *Reporter) Success(text string) {
	_, _ = fmt.Fprintln(r.Out, color.GreenString(text))
}

// Warning prints a yellow line to Err.
func (r *Reporter) Warning(text string) {
	_, _ = fmt.Fprintln(r.Err, color.YellowString(messages.UpgradeLabelWarning)+" "+text)
}

// Error prints a red line to Err.
func (r *Reporter) Error(text string) {
	_, _ = fmt.Fprintln(r.Err, color.RedString(messages.UpgradeLabelError)+" "+text)
}
