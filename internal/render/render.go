// Package render draws a probe.State as plain text for the terminal client.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"
	"time"
	_ "time/tzdata"

	"github.com/hamed0406/healthlogger/internal/probe"
)

// CheckedAtLayout matches the en-IN locale rendering of a date and time.
const CheckedAtLayout = "2/1/2006, 3:04:05 pm"

const (
	title       = "Health Check Logger"
	checking    = "Checking..."
	triggerIdle = "[Enter] Check Health"
	noLogs      = "No logs available"
)

// naive layouts carry no offset and are read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

type Renderer struct {
	Location *time.Location
}

func (r Renderer) loc() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// Render writes the health block, the trigger line and the log table.
// The state is only read.
func (r Renderer) Render(w io.Writer, s probe.State) error {
	ew := &errWriter{w: w}
	ew.printf("%s\n\nBackend Health Status\n", title)
	switch {
	case s.Error != "":
		ew.printf("  %s\n", s.Error)
	case s.Health != nil:
		ew.printf("  Status:    %s\n", s.Health.Status)
		ew.printf("  Timestamp: %s\n", s.Health.Timestamp)
		ew.printf("  Timezone:  %s\n", s.Health.Timezone)
	default:
		ew.printf("  %s\n", checking)
	}

	if s.InFlight {
		ew.printf("\n%s\n", checking)
	} else {
		ew.printf("\n%s\n", triggerIdle)
	}

	ew.printf("\nConnection Logs\n")
	if ew.err != nil {
		return ew.err
	}
	if len(s.Logs) == 0 {
		ew.printf("%s\n", noLogs)
		return ew.err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tStatus\tResponse Time (ms)\tTimestamp")
	for _, e := range s.Logs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.ID, e.Status, FormatMillis(e.ResponseTimeMS), FormatCheckedAt(e.CheckedAt, r.loc()))
	}
	return tw.Flush()
}

// FormatMillis rounds to the nearest millisecond for display.
func FormatMillis(ms float64) string {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return strconv.FormatFloat(ms, 'f', -1, 64)
	}
	return strconv.FormatFloat(math.Round(ms), 'f', 0, 64)
}

// FormatCheckedAt renders raw in loc. Values that do not parse are returned
// verbatim.
func FormatCheckedAt(raw string, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.In(loc).Format(CheckedAtLayout)
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.In(loc).Format(CheckedAtLayout)
		}
	}
	return raw
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
