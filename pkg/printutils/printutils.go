package printutils

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

var (
	// ErrFprintf is a wrapper for printing colored errors.
	ErrFprintf = color.New(color.FgRed).FprintfFunc()
	// SuccessFprintf is a wrapper for printing colored successes.
	SuccessFprintf = color.New(color.FgGreen).FprintfFunc()
	// NeutralFprintf is a wrapper for printing without color.
	NeutralFprintf = color.New().FprintfFunc()
	// HighlightSprint is a wrapper for highlighting strings with color.
	HighlightSprint = color.New(color.FgYellow).SprintFunc()
	// HighlightSprintf is a wrapper for highlighting formatted strings with color.
	HighlightSprintf = color.New(color.FgYellow).SprintfFunc()
	// ErrSprintf is a wrapper for formatting strings colored as errors.
	ErrSprintf = color.New(color.FgRed).SprintfFunc()
	// SuccessSprintf is a wrapper for formatting strings colored as successes.
	SuccessSprintf = color.New(color.FgGreen).SprintfFunc()
)

// Millis formats duration as milliseconds with two decimal places.
func Millis(d time.Duration) string {
	return fmt.Sprintf("%.2f ms", float64(d)/float64(time.Millisecond))
}

// Percent formats percentage with one decimal place.
func Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// RateSprint formats success rate, colored green when all queries succeeded and red when none did.
func RateSprint(p float64) string {
	switch {
	case p >= 100:
		return SuccessSprintf("%s", Percent(p))
	case p <= 0:
		return ErrSprintf("%s", Percent(p))
	default:
		return HighlightSprint(Percent(p))
	}
}
