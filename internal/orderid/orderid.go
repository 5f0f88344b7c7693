// Package orderid builds the customer-facing order references, e.g.
// FG-260314-00042. The numeric tail comes from a per-day counter held in the
// database, so two orders placed in the same millisecond still get distinct ids.
package orderid

import (
	"fmt"
	"regexp"
	"time"
)

const Prefix = "FG-"

const dayLayout = "060102"

var pattern = regexp.MustCompile(`^FG-\d{6}-\d{5,}$`)

// SequenceKey names the counter that numbers orders placed on t's UTC day.
func SequenceKey(t time.Time) string {
	return "order:" + t.UTC().Format(dayLayout)
}

// Format renders the reference for the seq-th order of t's UTC day.
func Format(t time.Time, seq int64) string {
	return fmt.Sprintf("%s%s-%05d", Prefix, t.UTC().Format(dayLayout), seq)
}

// Valid reports whether s is shaped like an order reference.
func Valid(s string) bool {
	return pattern.MatchString(s)
}
