package numerator

import (
	"fmt"
	"time"
)

// Two formatting conventions coexist on purpose: invoices and receipts use a
// yearly sequence with a 4-digit pad, quotes (and invoices minted from them)
// use a per-day sequence with a 3-digit pad. Both appear on customer-facing
// documents and must remain stable once issued.

// FormatYearly renders PREFIX-YYYY-NNNN.
func FormatYearly(kind Kind, period time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", kind, period.Format("2006"), seq)
}

// FormatDaily renders PREFIX-YYYYMMDD-NNN.
func FormatDaily(kind Kind, period time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%03d", kind, period.Format("20060102"), seq)
}

// YearlyKey is the sequence_type value for a yearly sequence.
func YearlyKey(kind Kind) string {
	return string(kind)
}

// DailyKey is the sequence_type value for a per-day sequence.
// The day is folded into the key so each day starts at 1.
func DailyKey(kind Kind, period time.Time) string {
	return fmt.Sprintf("%s_%s", kind, period.Format("20060102"))
}
