package scan

import (
	"time"

	"github.com/vietdv277/gatecert/pkg/types"
)

// DefaultWindow is how far ahead of expiry a certificate is flagged
const DefaultWindow = 30 * 24 * time.Hour

const day = 24 * time.Hour

// NeedsRenewal reports whether a certificate expiring on expiration falls
// inside window as seen from today. Both dates are compared as UTC calendar
// dates. A certificate expiring exactly window from today is not flagged;
// one that already expired always is.
func NeedsRenewal(expiration, today time.Time, window time.Duration) bool {
	return types.DateOf(expiration).Sub(types.DateOf(today)) < window
}

// DaysUntil returns the number of calendar days from today to expiration,
// negative once the certificate has expired
func DaysUntil(expiration, today time.Time) int {
	return int(types.DateOf(expiration).Sub(types.DateOf(today)) / day)
}

// WindowDays converts a window in days into a duration, falling back to
// DefaultWindow for non-positive values
func WindowDays(days int) time.Duration {
	if days <= 0 {
		return DefaultWindow
	}
	return time.Duration(days) * day
}
