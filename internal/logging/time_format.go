package logging

import "time"

const (
	clockLayout    = "15:04:05"
	dateTimeLayout = "2006-01-02 15:04:05"
	// fileTimeLayout keeps millisecond precision so rows processed by
	// parallel workers stay ordered in bilingo.log.
	fileTimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

func formatTimestamp(ts time.Time) string {
	return formatTimestampAt(ts, time.Now())
}

// formatTimestampAt prints only the clock for records from the same local day
// as now; a generation run rarely spans midnight.
func formatTimestampAt(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	ts = ts.In(time.Local)
	if sameDay(ts, now.In(time.Local)) {
		return ts.Format(clockLayout)
	}
	return ts.Format(dateTimeLayout)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
