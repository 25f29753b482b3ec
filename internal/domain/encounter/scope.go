package encounter

import "time"

// ResolveScope derives the record scope for an editing session from the
// parent record's creation timestamp. Records created anywhere within the
// anchor's calendar day (UTC) are in scope. A nil anchor yields an unscoped
// session: no persisted records are visible and every local item is new.
func ResolveScope(anchor *time.Time) Scope {
	if anchor == nil {
		return Scope{}
	}
	day := anchor.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Nanosecond)
	return Scope{Window: &DateWindow{Start: start, End: end}}
}
