// Package notes implements the operations behind the journal views: the
// merged note list, single-note load, save, create, and image attach.
package notes

import (
	"time"
)

// Mood is the daily-journal mood enum.
type Mood string

const (
	MoodHappy    Mood = "Happy"
	MoodCalm     Mood = "Calm"
	MoodNeutral  Mood = "Neutral"
	MoodTired    Mood = "Tired"
	MoodStressed Mood = "Stressed"
	MoodAnxious  Mood = "Anxious"
	MoodExcited  Mood = "Excited"
)

// AllowedMoods lists the accepted mood values.
var AllowedMoods = []Mood{
	MoodHappy, MoodCalm, MoodNeutral, MoodTired, MoodStressed, MoodAnxious, MoodExcited,
}

// SanitizeMood maps arbitrary input onto the mood enum, defaulting to Neutral.
func SanitizeMood(value string) Mood {
	for _, m := range AllowedMoods {
		if Mood(value) == m {
			return m
		}
	}
	return MoodNeutral
}

// FormatEntryDate renders a journal date in the YYYYMMDD form the ACF field
// group expects.
func FormatEntryDate(t time.Time) string {
	return t.Format("20060102")
}

// noteDateLayout is the timezone-less timestamp WordPress puts in the
// record's own date field.
const noteDateLayout = "2006-01-02T15:04:05"

// parseNoteDate parses a record date for sorting. Unparseable values map to
// the zero time so they order consistently (oldest) on every load.
func parseNoteDate(s string) time.Time {
	if t, err := time.Parse(noteDateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}
