package diary

import (
	"healthbot/pkg/clock"
	"healthbot/pkg/record"
)

// ViewSize is how many entries a diary view shows.
const ViewSize = 15

const timeLayout = "15:04"

// Awards configures the score deltas of diary events.
type Awards struct {
	Workout int
	Mood    int
}

// Ledger appends typed entries to a record's diaries and applies score
// awards. It never rewrites or removes existing entries.
type Ledger struct {
	clock  clock.Clock
	awards Awards
}

func NewLedger(c clock.Clock, awards Awards) *Ledger {
	return &Ledger{clock: c, awards: awards}
}

func (l *Ledger) stamp() (date, at string) {
	now := l.clock.Now()
	return now.Format(record.DateLayout), now.Format(timeLayout)
}

// Today returns the current date in the ledger's time zone.
func (l *Ledger) Today() string {
	return l.clock.Now().Format(record.DateLayout)
}

// LogWorkout records a workout and awards it. It reports false, and changes
// nothing, when the latest workout is already dated today.
func (l *Ledger) LogWorkout(rec *record.UserRecord, kind string) (int, bool) {
	date, at := l.stamp()
	if n := len(rec.WorkoutDiary); n > 0 && rec.WorkoutDiary[n-1].Date == date {
		return 0, false
	}
	rec.WorkoutDiary = append(rec.WorkoutDiary, record.WorkoutEntry{Date: date, At: at, Kind: kind})
	rec.Score += l.awards.Workout
	return l.awards.Workout, true
}

// LogMood always appends and awards; there is no daily cap.
func (l *Ledger) LogMood(rec *record.UserRecord, level int, timeOfDay, text string) int {
	date, at := l.stamp()
	rec.MoodDiary = append(rec.MoodDiary, record.MoodEntry{
		Date:      date,
		At:        at,
		TimeOfDay: timeOfDay,
		Level:     level,
		Text:      text,
	})
	rec.Score += l.awards.Mood
	return l.awards.Mood
}

func (l *Ledger) LogHealthEvent(rec *record.UserRecord, kind record.HealthKind, text string) {
	date, at := l.stamp()
	rec.HealthDiary = append(rec.HealthDiary, record.HealthEntry{Date: date, At: at, Kind: kind, Text: text})
}

func (l *Ledger) LogFood(rec *record.UserRecord, summary string) {
	date, at := l.stamp()
	rec.FoodDiary = append(rec.FoodDiary, record.FoodEntry{Date: date, At: at, Summary: summary})
}

// Recent returns the last n entries without copying or truncating storage.
func Recent[T any](entries []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
