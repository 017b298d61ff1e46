package clock

import "time"

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type zoned struct {
	loc *time.Location
}

// New returns a wall clock reporting time in loc. Calendar days (workout
// dedup, profile dates) are computed in this zone.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return zoned{loc: loc}
}

func (z zoned) Now() time.Time { return time.Now().In(z.loc) }

// TimeOfDay buckets an hour into morning, afternoon, evening or night.
func TimeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 17:
		return "afternoon"
	case h >= 17 && h < 23:
		return "evening"
	default:
		return "night"
	}
}
