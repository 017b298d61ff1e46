package intake

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"healthbot/pkg/clock"
	"healthbot/pkg/record"
)

// tagPrefix marks a pending state that belongs to the intake. The suffix is
// the index of the field being asked.
const tagPrefix = "awaiting-profile-field:"

var cancelWords = map[string]bool{
	"cancel": true,
	"отмена": true,
}

// ErrNotInIntake is returned by Submit when the record is not inside an intake.
var ErrNotInIntake = errors.New("intake: record is not awaiting a profile field")

// Prompt is a question to show the user. A nil Keyboard means free text.
type Prompt struct {
	Text     string
	Keyboard [][]string
}

// ValidationError reports an answer that does not satisfy the field rule.
// The machine state is unchanged; Prompt repeats the same question.
type ValidationError struct {
	Field  string
	Reason string
	Prompt Prompt
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Outcome describes what happened after an accepted answer.
type Outcome struct {
	// Next is set while more questions remain.
	Next *Prompt

	Cancelled bool
	Completed bool
	FirstTime bool
	Awarded   int
}

// Awards configures the completion bonuses.
type Awards struct {
	FirstTime int
	Update    int
}

// Machine walks a record through the ordered profile questions. It holds no
// per-user state; everything lives in the record.
type Machine struct {
	clock  clock.Clock
	awards Awards
}

func NewMachine(c clock.Clock, awards Awards) *Machine {
	return &Machine{clock: c, awards: awards}
}

// FieldTag returns the pending state tag for field i.
func FieldTag(i int) string {
	return tagPrefix + strconv.Itoa(i)
}

// ParseFieldTag extracts the field index from a pending state tag.
func ParseFieldTag(tag string) (int, bool) {
	if !strings.HasPrefix(tag, tagPrefix) {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimPrefix(tag, tagPrefix))
	if err != nil || i < 0 || i >= len(fields) {
		return 0, false
	}
	return i, true
}

// IsCancel reports whether text is the cancellation keyword.
func IsCancel(text string) bool {
	return cancelWords[strings.ToLower(strings.TrimSpace(text))]
}

// FieldCount is the number of questions in the intake.
func FieldCount() int { return len(fields) }

// Begin starts (or restarts) the intake and returns the first question.
func (m *Machine) Begin(rec *record.UserRecord) Prompt {
	rec.IntakeDraft = &record.Draft{Answers: map[string]string{}}
	rec.PendingState = FieldTag(0)
	return fields[0].prompt()
}

// Current returns the question the record is waiting on.
func (m *Machine) Current(rec *record.UserRecord) (Prompt, bool) {
	i, ok := ParseFieldTag(rec.PendingState)
	if !ok {
		return Prompt{}, false
	}
	return fields[i].prompt(), true
}

// Submit validates raw against the current field and advances.
func (m *Machine) Submit(rec *record.UserRecord, raw string) (Outcome, error) {
	i, ok := ParseFieldTag(rec.PendingState)
	if !ok {
		return Outcome{}, ErrNotInIntake
	}

	if IsCancel(raw) {
		m.Cancel(rec)
		return Outcome{Cancelled: true}, nil
	}

	f := fields[i]
	value, err := f.parse(strings.TrimSpace(raw))
	if err != nil {
		return Outcome{}, &ValidationError{Field: f.key, Reason: err.Error(), Prompt: f.prompt()}
	}

	if rec.IntakeDraft == nil || rec.IntakeDraft.Answers == nil {
		rec.IntakeDraft = &record.Draft{Answers: map[string]string{}}
	}
	rec.IntakeDraft.Answers[f.key] = value

	if i+1 < len(fields) {
		rec.PendingState = FieldTag(i + 1)
		next := fields[i+1].prompt()
		return Outcome{Next: &next}, nil
	}
	return m.finalize(rec), nil
}

// Cancel abandons the intake without touching the stored profile.
func (m *Machine) Cancel(rec *record.UserRecord) {
	rec.IntakeDraft = nil
	rec.PendingState = ""
}

func (m *Machine) finalize(rec *record.UserRecord) Outcome {
	p, missing := build(rec.IntakeDraft.Answers)
	if missing >= 0 {
		// The draft lost an answer (hand-edited or truncated record). Ask
		// again from the first gap instead of committing a partial profile.
		rec.PendingState = FieldTag(missing)
		next := fields[missing].prompt()
		return Outcome{Next: &next}
	}

	firstTime := !rec.HasProfile()
	p.LastUpdated = m.clock.Now().Format(record.DateLayout)
	rec.Profile = p

	award := m.awards.Update
	if firstTime {
		award = m.awards.FirstTime
	}
	rec.Score += award

	rec.IntakeDraft = nil
	rec.PendingState = ""

	return Outcome{Completed: true, FirstTime: firstTime, Awarded: award}
}

// build converts a complete draft into a Profile. It returns the index of the
// first missing or unparsable answer, or -1.
func build(answers map[string]string) (*record.Profile, int) {
	for i, f := range fields {
		v, ok := answers[f.key]
		if !ok {
			return nil, i
		}
		if _, err := f.parse(v); err != nil {
			return nil, i
		}
	}

	age, _ := strconv.Atoi(answers[keyAge])
	height, _ := strconv.Atoi(answers[keyHeight])
	weight, _ := ParseDecimal(answers[keyWeight])

	return &record.Profile{
		Gender:            answers[keyGender],
		Age:               age,
		HeightCm:          height,
		WeightKg:          weight,
		ActivityLevel:     answers[keyActivity],
		Goal:              answers[keyGoal],
		ChronicConditions: answers[keyConditions],
		Allergies:         answers[keyAllergies],
	}, -1
}
