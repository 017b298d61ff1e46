package intake

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthbot/pkg/record"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestMachine() *Machine {
	return NewMachine(fixedClock{t: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)}, Awards{FirstTime: 30, Update: 0})
}

var validAnswers = []string{"Male", "30", "180", "80.5", "Active", "Lose", "none", "none"}

func submitAll(t *testing.T, m *Machine, rec *record.UserRecord, answers []string) Outcome {
	t.Helper()
	var out Outcome
	for i, a := range answers {
		var err error
		out, err = m.Submit(rec, a)
		require.NoError(t, err, "answer %d (%q)", i, a)
		if i < len(answers)-1 {
			require.NotNil(t, out.Next)
			assert.Equal(t, FieldTag(i+1), rec.PendingState)
		}
	}
	return out
}

func TestMachine_BeginAsksFirstQuestion(t *testing.T) {
	m := newTestMachine()
	rec := record.New("u")

	p := m.Begin(rec)

	assert.Equal(t, FieldTag(0), rec.PendingState)
	require.NotNil(t, rec.IntakeDraft)
	assert.Empty(t, rec.IntakeDraft.Answers)
	assert.Contains(t, p.Text, "gender")
	assert.Equal(t, [][]string{{"Male", "Female"}}, p.Keyboard)
}

func TestMachine_CompletesProfile(t *testing.T) {
	m := newTestMachine()
	rec := record.New("u")
	m.Begin(rec)

	out := submitAll(t, m, rec, validAnswers)

	assert.True(t, out.Completed)
	assert.True(t, out.FirstTime)
	assert.Equal(t, 30, out.Awarded)
	assert.Nil(t, out.Next)

	assert.Equal(t, &record.Profile{
		Gender:            "Male",
		Age:               30,
		HeightCm:          180,
		WeightKg:          80.5,
		ActivityLevel:     "Active",
		Goal:              "Lose",
		ChronicConditions: "none",
		Allergies:         "none",
		LastUpdated:       "2026-10-15",
	}, rec.Profile)
	assert.Equal(t, 30, rec.Score)
	assert.Empty(t, rec.PendingState)
	assert.Nil(t, rec.IntakeDraft)
}

func TestMachine_InvalidInputKeepsPosition(t *testing.T) {
	tests := []struct {
		name  string
		index int
		input string
	}{
		{"unknown gender", 0, "robot"},
		{"age not a number", 1, "thirty"},
		{"age zero", 1, "0"},
		{"age too high", 1, "120"},
		{"height too low", 2, "50"},
		{"height too high", 2, "251"},
		{"weight garbage", 3, "heavy"},
		{"weight too low", 3, "20"},
		{"weight too high", 3, "300,0"},
		{"weight NaN", 3, "NaN"},
		{"weight Inf", 3, "Inf"},
		{"weight +Inf", 3, "+Inf"},
		{"weight exponent", 3, "8e1"},
		{"weight hex", 3, "0x50"},
		{"weight negative", 3, "-70"},
		{"activity unknown", 4, "extreme"},
		{"goal unknown", 5, "bulk"},
		{"conditions empty", 6, "   "},
		{"allergies empty", 7, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine()
			rec := record.New("u")
			m.Begin(rec)
			submitAll(t, m, rec, validAnswers[:tt.index])

			before := make(map[string]string)
			for k, v := range rec.IntakeDraft.Answers {
				before[k] = v
			}

			_, err := m.Submit(rec, tt.input)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, fields[tt.index].key, vErr.Field)
			assert.Equal(t, fields[tt.index].question, vErr.Prompt.Text)
			assert.Equal(t, FieldTag(tt.index), rec.PendingState)
			assert.Equal(t, before, rec.IntakeDraft.Answers)
			assert.Nil(t, rec.Profile)
			assert.Equal(t, 0, rec.Score)
		})
	}
}

func TestMachine_AcceptsCommaDecimalAndAnyCase(t *testing.T) {
	m := newTestMachine()
	rec := record.New("u")
	m.Begin(rec)

	submitAll(t, m, rec, []string{"female", "41", "165", "62,3", "SEDENTARY", "maintain", "asthma", "Нет"})

	require.NotNil(t, rec.Profile)
	assert.Equal(t, "Female", rec.Profile.Gender)
	assert.Equal(t, 62.3, rec.Profile.WeightKg)
	assert.Equal(t, "Sedentary", rec.Profile.ActivityLevel)
	assert.Equal(t, "Maintain", rec.Profile.Goal)
	assert.Equal(t, "asthma", rec.Profile.ChronicConditions)
	assert.Equal(t, "Нет", rec.Profile.Allergies)
}

func TestParseDecimal(t *testing.T) {
	for _, in := range []string{"80", "80.5", "80,5", " 7.25 "} {
		v, err := ParseDecimal(in)
		require.NoError(t, err, in)
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), in)
	}
	for _, in := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "infinity", "1e2", "0x1p4", "-5", ".5", "5.", "5,5,5", ""} {
		_, err := ParseDecimal(in)
		assert.Error(t, err, in)
	}
}

func TestMachine_CancelTakesPrecedence(t *testing.T) {
	for _, word := range []string{"cancel", " Cancel ", "отмена", "ОТМЕНА"} {
		t.Run(word, func(t *testing.T) {
			m := newTestMachine()
			rec := record.New("u")
			m.Begin(rec)
			submitAll(t, m, rec, validAnswers[:3])

			out, err := m.Submit(rec, word)

			require.NoError(t, err)
			assert.True(t, out.Cancelled)
			assert.Empty(t, rec.PendingState)
			assert.Nil(t, rec.IntakeDraft)
			assert.Nil(t, rec.Profile)
		})
	}
}

func TestMachine_CancelKeepsExistingProfile(t *testing.T) {
	m := newTestMachine()
	rec := record.New("u")
	m.Begin(rec)
	submitAll(t, m, rec, validAnswers)
	stored := *rec.Profile

	m.Begin(rec)
	submitAll(t, m, rec, []string{"Female", "31"})
	_, err := m.Submit(rec, "cancel")
	require.NoError(t, err)

	assert.Equal(t, stored, *rec.Profile)
	assert.Equal(t, 30, rec.Score)
}

func TestMachine_RerunOverwritesWithoutBonus(t *testing.T) {
	m := newTestMachine()
	rec := record.New("u")
	m.Begin(rec)
	submitAll(t, m, rec, validAnswers)
	require.Equal(t, 30, rec.Score)

	m.Begin(rec)
	out := submitAll(t, m, rec, []string{"Female", "45", "170", "70", "Moderate", "Gain", "diabetes", "lactose"})

	assert.True(t, out.Completed)
	assert.False(t, out.FirstTime)
	assert.Equal(t, 0, out.Awarded)
	assert.Equal(t, 30, rec.Score)
	assert.Equal(t, &record.Profile{
		Gender:            "Female",
		Age:               45,
		HeightCm:          170,
		WeightKg:          70,
		ActivityLevel:     "Moderate",
		Goal:              "Gain",
		ChronicConditions: "diabetes",
		Allergies:         "lactose",
		LastUpdated:       "2026-10-15",
	}, rec.Profile)
}

func TestMachine_LostDraftAnswerResumesAtGap(t *testing.T) {
	m := newTestMachine()
	rec := record.New("u")
	m.Begin(rec)
	submitAll(t, m, rec, validAnswers[:7])
	delete(rec.IntakeDraft.Answers, keyHeight)

	out, err := m.Submit(rec, "none")

	require.NoError(t, err)
	assert.False(t, out.Completed)
	require.NotNil(t, out.Next)
	assert.Equal(t, FieldTag(2), rec.PendingState)
	assert.Nil(t, rec.Profile)
}

func TestMachine_SubmitOutsideIntake(t *testing.T) {
	m := newTestMachine()
	rec := record.New("u")
	rec.PendingState = "awaiting-symptom"

	_, err := m.Submit(rec, "Male")
	assert.ErrorIs(t, err, ErrNotInIntake)
}

func TestParseFieldTag(t *testing.T) {
	tests := []struct {
		tag   string
		index int
		ok    bool
	}{
		{"awaiting-profile-field:0", 0, true},
		{"awaiting-profile-field:7", 7, true},
		{"awaiting-profile-field:8", 0, false},
		{"awaiting-profile-field:-1", 0, false},
		{"awaiting-profile-field:x", 0, false},
		{"awaiting-symptom", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		i, ok := ParseFieldTag(tt.tag)
		assert.Equal(t, tt.ok, ok, tt.tag)
		assert.Equal(t, tt.index, i, tt.tag)
	}
}
