package record

import (
	"healthbot/pkg/persona"
)

// DateLayout is used for every calendar date stored in a record.
const DateLayout = "2006-01-02"

// UserRecord is the whole persisted state of one user. It is always read and
// written as a single blob.
type UserRecord struct {
	ID           string         `json:"id"`
	DisplayName  string         `json:"display_name,omitempty"`
	ActiveRole   string         `json:"active_role"`
	Profile      *Profile       `json:"profile,omitempty"`
	Score        int            `json:"score"`
	FoodDiary    []FoodEntry    `json:"food_diary"`
	WorkoutDiary []WorkoutEntry `json:"workout_diary"`
	HealthDiary  []HealthEntry  `json:"health_diary"`
	MoodDiary    []MoodEntry    `json:"mood_diary"`
	PendingState string         `json:"pending_state,omitempty"`
	IntakeDraft  *Draft         `json:"intake_draft,omitempty"`
}

type Profile struct {
	Gender            string  `json:"gender"`
	Age               int     `json:"age"`
	HeightCm          int     `json:"height_cm"`
	WeightKg          float64 `json:"weight_kg"`
	ActivityLevel     string  `json:"activity_level"`
	Goal              string  `json:"goal"`
	ChronicConditions string  `json:"chronic_conditions"`
	Allergies         string  `json:"allergies"`
	LastUpdated       string  `json:"last_updated"`
}

// Complete reports whether the profile went through a finished intake. Goal
// is the completion sentinel.
func (p *Profile) Complete() bool {
	return p != nil && p.Goal != ""
}

// Draft holds the answers of an intake that has not been finalized yet.
type Draft struct {
	Answers map[string]string `json:"answers"`
}

type FoodEntry struct {
	Date    string `json:"date"`
	At      string `json:"at"`
	Summary string `json:"summary"`
}

type WorkoutEntry struct {
	Date string `json:"date"`
	At   string `json:"at"`
	Kind string `json:"kind"`
}

type HealthKind string

const (
	HealthSymptom  HealthKind = "symptom"
	HealthPressure HealthKind = "pressure"
	HealthSugar    HealthKind = "sugar"
)

type HealthEntry struct {
	Date string     `json:"date"`
	At   string     `json:"at"`
	Kind HealthKind `json:"kind"`
	Text string     `json:"text"`
}

type MoodEntry struct {
	Date      string `json:"date"`
	At        string `json:"at"`
	TimeOfDay string `json:"time_of_day"`
	Level     int    `json:"level"`
	Text      string `json:"text"`
}

// New returns the record created on first contact.
func New(id string) *UserRecord {
	return &UserRecord{
		ID:           id,
		ActiveRole:   persona.Default.ID(),
		FoodDiary:    []FoodEntry{},
		WorkoutDiary: []WorkoutEntry{},
		HealthDiary:  []HealthEntry{},
		MoodDiary:    []MoodEntry{},
	}
}

// Persona resolves the active role, falling back to the default persona.
func (r *UserRecord) Persona() persona.Persona {
	p, _ := persona.Parse(r.ActiveRole)
	return p
}

// HasProfile reports whether intake has been completed at least once.
func (r *UserRecord) HasProfile() bool {
	return r.Profile.Complete()
}

// Normalize fills defaults on a record decoded from storage. Older records
// may lack whole fields or carry legacy role ids.
func Normalize(r *UserRecord, id string) {
	if r.ID == "" {
		r.ID = id
	}
	if p, ok := persona.Parse(r.ActiveRole); ok {
		r.ActiveRole = p.ID()
	} else {
		r.ActiveRole = persona.Default.ID()
	}
	if r.Score < 0 {
		r.Score = 0
	}
	if r.FoodDiary == nil {
		r.FoodDiary = []FoodEntry{}
	}
	if r.WorkoutDiary == nil {
		r.WorkoutDiary = []WorkoutEntry{}
	}
	if r.HealthDiary == nil {
		r.HealthDiary = []HealthEntry{}
	}
	if r.MoodDiary == nil {
		r.MoodDiary = []MoodEntry{}
	}
	if r.IntakeDraft != nil && r.IntakeDraft.Answers == nil {
		r.IntakeDraft.Answers = map[string]string{}
	}
}
