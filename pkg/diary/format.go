package diary

import (
	"fmt"
	"strings"

	"healthbot/pkg/record"
)

// Mood levels as shown on the mood keyboard, indexed by level.
var moodLabels = map[int]string{
	1: "Terrible",
	2: "Bad",
	3: "So-so",
	4: "Good",
	5: "Great",
}

// MoodLabel returns the caption for a mood level.
func MoodLabel(level int) string {
	return moodLabels[level]
}

func FormatFood(entries []record.FoodEntry) string {
	if len(entries) == 0 {
		return "Your food diary is empty. Send a photo of a meal to add the first entry."
	}
	var b strings.Builder
	b.WriteString("🍽️ Food diary (latest entries):\n")
	for _, e := range Recent(entries, ViewSize) {
		fmt.Fprintf(&b, "%s %s: %s\n", e.Date, e.At, e.Summary)
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatWorkouts(entries []record.WorkoutEntry) string {
	if len(entries) == 0 {
		return "No workouts logged yet. Use /workout_done after your next session."
	}
	var b strings.Builder
	b.WriteString("💪 Workout diary (latest entries):\n")
	for _, e := range Recent(entries, ViewSize) {
		fmt.Fprintf(&b, "%s %s: %s\n", e.Date, e.At, e.Kind)
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatHealth(entries []record.HealthEntry) string {
	if len(entries) == 0 {
		return "Your health diary is empty."
	}
	var b strings.Builder
	b.WriteString("🩺 Health diary (latest entries):\n")
	for _, e := range Recent(entries, ViewSize) {
		fmt.Fprintf(&b, "%s %s [%s]: %s\n", e.Date, e.At, e.Kind, e.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatMood(entries []record.MoodEntry) string {
	if len(entries) == 0 {
		return "Your mood diary is empty."
	}
	var b strings.Builder
	b.WriteString("🧠 Mood diary (latest entries):\n")
	for _, e := range Recent(entries, ViewSize) {
		label := MoodLabel(e.Level)
		if label == "" {
			label = fmt.Sprintf("level %d", e.Level)
		}
		fmt.Fprintf(&b, "%s %s (%s): %s", e.Date, e.At, e.TimeOfDay, label)
		if e.Text != "" && e.Text != label {
			b.WriteString(" - " + e.Text)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
