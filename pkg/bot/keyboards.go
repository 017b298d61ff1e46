package bot

import (
	"strings"

	"healthbot/pkg/persona"
	"healthbot/pkg/record"
)

var moodButtons = map[int]string{
	5: "Great 😄",
	4: "Good 🙂",
	3: "So-so 😐",
	2: "Bad 😕",
	1: "Terrible 😢",
}

var workoutLocations = []string{"Home 🏠", "Gym 🏋️", "Outdoors 🌳"}

// Conditions that unlock the pressure and sugar buttons. Matched as
// substrings of the lowercased chronic conditions answer.
var (
	pressureConditions = []string{"hypertens", "pressure", "гипертон", "давлен"}
	sugarConditions    = []string{"diabet", "sugar", "диабет", "сахар"}
)

func rows(labels ...[]string) *Keyboard {
	return &Keyboard{Rows: labels}
}

func cancelKeyboard() *Keyboard {
	return rows([]string{labelCancel})
}

func mainMenu(rec *record.UserRecord) *Keyboard {
	if !rec.HasProfile() {
		return rows([]string{labelFillProfile})
	}
	return rows(
		[]string{labelSpecialists},
		[]string{labelHealthDiary, labelAnalyzeFood},
		[]string{labelDiaries, labelMyProfile},
		[]string{labelScore, labelWorkoutDone},
	)
}

func specialistsMenu() *Keyboard {
	all := persona.All()
	kb := &Keyboard{}
	for i := 0; i < len(all); i += 2 {
		row := []string{all[i].Label()}
		if i+1 < len(all) {
			row = append(row, all[i+1].Label())
		}
		kb.Rows = append(kb.Rows, row)
	}
	kb.Rows = append(kb.Rows, []string{labelMainMenu})
	return kb
}

func capabilityMenu(p persona.Persona) *Keyboard {
	kb := &Keyboard{}
	for _, row := range p.Capabilities() {
		labels := make([]string, len(row))
		for i, c := range row {
			labels[i] = c.Label()
		}
		kb.Rows = append(kb.Rows, labels)
	}
	return kb
}

func healthMenu(rec *record.UserRecord) *Keyboard {
	kb := rows([]string{labelLogSymptom})
	var measures []string
	if hasCondition(rec, pressureConditions) {
		measures = append(measures, labelLogPressure)
	}
	if hasCondition(rec, sugarConditions) {
		measures = append(measures, labelLogSugar)
	}
	if len(measures) > 0 {
		kb.Rows = append(kb.Rows, measures)
	}
	kb.Rows = append(kb.Rows, []string{labelHealthRecords}, []string{labelMainMenu})
	return kb
}

func hasCondition(rec *record.UserRecord, needles []string) bool {
	if rec.Profile == nil {
		return false
	}
	conditions := strings.ToLower(rec.Profile.ChronicConditions)
	for _, n := range needles {
		if strings.Contains(conditions, n) {
			return true
		}
	}
	return false
}

func diariesMenu() *Keyboard {
	return rows(
		[]string{labelFoodDiary, labelWorkoutDiary},
		[]string{labelHealthRecords, labelMoodRecords},
		[]string{labelMainMenu},
	)
}

func moodMenu() *Keyboard {
	return rows(
		[]string{moodButtons[5], moodButtons[4], moodButtons[3]},
		[]string{moodButtons[2], moodButtons[1]},
		[]string{persona.BackToSpecialists.Label()},
	)
}

func locationMenu() *Keyboard {
	return rows(append([]string(nil), workoutLocations...), []string{labelCancel})
}

func promptKeyboard(grid [][]string) *Keyboard {
	if grid == nil {
		return cancelKeyboard()
	}
	kb := &Keyboard{}
	for _, row := range grid {
		kb.Rows = append(kb.Rows, append([]string(nil), row...))
	}
	kb.Rows = append(kb.Rows, []string{labelCancel})
	return kb
}
