package bot

import (
	"strings"
	"unicode"

	"healthbot/pkg/persona"
)

// Command is a top-level action a user can trigger from idle.
type Command int

const (
	CmdUnknown Command = iota
	CmdStart
	CmdCancel
	CmdMainMenu
	CmdFillProfile
	CmdMyProfile
	CmdSpecialists
	CmdSelectPersona
	CmdHealthDiary
	CmdLogSymptom
	CmdLogPressure
	CmdLogSugar
	CmdAnalyzeFood
	CmdDiaries
	CmdFoodDiary
	CmdWorkoutDiary
	CmdHealthRecords
	CmdMoodRecords
	CmdScore
	CmdWorkoutDone
	CmdDailyMenu
	CmdProductLookup
	CmdWorkoutPlan
	CmdMoodDiary
	CmdBreathing
	CmdAskQuestion
	CmdBackToSpecialists
	CmdMood
)

var commandNames = map[Command]string{
	CmdUnknown:           "unknown",
	CmdStart:             "start",
	CmdCancel:            "cancel",
	CmdMainMenu:          "main_menu",
	CmdFillProfile:       "fill_profile",
	CmdMyProfile:         "my_profile",
	CmdSpecialists:       "specialists",
	CmdSelectPersona:     "select_persona",
	CmdHealthDiary:       "health_diary",
	CmdLogSymptom:        "log_symptom",
	CmdLogPressure:       "log_pressure",
	CmdLogSugar:          "log_sugar",
	CmdAnalyzeFood:       "analyze_food",
	CmdDiaries:           "diaries",
	CmdFoodDiary:         "food_diary",
	CmdWorkoutDiary:      "workout_diary",
	CmdHealthRecords:     "health_records",
	CmdMoodRecords:       "mood_records",
	CmdScore:             "score",
	CmdWorkoutDone:       "workout_done",
	CmdDailyMenu:         "daily_menu",
	CmdProductLookup:     "product_lookup",
	CmdWorkoutPlan:       "workout_plan",
	CmdMoodDiary:         "mood_diary",
	CmdBreathing:         "breathing",
	CmdAskQuestion:       "ask_question",
	CmdBackToSpecialists: "back_to_specialists",
	CmdMood:              "mood",
}

func (c Command) String() string { return commandNames[c] }

// Button captions. Only the table below ties them to commands.
const (
	labelStart         = "/start"
	labelCancel        = "Cancel"
	labelMainMenu      = "⬅️ Main menu"
	labelFillProfile   = "Fill in profile 📝"
	labelUpdateProfile = "Update profile 📝"
	labelMyProfile     = "My profile 👤"
	labelSpecialists   = "Choose a specialist 👨‍⚕️"
	labelHealthDiary   = "Health diary 🩺"
	labelLogSymptom    = "Describe a symptom 🤒"
	labelLogPressure   = "Record blood pressure 🫀"
	labelLogSugar      = "Record blood sugar 🩸"
	labelAnalyzeFood   = "Analyse a meal photo 📸"
	labelDiaries       = "My diaries 📔"
	labelFoodDiary     = "Food diary 🍽️"
	labelWorkoutDiary  = "Workout diary 💪"
	labelHealthRecords = "Health records 📋"
	labelMoodRecords   = "Mood records 🧠"
	labelScore         = "My score ⭐"
	labelWorkoutDone   = "I worked out today ✅"
)

// Binding is what a normalized label resolves to. Arg carries the payload of
// parameterized commands (persona id, mood level).
type Binding struct {
	Command Command
	Arg     int
}

var labelTable = buildLabelTable()

func buildLabelTable() map[string]Binding {
	t := map[string]Binding{}
	bind := func(label string, b Binding) {
		t[normalizeLabel(label)] = b
	}

	bind(labelStart, Binding{Command: CmdStart})
	bind(labelCancel, Binding{Command: CmdCancel})
	bind("отмена", Binding{Command: CmdCancel})
	bind(labelMainMenu, Binding{Command: CmdMainMenu})
	bind(labelFillProfile, Binding{Command: CmdFillProfile})
	bind(labelUpdateProfile, Binding{Command: CmdFillProfile})
	bind("/profile", Binding{Command: CmdFillProfile})
	bind(labelMyProfile, Binding{Command: CmdMyProfile})
	bind(labelSpecialists, Binding{Command: CmdSpecialists})
	bind(labelHealthDiary, Binding{Command: CmdHealthDiary})
	bind(labelLogSymptom, Binding{Command: CmdLogSymptom})
	bind(labelLogPressure, Binding{Command: CmdLogPressure})
	bind(labelLogSugar, Binding{Command: CmdLogSugar})
	bind(labelAnalyzeFood, Binding{Command: CmdAnalyzeFood})
	bind(labelDiaries, Binding{Command: CmdDiaries})
	bind(labelFoodDiary, Binding{Command: CmdFoodDiary})
	bind(labelWorkoutDiary, Binding{Command: CmdWorkoutDiary})
	bind(labelHealthRecords, Binding{Command: CmdHealthRecords})
	bind(labelMoodRecords, Binding{Command: CmdMoodRecords})
	bind(labelScore, Binding{Command: CmdScore})
	bind("/score", Binding{Command: CmdScore})
	bind(labelWorkoutDone, Binding{Command: CmdWorkoutDone})
	bind("/workout_done", Binding{Command: CmdWorkoutDone})

	for _, p := range persona.All() {
		bind(p.Label(), Binding{Command: CmdSelectPersona, Arg: int(p)})
	}

	capabilities := map[persona.Capability]Command{
		persona.DailyMenu:          CmdDailyMenu,
		persona.ProductLookup:      CmdProductLookup,
		persona.WorkoutPlan:        CmdWorkoutPlan,
		persona.MoodDiary:          CmdMoodDiary,
		persona.BreathingTechnique: CmdBreathing,
		persona.AskQuestion:        CmdAskQuestion,
		persona.BackToSpecialists:  CmdBackToSpecialists,
	}
	for c, cmd := range capabilities {
		bind(c.Label(), Binding{Command: cmd})
	}

	for level, label := range moodButtons {
		bind(label, Binding{Command: CmdMood, Arg: level})
	}

	return t
}

// Resolve maps user text to a command. Matching ignores case, emoji and
// surrounding punctuation.
func Resolve(text string) Binding {
	if b, ok := labelTable[normalizeLabel(text)]; ok {
		return b
	}
	return Binding{Command: CmdUnknown}
}

// normalizeLabel keeps letters, digits, '/' and '_' and collapses everything
// else into single spaces.
func normalizeLabel(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '/', r == '_', r == '-':
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}
