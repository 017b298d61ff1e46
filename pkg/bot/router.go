package bot

import (
	"fmt"

	"healthbot/pkg/diary"
	"healthbot/pkg/persona"
)

// command handles a turn that arrived while the user was idle.
func (h *Handler) command(t *turn) {
	b := Resolve(t.ev.Text)
	t.flow = b.Command.String()

	switch b.Command {
	case CmdStart:
		h.start(t)
	case CmdCancel:
		t.say(msgNothingToStop, mainMenu(t.rec))
	case CmdMainMenu:
		t.say(msgMainMenu, mainMenu(t.rec))
	case CmdFillProfile:
		h.startIntake(t)
	case CmdMyProfile:
		h.showProfile(t)
	case CmdSpecialists, CmdBackToSpecialists:
		t.say(msgChooseSpecial, specialistsMenu())
	case CmdSelectPersona:
		h.selectPersona(t, persona.Persona(b.Arg))
	case CmdHealthDiary:
		t.say(msgHealthMenu, healthMenu(t.rec))
	case CmdLogSymptom:
		t.rec.PendingState = stateSymptom
		t.say(msgAskSymptom, cancelKeyboard())
	case CmdLogPressure:
		t.rec.PendingState = statePressure
		t.say(msgAskPressure, cancelKeyboard())
	case CmdLogSugar:
		t.rec.PendingState = stateSugar
		t.say(msgAskSugar, cancelKeyboard())
	case CmdAnalyzeFood:
		t.rec.PendingState = stateFoodPhoto
		t.say(msgAskFoodPhoto, cancelKeyboard())
	case CmdDiaries:
		t.say(msgDiariesMenu, diariesMenu())
	case CmdFoodDiary:
		t.say(diary.FormatFood(t.rec.FoodDiary), diariesMenu())
	case CmdWorkoutDiary:
		t.say(diary.FormatWorkouts(t.rec.WorkoutDiary), diariesMenu())
	case CmdHealthRecords:
		t.say(diary.FormatHealth(t.rec.HealthDiary), diariesMenu())
	case CmdMoodRecords:
		t.say(diary.FormatMood(t.rec.MoodDiary), diariesMenu())
	case CmdScore:
		t.say(fmt.Sprintf(msgScore, t.rec.Score), mainMenu(t.rec))
	case CmdWorkoutDone:
		h.workoutDone(t)
	case CmdDailyMenu:
		h.dailyMenu(t)
	case CmdProductLookup:
		t.rec.PendingState = stateProduct
		t.say(msgAskProduct, cancelKeyboard())
	case CmdWorkoutPlan:
		t.rec.PendingState = stateWorkoutLocation
		t.say(msgAskLocation, locationMenu())
	case CmdMoodDiary:
		t.say(msgAskMood, moodMenu())
	case CmdBreathing:
		t.say(msgBreathing, capabilityMenu(t.rec.Persona()))
	case CmdAskQuestion:
		// Free-form text reaches the backend only after this explicit step.
		t.rec.PendingState = stateQuestion
		t.say(fmt.Sprintf(msgAskQuestion, lowerFirst(t.rec.Persona().Label())), cancelKeyboard())
	case CmdMood:
		h.logMood(t, b.Arg)
	default:
		t.say(msgNotUnderstood, mainMenu(t.rec))
	}
}

func (h *Handler) start(t *turn) {
	if t.rec.HasProfile() {
		t.say(msgWelcomeBack, mainMenu(t.rec))
		return
	}
	t.say(msgWelcomeNew, mainMenu(t.rec))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] += 'a' - 'A'
	}
	return string(r)
}
