package bot

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"healthbot/pkg/clock"
	"healthbot/pkg/compose"
	"healthbot/pkg/diary"
	"healthbot/pkg/persona"
)

func (h *Handler) selectPersona(t *turn, p persona.Persona) {
	if !p.Valid() {
		t.say(msgNotUnderstood, specialistsMenu())
		return
	}
	t.rec.ActiveRole = p.ID()
	t.log.Info("persona selected", zap.String("persona", p.ID()))

	greeting, err := h.generate(t, compose.ForRecord(t.rec),
		"Greet the user in two or three sentences, introduce yourself and say how you can help.", nil)
	if err != nil {
		greeting = fmt.Sprintf(msgPersonaFallback, lowerFirst(p.Label()))
	}
	t.say(greeting, capabilityMenu(p))
}

func (h *Handler) continueQuestion(t *turn) {
	question := strings.TrimSpace(t.ev.Text)
	if question == "" {
		t.say(fmt.Sprintf(msgAskQuestion, lowerFirst(t.rec.Persona().Label())), cancelKeyboard())
		return
	}
	t.rec.PendingState = ""

	answer, err := h.generate(t, compose.ForRecord(t.rec), question, nil)
	if err != nil {
		t.say(msgBackendFailed, capabilityMenu(t.rec.Persona()))
		return
	}
	t.say(answer, capabilityMenu(t.rec.Persona()))
}

func (h *Handler) continueProduct(t *turn) {
	product := strings.TrimSpace(t.ev.Text)
	if product == "" {
		t.say(msgAskProduct, cancelKeyboard())
		return
	}
	t.rec.PendingState = ""

	nutritionist := persona.Nutritionist
	directive := compose.Directive(nutritionist, compose.Compose(t.rec.Profile, t.rec.DisplayName, nutritionist))
	prompt := "Tell me about the product \"" + product + "\": calories and macronutrients per 100 g, " +
		"main benefits and risks, and whether it suits my goal."

	answer, err := h.generate(t, directive, prompt, nil)
	if err != nil {
		t.say(msgBackendFailed, capabilityMenu(nutritionist))
		return
	}
	t.say(answer, capabilityMenu(nutritionist))
}

func (h *Handler) dailyMenu(t *turn) {
	if !t.rec.HasProfile() {
		t.say(msgProfileNeeded, mainMenu(t.rec))
		return
	}

	nutritionist := persona.Nutritionist
	directive := compose.Directive(nutritionist, compose.Compose(t.rec.Profile, t.rec.DisplayName, nutritionist))
	prompt := "Plan a menu for today with breakfast, lunch, dinner and two snacks. " +
		"Give two versions: a basic one from everyday products and a gourmet one. " +
		"Show approximate calories for each meal."

	answer, err := h.generate(t, directive, prompt, nil)
	if err != nil {
		t.say(msgBackendFailed, capabilityMenu(nutritionist))
		return
	}
	t.say(answer, capabilityMenu(nutritionist))
}

func (h *Handler) continueWorkoutLocation(t *turn) {
	location := ""
	want := normalizeLabel(t.ev.Text)
	for _, l := range workoutLocations {
		if want != "" && normalizeLabel(l) == want {
			location = want
			break
		}
	}
	if location == "" {
		t.say(msgBadLocation, locationMenu())
		return
	}
	t.rec.PendingState = ""

	trainer := persona.FitnessTrainer
	directive := compose.Directive(trainer, compose.Compose(t.rec.Profile, t.rec.DisplayName, trainer))
	prompt := "Build a workout plan for today. Location: " + location + ". " +
		"Include a warm-up, the main part with sets and repetitions, and a cool-down."

	answer, err := h.generate(t, directive, prompt, nil)
	if err != nil {
		t.say(msgBackendFailed, capabilityMenu(trainer))
		return
	}
	t.say(answer+"\n\nWhen you're done, press \""+labelWorkoutDone+"\" or use /workout_done.", capabilityMenu(trainer))
}

// logMood stores the entry and its award before asking for a comment, so a
// backend failure only loses the comment.
func (h *Handler) logMood(t *turn, level int) {
	label := diary.MoodLabel(level)
	if label == "" {
		t.say(msgNotUnderstood, moodMenu())
		return
	}

	timeOfDay := clock.TimeOfDay(h.clock.Now())
	awarded := h.ledger.LogMood(t.rec, level, timeOfDay, label)
	h.metrics.Award("mood", awarded)

	text := fmt.Sprintf(msgMoodLogged, awarded)

	prompt := fmt.Sprintf("My mood this %s is \"%s\" (%d of 5). Reply with two or three warm, supportive sentences.", timeOfDay, label, level)
	if level <= 2 {
		prompt = fmt.Sprintf("My mood this %s is \"%s\" (%d of 5). Respond gently, acknowledge the feeling "+
			"and suggest one small thing that could help right now.", timeOfDay, label, level)
	}
	therapist := persona.Psychotherapist
	directive := compose.Directive(therapist, compose.Compose(t.rec.Profile, t.rec.DisplayName, therapist))

	if comment, err := h.generate(t, directive, prompt, nil); err == nil {
		text += "\n\n" + comment
	}
	t.say(text, moodMenu())
}

func (h *Handler) workoutDone(t *turn) {
	awarded, ok := h.ledger.LogWorkout(t.rec, "workout")
	if !ok {
		t.say(msgWorkoutAlready, mainMenu(t.rec))
		return
	}
	h.metrics.Award("workout", awarded)
	t.say(fmt.Sprintf(msgWorkoutLogged, awarded), mainMenu(t.rec))
}
