package bot

import (
	"strings"

	"healthbot/pkg/compose"
	"healthbot/pkg/persona"
)

const foodPrompt = "Identify the dish in the photo. On the first line write only the dish name. " +
	"Then estimate calories, proteins, fats and carbohydrates and say whether it fits my goal."

func (h *Handler) continueFoodPhoto(t *turn) {
	if len(t.ev.Photo) == 0 {
		t.say(msgPhotoExpected, cancelKeyboard())
		return
	}
	h.analyzeFood(t)
}

// analyzeFood asks the vision model about a meal photo. The food diary entry
// is the first line of the answer, so nothing is written on failure.
func (h *Handler) analyzeFood(t *turn) {
	t.flow = "food_photo"
	t.rec.PendingState = ""

	nutritionist := persona.Nutritionist
	directive := compose.Directive(nutritionist, compose.Compose(t.rec.Profile, t.rec.DisplayName, nutritionist))

	answer, err := h.generate(t, directive, foodPrompt, t.ev.Photo)
	if err != nil {
		t.say(msgBackendFailed, mainMenu(t.rec))
		return
	}

	if title := dishTitle(answer); title != "" {
		h.ledger.LogFood(t.rec, title)
	}
	t.say(answer, mainMenu(t.rec))
}

// dishTitle returns the first non-empty line stripped of markdown.
func dishTitle(answer string) string {
	for _, line := range strings.Split(answer, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "*#_`\"' ")
		line = strings.TrimSuffix(line, ":")
		if line != "" {
			return line
		}
	}
	return ""
}
