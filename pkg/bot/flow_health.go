package bot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"healthbot/pkg/compose"
	"healthbot/pkg/intake"
	"healthbot/pkg/persona"
	"healthbot/pkg/record"
)

var pressurePattern = regexp.MustCompile(`^\d{2,3}/\d{2,3}$`)

// continueSymptom records the report first and then asks for an analysis.
// The diary keeps the symptom even when the backend fails.
func (h *Handler) continueSymptom(t *turn) {
	text := strings.TrimSpace(t.ev.Text)
	if text == "" {
		t.say(msgAskSymptom, cancelKeyboard())
		return
	}

	h.ledger.LogHealthEvent(t.rec, record.HealthSymptom, text)
	t.rec.PendingState = ""

	mentor := persona.MedicalMentor
	directive := compose.Directive(mentor, compose.Compose(t.rec.Profile, t.rec.DisplayName, mentor))
	prompt := "The user describes these symptoms: \"" + text + "\".\n" +
		"List the likely harmless causes, give light self-care recommendations and say clearly " +
		"which warning signs mean they should see a doctor."

	answer, err := h.generate(t, directive, prompt, nil)
	if err != nil {
		t.say(msgSymptomSaved+"\n"+msgBackendFailed, healthMenu(t.rec))
		return
	}
	t.say(msgSymptomSaved+"\n\n"+answer, healthMenu(t.rec))
}

func (h *Handler) continuePressure(t *turn) {
	value := strings.ReplaceAll(strings.TrimSpace(t.ev.Text), " ", "")
	if !pressurePattern.MatchString(value) {
		t.say(msgBadPressure, cancelKeyboard())
		return
	}

	h.ledger.LogHealthEvent(t.rec, record.HealthPressure, value)
	t.rec.PendingState = ""
	t.say(fmt.Sprintf(msgMeasureSaved, value+" mmHg"), healthMenu(t.rec))
}

func (h *Handler) continueSugar(t *turn) {
	v, err := intake.ParseDecimal(t.ev.Text)
	if err != nil || v <= 0 || v >= 50 {
		t.say(msgBadSugar, cancelKeyboard())
		return
	}

	value := strconv.FormatFloat(v, 'f', -1, 64)
	h.ledger.LogHealthEvent(t.rec, record.HealthSugar, value)
	t.rec.PendingState = ""
	t.say(fmt.Sprintf(msgMeasureSaved, value+" mmol/L"), healthMenu(t.rec))
}
