package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"healthbot/pkg/intake"
)

func (h *Handler) startIntake(t *turn) {
	t.flow = "intake"
	p := h.intake.Begin(t.rec)
	t.say(p.Text, promptKeyboard(p.Keyboard))
}

func (h *Handler) continueIntake(t *turn) {
	if len(t.ev.Photo) > 0 {
		if p, ok := h.intake.Current(t.rec); ok {
			t.say(msgTextExpected+"\n"+p.Text, promptKeyboard(p.Keyboard))
		}
		return
	}

	out, err := h.intake.Submit(t.rec, t.ev.Text)
	if err != nil {
		var invalid *intake.ValidationError
		if errors.As(err, &invalid) {
			t.say("That doesn't look right ("+invalid.Reason+").\n"+invalid.Prompt.Text, promptKeyboard(invalid.Prompt.Keyboard))
			return
		}
		// Submit only fails otherwise when the tag is not an intake tag,
		// which resume has already ruled out.
		t.log.Error("intake submit", zap.Error(err))
		t.say(msgNotUnderstood, mainMenu(t.rec))
		return
	}

	switch {
	case out.Cancelled:
		t.say(msgCancelled, mainMenu(t.rec))
	case out.Next != nil:
		t.say(out.Next.Text, promptKeyboard(out.Next.Keyboard))
	case out.Completed:
		event := "profile_update"
		text := msgProfileUpdated
		if out.FirstTime {
			event = "profile_first_time"
			text = msgProfileSaved
		}
		h.metrics.Award(event, out.Awarded)
		if out.Awarded > 0 {
			text += fmt.Sprintf(" +%d points.", out.Awarded)
		}
		t.log.Info("profile completed", zap.Bool("first_time", out.FirstTime), zap.Int("awarded", out.Awarded))
		t.say(text, mainMenu(t.rec))
	}
}

func (h *Handler) showProfile(t *turn) {
	p := t.rec.Profile
	if !p.Complete() {
		t.say(msgNoProfile, rows([]string{labelFillProfile}, []string{labelMainMenu}))
		return
	}

	var b strings.Builder
	b.WriteString("👤 Your profile\n")
	fmt.Fprintf(&b, "Gender: %s\n", p.Gender)
	fmt.Fprintf(&b, "Age: %d\n", p.Age)
	fmt.Fprintf(&b, "Height: %d cm\n", p.HeightCm)
	fmt.Fprintf(&b, "Weight: %s kg\n", strconv.FormatFloat(p.WeightKg, 'f', -1, 64))
	fmt.Fprintf(&b, "Activity: %s\n", p.ActivityLevel)
	fmt.Fprintf(&b, "Goal: %s\n", p.Goal)
	fmt.Fprintf(&b, "Chronic conditions: %s\n", p.ChronicConditions)
	fmt.Fprintf(&b, "Allergies: %s\n", p.Allergies)
	fmt.Fprintf(&b, "Updated: %s", p.LastUpdated)

	t.say(b.String(), rows([]string{labelUpdateProfile}, []string{labelMainMenu}))
}
