// Package compose builds the personalization preamble that prefixes every
// generative request.
package compose

import (
	"strconv"
	"strings"

	"healthbot/pkg/persona"
	"healthbot/pkg/record"
)

// NoProfileMarker is returned in place of a preamble when nothing is known
// about the user.
const NoProfileMarker = "No profile is known for this user. Give general advice and suggest filling in the profile for personalised recommendations."

var noneSentinels = map[string]bool{
	"none": true,
	"no":   true,
	"нет":  true,
}

// IsNone reports whether an answer means "nothing to report".
func IsNone(s string) bool {
	return noneSentinels[strings.ToLower(strings.TrimSpace(s))]
}

// Compose summarizes the known profile facts for p. Output depends only on
// its arguments.
func Compose(profile *record.Profile, displayName string, p persona.Persona) string {
	if !profile.Complete() {
		return NoProfileMarker
	}

	var b strings.Builder
	b.WriteString("Take into account the user's data:\n")
	if name := strings.TrimSpace(displayName); name != "" {
		b.WriteString("- Name: " + name + "\n")
	}
	b.WriteString("- Gender: " + profile.Gender + "\n")
	b.WriteString("- Age: " + strconv.Itoa(profile.Age) + "\n")
	b.WriteString("- Height: " + strconv.Itoa(profile.HeightCm) + " cm\n")
	b.WriteString("- Weight: " + strconv.FormatFloat(profile.WeightKg, 'f', -1, 64) + " kg\n")
	b.WriteString("- Activity level: " + profile.ActivityLevel + "\n")
	b.WriteString("- Goal: " + profile.Goal + "\n")
	if v := strings.TrimSpace(profile.ChronicConditions); v != "" && !IsNone(v) {
		b.WriteString("- Chronic conditions: " + v + "\n")
	}
	if v := strings.TrimSpace(profile.Allergies); v != "" && !IsNone(v) {
		b.WriteString("- Allergies: " + v + "\n")
	}
	if focus := p.Focus(); focus != "" {
		b.WriteString(focus + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Directive is the system message sent with every request made as p.
func Directive(p persona.Persona, preamble string) string {
	if preamble == "" {
		return p.Directive()
	}
	return p.Directive() + "\n\n" + preamble
}

// ForRecord is Compose followed by Directive for the record's active persona.
func ForRecord(rec *record.UserRecord) string {
	p := rec.Persona()
	return Directive(p, Compose(rec.Profile, rec.DisplayName, p))
}
