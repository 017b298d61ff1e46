package compose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"healthbot/pkg/persona"
	"healthbot/pkg/record"
)

func sampleProfile() *record.Profile {
	return &record.Profile{
		Gender:            "Male",
		Age:               30,
		HeightCm:          180,
		WeightKg:          80.5,
		ActivityLevel:     "Active",
		Goal:              "Lose",
		ChronicConditions: "none",
		Allergies:         "none",
		LastUpdated:       "2026-10-15",
	}
}

func TestCompose_NoProfile(t *testing.T) {
	assert.Equal(t, NoProfileMarker, Compose(nil, "Ivan", persona.Nutritionist))

	p := sampleProfile()
	p.Goal = ""
	assert.Equal(t, NoProfileMarker, Compose(p, "Ivan", persona.Nutritionist))
}

func TestCompose_ListsFacts(t *testing.T) {
	p := sampleProfile()
	p.ChronicConditions = "hypertension"
	p.Allergies = "peanuts"

	got := Compose(p, "Ivan", persona.Nutritionist)

	for _, want := range []string{
		"- Name: Ivan",
		"- Gender: Male",
		"- Age: 30",
		"- Height: 180 cm",
		"- Weight: 80.5 kg",
		"- Activity level: Active",
		"- Goal: Lose",
		"- Chronic conditions: hypertension",
		"- Allergies: peanuts",
		persona.Nutritionist.Focus(),
	} {
		assert.Contains(t, got, want)
	}
}

func TestCompose_SkipsNoneSentinels(t *testing.T) {
	for _, sentinel := range []string{"none", "None", " NONE ", "no", "нет", "Нет", ""} {
		t.Run(sentinel, func(t *testing.T) {
			p := sampleProfile()
			p.ChronicConditions = sentinel
			p.Allergies = sentinel

			got := Compose(p, "", persona.MedicalMentor)

			assert.NotContains(t, got, "Chronic conditions")
			assert.NotContains(t, got, "Allergies")
			assert.NotContains(t, strings.ToLower(got), "none")
		})
	}
}

func TestCompose_OmitsBlankName(t *testing.T) {
	got := Compose(sampleProfile(), "  ", persona.PersonalMentor)
	assert.NotContains(t, got, "Name:")
}

func TestCompose_WholeWeightHasNoDecimals(t *testing.T) {
	p := sampleProfile()
	p.WeightKg = 70
	assert.Contains(t, Compose(p, "", persona.FitnessTrainer), "- Weight: 70 kg")
}

func TestCompose_Deterministic(t *testing.T) {
	p := sampleProfile()
	first := Compose(p, "Anna", persona.Psychotherapist)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compose(p, "Anna", persona.Psychotherapist))
	}
}

func TestForRecord(t *testing.T) {
	rec := record.New("u")
	rec.ActiveRole = persona.FitnessTrainer.ID()

	got := ForRecord(rec)
	assert.True(t, strings.HasPrefix(got, persona.FitnessTrainer.Directive()))
	assert.True(t, strings.HasSuffix(got, NoProfileMarker))

	rec.Profile = sampleProfile()
	rec.DisplayName = "Oleg"
	assert.Contains(t, ForRecord(rec), "- Name: Oleg")
}
