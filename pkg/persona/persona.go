package persona

import "strings"

// Persona is one of the fixed specialist roles the assistant can speak as.
type Persona int

const (
	Nutritionist Persona = iota
	FitnessTrainer
	Psychotherapist
	MedicalMentor
	PersonalMentor
	FutureSelf
)

// Default is used when a record carries no role or an unknown one.
const Default = PersonalMentor

// Capability is a persona-specific action offered on its keyboard.
type Capability int

const (
	DailyMenu Capability = iota
	ProductLookup
	WorkoutPlan
	MoodDiary
	BreathingTechnique
	AskQuestion
	BackToSpecialists
)

type variant struct {
	id           string
	label        string
	directive    string
	focus        string
	capabilities [][]Capability
}

var variants = map[Persona]variant{
	Nutritionist: {
		id:    "nutritionist",
		label: "Nutritionist",
		directive: "You are a professional nutritionist with deep knowledge of dietetics and biochemistry. " +
			"You build meal plans, analyse foods and answer nutrition questions. Your answers are competent and science-based.",
		focus: "Pay particular attention to the goal, weight and any allergies.",
		capabilities: [][]Capability{
			{DailyMenu},
			{ProductLookup},
			{AskQuestion},
			{BackToSpecialists},
		},
	},
	FitnessTrainer: {
		id:    "fitness-trainer",
		label: "Fitness trainer",
		directive: "You are an elite fitness trainer. You give professional advice on training, recovery and sports physiology. " +
			"Your answers are precise, scientific and motivating, like a personal training session.",
		focus: "Pay particular attention to age, activity level, goal and chronic conditions.",
		capabilities: [][]Capability{
			{WorkoutPlan},
			{AskQuestion},
			{BackToSpecialists},
		},
	},
	Psychotherapist: {
		id:    "psychotherapist",
		label: "Psychotherapist",
		directive: "You are an empathetic and wise psychotherapist. You support the user and help them understand their feelings and mood. " +
			"You use active listening and never judge. Your tone is calm and reassuring.",
		focus: "Keep the physical details in the background unless the user brings them up.",
		capabilities: [][]Capability{
			{MoodDiary},
			{BreathingTechnique},
			{AskQuestion},
			{BackToSpecialists},
		},
	},
	MedicalMentor: {
		id:    "medical-mentor",
		label: "Medical mentor",
		directive: "You are an attentive medical mentor. You give light recommendations for improving health and analyse general symptoms, " +
			"always noting that this does not replace a consultation with a real doctor.",
		focus: "Pay particular attention to chronic conditions and allergies.",
		capabilities: [][]Capability{
			{AskQuestion},
			{BackToSpecialists},
		},
	},
	PersonalMentor: {
		id:    "personal-mentor",
		label: "Personal mentor",
		directive: "You are a personal mentor and productivity coach. You help organise the day, build healthy habits and reach life goals. " +
			"Your answers are inspiring, structured and supportive.",
		focus: "Relate the advice to the goal the user has set.",
		capabilities: [][]Capability{
			{AskQuestion},
			{BackToSpecialists},
		},
	},
	FutureSelf: {
		id:    "future-self",
		label: "Future you",
		directive: "You are the user themself, from a successful future. You have already reached every goal the user dreams of. " +
			"Give wise, mysterious and incredibly motivating advice, hinting at future successes.",
		focus: "Speak about the goal as something already achieved.",
		capabilities: [][]Capability{
			{AskQuestion},
			{BackToSpecialists},
		},
	},
}

// Ids written by earlier versions of the bot.
var legacyIDs = map[string]Persona{
	"нутрициолог":           Nutritionist,
	"фитнесс-тренер":        FitnessTrainer,
	"фитнесс тренер":        FitnessTrainer,
	"психотерапевт":         Psychotherapist,
	"медицинский наставник": MedicalMentor,
	"личный наставник":      PersonalMentor,
	"ты из будущего":        FutureSelf,
}

// All lists the personas in menu order.
func All() []Persona {
	return []Persona{Nutritionist, FitnessTrainer, Psychotherapist, MedicalMentor, PersonalMentor, FutureSelf}
}

func (p Persona) ID() string        { return variants[p].id }
func (p Persona) Label() string     { return variants[p].label }
func (p Persona) Directive() string { return variants[p].directive }

// Focus is a one-line hint about which profile facts matter most to this persona.
func (p Persona) Focus() string { return variants[p].focus }

// Capabilities returns the keyboard layout for this persona, one row per slice.
func (p Persona) Capabilities() [][]Capability {
	rows := variants[p].capabilities
	out := make([][]Capability, len(rows))
	for i, row := range rows {
		out[i] = append([]Capability(nil), row...)
	}
	return out
}

func (p Persona) Valid() bool {
	_, ok := variants[p]
	return ok
}

// Parse resolves a stored persona id, including legacy ids.
func Parse(id string) (Persona, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for p, v := range variants {
		if v.id == id {
			return p, true
		}
	}
	if p, ok := legacyIDs[id]; ok {
		return p, true
	}
	return Default, false
}

// Label returns the button caption for a capability.
func (c Capability) Label() string {
	switch c {
	case DailyMenu:
		return "Plan my menu for today 🍽️"
	case ProductLookup:
		return "Look up a product 🔍"
	case WorkoutPlan:
		return "Build a workout plan 💪"
	case MoodDiary:
		return "Mood diary 🧠"
	case BreathingTechnique:
		return "Calming breathing technique 🌬️"
	case AskQuestion:
		return "Ask a question ❓"
	case BackToSpecialists:
		return "⬅️ Back to specialists"
	}
	return ""
}
