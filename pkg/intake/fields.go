package intake

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Plain positional decimals only. ParseFloat alone would also take NaN, Inf,
// exponents and hex floats.
var decimalPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

var errNotDecimal = errors.New("not a decimal number")

const (
	keyGender     = "gender"
	keyAge        = "age"
	keyHeight     = "height_cm"
	keyWeight     = "weight_kg"
	keyActivity   = "activity_level"
	keyGoal       = "goal"
	keyConditions = "chronic_conditions"
	keyAllergies  = "allergies"
)

type field struct {
	key      string
	question string
	keyboard [][]string
	parse    func(string) (string, error)
}

func (f field) prompt() Prompt {
	p := Prompt{Text: f.question}
	if f.keyboard != nil {
		p.Keyboard = make([][]string, len(f.keyboard))
		for i, row := range f.keyboard {
			p.Keyboard[i] = append([]string(nil), row...)
		}
	}
	return p
}

var fields = []field{
	{
		key:      keyGender,
		question: "Let's get to know each other. What is your gender?",
		keyboard: [][]string{{"Male", "Female"}},
		parse:    oneOf("Male", "Female"),
	},
	{
		key:      keyAge,
		question: "How old are you? Please enter a whole number.",
		parse:    integerBetween(0, 120),
	},
	{
		key:      keyHeight,
		question: "What is your height in centimetres?",
		parse:    integerBetween(50, 250),
	},
	{
		key:      keyWeight,
		question: "What is your weight in kilograms? For example 72.5",
		parse:    decimalBetween(20, 300),
	},
	{
		key:      keyActivity,
		question: "How active are you during a typical week?",
		keyboard: [][]string{{"Sedentary", "Moderate", "Active"}},
		parse:    oneOf("Sedentary", "Moderate", "Active"),
	},
	{
		key:      keyGoal,
		question: "What is your main goal?",
		keyboard: [][]string{{"Lose", "Gain", "Maintain"}},
		parse:    oneOf("Lose", "Gain", "Maintain"),
	},
	{
		key:      keyConditions,
		question: "Do you have any chronic conditions? Write \"none\" if there are none.",
		parse:    nonEmpty,
	},
	{
		key:      keyAllergies,
		question: "Any food allergies? Write \"none\" if there are none.",
		parse:    nonEmpty,
	},
}

// oneOf matches case-insensitively and stores the canonical spelling.
func oneOf(options ...string) func(string) (string, error) {
	return func(s string) (string, error) {
		for _, o := range options {
			if strings.EqualFold(s, o) {
				return o, nil
			}
		}
		return "", errors.New("expected one of " + strings.Join(options, ", "))
	}
}

// integerBetween accepts integers strictly inside (lo, hi).
func integerBetween(lo, hi int) func(string) (string, error) {
	return func(s string) (string, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return "", errors.New("not a whole number")
		}
		if n <= lo || n >= hi {
			return "", errors.New("out of range " + strconv.Itoa(lo) + ".." + strconv.Itoa(hi))
		}
		return strconv.Itoa(n), nil
	}
}

func decimalBetween(lo, hi float64) func(string) (string, error) {
	return func(s string) (string, error) {
		v, err := ParseDecimal(s)
		if err != nil {
			return "", errors.New("not a number")
		}
		if v <= lo || v >= hi {
			return "", errors.New("out of range " + formatDecimal(lo) + ".." + formatDecimal(hi))
		}
		return formatDecimal(v), nil
	}
}

func nonEmpty(s string) (string, error) {
	if s == "" {
		return "", errors.New("answer is empty")
	}
	return s, nil
}

// ParseDecimal accepts both "80.5" and "80,5". The result is always finite.
func ParseDecimal(s string) (float64, error) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	if !decimalPattern.MatchString(s) {
		return 0, errNotDecimal
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotDecimal
	}
	return v, nil
}

func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
