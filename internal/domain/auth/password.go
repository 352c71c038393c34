package auth

import "unicode/utf8"

// Password strength thresholds and step.
const (
	StrengthStep          = 25
	StrongPasswordLength  = 8
	MinimumPasswordLength = 6
)

// Strength labels.
const (
	LabelStrong   = "Strong"
	LabelMedium   = "Medium"
	LabelWeak     = "Weak"
	LabelVeryWeak = "Very Weak"
)

// Tone is the colour family the strength meter renders in.
type Tone string

const (
	ToneGreen  Tone = "green"
	ToneYellow Tone = "yellow"
	ToneOrange Tone = "orange"
	ToneRed    Tone = "red"
)

// CalculatePasswordStrength scores a password in steps of 25 from 0 to 100.
// Each criterion adds one step: at least 8 characters, an ASCII uppercase
// letter, an ASCII digit, and any character outside [A-Za-z0-9].
func CalculatePasswordStrength(password string) int {
	score := 0
	for _, met := range criteria(password) {
		if met {
			score += StrengthStep
		}
	}
	return score
}

// StrengthLabel maps a score to its display label.
func StrengthLabel(score int) string {
	switch {
	case score >= 75:
		return LabelStrong
	case score >= 50:
		return LabelMedium
	case score >= 25:
		return LabelWeak
	default:
		return LabelVeryWeak
	}
}

// StrengthTone maps a score to its meter colour.
func StrengthTone(score int) Tone {
	switch {
	case score >= 75:
		return ToneGreen
	case score >= 50:
		return ToneYellow
	case score >= 25:
		return ToneOrange
	default:
		return ToneRed
	}
}

// Requirement is one line of the password checklist shown under the meter.
type Requirement struct {
	Text string
	Met  bool
}

// Strength bundles everything the meter renders for one password.
type Strength struct {
	Score        int
	Label        string
	Tone         Tone
	Requirements []Requirement
}

// EvaluatePassword computes the full meter state for password.
func EvaluatePassword(password string) Strength {
	score := CalculatePasswordStrength(password)
	return Strength{
		Score:        score,
		Label:        StrengthLabel(score),
		Tone:         StrengthTone(score),
		Requirements: Requirements(password),
	}
}

// Requirements returns the checklist in display order.
func Requirements(password string) []Requirement {
	c := criteria(password)
	return []Requirement{
		{Text: "At least 8 characters", Met: c[0]},
		{Text: "One uppercase letter", Met: c[1]},
		{Text: "One number", Met: c[2]},
		{Text: "One special character", Met: c[3]},
	}
}

// criteria evaluates length, uppercase, digit, and special in that order.
func criteria(password string) [4]bool {
	var upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
		default:
			special = true
		}
	}
	return [4]bool{
		utf8.RuneCountInString(password) >= StrongPasswordLength,
		upper,
		digit,
		special,
	}
}
