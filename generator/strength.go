package generator

import "strings"

// Level classifies a password score into a coarse strength bucket.
type Level int

const (
	VeryWeak Level = iota
	Weak
	Medium
	Strong
	VeryStrong
)

func (l Level) String() string {
	switch l {
	case VeryWeak:
		return "very weak"
	case Weak:
		return "weak"
	case Medium:
		return "medium"
	case Strong:
		return "strong"
	case VeryStrong:
		return "very strong"
	default:
		return "unknown"
	}
}

// Strength is the result of scoring a password.
type Strength struct {
	Score    int // 0-100
	Level    Level
	Feedback []string
}

// Score rates a password. Points are added for length and for each
// character class present, then penalties are subtracted for repeated
// characters and sequential runs; the result is clamped to [0, 100].
func Score(password string) Strength {
	if password == "" {
		return Strength{
			Score:    0,
			Level:    VeryWeak,
			Feedback: []string{"password cannot be empty"},
		}
	}

	score := 0
	var feedback []string

	runes := []rune(password)
	switch {
	case len(runes) >= 12:
		score += 25
	case len(runes) >= 8:
		score += 15
	case len(runes) >= 6:
		score += 10
	default:
		feedback = append(feedback, "password should be at least 8 characters")
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range runes {
		switch {
		case strings.ContainsRune(lowerChars, r):
			hasLower = true
		case strings.ContainsRune(upperChars, r):
			hasUpper = true
		case strings.ContainsRune(digitChars, r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}

	for _, present := range []bool{hasLower, hasUpper, hasDigit, hasSpecial} {
		if present {
			score += 15
		}
	}
	if !hasLower {
		feedback = append(feedback, "add lowercase letters")
	}
	if !hasUpper {
		feedback = append(feedback, "add uppercase letters")
	}
	if !hasDigit {
		feedback = append(feedback, "add digits")
	}
	if !hasSpecial {
		feedback = append(feedback, "add special characters")
	}

	distinct := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		distinct[r] = struct{}{}
	}
	if float64(len(distinct)) < float64(len(runes))*0.7 {
		score -= 10
		feedback = append(feedback, "avoid repeated characters")
	}

	// Strictly consecutive code point runs like "abc" or "123".
	sequential := 0
	for i := 0; i+2 < len(runes); i++ {
		if runes[i]+1 == runes[i+1] && runes[i+1]+1 == runes[i+2] {
			sequential++
		}
	}
	if sequential > 0 {
		score -= sequential * 5
		feedback = append(feedback, "avoid sequential characters (abc, 123)")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return Strength{
		Score:    score,
		Level:    levelFor(score),
		Feedback: feedback,
	}
}

func levelFor(score int) Level {
	switch {
	case score >= 80:
		return VeryStrong
	case score >= 60:
		return Strong
	case score >= 40:
		return Medium
	case score >= 20:
		return Weak
	default:
		return VeryWeak
	}
}
