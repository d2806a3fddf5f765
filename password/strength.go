package password

import "unicode"

// MinAcceptableScore is the lowest [Score] accepted when a password is
// set during registration or reset completion. Callers rendering a
// strength meter use the same constant so the gate and the meter never
// disagree.
const MinAcceptableScore = 3

// MaxScore is the highest value Score can return.
const MaxScore = 4

// Score rates a candidate password from 0 to [MaxScore], awarding one
// point for each satisfied criterion: length greater than 8 bytes, at
// least one uppercase letter, at least one digit, and at least one
// symbol (any non-alphanumeric rune). It is deterministic and never
// fails; weak input simply scores low.
func Score(candidate string) int {
	var upper, digit, symbol bool
	for _, r := range candidate {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			symbol = true
		}
	}

	score := 0
	if len(candidate) > 8 {
		score++
	}
	if upper {
		score++
	}
	if digit {
		score++
	}
	if symbol {
		score++
	}
	return score
}
