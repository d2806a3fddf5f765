package password

import "testing"

func TestScoreCriteria(t *testing.T) {
	cases := []struct {
		candidate string
		want      int
	}{
		{"", 0},
		{"abc", 0},
		{"abcdefghi", 1},          // length only
		{"Abc", 1},                // uppercase only
		{"abc1", 1},               // digit only
		{"abc!", 1},               // symbol only
		{"Abcdefghi", 2},          // length + uppercase
		{"Abcdefgh1", 3},          // length + uppercase + digit
		{"Abc12345!", 4},          // all four
		{"A1!", 3},                // short but varied
		{"p@ssw0rdLONG", 4},
		{"алфавитдлинный", 1},     // long non-latin letters, length only
	}

	for _, tc := range cases {
		if got := Score(tc.candidate); got != tc.want {
			t.Errorf("Score(%q) = %d, want %d", tc.candidate, got, tc.want)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	for _, candidate := range []string{"", "a", "Abc12345!", "ZZZZzzzz9999!!!!ZZZZ"} {
		got := Score(candidate)
		if got < 0 || got > MaxScore {
			t.Errorf("Score(%q) = %d outside [0,%d]", candidate, got, MaxScore)
		}
	}
}

// Adding a criterion to an already-scored password never lowers the score.
func TestScoreMonotonic(t *testing.T) {
	steps := []string{
		"abc",        // 0
		"abcdefghi",  // +length
		"Abcdefghi",  // +uppercase
		"Abcdefgh1",  // +digit
		"Abcdefg1!",  // +symbol
	}

	prev := -1
	for _, candidate := range steps {
		got := Score(candidate)
		if got < prev {
			t.Fatalf("Score(%q) = %d dropped below previous %d", candidate, got, prev)
		}
		prev = got
	}
	if prev != MaxScore {
		t.Fatalf("final step scored %d, want %d", prev, MaxScore)
	}
}
