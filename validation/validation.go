package validation

import (
	"errors"
	"strings"
	"unicode"
)

const MaxQuestionLength = 4000

var (
	ErrEmptyQuestion     = errors.New("question is empty")
	ErrQuestionTooLong   = errors.New("question is too long")
	ErrGibberishQuestion = errors.New("the question appears to be gibberish, please rephrase it")
)

// ValidateQuestion rejects input that cannot be a meaningful question before
// it is spent on an LLM round-trip. It is deliberately lenient.
func ValidateQuestion(question string) error {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return ErrEmptyQuestion
	}
	if len(trimmed) > MaxQuestionLength {
		return ErrQuestionTooLong
	}

	letters, total := 0, 0
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	// Letters must make up at least 30% of the non-space characters.
	if total == 0 || float64(letters)/float64(total) < 0.3 {
		return ErrGibberishQuestion
	}

	if isRepeatedCharacters(trimmed) || hasKeyboardMashing(trimmed) {
		return ErrGibberishQuestion
	}
	return nil
}

// isRepeatedCharacters reports whether s is one character repeated, ignoring spaces.
func isRepeatedCharacters(s string) bool {
	compact := strings.Join(strings.Fields(s), "")
	if len(compact) < 3 {
		return false
	}
	for i := 1; i < len(compact); i++ {
		if compact[i] != compact[0] {
			return false
		}
	}
	return true
}

// hasKeyboardMashing catches short inputs made of adjacent keyboard rows.
func hasKeyboardMashing(s string) bool {
	if len(s) >= 30 {
		return false
	}
	lower := strings.ToLower(s)
	for _, pattern := range []string{"asdfghjkl", "qwertyuiop", "zxcvbnm", "asdf", "qwer", "zxcv", "hjkl"} {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
