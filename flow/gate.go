package flow

import (
	"strings"

	"github.com/jozzer182/Yuva"
)

// Gate unlocks submission when the typed input equals the confirmation
// phrase, ignoring case. Surrounding whitespace is not trimmed.
type Gate struct {
	phrase string
}

// NewGate creates a gate for phrase; an empty phrase selects
// yuva.DefaultConfirmationPhrase.
func NewGate(phrase string) Gate {
	if phrase == "" {
		phrase = yuva.DefaultConfirmationPhrase
	}
	return Gate{phrase: phrase}
}

// Phrase returns the literal the user must type.
func (g Gate) Phrase() string {
	if g.phrase == "" {
		return yuva.DefaultConfirmationPhrase
	}
	return g.phrase
}

// IsConfirmed reports whether input matches the phrase.
func (g Gate) IsConfirmed(input string) bool {
	return strings.EqualFold(input, g.Phrase())
}
