package moderation

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// The dictionary uses words that never hide inside ordinary ones
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dictionary := []string{"scammer", "idiot", "moron"}
	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "The scammer is here",
			expected: "The ******* is here",
			words:    []string{"scammer"},
		},
		{
			name:     "Multiple occurrences and preserved spacing",
			input:    "idiot idiot idiot",
			expected: "***** ***** *****",
			words:    []string{"idiot", "idiot", "idiot"},
		},
		{
			name:     "Leet speak and internal punctuation",
			input:    "Look at 5.c.4.m.m.3.r now",
			expected: "Look at ************* now",
			words:    []string{"scammer"},
		},
		{
			name:     "Uppercase and extreme noise",
			input:    "I-D-I-O-T is a M.O.R.O.N",
			expected: "********* is a *********",
			words:    []string{"idiot", "moron"},
		},
		{
			name:     "Accents and special characters (UTF-8)",
			input:    "Un été avec un idiot",
			expected: "Un été avec un *****",
			words:    []string{"idiot"},
		},
		{
			name:     "Word adjacent to trailing punctuation",
			input:    "You moron!",
			expected: "You *****!",
			words:    []string{"moron"},
		},
		{
			name:     "Nothing to censor",
			input:    "Fix my sink please",
			expected: "Fix my sink please",
			words:    nil,
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, words := mod.Censor(tt.input)
			req.Equal(tt.expected, content, "test=%s,", tt.name)
			req.Equal(tt.words, words, "expected=%s,words=%s", tt.expected, words)
		})
	}
}

func TestModerator_CornerCases(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given real noise and not Leet Speak associated
	dictionary := []string{"...", ",,,", "", "scammer"}

	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	// Then the sentence is censored
	content, words := mod.Censor("The scammer is safe")
	req.Equal("The ******* is safe", content)
	req.Equal([]string{"scammer"}, words)

	// Then real noise is uncensored
	content, words = mod.Censor("Hello ...")
	req.Equal("Hello ...", content)
	req.Nil(words)
}

func TestNewModerator_Only_Noise(t *testing.T) {
	req := require.New(t)

	_, err := NewModerator([]string{"...", ""}, replacementChar, slog.Default())

	req.Error(err)
}
