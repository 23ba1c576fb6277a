// Package moderation censors banned words in post descriptions and chat messages.
package moderation

import (
	"log/slog"
	"taskmarket/errors"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// Moderator is immutable once built and safe for concurrent use.
type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
	log         *slog.Logger
}

// folded is a text reduced to the runes words are matched on. at[i] is the
// position in the source text of runes[i].
type folded struct {
	runes []rune
	at    []int
}

// NewModerator builds the automaton over the folded form of every word.
// Words made only of punctuation, spaces or symbols are ignored.
func NewModerator(words []string, replacement rune, log *slog.Logger) (Moderator, error) {
	patterns := lo.FilterMap(words, func(word string, _ int) ([]rune, bool) {
		f := fold([]rune(word))
		return f.runes, len(f.runes) > 0
	})
	if len(patterns) == 0 {
		return Moderator{}, errors.ErrEmptyWords
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return Moderator{}, err
	}
	return Moderator{matcher: machine, replacement: replacement, log: log}, nil
}

// Censor masks every banned word of text, rune for rune, and returns the
// masked text with the words found in order of appearance. Separators inside
// a word ("i.d.i.o.t") are masked with it.
func (m Moderator) Censor(text string) (string, []string) {
	source := []rune(text)
	f := fold(source)
	if len(f.runes) == 0 {
		return text, nil
	}

	hits := m.matcher.MultiPatternSearch(f.runes, false)
	found := make([]string, 0, len(hits))
	for _, hit := range hits {
		end := hit.Pos + len(hit.Word)
		if hit.Pos < 0 || end > len(f.at) {
			continue
		}
		for i := f.at[hit.Pos]; i <= f.at[end-1]; i++ {
			source[i] = m.replacement
		}
		found = append(found, string(hit.Word))
	}
	if len(found) == 0 {
		return text, nil
	}

	m.log.Debug("Censored words", "count", len(found))
	return string(source), found
}

func fold(source []rune) folded {
	f := folded{runes: make([]rune, 0, len(source)), at: make([]int, 0, len(source))}
	for i, r := range source {
		r = unleet(r)
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		f.runes = append(f.runes, unicode.ToLower(r))
		f.at = append(f.at, i)
	}
	return f
}

// unleet maps the usual leet speak substitutes back to letters.
func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	}
	return r
}
