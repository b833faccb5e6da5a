// Package moderation censors forbidden words in message content before it is stored.
package moderation

import (
	"log/slog"
	"maps"
	"slices"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator matches forbidden words on a folded copy of the text, so that case,
// leet substitutions and separators ("B.4.d") do not hide them, then masks the
// matching runes of the original text.
type Moderator struct {
	machine *goahocorasick.Machine
	mask    rune
	log     *slog.Logger
}

// folded is the searchable form of a text; positions[i] is the index in the
// original runes of folded rune i.
type folded struct {
	runes     []rune
	positions []int
}

var leet = map[rune]rune{
	'4': 'a', '@': 'a',
	'3': 'e', '€': 'e',
	'1': 'i', '!': 'i', '|': 'i',
	'0': 'o',
	'5': 's', '$': 's',
}

// NewModerator builds the automaton from words. Words folding to nothing are skipped,
// words folding to the same pattern are kept once.
func NewModerator(words []string, mask rune, log *slog.Logger) (*Moderator, error) {
	unique := make(map[string]struct{}, len(words))
	for _, word := range words {
		if f := fold(word); len(f.runes) > 0 {
			unique[string(f.runes)] = struct{}{}
		}
	}
	keys := slices.Sorted(maps.Keys(unique))
	patterns := make([][]rune, 0, len(keys))
	for _, key := range keys {
		patterns = append(patterns, []rune(key))
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	log.Info("Moderator ready", "patterns", len(patterns))
	return &Moderator{machine: machine, mask: mask, log: log}, nil
}

// Censor masks every forbidden word and returns the words found, nil when the text is clean.
// Spacing and characters outside a match are preserved.
func (m *Moderator) Censor(text string) (string, []string) {
	f := fold(text)
	if len(f.runes) == 0 {
		return text, nil
	}
	hits := m.machine.MultiPatternSearch(f.runes, false)
	if len(hits) == 0 {
		return text, nil
	}

	out := []rune(text)
	found := make([]string, 0, len(hits))
	for _, hit := range hits {
		end := hit.Pos + len(hit.Word)
		if hit.Pos < 0 || end > len(f.positions) {
			continue
		}
		for i := f.positions[hit.Pos]; i <= f.positions[end-1]; i++ {
			out[i] = m.mask
		}
		found = append(found, string(hit.Word))
	}
	return string(out), slices.Clip(found)
}

func fold(text string) folded {
	source := []rune(text)
	f := folded{runes: make([]rune, 0, len(source)), positions: make([]int, 0, len(source))}
	for i, r := range source {
		if plain, ok := leet[r]; ok {
			r = plain
		}
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		f.runes = append(f.runes, unicode.ToLower(r))
		f.positions = append(f.positions, i)
	}
	return f
}
