package moderation

import (
	"chat-courier/errors"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newModerator(t *testing.T, words ...string) *Moderator {
	t.Helper()
	mod, err := NewModerator(words, '#', logs.GetLoggerFromLevel(slog.LevelError))
	require.NoError(t, err)
	return mod
}

func TestModerator_Censor_Chat_Messages(t *testing.T) {
	mod := newModerator(t, "scam", "spam", "idiot")

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{"single word", "this is a scam", "this is a ####", []string{"scam"}},
		{"repeated words keep their spacing", "spam spam", "#### ####", []string{"spam", "spam"}},
		{"separators and leet", "you 1.d.1.o.t", "you #########", []string{"idiot"}},
		{"upper case", "SCAM alert", "#### alert", []string{"scam"}},
		{"accented text around a match", "été spam à midi", "été #### à midi", []string{"spam"}},
		{"trailing punctuation stays", "what a scam!", "what a ####!", []string{"scam"}},
		{"clean message", "see you at 8", "see you at 8", nil},
		{"empty message", "", "", nil},
		{"only separators", "... !!", "... !!", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			content, words := mod.Censor(tt.input)
			req.Equal(tt.expected, content)
			if tt.words == nil {
				req.Empty(words)
				return
			}
			req.Equal(tt.words, words)
		})
	}
}

func TestModerator_Ignores_Noise_Patterns(t *testing.T) {
	req := require.New(t)

	// Given a dictionary polluted with separators only
	mod := newModerator(t, "...", "", "--", "spam")

	content, words := mod.Censor("no spam... please")
	req.Equal("no ####... please", content)
	req.Equal([]string{"spam"}, words)
}

func TestLoadWords_Merges_Languages(t *testing.T) {
	req := require.New(t)
	files := fstest.MapFS{
		"words/en.txt":    {Data: []byte("spam\r\nscam\n\n")},
		"words/fr.txt":    {Data: []byte("arnaque\n  spam  \n")},
		"words/README.md": {Data: []byte("not a list")},
	}

	list, err := LoadWords(files, "words")

	req.NoError(err)
	req.Equal([]string{"arnaque", "scam", "spam"}, list.Words)
	req.ElementsMatch([]string{"en", "fr"}, list.Languages)
}

func TestLoadWords_Empty(t *testing.T) {
	_, err := LoadWords(fstest.MapFS{"words/en.txt": {Data: []byte("\n\n")}}, "words")
	require.ErrorIs(t, err, errors.ErrEmptyWords)
}
