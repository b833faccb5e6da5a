package moderation

import (
	"bufio"
	"bytes"
	"chat-courier/errors"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// WordList is the merged content of a directory of forbidden word files.
type WordList struct {
	Words     []string
	Languages []string
}

// LoadWords reads every "<language>.txt" file of dir, one word per line,
// and merges them without duplicates. Other files are ignored.
func LoadWords(fsys fs.FS, dir string) (WordList, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return WordList{}, err
	}

	var list WordList
	seen := make(map[string]struct{})
	for _, entry := range entries {
		language, ok := strings.CutSuffix(entry.Name(), ".txt")
		if entry.IsDir() || !ok {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return WordList{}, err
		}
		list.Languages = append(list.Languages, language)

		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			word := strings.TrimSpace(scanner.Text())
			if _, dup := seen[word]; word == "" || dup {
				continue
			}
			seen[word] = struct{}{}
			list.Words = append(list.Words, word)
		}
		if err := scanner.Err(); err != nil {
			return WordList{}, err
		}
	}

	if len(list.Words) == 0 {
		return WordList{}, errors.ErrEmptyWords
	}
	sort.Strings(list.Words)
	return list, nil
}
