package moderation

import (
	"taskmarket/errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_LoadAll(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"censored/en.txt":    {Data: []byte("# comment\nidiot\r\nmoron\n\n")},
		"censored/fr.txt":    {Data: []byte("abruti\nidiot\n")},
		"censored/README":    {Data: []byte("not a list")},
		"censored/sub/x.txt": {Data: []byte("ignored")},
	}

	data, err := NewCensoredLoader(fsys).LoadAll("censored")

	req.NoError(err)
	req.ElementsMatch([]string{"idiot", "moron", "abruti"}, data.Words)
	req.ElementsMatch([]string{"en", "fr"}, data.Languages)
}

func TestCensoredLoader_Empty(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{"censored/en.txt": {Data: []byte("\n# nothing\n")}}

	_, err := NewCensoredLoader(fsys).LoadAll("censored")

	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestDefaultLoader_Ships_Word_Lists(t *testing.T) {
	req := require.New(t)

	data, err := NewDefaultLoader().LoadAll("censored")

	req.NoError(err)
	req.Contains(data.Words, "scammer")
	req.Contains(data.Languages, "fr")
}
