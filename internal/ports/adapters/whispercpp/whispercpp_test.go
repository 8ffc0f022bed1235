package whispercpp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_TrimsWords(t *testing.T) {
	tr, err := parse([]byte(`{"segments":[{"start":0,"end":1.2,"text":" hi there ",
		"words":[{"start":0,"end":0.4,"word":" hi"},{"start":0.5,"end":1.2,"word":" there"}]}]}`))
	require.NoError(t, err)
	words := tr.Words()
	require.Len(t, words, 2)
	assert.Equal(t, "hi", words[0].Word)
	assert.Equal(t, "there", words[1].Word)
	assert.Equal(t, "hi there", tr.Segments[0].Text)
}

func TestParse_Invalid(t *testing.T) {
	_, err := parse([]byte(`{"segments":`))
	require.Error(t, err)
}

func TestArgs_Language(t *testing.T) {
	a := New("whisper", "model.bin", "en")
	assert.True(t, strings.HasSuffix(strings.Join(a.args("in.wav", "out"), " "), "-owts -l en"))

	a = New("whisper", "model.bin", "")
	assert.NotContains(t, a.args("in.wav", "out"), "-l")
}
