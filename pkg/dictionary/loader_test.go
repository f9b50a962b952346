package dictionary

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/lexserve/pkg/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder keeps the insertion feed in order
type recorder struct {
	entries []lexicon.Entry
}

func (r *recorder) Insert(word, meaning string) {
	r.entries = append(r.entries, lexicon.Entry{Word: word, Meaning: meaning})
}

func (r *recorder) words() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Word
	}
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestChunkRoundTrip(t *testing.T) {
	entries := []lexicon.Entry{
		{Word: "cat", Meaning: "a feline"},
		{Word: "café", Meaning: "a small restaurant"},
		{Word: "", Meaning: ""},
		{Word: "hot dog", Meaning: "a sausage\tin a bun"},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeChunk(&buf, entries))

	var got []lexicon.Entry
	err := readChunk(&buf, func(word, meaning string) bool {
		got = append(got, lexicon.Entry{Word: word, Meaning: meaning})
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestReadChunkTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeChunk(&buf, []lexicon.Entry{{Word: "cat", Meaning: "a feline"}}))
	data := buf.Bytes()[:buf.Len()-3]

	err := readChunk(bytes.NewReader(data), func(string, string) bool { return true })
	assert.ErrorIs(t, err, ErrCorruptChunk)

	err = readChunk(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}), func(string, string) bool { return true })
	assert.ErrorIs(t, err, ErrCorruptChunk, "negative entry count")
}

// chunks load first by ID, then text files by name
func TestLoadIntoOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteChunk(filepath.Join(dir, "dict_0002.bin"), []lexicon.Entry{{Word: "two", Meaning: "2"}}))
	require.NoError(t, WriteChunk(filepath.Join(dir, "dict_0001.bin"), []lexicon.Entry{{Word: "one", Meaning: "1"}}))
	writeFile(t, filepath.Join(dir, "b.tsv"), "four\t4\n")
	writeFile(t, filepath.Join(dir, "a.txt"), "# comment\n\nthree\t3\n")
	writeFile(t, filepath.Join(dir, "notes.md"), "ignored")

	available, err := NewLoader(dir, Options{}).GetAvailable()
	require.NoError(t, err)
	require.Len(t, available, 4)
	assert.Equal(t, 1, available[0].ID)
	assert.Equal(t, 1, available[0].WordCount)
	assert.Equal(t, FormatText, available[2].Format)
	assert.Equal(t, -1, available[2].WordCount)

	rec := &recorder{}
	stats, err := NewLoader(dir, Options{}).LoadInto(rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three", "four"}, rec.words())
	assert.Equal(t, 4, stats.Files)
	assert.Equal(t, 4, stats.Inserted)
}

func TestLoadNormalize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "words.txt"),
		"Hot_Dog\t  a  sausage\tin a bun  \r\n"+
			"no separator here\n"+
			"   \tmeaning without a word\n"+
			"Cat\ta feline\n")

	rec := &recorder{}
	stats, err := NewLoader(dir, Options{Normalize: true}).LoadInto(rec)
	require.NoError(t, err)
	assert.Equal(t, []lexicon.Entry{
		{Word: "hot dog", Meaning: "a sausage in a bun"},
		{Word: "cat", Meaning: "a feline"},
	}, rec.entries)
	assert.Equal(t, 2, stats.Skipped)
}

func TestLoadWithoutNormalize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.tsv")
	writeFile(t, path, "Hot_Dog\ta sausage\n")

	rec := &recorder{}
	_, err := NewLoader(dir, Options{}).LoadFile(path, rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hot_Dog"}, rec.words())
}

// invalid UTF-8 would collapse into U+FFFD nodes and merge distinct words
func TestLoadSkipsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteChunk(filepath.Join(dir, "dict_0001.bin"), []lexicon.Entry{
		{Word: "ab\xff", Meaning: "first"},
		{Word: "abc", Meaning: "kept"},
	}))
	writeFile(t, filepath.Join(dir, "words.txt"), "ab\xfe\tsecond\ncafé\tkept too\n")

	for _, normalize := range []bool{false, true} {
		lx := lexicon.New()
		stats, err := NewLoader(dir, Options{Normalize: normalize}).LoadInto(lx)
		require.NoError(t, err)

		assert.Equal(t, 2, stats.Inserted, "normalize=%v", normalize)
		assert.Equal(t, 2, stats.Skipped, "normalize=%v", normalize)
		assert.Equal(t, 2, lx.Len())
		_, found := lx.Lookup("ab\uFFFD")
		assert.False(t, found)
		for _, e := range lx.Search("") {
			assert.Contains(t, []string{"abc", "café"}, e.Word)
		}
	}
}

func TestLoadMaxWords(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteChunk(filepath.Join(dir, "dict_0001.bin"), []lexicon.Entry{
		{Word: "a", Meaning: "1"}, {Word: "b", Meaning: "2"},
	}))
	require.NoError(t, WriteChunk(filepath.Join(dir, "dict_0002.bin"), []lexicon.Entry{
		{Word: "c", Meaning: "3"}, {Word: "d", Meaning: "4"},
	}))

	rec := &recorder{}
	stats, err := NewLoader(dir, Options{MaxWords: 3}).LoadInto(rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, rec.words())
	assert.Equal(t, 3, stats.Inserted)
}

// a broken file is skipped when others load
func TestLoadSkipsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dict_0001.bin"), "\x05\x00\x00\x00\x03")
	require.NoError(t, WriteChunk(filepath.Join(dir, "dict_0002.bin"), []lexicon.Entry{{Word: "ok", Meaning: "fine"}}))

	lx := lexicon.New()
	stats, err := NewLoader(dir, Options{}).LoadInto(lx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Files)

	meaning, ok := lx.Lookup("ok")
	assert.True(t, ok)
	assert.Equal(t, "fine", meaning)
}

func TestLoadOnlyCorruptFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dict_0001.bin"), "\x05\x00\x00\x00\x03")

	_, err := NewLoader(dir, Options{}).LoadInto(lexicon.New())
	assert.ErrorIs(t, err, ErrCorruptChunk)
}

func TestLoadEmptyDir(t *testing.T) {
	_, err := NewLoader(t.TempDir(), Options{}).LoadInto(lexicon.New())
	assert.Error(t, err)
}

// loading straight into a lexicon answers queries
func TestLoadIntoLexicon(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "words.txt"),
		"cat\ta feline\ncar\ta vehicle\ncart\ta wheeled container\n")

	lx := lexicon.New()
	_, err := NewLoader(dir, Options{Normalize: true}).LoadInto(lx)
	require.NoError(t, err)

	assert.Len(t, lx.Search("ca"), 3)
	assert.Equal(t, []lexicon.Entry{{Word: "cat", Meaning: "a feline"}, {Word: "car", Meaning: "a vehicle"}},
		lx.AutoCorrect("cag", 1, 10))
}

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()
	chunk := filepath.Join(dir, "dict_0001.bin")
	require.NoError(t, WriteChunk(chunk, nil))
	text := filepath.Join(dir, "words.tsv")
	writeFile(t, text, "cat\ta feline\n")
	bad := filepath.Join(dir, "words.txt")
	writeFile(t, bad, "cat a feline\n")
	other := filepath.Join(dir, "words.json")
	writeFile(t, other, "{}")

	format, err := DetectFileFormat(chunk)
	require.NoError(t, err)
	assert.Equal(t, FormatChunk, format)

	format, err = DetectFileFormat(text)
	require.NoError(t, err)
	assert.Equal(t, FormatText, format)

	_, err = DetectFileFormat(bad)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = DetectFileFormat(other)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestListSupportedFormats(t *testing.T) {
	formats := ListSupportedFormats()
	require.Len(t, formats, 2)
	assert.Equal(t, FormatChunk, formats[0].Format)
	assert.Equal(t, FormatText, formats[1].Format)
	assert.Equal(t, "Unknown", FormatUnknown.String())
}
