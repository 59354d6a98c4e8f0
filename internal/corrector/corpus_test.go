package corrector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinePlain(t *testing.T) {
	s := ParseLine(`"I love Australia!"`)
	require.NotNil(t, s)
	assert.Equal(t, []string{"<s>", "i", "love", "australia", "</s>"}, s.CorrectWords())
	assert.Equal(t, -1, s.ErrorIndex())
}

func TestParseLineErrAnnotation(t *testing.T) {
	s := ParseLine("I have <err targ=four> fuor </err> cats.")
	require.NotNil(t, s)
	assert.Equal(t, []string{"<s>", "i", "have", "four", "cats", "</s>"}, s.CorrectWords())
	assert.Equal(t, []string{"<s>", "i", "have", "fuor", "cats", "</s>"}, s.ErrorWords())
	assert.Equal(t, 3, s.ErrorIndex())
}

func TestParseLineMultiWordTarget(t *testing.T) {
	s := ParseLine("he eats <err targ=a lot> alot </err>")
	require.NotNil(t, s)
	// multi-word targets flatten to their correct words, no error kept
	assert.Equal(t, []string{"<s>", "he", "eats", "a", "lot", "</s>"}, s.CorrectWords())
	assert.Equal(t, -1, s.ErrorIndex())
}

func TestParseLineMultiTokenObserved(t *testing.T) {
	s := ParseLine("we go <err targ=sometimes> some times </err>")
	require.NotNil(t, s)
	assert.Equal(t, []string{"<s>", "we", "go", "sometimes", "</s>"}, s.CorrectWords())
	assert.Equal(t, -1, s.ErrorIndex())
}

func TestParseLineBlank(t *testing.T) {
	assert.Nil(t, ParseLine("   "))
	assert.Nil(t, ParseLine(`"...!"`))
}

func TestNewCorpusAggregates(t *testing.T) {
	c, err := NewCorpus([]Sentence{
		ParseLine("I am Australian"),
		ParseLine("I love Australia"),
	})
	require.NoError(t, err)

	assert.Equal(t, 10, c.TokenCount)
	assert.Len(t, c.Vocab, 7)
	assert.Equal(t, 2, c.Unigrams["i"])
	assert.Equal(t, 2, c.Unigrams[SentenceStart])
	assert.Equal(t, 1, c.Unigrams["love"])
	assert.Equal(t, 2, c.Bigrams[Bigram{SentenceStart, "i"}])
	assert.Equal(t, 1, c.Bigrams[Bigram{"i", "love"}])
	assert.Equal(t, 1, c.Bigrams[Bigram{"australia", SentenceEnd}])
	assert.True(t, c.Vocab[SentenceEnd])
}

func TestNewCorpusEmpty(t *testing.T) {
	_, err := NewCorpus(nil)
	assert.Error(t, err)
}

func TestLoadCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.dat")
	content := "I love Australia\n\nI have <err targ=four> fuor </err> cats.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := LoadCorpus(path)
	require.NoError(t, err)
	assert.Len(t, c.Sentences, 2)
	assert.True(t, c.Vocab["four"])
	assert.False(t, c.Vocab["fuor"])
}

func TestGenerateTestCases(t *testing.T) {
	c, err := NewCorpus([]Sentence{
		ParseLine("I have <err targ=four> fuor </err> cats"),    // distance 1, eligible
		ParseLine("she was <err targ=happy> hppay </err> then"), // distance 2, not eligible
	})
	require.NoError(t, err)

	cases := c.GenerateTestCases()
	require.Len(t, cases, 1)
	inputs, gold := TestPairs(cases)
	assert.Equal(t, []string{"<s>", "i", "have", "fuor", "cats", "</s>"}, inputs[0])
	assert.Equal(t, []string{"<s>", "i", "have", "four", "cats", "</s>"}, gold[0])
}

func TestEntryIsValidTest(t *testing.T) {
	assert.True(t, Entry{Word: "four", Error: "fuor"}.IsValidTest())
	assert.False(t, Entry{Word: "four"}.IsValidTest())
	assert.False(t, Entry{Word: "happy", Error: "hppay"}.IsValidTest())
	assert.False(t, Entry{Word: "four", Error: "fu0r"}.IsValidTest())
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, EditDistance("love", "love"))
	assert.Equal(t, 1, EditDistance("love", "lvoe"))
	assert.Equal(t, 1, EditDistance("love", "lov"))
	assert.Equal(t, 1, EditDistance("love", "loves"))
	assert.Equal(t, 1, EditDistance("love", "dove"))
	assert.Equal(t, 2, EditDistance("love", "lv"))
	assert.Equal(t, 4, EditDistance("", "love"))
}

func TestTokenizeNormalization(t *testing.T) {
	assert.Equal(t, []string{"dont", "shout"}, Tokenize("  Don't  SHOUT!  "))
	assert.Empty(t, Tokenize(""))
}
