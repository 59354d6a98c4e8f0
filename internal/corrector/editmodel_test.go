package corrector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellcorrect/pkg/options"
)

func testVocab() map[string]bool {
	vocab := make(map[string]bool)
	for _, w := range []string{"love", "lobe", "loves", "glove", "live", "ove", "dove", "i", "australia"} {
		vocab[w] = true
	}
	return vocab
}

func testEntries() []ConfusionEntry {
	return []ConfusionEntry{
		{Observed: "v", Intended: "ve", Count: 50},
		{Observed: "o", Intended: "e", Count: 10},
		{Observed: "lo", Intended: "l", Count: 5},
	}
}

func TestCandidatesWithinOneEdit(t *testing.T) {
	m, err := NewChannelModel(testEntries(), testVocab())
	require.NoError(t, err)

	for _, word := range []string{"lov", "love", "gove", "xzq"} {
		for _, c := range m.Candidates(word) {
			if c.Word == word {
				continue
			}
			assert.Equal(t, 1, EditDistance(word, c.Word), "candidate %q for %q", c.Word, word)
		}
	}
}

func TestCandidatesRestrictedToVocabulary(t *testing.T) {
	vocab := testVocab()
	m, err := NewChannelModel(testEntries(), vocab)
	require.NoError(t, err)

	for _, c := range m.Candidates("lov") {
		if c.Word == "lov" {
			continue
		}
		assert.True(t, vocab[c.Word], "candidate %q not in vocabulary", c.Word)
	}
}

func TestCandidatesIncludeIdentity(t *testing.T) {
	m, err := NewChannelModel(testEntries(), testVocab())
	require.NoError(t, err)

	// identity is present even when the word itself is out of vocabulary
	for _, word := range []string{"love", "lov", "xzq"} {
		found := false
		for _, c := range m.Candidates(word) {
			if c.Word == word {
				found = true
				assert.Positive(t, c.Prob)
			}
		}
		assert.True(t, found, "identity candidate missing for %q", word)
	}
}

func TestCandidateProbabilitiesSumToOne(t *testing.T) {
	m, err := NewChannelModel(testEntries(), testVocab())
	require.NoError(t, err)

	for _, word := range []string{"lov", "love", "xzq"} {
		sum := 0.0
		for _, c := range m.Candidates(word) {
			assert.Positive(t, c.Prob)
			sum += c.Prob
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "word %q", word)
	}
}

func TestIdentityDominatesByDefault(t *testing.T) {
	m, err := NewChannelModel(testEntries(), testVocab())
	require.NoError(t, err)

	cands := m.Candidates("love")
	var identity, best float64
	for _, c := range cands {
		if c.Word == "love" {
			identity = c.Prob
		} else if c.Prob > best {
			best = c.Prob
		}
	}
	assert.Greater(t, identity, best)
}

func TestSelfEditCountOption(t *testing.T) {
	weak, err := NewChannelModel(testEntries(), testVocab(), options.WithSelfEditCount(1))
	require.NoError(t, err)
	strong, err := NewChannelModel(testEntries(), testVocab(), options.WithSelfEditCount(1000))
	require.NoError(t, err)

	identityProb := func(m *ChannelModel, word string) float64 {
		for _, c := range m.Candidates(word) {
			if c.Word == word {
				return c.Prob
			}
		}
		return 0
	}
	assert.Less(t, identityProb(weak, "love"), identityProb(strong, "love"))
}

func TestUnseenPatternStillPositive(t *testing.T) {
	m, err := NewChannelModel([]ConfusionEntry{{Observed: "q", Intended: "z", Count: 1}}, testVocab())
	require.NoError(t, err)

	// no pattern involving "lov" edits is in the table, add-one keeps them alive
	for _, c := range m.Candidates("lov") {
		assert.Positive(t, c.Prob)
	}
}

func TestNewChannelModelConfiguration(t *testing.T) {
	_, err := NewChannelModel(nil, testVocab())
	assert.Error(t, err)
	_, err = NewChannelModel(testEntries(), nil)
	assert.Error(t, err)
	_, err = NewChannelModel(testEntries(), testVocab(), options.WithSelfEditCount(0))
	assert.Error(t, err)
	_, err = NewChannelModel(testEntries(), testVocab(), options.WithAlphabet(""))
	assert.Error(t, err)
}

func TestParseConfusionLine(t *testing.T) {
	e, ok := parseConfusionLine("da|d\t13")
	require.True(t, ok)
	assert.Equal(t, ConfusionEntry{Observed: "da", Intended: "d", Count: 13}, e)

	for _, line := range []string{"da|d", "dad\t13", "da|d\tx", "da|d\t-1"} {
		_, ok := parseConfusionLine(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestLoadConfusionTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "count_1edit.txt")
	content := "da|d\t13\nmalformed line\ne|i\t7\n\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := LoadConfusionTable(path)
	require.NoError(t, err)
	assert.Equal(t, []ConfusionEntry{
		{Observed: "da", Intended: "d", Count: 13},
		{Observed: "e", Intended: "i", Count: 7},
	}, entries)
}
