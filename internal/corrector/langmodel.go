package corrector

import (
	"fmt"
	"math"
)

// LanguageModel scores a word sequence with its log-probability. Scoring is
// deterministic and side-effect-free; models are immutable after
// construction and safe for concurrent use.
type LanguageModel interface {
	Score(sentence []string) float64
}

// UniformModel assigns every vocabulary word the same probability.
type UniformModel struct {
	logWordProb float64
}

func NewUniformModel(c *Corpus) (*UniformModel, error) {
	if c == nil || len(c.Vocab) == 0 {
		return nil, fmt.Errorf("uniform model: empty vocabulary")
	}
	return &UniformModel{logWordProb: -math.Log(float64(len(c.Vocab)))}, nil
}

func (m *UniformModel) Score(sentence []string) float64 {
	return float64(len(sentence)) * m.logWordProb
}

// LaplaceUnigramModel scores tokens independently with add-one smoothed
// unigram probabilities. Out-of-vocabulary tokens get the zero-count
// estimate, never a zero probability.
type LaplaceUnigramModel struct {
	counts    map[string]int
	logDenom  float64
	vocabSize int
}

func NewLaplaceUnigramModel(c *Corpus) (*LaplaceUnigramModel, error) {
	if c == nil || len(c.Vocab) == 0 {
		return nil, fmt.Errorf("unigram model: empty vocabulary")
	}
	return &LaplaceUnigramModel{
		counts:    c.Unigrams,
		logDenom:  math.Log(float64(c.TokenCount + len(c.Vocab))),
		vocabSize: len(c.Vocab),
	}, nil
}

func (m *LaplaceUnigramModel) Score(sentence []string) float64 {
	score := 0.0
	for _, w := range sentence {
		score += math.Log(float64(m.counts[w]+1)) - m.logDenom
	}
	return score
}

// LaplaceBigramModel scores adjacent token pairs with add-one smoothing,
// conditioning each token on its predecessor. Sentences are wrapped in
// boundary markers unless the caller already supplied them, so the markers
// are always part of the conditioning contexts.
type LaplaceBigramModel struct {
	bigrams   map[Bigram]int
	unigrams  map[string]int
	vocabSize int
}

func NewLaplaceBigramModel(c *Corpus) (*LaplaceBigramModel, error) {
	if c == nil || len(c.Vocab) == 0 {
		return nil, fmt.Errorf("bigram model: empty vocabulary")
	}
	return &LaplaceBigramModel{
		bigrams:   c.Bigrams,
		unigrams:  c.Unigrams,
		vocabSize: len(c.Vocab),
	}, nil
}

func (m *LaplaceBigramModel) Score(sentence []string) float64 {
	if len(sentence) == 0 {
		return 0
	}
	score := 0.0
	prev := SentenceStart
	if sentence[0] == SentenceStart {
		sentence = sentence[1:]
	}
	for _, w := range sentence {
		score += m.logProb(prev, w)
		prev = w
	}
	if prev != SentenceEnd {
		score += m.logProb(prev, SentenceEnd)
	}
	return score
}

func (m *LaplaceBigramModel) logProb(prev, w string) float64 {
	num := float64(m.bigrams[Bigram{prev, w}] + 1)
	den := float64(m.unigrams[prev] + m.vocabSize)
	return math.Log(num) - math.Log(den)
}
