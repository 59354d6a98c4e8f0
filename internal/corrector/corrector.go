package corrector

import (
	"fmt"
	"log"
	"math"
	"sync"

	"spellcorrect/internal/customdict"
	"spellcorrect/pkg/options"
)

// SpellCorrector combines the channel model with a language model and picks
// the most probable correction for a sentence with one misspelled word.
//
// Target policy: Correct fixes the first out-of-vocabulary alphabetic token;
// callers that know the error position use CorrectAt. Custom words count as
// in-vocabulary but are never proposed as corrections.
type SpellCorrector struct {
	config      options.CorrectorOptions
	channel     *ChannelModel
	lm          LanguageModel
	dict        *customdict.CustomDict
	mu          sync.RWMutex
	customWords map[string]bool
}

// NewSpellCorrector wires the two models together. dict may be nil when no
// custom dictionary store is configured.
func NewSpellCorrector(channel *ChannelModel, lm LanguageModel, dict *customdict.CustomDict, opts ...options.Options) (*SpellCorrector, error) {
	if channel == nil {
		return nil, fmt.Errorf("corrector: nil channel model")
	}
	if lm == nil {
		return nil, fmt.Errorf("corrector: nil language model")
	}
	sc := &SpellCorrector{
		config:      options.Resolve(opts...),
		channel:     channel,
		lm:          lm,
		dict:        dict,
		customWords: make(map[string]bool),
	}
	sc.loadCustomWords()
	return sc, nil
}

func (sc *SpellCorrector) loadCustomWords() {
	if sc.dict == nil {
		return
	}
	words, err := sc.dict.All()
	if err != nil {
		log.Printf("corrector: could not load custom words: %v", err)
		return
	}
	for _, w := range words {
		sc.customWords[w] = true
	}
}

// AddCustomWord marks a word as in-vocabulary, persisting it when a store is
// configured.
func (sc *SpellCorrector) AddCustomWord(word string) error {
	if sc.dict != nil {
		if err := sc.dict.Add(word); err != nil {
			return err
		}
	}
	sc.mu.Lock()
	sc.customWords[word] = true
	sc.mu.Unlock()
	return nil
}

// RemoveCustomWord undoes AddCustomWord.
func (sc *SpellCorrector) RemoveCustomWord(word string) error {
	if sc.dict != nil {
		if err := sc.dict.Remove(word); err != nil {
			return err
		}
	}
	sc.mu.Lock()
	delete(sc.customWords, word)
	sc.mu.Unlock()
	return nil
}

func (sc *SpellCorrector) inVocab(w string) bool {
	if sc.channel.InVocab(w) {
		return true
	}
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.customWords[w]
}

// Correct returns the sentence with its first out-of-vocabulary token
// replaced by the highest-scoring single-edit candidate. Sentences whose
// tokens are all known come back unchanged. The output always has the same
// length as the input.
func (sc *SpellCorrector) Correct(sentence []string) []string {
	for i, tok := range sentence {
		if isAlpha(tok) && !sc.inVocab(tok) {
			return sc.CorrectAt(sentence, i)
		}
	}
	out := make([]string, len(sentence))
	copy(out, sentence)
	return out
}

// CorrectAt evaluates correction candidates for the designated position. The
// combined score is the language-model log-probability of the rewritten
// sentence plus the log edit probability. The unedited sentence wins all
// ties, and ties between distinct candidates fall to the lexicographically
// smaller word, so the result is deterministic. An out-of-range position
// returns the sentence unchanged.
func (sc *SpellCorrector) CorrectAt(sentence []string, pos int) []string {
	out := make([]string, len(sentence))
	copy(out, sentence)
	if pos < 0 || pos >= len(sentence) {
		return out
	}
	word := sentence[pos]
	cands := sc.channel.Candidates(word)

	buf := make([]string, len(sentence))
	copy(buf, sentence)

	origScore := math.Inf(-1)
	bestScore := math.Inf(-1)
	bestWord := ""
	for _, c := range cands {
		buf[pos] = c.Word
		score := sc.lm.Score(buf) + math.Log(c.Prob)
		if c.Word == word {
			origScore = score
			continue
		}
		// candidates arrive sorted, so strict improvement keeps the
		// lexicographically smallest word on ties
		if score > bestScore {
			bestScore = score
			bestWord = c.Word
		}
	}
	if bestWord != "" && bestScore > origScore {
		out[pos] = bestWord
	}
	return out
}

// Evaluate runs Correct over every input sentence and compares the output
// token-for-token against the gold reference. Sentences are sharded across
// workers; the models are read-only shared state and each shard keeps its
// own partial count, merged at the end. A panic while correcting one
// sentence is recovered and counted as incorrect, never propagated.
func (sc *SpellCorrector) Evaluate(inputs, gold [][]string) (SpellingResult, error) {
	if len(inputs) != len(gold) {
		return SpellingResult{}, fmt.Errorf("corrector: %d inputs vs %d gold sentences", len(inputs), len(gold))
	}
	if len(inputs) == 0 {
		return SpellingResult{}, nil
	}
	workers := sc.config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	partial := make([]int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < len(inputs); i += workers {
				if out := sc.correctSafe(inputs[i]); out != nil && equalTokens(out, gold[i]) {
					partial[w]++
				}
			}
		}(w)
	}
	wg.Wait()

	correct := 0
	for _, p := range partial {
		correct += p
	}
	return SpellingResult{Correct: correct, Total: len(inputs)}, nil
}

func (sc *SpellCorrector) correctSafe(sentence []string) (out []string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("corrector: recovered while correcting %v: %v", sentence, r)
			out = nil
		}
	}()
	return sc.Correct(sentence)
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
