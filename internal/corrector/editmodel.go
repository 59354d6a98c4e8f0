package corrector

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/edsrzf/mmap-go"

	"spellcorrect/pkg/options"
)

// ConfusionEntry is one observed single-edit substring pattern with its
// frequency. The observed side is what was typed, the intended side what the
// writer meant, so `da|d` records an inserted 'a' after 'd'.
type ConfusionEntry struct {
	Observed string
	Intended string
	Count    int
}

// wordStart is the left-context sentinel for edits at position 0.
const wordStart = '<'

// EditCandidate pairs a vocabulary word one edit away from the observed word
// with its channel probability.
type EditCandidate struct {
	Word string
	Prob float64
}

// ChannelModel estimates P(observed|candidate) for single edits from a
// confusion table. Immutable after construction, safe for concurrent reads.
type ChannelModel struct {
	counts    map[string]int
	vocab     map[string]bool
	alphabet  []rune
	selfCount int
}

// NewChannelModel builds the edit-count table. Missing inputs are fatal here
// rather than producing a model that silently scores everything alike.
func NewChannelModel(entries []ConfusionEntry, vocab map[string]bool, opts ...options.Options) (*ChannelModel, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("channel model: empty confusion table")
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("channel model: empty vocabulary")
	}
	conf := options.Resolve(opts...)
	if conf.SelfEditCount <= 0 {
		return nil, fmt.Errorf("channel model: self edit count must be positive, got %d", conf.SelfEditCount)
	}
	if conf.Alphabet == "" {
		return nil, fmt.Errorf("channel model: empty alphabet")
	}
	m := &ChannelModel{
		counts:    make(map[string]int, len(entries)),
		vocab:     vocab,
		alphabet:  []rune(conf.Alphabet),
		selfCount: conf.SelfEditCount,
	}
	for _, e := range entries {
		m.counts[editKey(e.Observed, e.Intended)] += e.Count
	}
	return m, nil
}

func editKey(observed, intended string) string {
	return observed + "|" + intended
}

// InVocab reports training-vocabulary membership.
func (m *ChannelModel) InVocab(word string) bool { return m.vocab[word] }

// Candidates enumerates every vocabulary word reachable from the observed
// word by exactly one deletion, insertion, substitution or adjacent
// transposition, plus the identity candidate carrying the self count.
// Counts are add-one smoothed and normalized over the returned set, so the
// probabilities sum to 1. The result is sorted by word for deterministic
// downstream iteration.
func (m *ChannelModel) Candidates(word string) []EditCandidate {
	rw := []rune(word)
	weights := make(map[string]int)
	total := m.selfCount

	add := func(cand, key string) {
		if cand == word || !m.vocab[cand] {
			return
		}
		w := m.counts[key] + 1
		weights[cand] += w
		total += w
	}
	prev := func(i int) rune {
		if i == 0 {
			return wordStart
		}
		return rw[i-1]
	}

	buf := make([]rune, 0, len(rw)+1)

	// the typist inserted rw[i]
	for i := 0; i < len(rw); i++ {
		buf = append(append(buf[:0], rw[:i]...), rw[i+1:]...)
		add(string(buf), editKey(string([]rune{prev(i), rw[i]}), string(prev(i))))
	}
	// the typist dropped a letter before position i
	for i := 0; i <= len(rw); i++ {
		for _, c := range m.alphabet {
			buf = append(buf[:0], rw[:i]...)
			buf = append(buf, c)
			buf = append(buf, rw[i:]...)
			add(string(buf), editKey(string(prev(i)), string([]rune{prev(i), c})))
		}
	}
	// the typist substituted rw[i] for the intended letter
	for i := 0; i < len(rw); i++ {
		for _, c := range m.alphabet {
			if c == rw[i] {
				continue
			}
			buf = append(buf[:0], rw...)
			buf[i] = c
			add(string(buf), editKey(string(rw[i]), string(c)))
		}
	}
	// the typist swapped adjacent letters
	for i := 0; i+1 < len(rw); i++ {
		if rw[i] == rw[i+1] {
			continue
		}
		buf = append(buf[:0], rw...)
		buf[i], buf[i+1] = buf[i+1], buf[i]
		add(string(buf), editKey(string([]rune{rw[i], rw[i+1]}), string([]rune{rw[i+1], rw[i]})))
	}

	denom := float64(total)
	cands := make([]EditCandidate, 0, len(weights)+1)
	for w, cnt := range weights {
		cands = append(cands, EditCandidate{Word: w, Prob: float64(cnt) / denom})
	}
	cands = append(cands, EditCandidate{Word: word, Prob: float64(m.selfCount) / denom})
	sort.Slice(cands, func(i, j int) bool { return cands[i].Word < cands[j].Word })
	return cands
}

// LoadConfusionTable memory-maps a `pattern<TAB>count` file where pattern is
// `observed|intended`. Malformed lines are skipped with a warning.
func LoadConfusionTable(path string) ([]ConfusionEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("confusion table: open %s: %w", path, err)
	}
	defer f.Close()
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("confusion table: mmap %s: %w", path, err)
	}
	defer m.Unmap()

	var entries []ConfusionEntry
	lineNo := 0
	sc := bufio.NewScanner(bytes.NewReader(m))
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		e, ok := parseConfusionLine(line)
		if !ok {
			log.Printf("confusion table: skipping malformed line %d: %q", lineNo, line)
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("confusion table: read %s: %w", path, err)
	}
	return entries, nil
}

func parseConfusionLine(line string) (ConfusionEntry, bool) {
	pattern, countField, ok := strings.Cut(line, "\t")
	if !ok {
		return ConfusionEntry{}, false
	}
	observed, intended, ok := strings.Cut(pattern, "|")
	if !ok {
		return ConfusionEntry{}, false
	}
	count, err := strconv.Atoi(strings.TrimSpace(countField))
	if err != nil || count < 0 {
		return ConfusionEntry{}, false
	}
	return ConfusionEntry{Observed: observed, Intended: intended, Count: count}, true
}
