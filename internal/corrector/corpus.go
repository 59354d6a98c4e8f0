package corrector

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/text/unicode/norm"
)

// Sentence boundary markers. They are ordinary vocabulary members and take
// part in all counts, so bigram contexts at the edges are well-defined.
const (
	SentenceStart = "<s>"
	SentenceEnd   = "</s>"
)

// Entry is one corpus token together with the misspelling observed for it,
// if any. A zero Error means the token was written correctly.
type Entry struct {
	Word  string
	Error string
}

func (e Entry) HasError() bool { return e.Error != "" }

// IsValidTest reports whether the entry can serve as a test case: the error
// must be purely alphabetic on both sides and exactly one edit away.
func (e Entry) IsValidTest() bool {
	if !e.HasError() {
		return false
	}
	if !isAlpha(e.Word) || !isAlpha(e.Error) {
		return false
	}
	return EditDistance(e.Word, e.Error) == 1
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// Sentence is an ordered sequence of entries, including boundary markers.
type Sentence []Entry

// CorrectWords returns the sentence with every error fixed.
func (s Sentence) CorrectWords() []string {
	out := make([]string, len(s))
	for i, e := range s {
		out[i] = e.Word
	}
	return out
}

// ErrorWords returns the sentence as written, errors included.
func (s Sentence) ErrorWords() []string {
	out := make([]string, len(s))
	for i, e := range s {
		if e.HasError() {
			out[i] = e.Error
		} else {
			out[i] = e.Word
		}
	}
	return out
}

// ErrorIndex returns the index of the first error, or -1.
func (s Sentence) ErrorIndex() int {
	for i, e := range s {
		if e.HasError() {
			return i
		}
	}
	return -1
}

// Clean returns a copy of the sentence with all errors removed.
func (s Sentence) Clean() Sentence {
	out := make(Sentence, len(s))
	for i, e := range s {
		out[i] = Entry{Word: e.Word}
	}
	return out
}

// Bigram is an ordered pair of adjacent tokens.
type Bigram [2]string

// Corpus holds the training sentences and the aggregates derived from their
// corrected forms. Built once, never mutated afterwards.
type Corpus struct {
	Sentences  []Sentence
	Unigrams   map[string]int
	Bigrams    map[Bigram]int
	Vocab      map[string]bool
	TokenCount int
}

// NewCorpus builds a corpus from already-parsed sentences. An empty corpus is
// a configuration error: every model built over it would be meaningless.
func NewCorpus(sentences []Sentence) (*Corpus, error) {
	if len(sentences) == 0 {
		return nil, fmt.Errorf("corpus: no sentences")
	}
	c := &Corpus{
		Sentences: sentences,
		Unigrams:  make(map[string]int),
		Bigrams:   make(map[Bigram]int),
		Vocab:     make(map[string]bool),
	}
	for _, s := range sentences {
		words := s.CorrectWords()
		for i, w := range words {
			c.Unigrams[w]++
			c.Vocab[w] = true
			c.TokenCount++
			if i > 0 {
				c.Bigrams[Bigram{words[i-1], w}]++
			}
		}
	}
	return c, nil
}

// LoadCorpus memory-maps the corpus file and parses it line by line.
func LoadCorpus(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %s: %w", path, err)
	}
	defer f.Close()
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("corpus: mmap %s: %w", path, err)
	}
	defer m.Unmap()

	var sentences []Sentence
	sc := bufio.NewScanner(bytes.NewReader(m))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if s := ParseLine(sc.Text()); s != nil {
			sentences = append(sentences, s)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("corpus: read %s: %w", path, err)
	}
	return NewCorpus(sentences)
}

var punctReplacer = strings.NewReplacer(`"`, "", ",", "", ".", "", "!", "", "'", "", ":", "", ";", "")

// Tokenize applies the fixed normalization policy: NFKC, lowercase, strip
// `",.!':;` and split on whitespace. Vocabulary membership and every
// probability in the system depend on this policy staying fixed.
func Tokenize(line string) []string {
	line = norm.NFKC.String(strings.TrimSpace(line))
	line = punctReplacer.Replace(strings.ToLower(line))
	return strings.Fields(line)
}

// ParseLine turns one corpus line into a sentence wrapped in boundary
// markers. Error annotations of the form
//
//	<err targ=correct> wrong </err>
//
// become entries carrying both the correct word and the observed error.
// Multi-word targets are flattened to their correct words, and spans whose
// observed side is not a single token keep the correct word only. Returns nil
// for blank lines.
func ParseLine(line string) Sentence {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return nil
	}

	s := Sentence{{Word: SentenceStart}}
	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		if tok != "<err" {
			s = append(s, Entry{Word: tok})
			i++
			continue
		}
		end := -1
		for j := i + 1; j < len(tokens); j++ {
			if tokens[j] == "</err>" {
				end = j
				break
			}
		}
		if end == -1 {
			// unterminated annotation, drop the tag token
			i++
			continue
		}
		targEnd := i + 1
		for targEnd < end && !strings.HasSuffix(tokens[targEnd], ">") {
			targEnd++
		}
		if targEnd >= end {
			// no target inside the annotation, drop the whole span
			i = end + 1
			continue
		}
		targ := strings.Join(tokens[i+1:targEnd+1], " ")
		targ = strings.TrimPrefix(targ, "targ=")
		targ = strings.TrimSuffix(targ, ">")
		observed := tokens[targEnd+1 : end]
		words := strings.Fields(targ)
		switch {
		case len(words) > 1:
			for _, w := range words {
				s = append(s, Entry{Word: w})
			}
		case len(words) == 1 && len(observed) == 1:
			s = append(s, Entry{Word: words[0], Error: observed[0]})
		case len(words) == 1:
			s = append(s, Entry{Word: words[0]})
		}
		i = end + 1
	}
	s = append(s, Entry{Word: SentenceEnd})
	if len(s) == 2 {
		return nil
	}
	return s
}

// GenerateTestCases returns one sentence per eligible error: the clean
// sentence with that single error re-applied. Each is exactly one edit away
// from its corrected form.
func (c *Corpus) GenerateTestCases() []Sentence {
	var cases []Sentence
	for _, s := range c.Sentences {
		clean := s.Clean()
		for i, e := range s {
			if e.HasError() && e.IsValidTest() {
				t := clean.Clean()
				t[i] = e
				cases = append(cases, t)
			}
		}
	}
	return cases
}

// TestPairs splits test cases into decoder inputs and gold references.
func TestPairs(cases []Sentence) (inputs, gold [][]string) {
	inputs = make([][]string, len(cases))
	gold = make([][]string, len(cases))
	for i, s := range cases {
		inputs[i] = s.ErrorWords()
		gold[i] = s.CorrectWords()
	}
	return inputs, gold
}
