package options

// DefaultOptions favors leaving words untouched: the identity edit carries a
// pseudo-count large enough to dominate unless the confusion table and the
// language model both point at an alternative.
var DefaultOptions = CorrectorOptions{
	SelfEditCount: 100,
	Alphabet:      "abcdefghijklmnopqrstuvwxyz",
	Workers:       4,
}

type CorrectorOptions struct {
	SelfEditCount int    // pseudo-count injected for the identity edit
	Alphabet      string // letters tried for insertions and substitutions
	Workers       int    // evaluation shards
}

type Options interface {
	Apply(options *CorrectorOptions)
}

type FuncConfig struct {
	ops func(options *CorrectorOptions)
}

func (w FuncConfig) Apply(conf *CorrectorOptions) {
	w.ops(conf)
}

func NewFuncOption(f func(options *CorrectorOptions)) *FuncConfig {
	return &FuncConfig{ops: f}
}

func WithSelfEditCount(count int) Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		options.SelfEditCount = count
	})
}

func WithAlphabet(alphabet string) Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		options.Alphabet = alphabet
	})
}

func WithWorkers(workers int) Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		options.Workers = workers
	})
}

// Resolve applies opts on top of the defaults.
func Resolve(opts ...Options) CorrectorOptions {
	conf := DefaultOptions
	for _, o := range opts {
		o.Apply(&conf)
	}
	return conf
}
