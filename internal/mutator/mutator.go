package mutator

// MutationResult wraps the result of a mutation pass
type MutationResult struct {
	Original []byte
	Mutated  []byte
	Rounds   int
}

// Mangler runs mutation passes over caller-supplied byte slices. It owns a
// candidate buffer of capacity MaxFileSize that is reused between calls,
// so a Mangler must not be shared between goroutines.
type Mangler struct {
	cfg  Config
	dict Dictionary
	rng  RNG
	cand *Candidate
}

// NewMangler creates a Mangler. A nil rng is replaced with a crypto-seeded one.
func NewMangler(cfg Config, dict Dictionary, rng RNG) (*Mangler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewSeededRNG()
	}
	return &Mangler{
		cfg:  cfg,
		dict: dict,
		rng:  rng,
		cand: &Candidate{Buf: make([]byte, cfg.MaxFileSize)},
	}, nil
}

// Config returns the mangler's configuration
func (m *Mangler) Config() Config {
	return m.cfg
}

// MutateResult mangles a copy of input. Input longer than MaxFileSize is
// truncated first.
func (m *Mangler) MutateResult(input []byte) (*MutationResult, error) {
	m.cand.Load(input)

	rounds, err := MangleContent(m.rng, m.cand, m.cfg, m.dict)
	if err != nil {
		return nil, err
	}

	return &MutationResult{
		Original: input,
		Mutated:  m.cand.Clone(),
		Rounds:   rounds,
	}, nil
}
