package workload

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Kind selects the shape of a prepared input.
type Kind string

const (
	KindSort     Kind = "sort"
	KindSearch   Kind = "search"
	KindSequence Kind = "sequence"
)

// DefaultSpread makes values range over [0, 10*N).
const DefaultSpread = 10

var (
	ErrNegativeSize   = errors.New("input size must not be negative")
	ErrSampleTooLarge = errors.New("sample size exceeds value population")
	ErrUnknownKind    = errors.New("unknown workload kind")
)

// ParseKind validates s as a workload kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindSort, KindSearch, KindSequence:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Input is the concrete data one trial runs against.
type Input struct {
	Kind Kind
	N    int

	// Values is the unsorted sequence (sort and search kinds).
	Values []int
	// Sorted holds the same elements as Values in ascending order (search kind).
	Sorted []int

	// Target is an element of Values when HasTarget is set.
	Target    int
	HasTarget bool
}

// Clone returns a deep copy that shares no backing arrays with in.
func (in *Input) Clone() *Input {
	if in == nil {
		return nil
	}
	c := *in
	c.Values = slices.Clone(in.Values)
	c.Sorted = slices.Clone(in.Sorted)
	return &c
}

// Generator builds fresh inputs for every call. It is not safe for
// concurrent use.
type Generator struct {
	spread int
	rng    *rand.Rand
}

// NewGenerator returns a generator drawing values from [0, spread*N).
// A spread below 1 is kept as is and makes sized inputs fail with
// ErrSampleTooLarge.
func NewGenerator(spread int) *Generator {
	return &Generator{
		spread: spread,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Prepare builds a new input of the given kind and size.
func (g *Generator) Prepare(kind Kind, n int) (*Input, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeSize, n)
	}

	switch kind {
	case KindSort:
		values, err := g.uniform(n)
		if err != nil {
			return nil, err
		}
		return &Input{Kind: kind, N: n, Values: values}, nil
	case KindSearch:
		values, err := g.sample(n)
		if err != nil {
			return nil, err
		}
		in := &Input{Kind: kind, N: n, Values: values, Sorted: slices.Sorted(slices.Values(values))}
		if n > 0 {
			in.Target = values[g.rng.IntN(n)]
			in.HasTarget = true
		}
		return in, nil
	case KindSequence:
		return &Input{Kind: kind, N: n}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func (g *Generator) population(n int) (int, error) {
	if n == 0 {
		return 0, nil
	}
	if g.spread < 1 {
		return 0, fmt.Errorf("%w: n=%d, spread=%d", ErrSampleTooLarge, n, g.spread)
	}
	if n > math.MaxInt/g.spread {
		return 0, fmt.Errorf("population overflows int: n=%d, spread=%d", n, g.spread)
	}
	return n * g.spread, nil
}

// uniform draws n values with replacement.
func (g *Generator) uniform(n int) ([]int, error) {
	pop, err := g.population(n)
	if err != nil {
		return nil, err
	}
	values := make([]int, n)
	for i := range values {
		values[i] = g.rng.IntN(pop)
	}
	return values, nil
}

// sample draws n distinct values in random order.
func (g *Generator) sample(n int) ([]int, error) {
	pop, err := g.population(n)
	if err != nil {
		return nil, err
	}
	if pop < n {
		return nil, fmt.Errorf("%w: n=%d, population=%d", ErrSampleTooLarge, n, pop)
	}

	// dense populations would make rejection sampling crawl
	if pop <= 2*n {
		return g.rng.Perm(pop)[:n], nil
	}

	seen := mapset.NewThreadUnsafeSetWithSize[int](n)
	values := make([]int, 0, n)
	for len(values) < n {
		v := g.rng.IntN(pop)
		if seen.Add(v) {
			values = append(values, v)
		}
	}
	return values, nil
}
