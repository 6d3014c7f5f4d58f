// Package adapter exposes every algorithm behind the same single-argument
// entry point, so the trial runner never deals with per-algorithm calling
// conventions.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/programme-lv/algobench/internal/algorithms"
	"github.com/programme-lv/algobench/internal/workload"
)

var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Func runs an algorithm against a prepared input. Sorts mutate in.Values.
type Func func(ctx context.Context, in *workload.Input) (any, error)

type Descriptor struct {
	// Key identifies the algorithm in configuration files and flags.
	Key string
	// Name is the human readable label used in charts.
	Name string
	Kind workload.Kind
	// Mutates is set when Invoke rearranges the input in place.
	Mutates bool
	Invoke  Func
}

var registry = []Descriptor{
	{
		Key:     "insertion",
		Name:    "Insertion Sort",
		Kind:    workload.KindSort,
		Mutates: true,
		Invoke:  sortFunc(algorithms.InsertionSort),
	},
	{
		Key:     "quick",
		Name:    "Quick Sort",
		Kind:    workload.KindSort,
		Mutates: true,
		Invoke:  sortFunc(algorithms.QuickSort),
	},
	{
		Key:     "selection",
		Name:    "Selection Sort",
		Kind:    workload.KindSort,
		Mutates: true,
		Invoke:  sortFunc(algorithms.SelectionSort),
	},
	{
		Key:  "linear",
		Name: "Linear Search",
		Kind: workload.KindSearch,
		Invoke: func(_ context.Context, in *workload.Input) (any, error) {
			return algorithms.LinearSearch(in.Values, in.Target), nil
		},
	},
	{
		Key:  "binary",
		Name: "Binary Search",
		Kind: workload.KindSearch,
		Invoke: func(_ context.Context, in *workload.Input) (any, error) {
			return algorithms.BinarySearch(in.Sorted, in.Target), nil
		},
	},
	{
		Key:  "fib-iterative",
		Name: "Iterative Fibonacci",
		Kind: workload.KindSequence,
		Invoke: func(_ context.Context, in *workload.Input) (any, error) {
			return algorithms.FibIterative(in.N), nil
		},
	},
	{
		Key:  "fib-recursive",
		Name: "Recursive Fibonacci",
		Kind: workload.KindSequence,
		Invoke: func(ctx context.Context, in *workload.Input) (any, error) {
			return algorithms.FibRecursive(ctx, in.N)
		},
	},
}

func sortFunc(sortFn func(context.Context, []int) error) Func {
	return func(ctx context.Context, in *workload.Input) (any, error) {
		return nil, sortFn(ctx, in.Values)
	}
}

// All returns every registered descriptor in registration order.
func All() []Descriptor {
	return slices.Clone(registry)
}

// Lookup finds a descriptor by key.
func Lookup(key string) (Descriptor, error) {
	for _, d := range registry {
		if d.Key == key {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, key)
}

// LookupAll resolves keys in order.
func LookupAll(keys []string) ([]Descriptor, error) {
	res := make([]Descriptor, 0, len(keys))
	for _, key := range keys {
		d, err := Lookup(key)
		if err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, nil
}

// ForKind returns the descriptors that accept inputs of the given kind.
func ForKind(kind workload.Kind) []Descriptor {
	var res []Descriptor
	for _, d := range registry {
		if d.Kind == kind {
			res = append(res, d)
		}
	}
	return res
}
