// Package algorithms holds the algorithms under measurement.
//
// Every long-running function takes a context and gives up with ctx.Err()
// once it is done. The checks are spaced out so that they do not show up in
// the measurements.
package algorithms

import (
	"context"
	"math/rand/v2"
)

// checkEvery is the number of outer iterations between context checks in the
// quadratic sorts.
const checkEvery = 256

// partitionCheckLen is the smallest range quick sort checks the context on.
const partitionCheckLen = 1024

// InsertionSort sorts a in place by swapping each element left into position.
func InsertionSort(ctx context.Context, a []int) error {
	for i := 1; i < len(a); i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
	return nil
}

// SelectionSort sorts a in place. It always performs n(n-1)/2 comparisons.
func SelectionSort(ctx context.Context, a []int) error {
	for i := 0; i < len(a)-1; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		minIdx := i
		for j := i + 1; j < len(a); j++ {
			if a[j] < a[minIdx] {
				minIdx = j
			}
		}
		a[i], a[minIdx] = a[minIdx], a[i]
	}
	return nil
}

// QuickSort sorts a in place using a uniformly random pivot.
func QuickSort(ctx context.Context, a []int) error {
	return quickSort(ctx, a, 0, len(a)-1)
}

func quickSort(ctx context.Context, a []int, lo, hi int) error {
	if lo >= hi {
		return nil
	}
	if hi-lo >= partitionCheckLen {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	p := partition(a, lo, hi)
	if err := quickSort(ctx, a, lo, p-1); err != nil {
		return err
	}
	return quickSort(ctx, a, p+1, hi)
}

// partition moves a random pivot into its final position within a[lo..hi]
// (Lomuto scheme) and returns that position.
func partition(a []int, lo, hi int) int {
	r := lo + rand.IntN(hi-lo+1)
	a[r], a[hi] = a[hi], a[r]
	pivot := a[hi]
	i := lo
	for j := lo; j < hi; j++ {
		if a[j] <= pivot {
			a[i], a[j] = a[j], a[i]
			i++
		}
	}
	a[i], a[hi] = a[hi], a[i]
	return i
}
