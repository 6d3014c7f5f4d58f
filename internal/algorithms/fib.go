package algorithms

import "context"

// fibCheckTerm is the smallest term at which the recursive version checks the
// context. Calls below it finish in microseconds.
const fibCheckTerm = 20

// FibIterative returns the n-th Fibonacci number in O(n) steps. Terms above
// 93 wrap around uint64.
func FibIterative(n int) uint64 {
	if n <= 1 {
		return uint64(max(n, 0))
	}
	var a, b uint64 = 0, 1
	for i := 2; i <= n; i++ {
		a, b = b, a+b
	}
	return b
}

// FibRecursive returns the n-th Fibonacci number using the naive doubly
// recursive definition, O(2^n).
func FibRecursive(ctx context.Context, n int) (uint64, error) {
	if n <= 1 {
		return uint64(max(n, 0)), nil
	}
	if n >= fibCheckTerm {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
	}
	a, err := FibRecursive(ctx, n-1)
	if err != nil {
		return 0, err
	}
	b, err := FibRecursive(ctx, n-2)
	if err != nil {
		return 0, err
	}
	return a + b, nil
}
