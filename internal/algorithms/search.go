package algorithms

// NotFound is returned by the searches when the element is absent.
const NotFound = -1

// LinearSearch returns the first index of x in a.
func LinearSearch(a []int, x int) int {
	for i, v := range a {
		if v == x {
			return i
		}
	}
	return NotFound
}

// BinarySearch returns an index of x in the ascending slice a.
func BinarySearch(a []int, x int) int {
	return binarySearch(a, x, 0, len(a)-1)
}

func binarySearch(a []int, x, lo, hi int) int {
	if lo > hi {
		return NotFound
	}
	mid := lo + (hi-lo)/2
	switch {
	case a[mid] == x:
		return mid
	case x < a[mid]:
		return binarySearch(a, x, lo, mid-1)
	default:
		return binarySearch(a, x, mid+1, hi)
	}
}
