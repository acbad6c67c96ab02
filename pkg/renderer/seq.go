package renderer

// Sequence returns the indices of a longest strictly increasing
// subsequence of arr, in ascending order. Zero entries are skipped: in the
// keyed diff they mark newly introduced nodes.
//
// It runs in O(n log n): result holds, for each length, the index of the
// smallest tail seen so far, and prev links each index to its predecessor
// so the sequence can be rebuilt from the last tail.
func Sequence(arr []int) []int {
	prev := make([]int, len(arr))
	result := make([]int, 0, len(arr))

	for i, v := range arr {
		if v == 0 {
			continue
		}
		if n := len(result); n == 0 || arr[result[n-1]] < v {
			if n > 0 {
				prev[i] = result[n-1]
			}
			result = append(result, i)
			continue
		}

		lo, hi := 0, len(result)-1
		for lo < hi {
			mid := (lo + hi) / 2
			if arr[result[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if v < arr[result[lo]] {
			if lo > 0 {
				prev[i] = result[lo-1]
			}
			result[lo] = i
		}
	}

	if len(result) == 0 {
		return result
	}
	last := result[len(result)-1]
	for u := len(result) - 1; u >= 0; u-- {
		result[u] = last
		last = prev[last]
	}
	return result
}
