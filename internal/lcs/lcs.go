// Package lcs computes longest common subsequences.
package lcs

// node is one element of a persistent, backwards-linked subsequence.
// Cells of the dynamic programming row share tails, so extending a
// candidate costs O(1).
type node[T any] struct {
	elem   T
	prev   *node[T]
	length int
}

func (n *node[T]) size() int {
	if n == nil {
		return 0
	}
	return n.length
}

func (n *node[T]) extend(elem T) *node[T] {
	return &node[T]{elem: elem, prev: n, length: n.size() + 1}
}

func (n *node[T]) slice() []T {
	result := make([]T, n.size())
	for cur := n; cur != nil; cur = cur.prev {
		result[cur.length-1] = cur.elem
	}
	return result
}

// Compute returns a longest common subsequence of a and b.
//
// The result is deterministic: when skipping an element of a ("from above")
// and skipping an element of b ("from the left") yield candidates of equal
// length, the candidate from the left wins.
//
// Time is O(len(a)*len(b)); the row holds len(b)+1 cells.
func Compute[T comparable](a, b []T) []T {
	return ComputeFunc(a, b, func(x, y T) bool { return x == y })
}

// ComputeFunc is Compute with a custom equality.
func ComputeFunc[T any](a, b []T, equal func(x, y T) bool) []T {
	if len(a) == 0 || len(b) == 0 {
		return []T{}
	}

	row := make([]*node[T], len(b)+1)
	for i := 1; i <= len(a); i++ {
		// diag holds the previous row's cell j-1 before it is overwritten.
		var diag *node[T]
		for j := 1; j <= len(b); j++ {
			above := row[j]
			var cell *node[T]
			if equal(a[i-1], b[j-1]) {
				cell = diag.extend(a[i-1])
			} else {
				left := row[j-1]
				if above.size() > left.size() {
					cell = above
				} else {
					cell = left
				}
			}
			diag = above
			row[j] = cell
		}
	}
	return row[len(b)].slice()
}

// Length returns the length of a longest common subsequence of a and b
// without materializing it.
func Length[T comparable](a, b []T) int {
	return len(Compute(a, b))
}
