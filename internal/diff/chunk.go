// Package diff derives change chunks between texts from their longest common
// subsequence of lines and renders them as brief markers or unified diffs.
package diff

import "github.com/mlhartme/sushi-sub000/internal/lcs"

// Lines splits text into raw lines that keep their line separators.
// "\n", "\r\n" and a lone "\r" each end a line.
// A final separator does not produce a trailing empty line; any other empty
// line is kept.
func Lines(text string) []string {
	lines := []string{}
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		case '\n':
		default:
			continue
		}
		lines = append(lines, text[start:i+1])
		start = i + 1
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// Chunk is one change region. Chunks of a diff are ordered and do not overlap.
type Chunk struct {
	// Common is the index into the common subsequence of the first common
	// line following this chunk; it equals the number of common lines
	// preceding the chunk.
	Common int
	// LeftStart is the index of the first deleted line in the left text.
	LeftStart int
	// Deleted are the removed left lines.
	Deleted []string
	// RightStart is the index of the first inserted line in the right text.
	RightStart int
	// Added are the inserted right lines.
	Added []string
}

// LeftEnd returns the left index just after the deleted run.
func (c Chunk) LeftEnd() int {
	return c.LeftStart + len(c.Deleted)
}

// RightEnd returns the right index just after the inserted run.
func (c Chunk) RightEnd() int {
	return c.RightStart + len(c.Added)
}

// Chunks computes the change chunks turning left into right.
func Chunks(left, right []string) []Chunk {
	common := lcs.Compute(left, right)

	var chunks []Chunk
	li, ri := 0, 0
	for ci := 0; ci <= len(common); ci++ {
		ls, rs := li, ri
		for li < len(left) && (ci == len(common) || left[li] != common[ci]) {
			li++
		}
		for ri < len(right) && (ci == len(common) || right[ri] != common[ci]) {
			ri++
		}
		if li > ls || ri > rs {
			chunks = append(chunks, Chunk{
				Common:     ci,
				LeftStart:  ls,
				Deleted:    left[ls:li],
				RightStart: rs,
				Added:      right[rs:ri],
			})
		}
		// step over the common line
		li++
		ri++
	}
	return chunks
}

// Apply replays chunks against left and returns the resulting lines.
func Apply(left []string, chunks []Chunk) []string {
	result := make([]string, 0, len(left))
	pos := 0
	for _, c := range chunks {
		result = append(result, left[pos:c.LeftStart]...)
		result = append(result, c.Added...)
		pos = c.LeftEnd()
	}
	return append(result, left[pos:]...)
}
