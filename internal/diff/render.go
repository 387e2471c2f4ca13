package diff

import (
	"fmt"
	"strings"
)

// DefaultContext is the number of context lines shown around a chunk.
const DefaultContext = 3

// Options configures full diff rendering.
type Options struct {
	// Context is the number of unchanged lines shown before and after each
	// range. Chunks whose anchors are at most 2*Context apart share a range.
	Context int
	// Range emits a "@@ -l,n +r,m @@" header before each range.
	Range bool
}

// DefaultOptions returns unified-diff style options.
func DefaultOptions() Options {
	return Options{Context: DefaultContext, Range: true}
}

// Files renders the full diff between two texts. Identical texts yield "".
func Files(leftText, rightText string, opts Options) string {
	left, right := Lines(leftText), Lines(rightText)
	return Format(left, right, Chunks(left, right), opts)
}

// Format renders chunks computed from left and right.
func Format(left, right []string, chunks []Chunk, opts Options) string {
	if len(chunks) == 0 {
		return ""
	}
	context := opts.Context
	if context < 0 {
		context = 0
	}
	commonCount := len(left)
	for _, c := range chunks {
		commonCount -= len(c.Deleted)
	}

	var sb strings.Builder
	for _, group := range groupChunks(chunks, context) {
		first, last := group.chunks[0], group.chunks[len(group.chunks)-1]
		pre := min(context, first.Common-group.prevCommon)
		post := min(context, group.nextCommon(commonCount)-last.Common)

		if opts.Range {
			leftCount, rightCount := pre+post, pre+post
			for i, c := range group.chunks {
				leftCount += len(c.Deleted)
				rightCount += len(c.Added)
				if i > 0 {
					between := c.Common - group.chunks[i-1].Common
					leftCount += between
					rightCount += between
				}
			}
			fmt.Fprintf(&sb, "@@ -%s +%s @@\n",
				rangeSpec(first.LeftStart-pre, leftCount),
				rangeSpec(first.RightStart-pre, rightCount))
		}

		writeLines(&sb, " ", left[first.LeftStart-pre:first.LeftStart])
		for i, c := range group.chunks {
			if i > 0 {
				writeLines(&sb, " ", left[group.chunks[i-1].LeftEnd():c.LeftStart])
			}
			writeLines(&sb, "-", c.Deleted)
			writeLines(&sb, "+", c.Added)
		}
		writeLines(&sb, " ", left[last.LeftEnd():last.LeftEnd()+post])
	}
	return sb.String()
}

// rangeSpec formats a 0-based start and a count as unified diff range.
// Empty ranges name the line before the insertion point, as GNU diff does.
func rangeSpec(start, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", start)
	}
	return fmt.Sprintf("%d,%d", start+1, count)
}

func writeLines(sb *strings.Builder, marker string, lines []string) {
	for _, line := range lines {
		sb.WriteString(marker)
		sb.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			sb.WriteString("\n")
		}
	}
}

// chunkGroup is a run of touching chunks rendered as one range.
type chunkGroup struct {
	chunks []Chunk
	// prevCommon is the anchor of the chunk before the group, or 0.
	prevCommon int
	// next is the anchor of the chunk after the group, or -1.
	next int
}

func (g chunkGroup) nextCommon(commonCount int) int {
	if g.next < 0 {
		return commonCount
	}
	return g.next
}

// groupChunks merges chunks whose anchors differ by at most 2*context.
func groupChunks(chunks []Chunk, context int) []chunkGroup {
	var groups []chunkGroup
	current := chunkGroup{chunks: []Chunk{chunks[0]}, next: -1}
	for _, c := range chunks[1:] {
		prev := current.chunks[len(current.chunks)-1]
		if c.Common-prev.Common <= 2*context {
			current.chunks = append(current.chunks, c)
			continue
		}
		current.next = c.Common
		groups = append(groups, current)
		current = chunkGroup{chunks: []Chunk{c}, prevCommon: prev.Common, next: -1}
	}
	return append(groups, current)
}
