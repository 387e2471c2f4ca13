package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func numbered(replace map[int]string) string {
	var sb strings.Builder
	for i := 1; i <= 10; i++ {
		if r, ok := replace[i]; ok {
			sb.WriteString(r + "\n")
			continue
		}
		sb.WriteString(string(rune('0'+i%10)) + "\n")
	}
	return sb.String()
}

func TestFiles(t *testing.T) {
	tests := []struct {
		name     string
		left     string
		right    string
		opts     Options
		expected string
	}{
		{
			name:     "identical",
			left:     "a\nb\n",
			right:    "a\nb\n",
			opts:     DefaultOptions(),
			expected: "",
		},
		{
			name:     "no common line",
			left:     "1",
			right:    "2",
			opts:     DefaultOptions(),
			expected: "@@ -1,1 +1,1 @@\n-1\n+2\n",
		},
		{
			name:     "change with context",
			left:     "a\nb\nc\n",
			right:    "a\nX\nc\n",
			opts:     Options{Context: 1, Range: true},
			expected: "@@ -1,3 +1,3 @@\n a\n-b\n+X\n c\n",
		},
		{
			name:     "change without context",
			left:     "a\nb\nc\n",
			right:    "a\nX\nc\n",
			opts:     Options{Context: 0, Range: true},
			expected: "@@ -2,1 +2,1 @@\n-b\n+X\n",
		},
		{
			name:     "without range header",
			left:     "a\nb\nc\n",
			right:    "a\nX\nc\n",
			opts:     Options{Context: 1},
			expected: " a\n-b\n+X\n c\n",
		},
		{
			name:     "append line",
			left:     "a\n",
			right:    "a\nb\n",
			opts:     DefaultOptions(),
			expected: "@@ -1,1 +1,2 @@\n a\n+b\n",
		},
		{
			name:     "insert into empty",
			left:     "",
			right:    "x\n",
			opts:     DefaultOptions(),
			expected: "@@ -0,0 +1,1 @@\n+x\n",
		},
		{
			name:     "delete everything",
			left:     "x\ny\n",
			right:    "",
			opts:     DefaultOptions(),
			expected: "@@ -1,2 +0,0 @@\n-x\n-y\n",
		},
		{
			name:  "distant chunks get separate ranges",
			left:  numbered(nil),
			right: numbered(map[int]string{2: "b", 9: "i"}),
			opts:  Options{Context: 1, Range: true},
			expected: "@@ -1,3 +1,3 @@\n 1\n-2\n+b\n 3\n" +
				"@@ -8,3 +8,3 @@\n 8\n-9\n+i\n 0\n",
		},
		{
			name:  "touching chunks share a range",
			left:  numbered(nil),
			right: numbered(map[int]string{2: "b", 9: "i"}),
			opts:  Options{Context: 3, Range: true},
			expected: "@@ -1,10 +1,10 @@\n 1\n-2\n+b\n 3\n 4\n 5\n 6\n 7\n 8\n-9\n+i\n 0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Files(tt.left, tt.right, tt.opts))
		})
	}
}

func TestFilesCarriageReturnLines(t *testing.T) {
	assert.Equal(t, " a\r\n-b\r\n+X\r\n c\r\n", Files("a\rb\rc\r", "a\rX\rc\r", Options{Context: 1}))
}

func TestFilesNegativeContextActsAsZero(t *testing.T) {
	assert.Equal(t, "-b\n+X\n", Files("a\nb\nc\n", "a\nX\nc\n", Options{Context: -2}))
}
