package textfilter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "ansi color codes",
			input: "\x1b[32mdone\x1b[0m in 3s",
			want:  "done in 3s",
		},
		{
			name:  "code fence becomes placeholder",
			input: "Here is the fix:\n```go\nfunc main() {}\n```\nDone.",
			want:  "Here is the fix: code block Done.",
		},
		{
			name:  "inline code keeps its text",
			input: "run `go test ./...` now",
			want:  "run go test ./... now",
		},
		{
			name:  "url becomes link",
			input: "see https://example.com/docs?q=1 for details",
			want:  "see link for details",
		},
		{
			name:  "file path collapses to basename",
			input: "edited /home/user/project/main.go successfully",
			want:  "edited main.go successfully",
		},
		{
			name:  "markdown decoration stripped",
			input: "## Summary\n- **bold point** and _emphasis_",
			want:  "Summary bold point and emphasis",
		},
		{
			name:  "emoji removed",
			input: "All tests pass ✅ \U0001F389",
			want:  "All tests pass",
		},
		{
			name:  "vietnamese text survives",
			input: "Đã hoàn thành nhiệm vụ",
			want:  "Đã hoàn thành nhiệm vụ",
		},
		{
			name:  "whitespace collapsed",
			input: "one\n\n  two\t three",
			want:  "one two three",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestClamp(t *testing.T) {
	t.Run("under limit unchanged", func(t *testing.T) {
		assert.Equal(t, "short text", Clamp("short text", 100))
	})

	t.Run("zero means unlimited", func(t *testing.T) {
		long := strings.Repeat("a", 5000)
		assert.Equal(t, long, Clamp(long, 0))
	})

	t.Run("prefers sentence boundary", func(t *testing.T) {
		in := "First sentence. Second sentence goes on and on beyond the limit."
		got := Clamp(in, 30)
		assert.Equal(t, "First sentence.", got)
	})

	t.Run("falls back to word boundary", func(t *testing.T) {
		in := "no sentence punctuation here just many words flowing"
		got := Clamp(in, 25)
		assert.LessOrEqual(t, len([]rune(got)), 25)
		assert.False(t, strings.HasSuffix(got, " "))
		assert.True(t, strings.HasPrefix(in, got))
	})

	t.Run("hard cut without any boundary", func(t *testing.T) {
		in := strings.Repeat("x", 100)
		assert.Equal(t, strings.Repeat("x", 10), Clamp(in, 10))
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		in := "chào chào chào chào chào"
		got := Clamp(in, 10)
		assert.LessOrEqual(t, len([]rune(got)), 10)
		assert.True(t, strings.HasPrefix(in, got))
	})
}

func TestSpeakable(t *testing.T) {
	in := "## Done\nFixed the bug in `parser.go`. See https://github.com/x/y for the diff. Everything else still needs review and more work."
	got := Speakable(in, 60)
	assert.Equal(t, "Done Fixed the bug in parser.go. See link for the diff.", got)
}
