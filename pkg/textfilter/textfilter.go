// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

// Package textfilter turns raw agent output into text worth speaking.
// Terminal escapes, markdown decoration, URLs and file paths read badly
// aloud; the pipeline strips or rephrases them and clamps the result to an
// utterance-sized chunk at a sentence boundary.
package textfilter

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ansiPattern   = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]|\x1b\][^\x07]*\x07`)
	fencePattern  = regexp.MustCompile("(?s)```.*?```")
	inlinePattern = regexp.MustCompile("`([^`\n]*)`")
	urlPattern    = regexp.MustCompile(`https?://[^\s)\]>"']+`)
	pathPattern   = regexp.MustCompile(`(?:~/|/)[A-Za-z0-9._@-]+(?:/[A-Za-z0-9._@-]+)+`)

	headingPattern = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	bulletPattern  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	boldPattern    = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	italicPattern  = regexp.MustCompile(`\*([^*\n]+)\*|_([^_\n]+)_`)

	// Pictographs and dingbats only. General non-ASCII stays: accented and
	// Vietnamese text must survive the filter.
	emojiPattern = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{FE0F}\x{200D}]`)

	spacePattern = regexp.MustCompile(`\s+`)
)

// Clean strips terminal and markdown artifacts and collapses whitespace.
// Code fences become the word "code block", URLs become "link", file paths
// collapse to their basename.
func Clean(text string) string {
	text = ansiPattern.ReplaceAllString(text, "")
	text = fencePattern.ReplaceAllString(text, " code block ")
	text = inlinePattern.ReplaceAllString(text, "$1")
	text = urlPattern.ReplaceAllString(text, "link")
	text = pathPattern.ReplaceAllStringFunc(text, filepath.Base)
	text = headingPattern.ReplaceAllString(text, "")
	text = bulletPattern.ReplaceAllString(text, "")
	text = boldPattern.ReplaceAllString(text, "$1$2")
	text = italicPattern.ReplaceAllString(text, "$1$2")
	text = emojiPattern.ReplaceAllString(text, "")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Clamp cuts text to at most max runes, preferring a sentence boundary and
// falling back to a word boundary. max <= 0 means no limit.
func Clamp(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	window := runes[:max]

	lastSentence := -1
	lastSpace := -1
	for i, r := range window {
		switch r {
		case '.', '!', '?':
			if i == len(window)-1 || window[i+1] == ' ' {
				lastSentence = i
			}
		case ' ':
			lastSpace = i
		}
	}

	switch {
	case lastSentence > 0:
		return strings.TrimSpace(string(window[:lastSentence+1]))
	case lastSpace > 0:
		return strings.TrimSpace(string(window[:lastSpace]))
	default:
		return string(window)
	}
}

// Speakable runs the full pipeline: Clean then Clamp.
func Speakable(text string, max int) string {
	return Clamp(Clean(text), max)
}
