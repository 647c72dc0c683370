package hooks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidEvent(t *testing.T) {
	input := `{"hook_event_name":"Notification","session_id":"abc","message":"Claude needs permission"}`
	ev := Parse(strings.NewReader(input))

	assert.Equal(t, EventNotification, ev.HookEventName)
	assert.Equal(t, "abc", ev.SessionID)
	assert.Equal(t, "Claude needs permission", ev.Message)
}

func TestParse_BadJSONFallsOpenToPlainText(t *testing.T) {
	ev := Parse(strings.NewReader("  build finished without errors\n"))

	assert.Empty(t, ev.HookEventName)
	assert.Equal(t, "build finished without errors", ev.Message)
}

func TestParse_JSONWithoutEventNameIsPlainText(t *testing.T) {
	input := `{"status":"ok"}`
	ev := Parse(strings.NewReader(input))

	assert.Empty(t, ev.HookEventName)
	assert.Equal(t, input, ev.Message)
}

func TestUtteranceText_MessageWins(t *testing.T) {
	ev := Event{HookEventName: EventStop, Message: "explicit message"}
	assert.Equal(t, "explicit message", ev.UtteranceText())
}

func TestUtteranceText_CannedPhrases(t *testing.T) {
	assert.Equal(t, "Claude finished responding",
		Event{HookEventName: EventStop}.UtteranceText())
	assert.Equal(t, "Subagent finished",
		Event{HookEventName: EventSubagentStop}.UtteranceText())
	assert.Equal(t, "Claude needs your attention",
		Event{HookEventName: EventNotification}.UtteranceText())
	assert.Empty(t, Event{HookEventName: "PreToolUse"}.UtteranceText())
}

func writeTranscript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcript.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestUtteranceText_LastAssistantMessageFromTranscript(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","message":{"role":"user","content":"please fix the bug"}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"Looking into it."}]}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1"},{"type":"text","text":"Fixed the bug in the parser."}]}}`,
	)

	ev := Event{HookEventName: EventStop, TranscriptPath: path}
	assert.Equal(t, "Fixed the bug in the parser.", ev.UtteranceText())
}

func TestUtteranceText_StringContentTranscript(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"assistant","message":{"role":"assistant","content":"All done here."}}`,
	)

	ev := Event{HookEventName: EventStop, TranscriptPath: path}
	assert.Equal(t, "All done here.", ev.UtteranceText())
}

func TestUtteranceText_TranscriptWithGarbageLines(t *testing.T) {
	path := writeTranscript(t,
		`not json at all`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"Still works."}]}}`,
		``,
	)

	ev := Event{HookEventName: EventStop, TranscriptPath: path}
	assert.Equal(t, "Still works.", ev.UtteranceText())
}

func TestUtteranceText_MissingTranscriptUsesFallback(t *testing.T) {
	ev := Event{HookEventName: EventStop, TranscriptPath: "/nonexistent/t.jsonl"}
	assert.Equal(t, "Claude finished responding", ev.UtteranceText())
}
