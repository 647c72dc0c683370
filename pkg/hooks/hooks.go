// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

// Package hooks ingests Claude Code hook events. The agent invokes the hook
// command with a JSON event on stdin; everything here is fail-open, because a
// notification helper must never break the agent that calls it.
package hooks

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/AskTinNguyen/claude-auto-speak/pkg/logger"
)

// Hook event names emitted by Claude Code.
const (
	EventStop         = "Stop"
	EventSubagentStop = "SubagentStop"
	EventNotification = "Notification"
)

// maxInputBytes bounds how much stdin we are willing to read from the agent.
const maxInputBytes = 1 << 20

// Event is one hook invocation payload.
type Event struct {
	HookEventName  string `json:"hook_event_name"`
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	Message        string `json:"message"`
}

// Parse reads one event from r. Anything that is not a recognizable event
// payload is treated as plain text to speak: bad JSON from the agent must
// degrade to a spoken notification, not an error.
func Parse(r io.Reader) Event {
	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes))
	if err != nil {
		logger.WarnCF("hooks", "failed to read hook input", map[string]any{"error": err.Error()})
		return Event{}
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil || ev.HookEventName == "" {
		return Event{Message: strings.TrimSpace(string(data))}
	}
	return ev
}

// UtteranceText picks what to speak for this event. Priority: the explicit
// message field, then the last assistant message from the transcript for
// stop-type events, then a canned phrase per event type. Empty only when
// there is truly nothing to say.
func (e Event) UtteranceText() string {
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}

	switch e.HookEventName {
	case EventStop, EventSubagentStop:
		if text := lastAssistantText(e.TranscriptPath); text != "" {
			return text
		}
		if e.HookEventName == EventSubagentStop {
			return "Subagent finished"
		}
		return "Claude finished responding"
	case EventNotification:
		return "Claude needs your attention"
	}
	return ""
}

// transcriptLine is the subset of a Claude Code transcript JSONL record we
// care about. Content is either a string or a list of typed blocks depending
// on the record's age, so it stays raw until contentText.
type transcriptLine struct {
	Type    string `json:"type"`
	Message struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

// lastAssistantText scans the transcript and returns the text of the last
// assistant message. Any read or parse trouble yields "" and the caller's
// fallback phrase.
func lastAssistantText(path string) string {
	if path == "" {
		return ""
	}
	f, err := os.Open(path)
	if err != nil {
		logger.DebugCF("hooks", "transcript not readable", map[string]any{
			"path": path, "error": err.Error(),
		})
		return ""
	}
	defer f.Close()

	var last string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec transcriptLine
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if rec.Type != "assistant" && rec.Message.Role != "assistant" {
			continue
		}
		if text := contentText(rec.Message.Content); text != "" {
			last = text
		}
	}
	return last
}

// contentText extracts speakable text from a message content field.
func contentText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return strings.TrimSpace(plain)
	}

	var blocks []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && strings.TrimSpace(b.Text) != "" {
			parts = append(parts, strings.TrimSpace(b.Text))
		}
	}
	return strings.Join(parts, " ")
}
