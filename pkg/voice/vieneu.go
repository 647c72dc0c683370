package voice

import (
	"os"
	"path/filepath"
	"runtime"
)

// VieneuEngine drives the VieNeu cloned-voice TTS wrapper, a python script
// provisioned under the autospeak home directory. The wrapper reads text
// from stdin, synthesizes a WAV with the named cloned voice, and the shell
// pipeline plays and removes it.
type VieneuEngine struct {
	script string
}

// NewVieneuEngine creates a vieneu engine; script overrides the default
// wrapper location ~/.claude-auto-speak/vieneu/vieneu-tts.py.
func NewVieneuEngine(script string) *VieneuEngine {
	if script == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			script = filepath.Join(home, ".claude-auto-speak", "vieneu", "vieneu-tts.py")
		}
	}
	return &VieneuEngine{script: script}
}

func (e *VieneuEngine) Name() string { return "vieneu" }

func (e *VieneuEngine) Available() bool {
	if e.script == "" || !lookPath("python3") || !lookPath(wavPlayer()) {
		return false
	}
	_, err := os.Stat(e.script)
	return err == nil
}

func (e *VieneuEngine) Invocation(text string, opts Options) Invocation {
	voice := opts.Voice
	if voice == "" {
		voice = "default"
	}
	script := `d=$(mktemp -d); t="$d/utterance.wav"; ` +
		`python3 "$0" --voice "$1" --output "$t" && ` + wavPlayer() + ` "$t"; ` +
		`rm -rf "$d"`
	return Invocation{
		Bin:   "sh",
		Args:  []string{"-c", script, e.script, voice},
		Stdin: text,
	}
}

func wavPlayer() string {
	if runtime.GOOS == "darwin" {
		return "afplay"
	}
	return "aplay"
}
