// Package voice resolves and describes the text-to-speech engines autospeak
// can drive: the platform built-ins (say on macOS, espeak on Linux) and the
// neural alternatives (piper, vieneu). Engines only describe how they are
// invoked; spawning and lifetime belong to the playback coordinator.
package voice

import (
	"os/exec"
	"runtime"

	"github.com/AskTinNguyen/claude-auto-speak/pkg/logger"
)

// Options are the per-utterance rendering options.
type Options struct {
	// Voice is engine-specific: a say/espeak voice name, a piper model
	// path, or a vieneu cloned-voice name.
	Voice string

	// Rate is words per minute; 0 keeps the engine default.
	Rate int
}

// Invocation is a fully resolved engine command. Text is always delivered on
// stdin so utterance length never hits argv limits and never leaks into
// process listings.
type Invocation struct {
	Bin   string
	Args  []string
	Stdin string
}

// Engine describes one TTS backend.
type Engine interface {
	Name() string

	// Available reports whether the engine's binary can actually run
	// here. Probed before every spawn; engines are cheap to construct.
	Available() bool

	// Invocation builds the command that speaks text with opts.
	Invocation(text string, opts Options) Invocation
}

// Chain returns the engine selected by name followed by the platform default
// as fallback. Unknown names degrade to the default alone.
func Chain(name, binaryPath string) []Engine {
	fallback := platformDefault()

	var primary Engine
	switch name {
	case "say":
		primary = NewSayEngine(binaryPath)
	case "espeak":
		primary = NewEspeakEngine(binaryPath)
	case "piper":
		primary = NewPiperEngine(binaryPath)
	case "vieneu":
		primary = NewVieneuEngine(binaryPath)
	case "":
		return []Engine{fallback}
	default:
		logger.WarnCF("voice", "unknown engine, using platform default", map[string]any{
			"engine": name,
		})
		return []Engine{fallback}
	}

	if primary.Name() == fallback.Name() {
		return []Engine{primary}
	}
	return []Engine{primary, fallback}
}

func platformDefault() Engine {
	if runtime.GOOS == "darwin" {
		return NewSayEngine("")
	}
	return NewEspeakEngine("")
}

// lookPath reports whether bin resolves to an executable.
func lookPath(bin string) bool {
	_, err := exec.LookPath(bin)
	return err == nil
}
