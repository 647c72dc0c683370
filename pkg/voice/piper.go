package voice

import "runtime"

// PiperEngine drives the piper neural TTS binary. Piper synthesizes raw PCM
// on stdout, so the invocation is a small shell pipeline into the platform
// audio player. The whole pipeline runs in one process group, which is what
// lets the coordinator cancel it as a unit.
type PiperEngine struct {
	binary string
}

// NewPiperEngine creates a piper engine; binary overrides lookup.
func NewPiperEngine(binary string) *PiperEngine {
	if binary == "" {
		binary = "piper"
	}
	return &PiperEngine{binary: binary}
}

func (e *PiperEngine) Name() string { return "piper" }

func (e *PiperEngine) Available() bool {
	return lookPath(e.binary) && lookPath(rawPlayer())
}

// Invocation pipes piper's 22kHz mono PCM into the raw player. The model
// path arrives as the voice option and is passed positionally to the shell
// so it never needs quoting.
func (e *PiperEngine) Invocation(text string, opts Options) Invocation {
	script := `"$0" --model "$1" --output-raw | ` + rawPlayerCommand()
	return Invocation{
		Bin:   "sh",
		Args:  []string{"-c", script, e.binary, opts.Voice},
		Stdin: text,
	}
}

func rawPlayer() string {
	if runtime.GOOS == "darwin" {
		return "play" // sox
	}
	return "aplay"
}

func rawPlayerCommand() string {
	if runtime.GOOS == "darwin" {
		return `play -q -t raw -r 22050 -e signed -b 16 -c 1 -`
	}
	return `aplay -q -r 22050 -f S16_LE -t raw -`
}
