package voice

import (
	"os/exec"
	"strconv"
)

// EspeakEngine drives espeak-ng, falling back to classic espeak when only
// that is installed.
type EspeakEngine struct {
	binary string
}

// NewEspeakEngine creates an espeak engine; binary overrides lookup.
func NewEspeakEngine(binary string) *EspeakEngine {
	return &EspeakEngine{binary: binary}
}

func (e *EspeakEngine) Name() string { return "espeak" }

func (e *EspeakEngine) resolveBinary() string {
	if e.binary != "" {
		return e.binary
	}
	for _, bin := range []string{"espeak-ng", "espeak"} {
		if _, err := exec.LookPath(bin); err == nil {
			return bin
		}
	}
	return "espeak-ng"
}

func (e *EspeakEngine) Available() bool { return lookPath(e.resolveBinary()) }

func (e *EspeakEngine) Invocation(text string, opts Options) Invocation {
	args := []string{"--stdin"}
	if opts.Voice != "" {
		args = append(args, "-v", opts.Voice)
	}
	if opts.Rate > 0 {
		args = append(args, "-s", strconv.Itoa(opts.Rate))
	}
	return Invocation{Bin: e.resolveBinary(), Args: args, Stdin: text}
}
