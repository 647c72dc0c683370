package voice

import "strconv"

// SayEngine drives the macOS built-in `say` command.
type SayEngine struct {
	binary string
}

// NewSayEngine creates a say engine; binary overrides lookup when non-empty.
func NewSayEngine(binary string) *SayEngine {
	if binary == "" {
		binary = "say"
	}
	return &SayEngine{binary: binary}
}

func (e *SayEngine) Name() string { return "say" }

func (e *SayEngine) Available() bool { return lookPath(e.binary) }

// Invocation reads text from stdin (`say -f -`), so long summaries never hit
// argv limits.
func (e *SayEngine) Invocation(text string, opts Options) Invocation {
	args := []string{}
	if opts.Voice != "" {
		args = append(args, "-v", opts.Voice)
	}
	if opts.Rate > 0 {
		args = append(args, "-r", strconv.Itoa(opts.Rate))
	}
	args = append(args, "-f", "-")
	return Invocation{Bin: e.binary, Args: args, Stdin: text}
}
