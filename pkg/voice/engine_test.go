package voice

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSayInvocation(t *testing.T) {
	e := NewSayEngine("")

	inv := e.Invocation("hello world", Options{})
	assert.Equal(t, "say", inv.Bin)
	assert.Equal(t, []string{"-f", "-"}, inv.Args)
	assert.Equal(t, "hello world", inv.Stdin)

	inv = e.Invocation("hello", Options{Voice: "Samantha", Rate: 200})
	assert.Equal(t, []string{"-v", "Samantha", "-r", "200", "-f", "-"}, inv.Args)
}

func TestEspeakInvocation(t *testing.T) {
	e := NewEspeakEngine("espeak-ng")

	inv := e.Invocation("xin chào", Options{Voice: "vi", Rate: 160})
	assert.Equal(t, "espeak-ng", inv.Bin)
	assert.Equal(t, []string{"--stdin", "-v", "vi", "-s", "160"}, inv.Args)
	assert.Equal(t, "xin chào", inv.Stdin)
}

func TestPiperInvocationPipesThroughPlayer(t *testing.T) {
	e := NewPiperEngine("piper")

	inv := e.Invocation("hello", Options{Voice: "/models/en_US-amy-medium.onnx"})
	assert.Equal(t, "sh", inv.Bin)
	require.Len(t, inv.Args, 4)
	assert.Equal(t, "-c", inv.Args[0])
	assert.Equal(t, "piper", inv.Args[2])
	assert.Equal(t, "/models/en_US-amy-medium.onnx", inv.Args[3])
	assert.Equal(t, "hello", inv.Stdin)
	// Text travels on stdin, never inside the shell script.
	assert.NotContains(t, inv.Args[1], "hello")
}

func TestVieneuInvocationUsesTempWav(t *testing.T) {
	e := NewVieneuEngine("")

	inv := e.Invocation("hello", Options{Voice: "my-voice"})
	assert.Equal(t, "sh", inv.Bin)
	assert.Equal(t, "hello", inv.Stdin)
	assert.Contains(t, inv.Args[1], "mktemp")
	assert.NotContains(t, inv.Args[1], "hello")
}

func TestChain(t *testing.T) {
	t.Run("empty name is platform default only", func(t *testing.T) {
		engines := Chain("", "")
		require.Len(t, engines, 1)
		if runtime.GOOS == "darwin" {
			assert.Equal(t, "say", engines[0].Name())
		} else {
			assert.Equal(t, "espeak", engines[0].Name())
		}
	})

	t.Run("unknown name degrades to platform default", func(t *testing.T) {
		engines := Chain("festival", "")
		require.Len(t, engines, 1)
	})

	t.Run("distinct primary gets a fallback", func(t *testing.T) {
		engines := Chain("piper", "")
		require.Len(t, engines, 2)
		assert.Equal(t, "piper", engines[0].Name())
	})

	t.Run("primary matching the default is not doubled", func(t *testing.T) {
		var name string
		if runtime.GOOS == "darwin" {
			name = "say"
		} else {
			name = "espeak"
		}
		engines := Chain(name, "")
		require.Len(t, engines, 1)
		assert.Equal(t, name, engines[0].Name())
	})
}
