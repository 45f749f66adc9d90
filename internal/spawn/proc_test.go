//go:build unix

package spawn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	p := New()
	assert.Equal(t, -1, p.PID())
	assert.Equal(t, -1, p.StdinFD())
	assert.Equal(t, -1, p.StdoutFD())
	assert.Equal(t, -1, p.StderrFD())

	_, err := p.Wait()
	assert.Error(t, err, "waiting without a launch must fail")
}

func TestWaitReportsSignal(t *testing.T) {
	p := New()
	p.Stdout = Discard{}
	p.Stderr = Discard{}
	require.NoError(t, p.Launch([]string{"sh", "-c", "kill -TERM $$"}, nil))
	defer p.Close()

	code, err := p.Wait()
	require.NoError(t, err)
	assert.Equal(t, 128+15, code)
}

func TestStreamString(t *testing.T) {
	assert.Equal(t, "stdin", Stdin.String())
	assert.Equal(t, "stdout", Stdout.String())
	assert.Equal(t, "stderr", Stderr.String())
}

func TestErrorFormatting(t *testing.T) {
	e := &Error{Kind: KindResourceCreation, Stream: Stdout, Op: "create pipe"}
	assert.Contains(t, e.Error(), "stdout")
	assert.Contains(t, e.Error(), "create pipe")

	s := &Error{Kind: KindSpawn, Op: "ls"}
	assert.NotContains(t, s.Error(), "stdin", "spawn errors are not stream-scoped")
}
