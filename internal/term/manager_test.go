//go:build unix

package term

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(nil)
}

func createTestSession(t *testing.T, m *Manager) *Info {
	t.Helper()
	info, err := m.Create(Options{Shell: "/bin/sh", WorkingDir: "/tmp"})
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	return info
}

// waitForOutput polls the session buffer until want appears or the
// deadline passes.
func waitForOutput(t *testing.T, m *Manager, id string, want []byte) []byte {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	var got []byte
	for time.Now().Before(deadline) {
		chunk, err := m.Read(id)
		require.NoError(t, err)
		got = append(got, chunk...)
		if bytes.Contains(got, want) {
			return got
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q; collected %q", want, got)
	return nil
}

func TestSessionLifecycle(t *testing.T) {
	m := newTestManager(t)
	info := createTestSession(t, m)

	assert.NotEmpty(t, info.ID)
	assert.Equal(t, "/bin/sh", info.Shell)
	assert.True(t, info.Active)

	require.NoError(t, m.Write(info.ID, []byte("echo term-marker-$((40+2))\n")))
	waitForOutput(t, m, info.ID, []byte("term-marker-42"))

	require.NoError(t, m.Kill(info.ID))
	_, err := m.Get(info.ID)
	assert.Error(t, err, "killed sessions are forgotten")
}

func TestSessionExitRecorded(t *testing.T) {
	m := newTestManager(t)
	info := createTestSession(t, m)

	require.NoError(t, m.Write(info.ID, []byte("exit 5\n")))

	deadline := time.Now().Add(5 * time.Second)
	for {
		got, err := m.Get(info.ID)
		require.NoError(t, err)
		if !got.Active {
			assert.Equal(t, 5, got.ExitCode)
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("session never reported exit")
		}
		time.Sleep(20 * time.Millisecond)
	}
	m.Kill(info.ID)
}

func TestResize(t *testing.T) {
	m := newTestManager(t)
	info := createTestSession(t, m)
	defer m.Kill(info.ID)

	require.NoError(t, m.Resize(info.ID, 120, 40))
	got, err := m.Get(info.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, got.Cols)
	assert.Equal(t, 40, got.Rows)
}

func TestListSessions(t *testing.T) {
	m := newTestManager(t)
	a := createTestSession(t, m)
	b := createTestSession(t, m)
	defer m.Kill(a.ID)
	defer m.Kill(b.ID)

	ids := make(map[string]bool)
	for _, info := range m.List() {
		ids[info.ID] = true
	}
	assert.True(t, ids[a.ID])
	assert.True(t, ids[b.ID])
}

func TestWriteToUnknownSession(t *testing.T) {
	m := newTestManager(t)
	assert.Error(t, m.Write("missing", []byte("x")))
}
