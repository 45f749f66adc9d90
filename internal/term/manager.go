package term

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ProcPipe/internal/drain"
)

// Options configures a new session. Zero values pick defaults: $SHELL
// (falling back to /bin/sh), $HOME (falling back to /tmp), 80x24, and
// drain.DefaultBufferSize of output history.
type Options struct {
	Shell      string
	WorkingDir string
	Cols       int
	Rows       int
	Env        map[string]string
	BufferSize int
}

// Manager owns the live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	log      *zap.Logger
}

// NewManager creates an empty session manager. A nil logger disables
// logging.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{sessions: make(map[string]*Session), log: log}
}

// Create launches a shell on a fresh pty and starts buffering its
// output.
func (m *Manager) Create(opts Options) (*Info, error) {
	shell := opts.Shell
	if shell == "" {
		shell = os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
	}
	dir := opts.WorkingDir
	if dir == "" {
		dir = os.Getenv("HOME")
		if dir == "" {
			dir = "/tmp"
		}
	}
	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}

	cmd := exec.Command(shell)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	for k, v := range opts.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: uint16(cols),
		Rows: uint16(rows),
	})
	if err != nil {
		return nil, fmt.Errorf("term: start pty: %w", err)
	}

	s := &Session{
		ID:         uuid.NewString(),
		Shell:      shell,
		WorkingDir: dir,
		StartedAt:  time.Now(),
		cmd:        cmd,
		ptmx:       ptmx,
		out:        drain.NewBuffer(opts.BufferSize),
		cols:       cols,
		rows:       rows,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	go s.pump()
	go s.reap()

	m.log.Info("session created",
		zap.String("session", s.ID),
		zap.String("shell", shell),
		zap.Int("pid", cmd.Process.Pid))

	info := s.info()
	return &info, nil
}

// Write sends input to the session's pty.
func (m *Manager) Write(id string, input []byte) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return fmt.Errorf("term: session %s is closed", id)
	}
	_, err = s.ptmx.Write(input)
	return err
}

// Read returns and clears the session's buffered output.
func (m *Manager) Read(id string) ([]byte, error) {
	s, err := m.get(id)
	if err != nil {
		return nil, err
	}
	return s.out.ReadAll(), nil
}

// Resize changes the pty dimensions.
func (m *Manager) Resize(id string, cols, rows int) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("term: session %s is closed", id)
	}
	s.cols, s.rows = cols, rows
	return pty.Setsize(s.ptmx, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
}

// Kill terminates a session's shell and forgets the session. Killing a
// session that already ended just removes it.
func (m *Manager) Kill(id string) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	alreadyClosed := s.closed
	s.closed = true
	s.mu.Unlock()

	if !alreadyClosed && s.cmd.Process != nil {
		s.cmd.Process.Kill()
		s.ptmx.Close()
	}

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	m.log.Info("session killed", zap.String("session", id))
	return nil
}

// List snapshots every known session.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Info, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.info())
	}
	return out
}

// Get snapshots a single session.
func (m *Manager) Get(id string) (*Info, error) {
	s, err := m.get(id)
	if err != nil {
		return nil, err
	}
	info := s.info()
	return &info, nil
}

func (m *Manager) get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("term: session not found: %s", id)
	}
	return s, nil
}
