package term

import (
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/GriffinCanCode/ProcPipe/internal/drain"
)

// Session is one live shell attached to a pty.
type Session struct {
	ID         string
	Shell      string
	WorkingDir string
	StartedAt  time.Time

	cmd  *exec.Cmd
	ptmx *os.File
	out  *drain.Buffer

	mu       sync.RWMutex
	cols     int
	rows     int
	closed   bool
	exitCode int
}

// Info is the public snapshot of a session. ExitCode is meaningful only
// once Active is false.
type Info struct {
	ID         string    `json:"id"`
	Shell      string    `json:"shell"`
	WorkingDir string    `json:"working_dir"`
	Cols       int       `json:"cols"`
	Rows       int       `json:"rows"`
	StartedAt  time.Time `json:"started_at"`
	Active     bool      `json:"active"`
	ExitCode   int       `json:"exit_code"`
}

func (s *Session) info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Info{
		ID:         s.ID,
		Shell:      s.Shell,
		WorkingDir: s.WorkingDir,
		Cols:       s.cols,
		Rows:       s.rows,
		StartedAt:  s.StartedAt,
		Active:     !s.closed,
		ExitCode:   s.exitCode,
	}
}

// pump copies pty output into the session buffer until the pty closes.
func (s *Session) pump() {
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.out.Write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// reap waits for the shell to exit, records its status, and releases
// the pty.
func (s *Session) reap() {
	err := s.cmd.Wait()

	s.mu.Lock()
	s.closed = true
	if exit, ok := err.(*exec.ExitError); ok {
		s.exitCode = exit.ExitCode()
	} else if err != nil {
		s.exitCode = -1
	}
	s.mu.Unlock()

	s.ptmx.Close()
}
