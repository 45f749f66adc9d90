//go:build unix

package spawn

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Proc is a single-use launch configuration. Fill the three Redirect
// fields before calling Launch; afterwards the accessors report the
// process id and the parent-side pipe ends the caller now owns. A Proc
// must not be shared across goroutines.
type Proc struct {
	Stdin  Redirect
	Stdout Redirect
	Stderr Redirect

	launched bool
	pid      int
	fds      [3]int // parent-side pipe ends, -1 when not applicable
}

// New returns an unlaunched Proc with all three streams inherited.
func New() *Proc {
	return &Proc{pid: -1, fds: [3]int{-1, -1, -1}}
}

// PID reports the launched process id, or -1 before a successful launch
// and after Close.
func (p *Proc) PID() int {
	if !p.launched {
		return -1
	}
	return p.pid
}

// StdinFD reports the write end of the stdin pipe, or -1 when stdin was
// not configured as UsePipe.
func (p *Proc) StdinFD() int { return p.fd(Stdin) }

// StdoutFD reports the read end of the stdout pipe, or -1 when stdout
// was not configured as UsePipe.
func (p *Proc) StdoutFD() int { return p.fd(Stdout) }

// StderrFD reports the read end of the stderr pipe, or -1 when stderr
// was not configured as UsePipe. With MergeStdout, read merged output
// from StdoutFD instead.
func (p *Proc) StderrFD() int { return p.fd(Stderr) }

func (p *Proc) fd(s Stream) int {
	if !p.launched {
		return -1
	}
	return p.fds[s]
}

// CloseStream releases the caller-owned pipe end of a single stream and
// resets it to -1. Needed when a downstream process must observe EOF
// while the rest of the configuration stays open. No-op for streams
// without a pipe end.
func (p *Proc) CloseStream(s Stream) {
	if !p.launched || s < Stdin || s > Stderr {
		return
	}
	if p.fds[s] >= 0 {
		unix.Close(p.fds[s])
		p.fds[s] = -1
	}
}

// Close releases every descriptor the configuration still owns and
// invalidates the pid field. It never touches descriptors supplied via
// UseFD and never signals or waits for the process. Calling Close twice
// is a no-op.
func (p *Proc) Close() {
	if !p.launched {
		return
	}
	for s := Stdin; s <= Stderr; s++ {
		p.CloseStream(s)
	}
	p.pid = -1
}

// Wait blocks until the process exits and returns its exit status. A
// child killed by a signal reports 128 plus the signal number.
func (p *Proc) Wait() (int, error) {
	if !p.launched || p.pid <= 0 {
		return -1, fmt.Errorf("spawn: no process to wait for")
	}
	var status unix.WaitStatus
	for {
		wpid, err := unix.Wait4(p.pid, &status, 0, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return -1, fmt.Errorf("spawn: wait for pid %d: %w", p.pid, err)
		}
		if wpid == p.pid {
			break
		}
	}
	switch {
	case status.Exited():
		return status.ExitStatus(), nil
	case status.Signaled():
		return 128 + int(status.Signal()), nil
	}
	return -1, fmt.Errorf("spawn: unexpected wait status %#x for pid %d", status, p.pid)
}
