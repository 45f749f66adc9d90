//go:build unix

// Package drain reads child-process pipe descriptors as readiness is
// reported, so callers never block on a stream the child has not
// written yet.
package drain

import (
	"golang.org/x/sys/unix"
)

const readChunk = 4096

// Drain collects everything the descriptor will ever deliver and
// returns once the last writer closes the other end. Interrupted polls
// and reads are retried.
func Drain(fd int) ([]byte, error) {
	var out []byte
	err := run(fd, func(p []byte) {
		out = append(out, p...)
	})
	return out, err
}

// DrainInto is Drain with the bytes delivered into a capped Buffer
// instead of an unbounded slice.
func DrainInto(b *Buffer, fd int) error {
	return run(fd, func(p []byte) {
		b.Write(p)
	})
}

func run(fd int, sink func([]byte)) error {
	buf := make([]byte, readChunk)
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		fds[0].Revents = 0
		n, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		// POLLHUP can arrive with bytes still queued; keep reading
		// until a zero-length read confirms the pipe is dry.
		if fds[0].Revents&(unix.POLLIN|unix.POLLHUP) == 0 {
			if fds[0].Revents&unix.POLLNVAL != 0 {
				return unix.EBADF
			}
			return nil
		}
		nr, err := unix.Read(fd, buf)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		if nr == 0 {
			return nil
		}
		sink(buf[:nr])
	}
}
