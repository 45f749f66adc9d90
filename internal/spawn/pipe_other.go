//go:build unix && !linux

package spawn

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// newPipe returns both ends close-on-exec. Without pipe2 the flag is
// set after creation, under the fork lock so no child can be forked
// between the two steps (the same discipline os.Pipe uses here).
func newPipe() (read, write int, err error) {
	var p [2]int
	syscall.ForkLock.RLock()
	defer syscall.ForkLock.RUnlock()
	if err := unix.Pipe(p[:]); err != nil {
		return -1, -1, err
	}
	unix.CloseOnExec(p[0])
	unix.CloseOnExec(p[1])
	return p[0], p[1], nil
}
