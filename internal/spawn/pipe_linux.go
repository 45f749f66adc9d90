package spawn

import "golang.org/x/sys/unix"

// newPipe returns both ends close-on-exec; the launcher's fd-slot list
// re-enables the child end on the slot it lands on, so the ends never
// leak into unrelated children spawned concurrently.
func newPipe() (read, write int, err error) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		return -1, -1, err
	}
	return p[0], p[1], nil
}
