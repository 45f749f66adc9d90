//go:build unix

package spawn

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// resolution is the outcome of mapping one stream's Redirect onto
// concrete descriptors for a single launch attempt.
type resolution struct {
	slot      int // fd that occupies the child's slot; -1 closes the slot there
	parent    int // pipe end retained for the caller, -1 if none
	transient int // fd that must not outlive the attempt, -1 if none
}

func (r resolution) release() {
	closeFD(r.transient)
	closeFD(r.parent)
}

func closeFD(fd int) {
	if fd >= 0 {
		unix.Close(fd)
	}
}

// Launch validates the configuration, wires the three streams, and
// starts the process. args[0] is resolved through the search path; a
// nil env inherits the caller's environment. On success the Proc
// records the pid and the caller's pipe ends; every descriptor that
// existed only to cross into the child is already closed when Launch
// returns. On failure no process exists and no descriptor created for
// the attempt survives.
func (p *Proc) Launch(args []string, env []string) error {
	if p.launched {
		return &Error{Kind: KindInvalidMode, Op: "configuration already launched"}
	}
	if len(args) == 0 {
		return &Error{Kind: KindInvalidMode, Op: "empty argument vector"}
	}
	if err := p.validate(); err != nil {
		return err
	}
	p.pid = -1
	p.fds = [3]int{-1, -1, -1}

	in, err := resolve(Stdin, p.Stdin)
	if err != nil {
		return err
	}
	out, err := resolve(Stdout, p.Stdout)
	if err != nil {
		in.release()
		return err
	}
	var er resolution
	if _, merge := p.Stderr.(MergeStdout); merge {
		er = mergeResolution(p.Stdout, out)
	} else {
		if er, err = resolve(Stderr, p.Stderr); err != nil {
			in.release()
			out.release()
			return err
		}
	}

	path, lookErr := exec.LookPath(args[0])
	if lookErr != nil {
		in.release()
		out.release()
		er.release()
		return &Error{Kind: KindSpawn, Op: args[0], Err: lookErr}
	}
	if env == nil {
		env = os.Environ()
	}
	pid, _, spawnErr := syscall.StartProcess(path, args, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{childSlot(in.slot), childSlot(out.slot), childSlot(er.slot)},
	})
	if spawnErr != nil {
		in.release()
		out.release()
		er.release()
		return &Error{Kind: KindSpawn, Op: args[0], Err: spawnErr}
	}

	// Only descriptors the caller now owns survive past this point.
	closeFD(in.transient)
	closeFD(out.transient)
	closeFD(er.transient)
	p.pid = pid
	p.fds = [3]int{in.parent, out.parent, er.parent}
	p.launched = true
	return nil
}

// validate is the pure precondition check: no I/O, no side effects. It
// covers all three streams before any OS action so a bad stderr
// configuration cannot leave stdin or stdout partially wired.
func (p *Proc) validate() error {
	for i, r := range [3]Redirect{p.Stdin, p.Stdout, p.Stderr} {
		s := Stream(i)
		switch v := r.(type) {
		case nil, Inherit, Discard, UsePipe:
		case UseFD:
			if v.FD < 0 {
				return &Error{Kind: KindInvalidMode, Stream: s, Op: "negative descriptor"}
			}
		case UsePath:
			if v.Path == "" {
				return &Error{Kind: KindInvalidMode, Stream: s, Op: "empty path"}
			}
		case MergeStdout:
			if s != Stderr {
				return &Error{Kind: KindInvalidMode, Stream: s, Op: "merge is stderr-only"}
			}
		default:
			return &Error{Kind: KindInvalidMode, Stream: s, Op: "unrecognized redirect"}
		}
	}
	return nil
}

// resolve maps one stream's Redirect onto descriptors. MergeStdout is
// handled separately in mergeResolution, after stdout is known.
func resolve(s Stream, r Redirect) (resolution, error) {
	switch v := r.(type) {
	case nil, Inherit:
		return resolution{slot: int(s), parent: -1, transient: -1}, nil
	case Discard:
		return resolution{slot: -1, parent: -1, transient: -1}, nil
	case UsePipe:
		read, write, err := newPipe()
		if err != nil {
			return resolution{}, &Error{Kind: KindResourceCreation, Stream: s, Op: "create pipe", Err: err}
		}
		if s == Stdin {
			return resolution{slot: read, parent: write, transient: read}, nil
		}
		return resolution{slot: write, parent: read, transient: write}, nil
	case UseFD:
		// The caller's descriptor crosses by duplication onto the slot;
		// its original number is close-on-exec or equals the slot, so
		// nothing extra leaks into the child and nothing is closed here.
		return resolution{slot: v.FD, parent: -1, transient: -1}, nil
	case UsePath:
		flags := unix.O_WRONLY | unix.O_CREAT | unix.O_TRUNC | unix.O_CLOEXEC
		if s == Stdin {
			flags = unix.O_RDONLY | unix.O_CLOEXEC
		}
		fd, err := unix.Open(v.Path, flags, 0o644)
		if err != nil {
			return resolution{}, &Error{Kind: KindResourceCreation, Stream: s, Op: "open " + v.Path, Err: err}
		}
		return resolution{slot: fd, parent: -1, transient: fd}, nil
	}
	return resolution{}, &Error{Kind: KindInvalidMode, Stream: s, Op: "unrecognized redirect"}
}

// mergeResolution resolves stderr's MergeStdout against stdout's
// already-resolved state: inherited stdout leaves stderr inherited,
// discarded stdout discards stderr too, anything else shares stdout's
// child-side target. The shared fd is owned by the stdout resolution,
// so the merge side carries nothing to release.
func mergeResolution(stdout Redirect, out resolution) resolution {
	switch stdout.(type) {
	case nil, Inherit:
		return resolution{slot: int(Stderr), parent: -1, transient: -1}
	case Discard:
		return resolution{slot: -1, parent: -1, transient: -1}
	}
	return resolution{slot: out.slot, parent: -1, transient: -1}
}

// childSlot encodes a resolved fd for the child's descriptor table. The
// runtime dups each entry onto its index before exec; a -1 entry closes
// that slot in the child instead.
func childSlot(fd int) uintptr {
	return uintptr(fd)
}
