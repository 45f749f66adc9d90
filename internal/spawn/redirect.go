package spawn

// Stream identifies one of the three standard stream slots of a child
// process. The numeric value is the slot number itself.
type Stream int

const (
	Stdin  Stream = 0
	Stdout Stream = 1
	Stderr Stream = 2
)

func (s Stream) String() string {
	switch s {
	case Stdin:
		return "stdin"
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	}
	return "stream"
}

// Redirect selects how one standard stream of the child is wired. It is
// a closed set: the variants below are the only implementations. A nil
// Redirect behaves as Inherit, so the zero Proc launches with all three
// streams shared with the caller.
type Redirect interface {
	isRedirect()
}

// Inherit leaves the stream untouched; the child shares the caller's
// descriptor.
type Inherit struct{}

// Discard closes the stream's slot in the child: reads fail
// immediately and writes error out.
type Discard struct{}

// UsePipe bridges the stream with a fresh pipe. The child receives the
// end matching the stream's direction; the other end is recorded on the
// Proc for the caller after launch.
type UsePipe struct{}

// UseFD duplicates a caller-supplied open descriptor onto the stream's
// slot. The descriptor stays caller-owned: the launcher never closes
// it, even when it happens to equal the slot number.
type UseFD struct {
	FD int
}

// UsePath opens a filesystem path directly onto the stream's slot:
// read-only for stdin, create/truncate/write-only for stdout and
// stderr.
type UsePath struct {
	Path string
}

// MergeStdout duplicates stderr onto whatever stdout resolved to. Valid
// for stderr only. When stdout is inherited this is a no-op; when
// stdout is discarded, stderr is discarded too.
type MergeStdout struct{}

func (Inherit) isRedirect()     {}
func (Discard) isRedirect()     {}
func (UsePipe) isRedirect()     {}
func (UseFD) isRedirect()       {}
func (UsePath) isRedirect()     {}
func (MergeStdout) isRedirect() {}
