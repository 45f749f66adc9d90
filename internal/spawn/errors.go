package spawn

// Kind classifies a launch failure.
type Kind int

const (
	// KindInvalidMode marks a configuration error detected before any
	// OS call: a misplaced MergeStdout, an empty path, a negative
	// descriptor, or a reused configuration.
	KindInvalidMode Kind = iota + 1
	// KindResourceCreation marks a stream-scoped OS failure while
	// creating a pipe or opening a path.
	KindResourceCreation
	// KindSpawn marks a failure of the OS to create the process.
	KindSpawn
)

func (k Kind) String() string {
	switch k {
	case KindInvalidMode:
		return "invalid redirect configuration"
	case KindResourceCreation:
		return "resource creation failed"
	case KindSpawn:
		return "spawn failed"
	}
	return "launch error"
}

// Error is the typed failure returned by Launch. Stream is meaningful
// for KindInvalidMode and KindResourceCreation; Err carries the
// underlying OS error when there is one. Launch never retries: retry
// policy belongs to the caller.
type Error struct {
	Kind   Kind
	Stream Stream
	Op     string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Kind != KindSpawn {
		msg += " on " + e.Stream.String()
	}
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }
