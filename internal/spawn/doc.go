// Package spawn launches child processes with per-stream control over
// standard input, output, and error.
//
// Each of the three streams is wired independently through a Redirect
// value: inherited from the caller, closed in the child, bridged with a
// fresh pipe, duplicated from a caller-supplied descriptor, opened from
// a filesystem path, or (stderr only) merged into whatever stdout
// resolved to. The launcher owns the dup/close ordering so no
// descriptor leaks into the child and no descriptor is closed before it
// crosses; on any failure every descriptor created for the attempt is
// released before the error returns.
//
// Example:
//
//	p := spawn.New()
//	p.Stdout = spawn.UsePipe{}
//	p.Stderr = spawn.MergeStdout{}
//	if err := p.Launch([]string{"ls", "/bin"}, nil); err != nil {
//		return err
//	}
//	defer p.Close()
//	out, _ := drain.Drain(p.StdoutFD())
//	code, _ := p.Wait()
//
// A Proc is launched at most once and is not safe for concurrent use;
// the processes it creates run concurrently as the OS schedules them,
// but draining pipes and waiting for exit are the caller's job.
package spawn
