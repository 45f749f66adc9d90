//go:build unix

// Package pipeline composes launched processes stdout-to-stdin, the way
// a shell wires `a | b`, on top of the spawn package.
package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ProcPipe/internal/drain"
	"github.com/GriffinCanCode/ProcPipe/internal/spawn"
)

// Stage is one command in a pipeline. A nil Env inherits the parent
// environment.
type Stage struct {
	Args []string
	Env  []string
}

// Pipeline runs its stages left to right with each stage's stdout
// feeding the next stage's stdin. The first stage reads the caller's
// stdin; the last stage's stdout and every stage's stderr are collected
// through pipes.
type Pipeline struct {
	stages []Stage
	procs  []*spawn.Proc
	log    *zap.Logger
}

// New builds a pipeline over the given stages. A nil logger disables
// logging.
func New(log *zap.Logger, stages ...Stage) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{stages: stages, log: log}
}

// Run launches every stage, waits for all of them in order, and returns
// the final stage's complete output together with per-stage exit codes.
func (p *Pipeline) Run() ([]byte, []int, error) {
	if len(p.stages) == 0 {
		return nil, nil, errors.New("pipeline: no stages")
	}
	if p.procs != nil {
		return nil, nil, errors.New("pipeline: already run")
	}
	if err := p.start(); err != nil {
		return nil, nil, err
	}
	defer func() {
		for _, pr := range p.procs {
			pr.Close()
		}
	}()

	// The last stage can fill its stdout pipe long before the earlier
	// stages exit, so collection has to overlap the waits.
	last := p.procs[len(p.procs)-1]
	type result struct {
		out []byte
		err error
	}
	collected := make(chan result, 1)
	go func() {
		out, err := drain.Drain(last.StdoutFD())
		collected <- result{out, err}
	}()

	codes := make([]int, len(p.procs))
	var waitErr error
	for i, pr := range p.procs {
		code, err := pr.Wait()
		if err != nil && waitErr == nil {
			waitErr = fmt.Errorf("pipeline: stage %d (%s): %w", i, p.stages[i].Args[0], err)
		}
		codes[i] = code
		p.log.Debug("stage exited",
			zap.Int("stage", i),
			zap.String("command", p.stages[i].Args[0]),
			zap.Int("exit", code))
		// The next stage sees EOF only once both this stage's copy of
		// the shared write end and ours are gone.
		if i+1 < len(p.procs) {
			p.procs[i+1].CloseStream(spawn.Stdin)
		}
	}

	res := <-collected
	if waitErr != nil {
		return res.out, codes, waitErr
	}
	return res.out, codes, res.err
}

// start launches the stages downstream-first: a stage's stdout is the
// caller-held write end of the stage to its right, so by the time any
// process runs its whole downstream plumbing already exists.
func (p *Pipeline) start() error {
	n := len(p.stages)
	p.procs = make([]*spawn.Proc, n)
	feedFD := -1 // write end of the stdin pipe of the stage to the right
	for i := n - 1; i >= 0; i-- {
		st := p.stages[i]
		if len(st.Args) == 0 {
			p.abort(i + 1)
			return fmt.Errorf("pipeline: stage %d has no command", i)
		}
		pr := spawn.New()
		if i == n-1 {
			pr.Stdout = spawn.UsePipe{}
		} else {
			pr.Stdout = spawn.UseFD{FD: feedFD}
		}
		if i > 0 {
			pr.Stdin = spawn.UsePipe{}
		}
		if err := pr.Launch(st.Args, st.Env); err != nil {
			p.abort(i + 1)
			return fmt.Errorf("pipeline: stage %d (%s): %w", i, st.Args[0], err)
		}
		p.log.Debug("stage launched",
			zap.Int("stage", i),
			zap.String("command", st.Args[0]),
			zap.Int("pid", pr.PID()))
		feedFD = pr.StdinFD()
		p.procs[i] = pr
	}
	return nil
}

// abort cleans up after a failed start: stages from idx on are already
// running. Dropping every pipe end we hold delivers EOF on their stdin
// and write errors on their stdout, which lets them exit on their own
// (no signalling here); they are then reaped.
func (p *Pipeline) abort(idx int) {
	for i := idx; i < len(p.procs); i++ {
		pr := p.procs[i]
		if pr == nil {
			continue
		}
		for s := spawn.Stdin; s <= spawn.Stderr; s++ {
			pr.CloseStream(s)
		}
		if code, err := pr.Wait(); err == nil {
			p.log.Warn("stage abandoned after pipeline failure",
				zap.Int("stage", i), zap.Int("exit", code))
		}
		pr.Close()
	}
	p.procs = nil
}
