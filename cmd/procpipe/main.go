//go:build unix

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ProcPipe/internal/config"
	"github.com/GriffinCanCode/ProcPipe/internal/drain"
	"github.com/GriffinCanCode/ProcPipe/internal/logging"
	"github.com/GriffinCanCode/ProcPipe/internal/pipeline"
	"github.com/GriffinCanCode/ProcPipe/internal/spawn"
)

func main() {
	stdinMode := flag.String("stdin", "inherit", "stdin redirect: inherit|discard|pipe|path=FILE|fd=N")
	stdoutMode := flag.String("stdout", "pipe", "stdout redirect: inherit|discard|pipe|path=FILE|fd=N")
	stderrMode := flag.String("stderr", "inherit", "stderr redirect: inherit|discard|pipe|merge|path=FILE|fd=N")
	into := flag.String("into", "", "pipe the command's output into this command line")
	flag.Parse()

	cfg := config.LoadOrDefault()
	log := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	defer log.Sync()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: procpipe [flags] command [args...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	code, err := run(log, args, *stdinMode, *stdoutMode, *stderrMode, *into)
	if err != nil {
		log.Error("launch failed", zap.Error(err))
		os.Exit(1)
	}
	os.Exit(code)
}

func run(log *zap.Logger, args []string, stdinMode, stdoutMode, stderrMode, into string) (int, error) {
	if into != "" {
		out, codes, err := pipeline.New(log,
			pipeline.Stage{Args: args},
			pipeline.Stage{Args: strings.Fields(into)},
		).Run()
		if err != nil {
			return -1, err
		}
		os.Stdout.Write(out)
		log.Debug("pipeline finished", zap.Ints("exit_codes", codes))
		return codes[len(codes)-1], nil
	}

	p := spawn.New()
	var err error
	if p.Stdin, err = parseRedirect(stdinMode, false); err != nil {
		return -1, err
	}
	if p.Stdout, err = parseRedirect(stdoutMode, false); err != nil {
		return -1, err
	}
	if p.Stderr, err = parseRedirect(stderrMode, true); err != nil {
		return -1, err
	}

	if err := p.Launch(args, nil); err != nil {
		return -1, err
	}
	defer p.Close()
	log.Debug("launched", zap.String("command", args[0]), zap.Int("pid", p.PID()))

	// Drain stderr concurrently so the child can't stall on a full
	// pipe while we read stdout.
	errc := make(chan []byte, 1)
	if fd := p.StderrFD(); fd >= 0 {
		go func() {
			out, _ := drain.Drain(fd)
			errc <- out
		}()
	} else {
		errc <- nil
	}
	if fd := p.StdoutFD(); fd >= 0 {
		out, err := drain.Drain(fd)
		if err != nil {
			log.Warn("stdout drain interrupted", zap.Error(err))
		}
		os.Stdout.Write(out)
	}
	if out := <-errc; len(out) > 0 {
		os.Stderr.Write(out)
	}

	code, err := p.Wait()
	if err != nil {
		return -1, err
	}
	log.Debug("exited", zap.String("command", args[0]), zap.Int("exit", code))
	return code, nil
}

func parseRedirect(mode string, stderr bool) (spawn.Redirect, error) {
	switch {
	case mode == "" || mode == "inherit":
		return spawn.Inherit{}, nil
	case mode == "discard":
		return spawn.Discard{}, nil
	case mode == "pipe":
		return spawn.UsePipe{}, nil
	case mode == "merge" && stderr:
		return spawn.MergeStdout{}, nil
	case strings.HasPrefix(mode, "path="):
		return spawn.UsePath{Path: strings.TrimPrefix(mode, "path=")}, nil
	case strings.HasPrefix(mode, "fd="):
		fd, err := strconv.Atoi(strings.TrimPrefix(mode, "fd="))
		if err != nil {
			return nil, fmt.Errorf("bad descriptor in %q: %w", mode, err)
		}
		return spawn.UseFD{FD: fd}, nil
	}
	return nil, fmt.Errorf("unknown redirect mode %q", mode)
}
