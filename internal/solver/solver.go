// Package solver runs the external nonogram solver.
package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/logger"
)

// DefaultTimeout bounds one solver run.
const DefaultTimeout = 2 * time.Minute

// Solver turns a puzzle file into solver output text.
type Solver interface {
	Invoke(ctx context.Context, specPath string) (string, error)
}

// Exec runs a solver command line with the puzzle path appended.
type Exec struct {
	Path    string
	Args    []string
	Timeout time.Duration
}

// NewExec creates an Exec for the binary at path.
func NewExec(path string, timeout time.Duration) *Exec {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Exec{Path: path, Timeout: timeout}
}

// Invoke runs the solver and returns its standard output. A non-zero exit or
// an expired timeout is a solver error; nothing is retried.
func (e *Exec) Invoke(ctx context.Context, specPath string) (string, error) {
	if e.Path == "" {
		return "", &domain.OpError{Op: "solver.invoke", Kind: domain.KindSolver, Err: errors.New("no solver configured")}
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, e.Args...), specPath)
	cmd := exec.CommandContext(ctx, e.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	logger.L().Info("solver.start", "path", e.Path, "spec", specPath)
	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", &domain.OpError{Op: "solver.invoke", Kind: domain.KindSolver, Path: specPath,
			Err: fmt.Errorf("timed out after %s", timeout)}
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", &domain.OpError{Op: "solver.invoke", Kind: domain.KindSolver, Path: specPath, Err: err}
	}

	logger.L().Info("solver.done", "duration", time.Since(start).String(), "bytes", stdout.Len())
	return stdout.String(), nil
}
