// Package shell runs external package-manager commands. It is the
// process boundary behind the choco and winget services; tests swap the
// Runner for a scripted fake.
package shell

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes external commands.
//
// Output captures standard output and fails on a non-zero exit, which
// distinguishes "command executed but failed" from "binary not found"
// (LookPath). Status runs without capturing output and reports the exit
// code; interactive elevation prompts need the console.
type Runner interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) (string, error)
	Status(ctx context.Context, name string, args ...string) (int, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail := strings.TrimSpace(stderr.String())
			if detail == "" {
				detail = err.Error()
			}
			return "", fmt.Errorf("%s exited with status %d: %s", name, exitErr.ExitCode(), detail)
		}
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (ExecRunner) Status(ctx context.Context, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, err
	}
	return 0, nil
}
