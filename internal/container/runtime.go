// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container detects a container runtime and runs toolchain images
// against a directory mounted into the container.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
)

// WorkDir is where a Job's host directory is mounted inside the container.
const WorkDir = "/work"

// ErrNoRuntime is returned by DetectRuntime when no known runtime responds.
var ErrNoRuntime = errors.New("no container runtime available")

// Job is one containerised command over a host directory.
type Job struct {
	Image string

	// Dir is the host directory mounted at WorkDir. It is also the working
	// directory of the command.
	Dir  string
	Args []string
}

// Runtime runs Jobs through a container binary.
type Runtime interface {
	// Name returns the runtime binary, "docker" or "podman".
	Name() string

	// Available reports whether the binary is on PATH and its daemon or
	// service answers an info request.
	Available(ctx context.Context) bool

	// ImageExists returns nil when image is present locally.
	ImageExists(ctx context.Context, image string) error

	// RunIn runs job and streams combined output to out.
	RunIn(ctx context.Context, job Job, out io.Writer) error
}

// executor runs host commands. A nil out discards output.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, out io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, name string, args []string, out io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}

// flavor captures what differs between supported runtimes.
type flavor struct {
	bin        string
	imageCheck []string
}

// flavors are tried in order by DetectRuntime.
var flavors = []flavor{
	{bin: "docker", imageCheck: []string{"image", "inspect"}},
	{bin: "podman", imageCheck: []string{"image", "exists"}},
}

type runtime struct {
	flavor
	exec executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available(ctx context.Context) bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.Run(ctx, r.bin, []string{"info"}, nil) == nil
}

func (r *runtime) ImageExists(ctx context.Context, image string) error {
	args := append(append([]string{}, r.imageCheck...), image)
	if err := r.exec.Run(ctx, r.bin, args, nil); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) RunIn(ctx context.Context, job Job, out io.Writer) error {
	args, err := runArgs(job)
	if err != nil {
		return err
	}
	if err := r.exec.Run(ctx, r.bin, args, out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s container %s: %w", r.bin, job.Image, ctxErr)
		}
		return fmt.Errorf("%s container %s: %w", r.bin, job.Image, err)
	}
	return nil
}

// runArgs builds the "run" invocation for job. The host directory is
// resolved to an absolute path since bind mounts reject relative ones.
func runArgs(job Job) ([]string, error) {
	if job.Image == "" {
		return nil, errors.New("container job has no image")
	}
	abs, err := filepath.Abs(job.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", job.Dir, err)
	}
	args := []string{"run", "--rm", "-v", abs + ":" + WorkDir, "-w", WorkDir, job.Image}
	return append(args, job.Args...), nil
}

// DetectRuntime returns the first of docker and podman that responds.
func DetectRuntime(ctx context.Context) (Runtime, error) {
	return detectRuntime(ctx, osExecutor{})
}

func detectRuntime(ctx context.Context, ex executor) (Runtime, error) {
	bins := make([]string, 0, len(flavors))
	for _, f := range flavors {
		rt := &runtime{flavor: f, exec: ex}
		if rt.Available(ctx) {
			return rt, nil
		}
		bins = append(bins, f.bin)
	}
	return nil, fmt.Errorf("%w: tried %s", ErrNoRuntime, strings.Join(bins, ", "))
}
