// Package sandbox verifies that the container image used for sandboxed
// runs exists locally.
package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrImageNotFound = errors.New("sandbox image not found")
	ErrInspectFailed = errors.New("sandbox image inspection failed")
)

// notFoundMarker is the substring the docker CLI prints for a missing image.
const notFoundMarker = "No such image"

// ImageNotFoundError reports a missing image.
type ImageNotFoundError struct {
	Image string
}

func (e *ImageNotFoundError) Error() string {
	return fmt.Sprintf("Sandbox image not found: %s. Build or pull it first.", e.Image)
}

func (e *ImageNotFoundError) Is(target error) bool { return target == ErrImageNotFound }

// InspectError reports any other inspection failure with the raw stderr.
type InspectError struct {
	Image  string
	Stderr string
}

func (e *InspectError) Error() string {
	return "Failed to inspect sandbox image: " + e.Stderr
}

func (e *InspectError) Is(target error) bool { return target == ErrInspectFailed }

// Result is the outcome of running an external process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner runs an external process to completion. A non-zero exit is
// reported in Result, not as an error; err is for failures to start.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs processes with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	default:
		return res, fmt.Errorf("running %s: %w", name, err)
	}
}

// ImageChecker inspects images with <binary> image inspect <image>.
type ImageChecker struct {
	runner Runner
	binary string
	logger zerolog.Logger
}

// NewImageChecker creates an ImageChecker. An empty binary means "docker".
func NewImageChecker(runner Runner, binary string, logger zerolog.Logger) *ImageChecker {
	if binary == "" {
		binary = "docker"
	}
	return &ImageChecker{runner: runner, binary: binary, logger: logger}
}

// Ensure returns nil when the image is present, *ImageNotFoundError when
// the inspector says it does not exist, and *InspectError otherwise.
func (c *ImageChecker) Ensure(ctx context.Context, image string) error {
	res, err := c.runner.Run(ctx, c.binary, "image", "inspect", image)
	if err != nil {
		c.logger.Warn().Err(err).Str("image", image).Msg("sandbox inspect could not run")
		return &InspectError{Image: image, Stderr: err.Error()}
	}
	if res.ExitCode == 0 {
		c.logger.Info().Str("image", image).Msg("sandbox image present")
		return nil
	}

	stderr := strings.TrimSpace(res.Stderr)
	c.logger.Warn().Str("image", image).Int("exit_code", res.ExitCode).Str("stderr", stderr).Msg("sandbox image check failed")
	if strings.Contains(stderr, notFoundMarker) {
		return &ImageNotFoundError{Image: image}
	}
	return &InspectError{Image: image, Stderr: stderr}
}
