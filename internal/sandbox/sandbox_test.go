package sandbox

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	result Result
	err    error
	name   string
	args   []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	f.name = name
	f.args = args
	return f.result, f.err
}

func TestImageChecker_Ensure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		result  Result
		runErr  error
		wantIs  error
		wantMsg string
	}{
		{
			name:   "present",
			result: Result{ExitCode: 0, Stdout: "[{}]"},
		},
		{
			name:    "not found",
			result:  Result{ExitCode: 1, Stderr: "Error: No such image: ghost-image\n"},
			wantIs:  ErrImageNotFound,
			wantMsg: "Sandbox image not found: ghost-image. Build or pull it first.",
		},
		{
			name:    "other failure keeps stderr",
			result:  Result{ExitCode: 1, Stderr: "permission denied"},
			wantIs:  ErrInspectFailed,
			wantMsg: "Failed to inspect sandbox image: permission denied",
		},
		{
			name:    "runner failure",
			runErr:  errors.New(`exec: "docker": executable file not found in $PATH`),
			wantIs:  ErrInspectFailed,
			wantMsg: `Failed to inspect sandbox image: exec: "docker": executable file not found in $PATH`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			runner := &fakeRunner{result: tt.result, err: tt.runErr}
			err := NewImageChecker(runner, "", zerolog.Nop()).Ensure(context.Background(), "ghost-image")

			assert.Equal(t, "docker", runner.name)
			assert.Equal(t, []string{"image", "inspect", "ghost-image"}, runner.args)
			if tt.wantIs == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestImageChecker_ErrorTypes(t *testing.T) {
	t.Parallel()

	err := NewImageChecker(&fakeRunner{result: Result{ExitCode: 1, Stderr: "Error: No such image: ghost-image"}}, "podman", zerolog.Nop()).
		Ensure(context.Background(), "ghost-image")
	var notFound *ImageNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost-image", notFound.Image)
	assert.NotErrorIs(t, err, ErrInspectFailed)

	err = NewImageChecker(&fakeRunner{result: Result{ExitCode: 125, Stderr: "permission denied"}}, "", zerolog.Nop()).
		Ensure(context.Background(), "ghost-image")
	var inspect *InspectError
	require.ErrorAs(t, err, &inspect)
	assert.Equal(t, "permission denied", inspect.Stderr)
	assert.NotErrorIs(t, err, ErrImageNotFound)
}

func TestExecRunner_ReportsExitCode(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	res, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "oops\n", res.Stderr)
}

func TestExecRunner_StartFailure(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "plancraft-no-such-binary")
	assert.Error(t, err)
}
