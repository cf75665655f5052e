package exiftool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Client invokes the exiftool binary. All invocations are bounded by
// Timeout so a wedged tool cannot pin a request worker forever.
type Client struct {
	Binary  string
	Timeout time.Duration
}

func New(binary string, timeout time.Duration) *Client {
	return &Client{
		Binary:  binary,
		Timeout: timeout,
	}
}

// RunError reports a failed tool invocation. TimedOut and Killed are
// distinguished from a plain non-zero exit so callers can tell a slow or
// murdered process apart from one that rejected its input.
type RunError struct {
	ExitCode int
	Stderr   string
	TimedOut bool
	Killed   bool
	Err      error
}

func (e *RunError) Error() string {
	if e.TimedOut {
		return "exiftool: timed out"
	}

	if e.Killed {
		return "exiftool: killed"
	}

	if e.Err != nil {
		return fmt.Sprintf("exiftool: %v", e.Err)
	}

	return fmt.Sprintf("exiftool: exit status %d: %s", e.ExitCode, e.Stderr)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Dump returns the raw stdout of a full metadata dump for the file at
// path: one JSON array holding one object, all groups, numeric values.
func (c *Client) Dump(ctx context.Context, path string) ([]byte, error) {
	return c.run(ctx, "-j", "-a", "-G", "-n", path)
}

// ExtractTag returns the raw binary contents of a single named tag.
func (c *Client) ExtractTag(ctx context.Context, path, tag string) ([]byte, error) {
	return c.run(ctx, "-b", "-"+tag, path)
}

// CopyAllTags copies every metadata group from src onto dst in place.
// Unsafe tags are included; completeness is preferred over strict
// cross-format safety here.
func (c *Client) CopyAllTags(ctx context.Context, src, dst string) error {
	_, err := c.run(
		ctx,
		"-tagsfromfile", src,
		"-all:all",
		"-unsafe",
		"-overwrite_original",
		dst,
	)

	return err
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	binary := c.Binary
	if binary == "" {
		binary = "exiftool"
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	runErr := &RunError{
		Stderr: strings.TrimSpace(stderr.String()),
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		runErr.TimedOut = true

		return nil, runErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		runErr.ExitCode = exitErr.ExitCode()
		// -1 means the process exited on a signal rather than of its
		// own accord
		runErr.Killed = exitErr.ExitCode() == -1

		return nil, runErr
	}

	runErr.Err = err

	return nil, runErr
}
