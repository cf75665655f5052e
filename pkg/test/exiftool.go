package test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// StubExiftoolOptions configures the behaviour of a fake exiftool
// binary, so tests can run without the real tool installed.
type StubExiftoolOptions struct {
	// DumpJSON is written to stdout for metadata dump invocations.
	DumpJSON string
	// DumpError, when set, makes dump invocations write to stderr and
	// exit non-zero instead.
	DumpError string
	// Tags holds the payload returned for each binary tag extraction,
	// keyed by tag name. Missing tags produce empty output and a zero
	// exit, which is what the real tool does.
	Tags map[string][]byte
	// CopyError, when set, makes tag copy invocations write to stderr
	// and exit non-zero.
	CopyError string
	// Sleep delays every invocation, for exercising timeouts.
	Sleep time.Duration
	// CallLog, when set, is a file every invocation appends its
	// arguments to, one line per call.
	CallLog string
}

// StubExiftool writes an executable shell script that mimics the
// exiftool invocations used by this project and returns its path.
func StubExiftool(t *testing.T, opts StubExiftoolOptions) string {
	t.Helper()

	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, "dump.json"), []byte(opts.DumpJSON), 0o644)
	if err != nil {
		t.Fatalf("failed to write dump payload: %s", err)
	}

	for tag, data := range opts.Tags {
		err = os.WriteFile(filepath.Join(dir, "tag_"+tag+".bin"), data, 0o644)
		if err != nil {
			t.Fatalf("failed to write tag payload: %s", err)
		}
	}

	script := "#!/bin/sh\n"

	if opts.CallLog != "" {
		script += fmt.Sprintf("printf '%%s\\n' \"$*\" >> %q\n", opts.CallLog)
	}

	if opts.Sleep > 0 {
		script += fmt.Sprintf("sleep %g\n", opts.Sleep.Seconds())
	}

	dumpBody := fmt.Sprintf("cat %q", filepath.Join(dir, "dump.json"))
	if opts.DumpError != "" {
		dumpBody = fmt.Sprintf("echo %q >&2; exit 1", opts.DumpError)
	}

	copyBody := "exit 0"
	if opts.CopyError != "" {
		copyBody = fmt.Sprintf("echo %q >&2; exit 1", opts.CopyError)
	}

	script += fmt.Sprintf(`case "$1" in
-j)
  %s
  ;;
-b)
  tag="${2#-}"
  f=%q/tag_"$tag".bin
  if [ -f "$f" ]; then
    cat "$f"
  fi
  ;;
-tagsfromfile)
  %s
  ;;
esac
`, dumpBody, dir, copyBody)

	path := filepath.Join(dir, "exiftool")

	err = os.WriteFile(path, []byte(script), 0o755)
	if err != nil {
		t.Fatalf("failed to write stub exiftool: %s", err)
	}

	return path
}
