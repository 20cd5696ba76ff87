package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/remiblancher/qder/internal/audit"
)

// executeCommand executes a Cobra command with the given args and returns output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err = root.Execute()
	return buf.String(), err
}

// testContext holds test resources.
type testContext struct {
	t       *testing.T
	tempDir string
}

// newTestContext creates a new test context with a temp directory and
// resets the command flags.
func newTestContext(t *testing.T) *testContext {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)
	return &testContext{t: t, tempDir: t.TempDir()}
}

// path returns a path within the temp directory.
func (tc *testContext) path(name string) string {
	return filepath.Join(tc.tempDir, name)
}

// writeFile writes content to a file in the temp directory.
func (tc *testContext) writeFile(name, content string) string {
	tc.t.Helper()
	path := tc.path(name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		tc.t.Fatalf("Failed to write file %s: %v", name, err)
	}
	return path
}

// resetFlags resets all flags to their default values.
// This is needed because Cobra retains flag values between test runs.
func resetFlags() {
	_ = audit.Close()
	auditLogPath = ""

	oidMode = "content"
	oidFormat = "hex"
	oidEncoding = ""

	repackFrom = 8
	repackTo = 7
	repackEncoding = ""
	repackFormat = "hex"

	tbsTemplate = ""
	tbsOutput = ""
	tbsFormat = ""
	tbsSign = false
	tbsPubKeyOut = ""

	crlTemplate = ""
	crlOutput = ""
	crlFormat = ""

	servePort = 0
	serveHost = ""
	serveTLSCert = ""
	serveTLSKey = ""

	auditLogFile = ""
	auditTailNum = 10
	auditShowJSON = false
}

// =============================================================================
// Assertion Helpers
// =============================================================================

// assertFileExists verifies that a file exists at the given path.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("file %s does not exist", path)
	}
}

// assertNoError fails the test if err is not nil.
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertError fails the test if err is nil.
func assertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// assertContains fails the test if s does not contain substr.
func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !bytes.Contains([]byte(s), []byte(substr)) {
		t.Errorf("output %q does not contain %q", s, substr)
	}
}
