//go:build acceptance

// Package acceptance contains black-box CLI acceptance tests (TestA_*).
// Run with: go test -tags=acceptance ./test/acceptance/...
package acceptance

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// qderBinary is the path to the qder binary.
// Set via QDER_BINARY env var or default to ./bin/qder in the repo root.
var qderBinary string

func init() {
	if bin := os.Getenv("QDER_BINARY"); bin != "" {
		qderBinary = bin
	} else {
		qderBinary = "../../bin/qder"
	}
}

// runQDER executes the qder CLI with the given arguments and returns stdout.
// Fails the test if the command returns a non-zero exit code.
func runQDER(t *testing.T, args ...string) string {
	t.Helper()
	cmd := exec.Command(qderBinary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Fatalf("qder %s failed: %v\nstderr: %s\nstdout: %s",
			strings.Join(args, " "), err, stderr.String(), stdout.String())
	}
	return stdout.String()
}

// runQDERExpectError executes qder and expects it to fail.
// Returns the combined output (stdout + stderr).
func runQDERExpectError(t *testing.T, args ...string) string {
	t.Helper()
	cmd := exec.Command(qderBinary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err == nil {
		t.Fatalf("qder %s expected to fail but succeeded\nstdout: %s",
			strings.Join(args, " "), stdout.String())
	}
	return stdout.String() + stderr.String()
}

// requireOpenSSL skips the test when openssl is not on PATH.
func requireOpenSSL(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("openssl"); err != nil {
		t.Skip("openssl not found in PATH")
	}
}

// runOpenSSL executes openssl and returns its combined output.
func runOpenSSL(t *testing.T, args ...string) string {
	t.Helper()
	out, err := exec.Command("openssl", args...).CombinedOutput()
	if err != nil {
		t.Fatalf("openssl %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return string(out)
}

// assertFileExists verifies that a file exists at the given path.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("file %s does not exist", path)
	}
}

// assertContains fails the test if s does not contain substr.
func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("output does not contain %q:\n%s", substr, s)
	}
}
