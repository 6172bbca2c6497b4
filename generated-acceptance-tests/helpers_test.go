package acceptance_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// runEditrainer executes the binary in dir with stdin and returns stdout,
// stderr, and exit code.
func runEditrainer(t *testing.T, dir, stdin string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(editrainerBinary, args...)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = append(os.Environ(), "HOME="+dir)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run editrainer: %v", err)
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

// runSuccess runs editrainer expecting exit code 0 and returns stdout.
func runSuccess(t *testing.T, dir, stdin string, args ...string) string {
	t.Helper()
	stdout, stderr, exitCode := runEditrainer(t, dir, stdin, args...)
	if exitCode != 0 {
		t.Fatalf("expected exit 0, got %d\nargs: %v\nstdout: %s\nstderr: %s", exitCode, args, stdout, stderr)
	}
	return stdout
}

// generateJSON runs editrainer --json and parses the result.
func generateJSON(t *testing.T, dir string, extraArgs ...string) map[string]interface{} {
	t.Helper()
	args := append([]string{"--json"}, extraArgs...)
	stdout := runSuccess(t, dir, "", args...)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("failed to parse generate JSON: %v\noutput: %s", err, stdout)
	}
	return result
}

// transactions extracts the transactions array from a --json result.
func transactions(t *testing.T, result map[string]interface{}) []map[string]interface{} {
	t.Helper()
	raw, ok := result["transactions"].([]interface{})
	if !ok {
		t.Fatal("missing transactions in result")
	}
	out := make([]map[string]interface{}, len(raw))
	for i, r := range raw {
		out[i] = r.(map[string]interface{})
	}
	return out
}

// segmentLines returns the segment lines of output, skipping prompts,
// hints and comments.
func segmentLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if strings.HasSuffix(line, "~") && strings.Contains(line, "*") {
			lines = append(lines, line)
		}
	}
	return lines
}

// writeFile creates a file with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

// readFile reads a file and returns its content.
func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

// fileExists reports whether dir/name exists.
func fileExists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
