package acceptance_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var editrainerBinary string

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "editrainer-acceptance-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	editrainerBinary = filepath.Join(tmpDir, "editrainer")
	build := exec.Command("go", "build", "-o", editrainerBinary, "github.com/eykd/edi-trainer-go")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		panic("failed to build editrainer binary: " + err.Error())
	}

	os.Exit(m.Run())
}
