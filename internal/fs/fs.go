// Package fs provides filesystem adapters for the trainer and the
// specification store.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eykd/edi-trainer-go/internal/specs"
)

// OSSpecReader implements specs.SourceReader over a directory of YAML
// documents, or over a single YAML file.
type OSSpecReader struct {
	Path string
}

// ReadSources reads every *.yaml and *.yml file in name order. A missing
// path yields an error wrapping os.ErrNotExist.
func (r *OSSpecReader) ReadSources(ctx context.Context) ([]specs.Source, error) {
	info, err := os.Stat(r.Path)
	if err != nil {
		return nil, fmt.Errorf("reading specifications %s: %w", r.Path, err)
	}
	if !info.IsDir() {
		src, err := readSource(r.Path)
		if err != nil {
			return nil, err
		}
		return []specs.Source{src}, nil
	}

	entries, err := os.ReadDir(r.Path)
	if err != nil {
		return nil, fmt.Errorf("reading specifications %s: %w", r.Path, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	sources := make([]specs.Source, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := readSource(filepath.Join(r.Path, name))
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func readSource(path string) (specs.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return specs.Source{}, fmt.Errorf("reading specification %s: %w", path, err)
	}
	return specs.Source{Name: filepath.Base(path), Data: data}, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// OSWriter writes generated output files.
type OSWriter struct{}

// WriteFile writes content to path, creating parent directories as needed.
func (OSWriter) WriteFile(_ context.Context, path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
