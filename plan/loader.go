package plan

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/seqkit/errors"
)

// Loader loads plan definitions by name.
type Loader interface {
	Load(name string) (*Plan, error)
}

// FileLoader loads plans from YAML files on disk.
type FileLoader struct {
	dirs []string
}

// NewFileLoader creates a loader that searches the given directories for plan YAML files.
func NewFileLoader(dirs ...string) *FileLoader {
	return &FileLoader{dirs: dirs}
}

// Load searches for {name}.yaml and {name}.yml in each directory and its
// immediate subdirectories. A file that exists but does not parse is an
// error, not a miss.
func (l *FileLoader) Load(name string) (*Plan, error) {
	for _, dir := range l.dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			candidates := []string{filepath.Join(dir, name+ext)}
			matches, _ := filepath.Glob(filepath.Join(dir, "*", name+ext))
			candidates = append(candidates, matches...)

			for _, path := range candidates {
				if _, err := os.Stat(path); err != nil {
					continue
				}
				return LoadFile(path)
			}
		}
	}
	return nil, errors.NotFound("plan", name).WithDetail("dirs", l.dirs)
}

// LoadFile reads and parses one plan file. The plan name defaults to the
// file name without extension.
func LoadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plan: reading %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("plan: parsing %s: %w", path, err)
	}
	if p.Name == "" {
		base := filepath.Base(path)
		p.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	return p, nil
}

// Parse decodes a plan from YAML. JSON is valid YAML and parses too.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.InvalidPlan("", err.Error()).WithCause(err)
	}
	return &p, nil
}
