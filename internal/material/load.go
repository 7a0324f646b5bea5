package material

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type materialFile struct {
	// Include lists further definition files, relative to this file.
	Include   []string     `yaml:"include"`
	Materials []Definition `yaml:"materials"`
}

// Load reads a YAML definition file, follows its includes and builds a table.
func Load(path string) (*Table, error) {
	defs, err := LoadDefinitions(path)
	if err != nil {
		return nil, err
	}
	t, err := Build(defs)
	if err != nil {
		return nil, fmt.Errorf("build materials from %s: %w", path, err)
	}
	return t, nil
}

// LoadDefinitions returns the definitions in path and its includes, depth
// first, in file order.
func LoadDefinitions(path string) ([]Definition, error) {
	var defs []Definition
	if err := readDefinitions(path, map[string]bool{}, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func readDefinitions(path string, visiting map[string]bool, out *[]Definition) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if visiting[abs] {
		return fmt.Errorf("include cycle at %s", path)
	}
	visiting[abs] = true
	defer delete(visiting, abs)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read materials %s: %w", path, err)
	}
	var f materialFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse materials %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for _, inc := range f.Include {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(dir, inc)
		}
		if err := readDefinitions(inc, visiting, out); err != nil {
			return err
		}
	}
	*out = append(*out, f.Materials...)
	return nil
}
