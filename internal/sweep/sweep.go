// Package sweep turns a tabular sweep definition into per-variant parameter
// override fragments. Each CSV row is one variant: a `path` column names the
// destination directory, every other column is a parameter, optionally
// paired with a `<name>_unit` column. Empty cells omit the parameter.
package sweep

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FragmentName is the file each variant's overrides are written to, sitting
// alongside (and layered over) the base parameter file.
const FragmentName = "params.jshc"

// Param is one swept parameter assignment.
type Param struct {
	Name  string
	Value string
	Unit  string
}

// Variant is one row of the sweep definition.
type Variant struct {
	Path   string
	Params []Param
}

// ParseDefinitions reads sweep rows from r. Parameter order follows the
// column order of the header.
func ParseDefinitions(r io.Reader) ([]Variant, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read sweep header: %w", err)
	}

	pathCol := -1
	for i, name := range header {
		if name == "path" {
			pathCol = i
		}
	}
	if pathCol < 0 {
		return nil, fmt.Errorf("sweep definition needs a path column")
	}

	unitCol := make(map[string]int)
	for i, name := range header {
		if base, ok := strings.CutSuffix(name, "_unit"); ok {
			unitCol[base] = i
		}
	}

	var variants []Variant
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read sweep row: %w", err)
		}
		line++

		v := Variant{Path: strings.TrimSpace(record[pathCol])}
		if v.Path == "" {
			return nil, fmt.Errorf("sweep row %d: empty path", line)
		}
		for i, name := range header {
			if i == pathCol || strings.HasSuffix(name, "_unit") {
				continue
			}
			value := strings.TrimSpace(record[i])
			if value == "" {
				continue
			}
			p := Param{Name: name, Value: value}
			if ui, ok := unitCol[name]; ok {
				p.Unit = strings.TrimSpace(record[ui])
			}
			v.Params = append(v.Params, p)
		}
		variants = append(variants, v)
	}
	return variants, nil
}

// Fragment renders the variant's override file content. It carries only the
// swept names and is meant to be merged over the base parameter file.
func (v Variant) Fragment(now time.Time) string {
	var b strings.Builder
	b.WriteString("# Auto-generated configuration for parameter sweep\n")
	fmt.Fprintf(&b, "# Path: %s\n", v.Path)
	fmt.Fprintf(&b, "# Generated: %s\n", now.Format(time.RFC3339))
	b.WriteString("#\n")
	b.WriteString("# This file contains ONLY the swept parameters.\n")
	b.WriteString("# It should be used alongside the base params.jshc\n")
	b.WriteString("#\n")
	for _, p := range v.Params {
		if p.Unit != "" {
			fmt.Fprintf(&b, "%s = %s %s\n", p.Name, p.Value, p.Unit)
		} else {
			fmt.Fprintf(&b, "%s = %s\n", p.Name, p.Value)
		}
	}
	return b.String()
}

// Generate parses the sweep definition file and writes one fragment per
// variant under outRoot. It returns the written fragment paths.
func Generate(csvPath, outRoot string) ([]string, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open sweep definition: %w", err)
	}
	defer f.Close()

	variants, err := ParseDefinitions(f)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var written []string
	for _, v := range variants {
		dir := filepath.Join(outRoot, v.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return written, fmt.Errorf("create %s: %w", dir, err)
		}
		path := filepath.Join(dir, FragmentName)
		if err := os.WriteFile(path, []byte(v.Fragment(now)), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Clean removes the fragments a sweep definition generated, plus their
// directories when that leaves them empty.
func Clean(csvPath, outRoot string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open sweep definition: %w", err)
	}
	defer f.Close()

	variants, err := ParseDefinitions(f)
	if err != nil {
		return err
	}
	for _, v := range variants {
		dir := filepath.Join(outRoot, v.Path)
		if err := os.Remove(filepath.Join(dir, FragmentName)); err != nil && !os.IsNotExist(err) {
			return err
		}
		// Best effort: fails when the directory still has other files.
		os.Remove(dir)
	}
	return nil
}
