// Package results merges per-scenario engine outputs into one labeled
// dataset. Aggregation is best-effort: an absent scenario file is a warning
// and contributes zero rows, never an abort.
package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Source names one scenario replicate's output file.
type Source struct {
	Scenario  string
	Replicate string
	Path      string
}

// Dataset is the combined output: every scenario's rows tagged with trailing
// scenario and replicate columns, in scenario declaration order with
// replicates consecutive.
type Dataset struct {
	Header    []string
	Rows      [][]string
	Scenarios int
	Skipped   []string

	lastScenario string
}

// Combine reads the sources in order. The header comes from the first
// readable source plus the scenario and replicate columns; missing files are
// skipped with a warning.
func Combine(sources []Source, log *slog.Logger) (*Dataset, error) {
	if log == nil {
		log = slog.Default()
	}
	d := &Dataset{}
	for _, src := range sources {
		if err := d.Append(src, log); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Append merges one more source into the dataset. Appending C to a dataset
// combined from [A, B] yields the same rows as combining [A, B, C] directly.
func (d *Dataset) Append(src Source, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	f, err := os.Open(src.Path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("scenario output not found, skipping",
				"scenario", src.Scenario, "replicate", src.Replicate, "path", src.Path)
			if n := len(d.Skipped); n == 0 || d.Skipped[n-1] != src.Scenario {
				d.Skipped = append(d.Skipped, src.Scenario)
			}
			return nil
		}
		return fmt.Errorf("open %s: %w", src.Path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", src.Path, err)
	}
	if d.Header == nil {
		d.Header = append(append([]string{}, header...), "scenario", "replicate")
	} else if len(header) != len(d.Header)-2 {
		return fmt.Errorf("%s: %d columns, expected %d", src.Path, len(header), len(d.Header)-2)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", src.Path, err)
		}
		d.Rows = append(d.Rows, append(record, src.Scenario, src.Replicate))
	}
	// Replicates of one scenario arrive consecutively and count once.
	if src.Scenario != d.lastScenario {
		d.Scenarios++
		d.lastScenario = src.Scenario
	}
	return nil
}

// WriteCSV serializes the combined dataset.
func (d *Dataset) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(d.Header); err != nil {
		return err
	}
	for _, row := range d.Rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile writes the combined dataset to path.
func (d *Dataset) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := d.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
