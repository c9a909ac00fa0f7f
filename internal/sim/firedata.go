package sim

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"regrow/internal/core"
)

// InputDataError reports missing or malformed spatial input data. It is
// fatal for the scenario that needed the data, not for the whole run.
type InputDataError struct {
	Path   string
	Reason string
}

func (e *InputDataError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("input data: %s", e.Reason)
	}
	return fmt.Sprintf("input data %s: %s", e.Path, e.Reason)
}

// LoadFireSeverity reads a fire-severity raster: a CSV grid of scalars in
// [0,1], one row per grid row, matching the expected dimensions exactly.
func LoadFireSeverity(path string, size core.Size) (*core.FloatGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputDataError{Path: path, Reason: err.Error()}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = size.W
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &InputDataError{Path: path, Reason: err.Error()}
	}
	if len(records) != size.H {
		return nil, &InputDataError{Path: path, Reason: fmt.Sprintf("expected %d rows, got %d", size.H, len(records))}
	}

	grid := core.NewFloatGrid(size.W, size.H)
	for y, record := range records {
		for x, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, &InputDataError{Path: path, Reason: fmt.Sprintf("row %d col %d: invalid severity %q", y, x, field)}
			}
			if v < 0 || v > 1 {
				return nil, &InputDataError{Path: path, Reason: fmt.Sprintf("row %d col %d: severity %g outside [0,1]", y, x, v)}
			}
			grid.Set(x, y, v)
		}
	}
	return grid, nil
}
