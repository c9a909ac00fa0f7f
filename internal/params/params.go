// Package params loads named numeric parameters from flat configuration
// files. The format is line-oriented: "name = value [unit]", with blank
// lines skipped and full-line or trailing # comments stripped.
package params

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Value is one parameter entry: a numeric value plus an optional unit label.
type Value struct {
	Num  float64
	Unit string
}

// Store holds the merged parameter set. Lookup is by exact name.
type Store struct {
	values map[string]Value
}

// MissingParameterError reports a lookup for a name the store does not hold.
// Suggestion, when non-empty, names the closest known parameter.
type MissingParameterError struct {
	Name       string
	Suggestion string
}

func (e *MissingParameterError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("missing parameter %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("missing parameter %q", e.Name)
}

// ParseError reports a malformed line in a parameter file.
type ParseError struct {
	Source string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
}

// NewStore returns an empty parameter store.
func NewStore() *Store {
	return &Store{values: make(map[string]Value)}
}

// Load reads and parses a parameter file from disk.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parameter file: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads parameters from r. source is used in error messages only.
func Parse(r io.Reader, source string) (*Store, error) {
	s := NewStore()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		// Trailing comments. The format carries no quoted strings, so the
		// first # always starts a comment.
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, raw, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &ParseError{Source: source, Line: lineNo, Reason: fmt.Sprintf("expected name = value, got %q", line)}
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &ParseError{Source: source, Line: lineNo, Reason: "empty parameter name"}
		}
		v, err := parseValue(strings.TrimSpace(raw))
		if err != nil {
			return nil, &ParseError{Source: source, Line: lineNo, Reason: fmt.Sprintf("parameter %q: %v", name, err)}
		}
		s.values[name] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read parameter file: %w", err)
	}
	return s, nil
}

// parseValue splits "value [unit]" into a numeric value and optional unit.
// The leading token must be an integer or decimal number.
func parseValue(raw string) (Value, error) {
	fields := strings.Fields(raw)
	switch len(fields) {
	case 0:
		return Value{}, fmt.Errorf("empty value")
	case 1, 2:
	default:
		return Value{}, fmt.Errorf("expected value [unit], got %q", raw)
	}
	num, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q", fields[0])
	}
	v := Value{Num: num}
	if len(fields) == 2 {
		v.Unit = fields[1]
	}
	return v, nil
}

// Merge layers other's parameters over the receiver, overwriting duplicates.
// Used to apply scenario or sweep override fragments on top of the base file.
func (s *Store) Merge(other *Store) {
	if other == nil {
		return
	}
	for name, v := range other.values {
		s.values[name] = v
	}
}

// Len reports the number of parameters held.
func (s *Store) Len() int { return len(s.values) }

// Names returns the held parameter names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the value and unit for name, or a MissingParameterError.
func (s *Store) Get(name string) (float64, string, error) {
	v, ok := s.values[name]
	if !ok {
		return 0, "", &MissingParameterError{Name: name, Suggestion: s.suggest(name)}
	}
	return v.Num, v.Unit, nil
}

// Float returns the numeric value for name, ignoring its unit.
func (s *Store) Float(name string) (float64, error) {
	num, _, err := s.Get(name)
	return num, err
}

// Percent returns the numeric value for name, rejecting values outside
// [0,100].
func (s *Store) Percent(name string) (float64, error) {
	num, _, err := s.Get(name)
	if err != nil {
		return 0, err
	}
	if num < 0 || num > 100 {
		return 0, fmt.Errorf("parameter %q = %g outside [0,100]", name, num)
	}
	return num, nil
}

// Int returns the value for name truncated to an integer.
func (s *Store) Int(name string) (int, error) {
	num, _, err := s.Get(name)
	if err != nil {
		return 0, err
	}
	return int(num), nil
}

// suggest finds the nearest known name within a length-scaled edit distance.
func (s *Store) suggest(name string) string {
	best := ""
	bestDist := math.MaxInt
	for _, cand := range s.Names() {
		dist := levenshtein.ComputeDistance(name, cand)
		if dist > suggestionLimit(len(cand)) {
			continue
		}
		if dist < bestDist {
			best = cand
			bestDist = dist
		}
	}
	return best
}

func suggestionLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
