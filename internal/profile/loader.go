// Package profile loads hourly traffic profiles from files and from
// Prometheus call-attempt counters.
package profile

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/guimove/trunkfit/internal/model"
)

var ErrNoSamples = errors.New("no traffic samples found")

// Loader produces an hourly traffic profile.
type Loader interface {
	// Load returns a validated profile.
	Load(ctx context.Context) (model.HourlyProfile, error)

	// Source describes where the profile comes from.
	Source() string
}

// FileLoader reads a profile from a JSON or CSV file.
// A .json file holds an array of 24 fractions. A .csv file holds either one
// fraction per row or a single row of 24 fractions; a non-numeric first row is
// treated as a header.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader for the file at path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Source returns the file path.
func (f *FileLoader) Source() string {
	return f.path
}

// Load reads and validates the profile.
func (f *FileLoader) Load(ctx context.Context) (model.HourlyProfile, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return model.HourlyProfile{}, fmt.Errorf("opening profile file: %w", err)
	}
	defer file.Close()

	var values []float64
	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".json":
		if err := json.NewDecoder(file).Decode(&values); err != nil {
			return model.HourlyProfile{}, fmt.Errorf("parsing profile file: %w", err)
		}
	case ".csv", ".txt":
		values, err = readCSV(file)
		if err != nil {
			return model.HourlyProfile{}, fmt.Errorf("parsing profile file: %w", err)
		}
	default:
		return model.HourlyProfile{}, fmt.Errorf("unsupported profile file type %q", filepath.Ext(f.path))
	}

	if len(values) == 0 {
		return model.HourlyProfile{}, ErrNoSamples
	}
	return model.NewHourlyProfile(values)
}

func readCSV(r io.Reader) ([]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var values []float64
	for i, record := range records {
		for _, field := range record {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				if i == 0 {
					break // header row
				}
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			values = append(values, v)
		}
	}
	return values, nil
}

// Normalize scales per-hour counts so they sum to one.
func Normalize(counts [model.HoursPerDay]float64) (model.HourlyProfile, error) {
	var total float64
	for h, c := range counts {
		if c < 0 {
			return model.HourlyProfile{}, fmt.Errorf("%w: hour %d has negative count %v", model.ErrInvalidProfile, h, c)
		}
		total += c
	}
	if total == 0 {
		return model.HourlyProfile{}, ErrNoSamples
	}

	var p model.HourlyProfile
	for h, c := range counts {
		p[h] = c / total
	}
	return p, p.Validate()
}

// Static wraps a fixed profile, such as one taken from the configuration.
type Static struct {
	Profile model.HourlyProfile
}

func (s Static) Load(context.Context) (model.HourlyProfile, error) {
	return s.Profile, s.Profile.Validate()
}

func (s Static) Source() string {
	return "config"
}
