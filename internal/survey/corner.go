// Package survey holds hand-surveyed boundary corners and their data files.
package survey

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/boundary-cli/internal/dms"
)

// Corner is a surveyed boundary corner with DMS coordinates.
type Corner struct {
	Name   string `yaml:"name" json:"name"`
	LatDMS string `yaml:"lat" json:"lat"`
	LonDMS string `yaml:"lon" json:"lon"`
	Page   int    `yaml:"page,omitempty" json:"page,omitempty"` // survey book page, 0 when unknown
}

// Lat returns the corner latitude in decimal degrees.
func (c Corner) Lat() (float64, error) {
	return dms.Parse(c.LatDMS)
}

// Lon returns the corner longitude in decimal degrees.
func (c Corner) Lon() (float64, error) {
	return dms.Parse(c.LonDMS)
}

// LatLon parses both coordinates, checking hemispheres and ranges.
func (c Corner) LatLon() (lat, lon float64, err error) {
	return dms.ParseLatLon(c.LatDMS, c.LonDMS)
}

// LoadCorners reads a corner list from a YAML, JSON or XLSX file.
func LoadCorners(path string) ([]Corner, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadCornersXLSX(path, XLSXOptions{})
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "survey: read %s", path)
	}
	corners, err := DecodeCorners(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrapf(err, "survey: load %s", path)
	}
	return corners, nil
}

// DecodeCorners decodes a corner list and validates every entry. A corner
// with unparseable coordinates fails the whole list.
func DecodeCorners(r io.Reader) ([]Corner, error) {
	var corners []Corner
	if err := yaml.NewDecoder(r).Decode(&corners); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, eris.New("survey: empty corner list")
		}
		return nil, eris.Wrap(err, "survey: decode corners")
	}
	return validate(corners)
}

func validate(corners []Corner) ([]Corner, error) {
	if len(corners) == 0 {
		return nil, eris.New("survey: empty corner list")
	}

	for i, c := range corners {
		if c.Name == "" {
			return nil, eris.Errorf("survey: corner %d has no name", i)
		}
		if _, _, err := c.LatLon(); err != nil {
			return nil, eris.Wrapf(err, "survey: corner %q", c.Name)
		}
	}
	return corners, nil
}
