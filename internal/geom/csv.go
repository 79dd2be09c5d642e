package geom

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads a CSV with latitude/longitude columns and returns points.
func LoadCSV(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()
	return DecodeCSV(f)
}

// DecodeCSV detects columns lat|latitude|y and lon|lng|long|longitude|x (case-insensitive).
// Rows that fail to parse are skipped.
func DecodeCSV(r io.Reader) (Data, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return Data{}, errors.New("empty csv")
	}
	if err != nil {
		return Data{}, err
	}
	idxLat, idxLon := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return Data{}, errors.New("csv: latitude/longitude columns not found")
	}
	var d Data
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Data{}, err
		}
		if idxLon >= len(row) || idxLat >= len(row) {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		d.addPoint([2]float64{lon, lat})
	}
	if d.Empty() {
		return Data{}, ErrNoGeometry
	}
	return d, nil
}
