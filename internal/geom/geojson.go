package geom

import (
	"encoding/json"
	"errors"
	"io"
	"os"
)

// ErrNoGeometry is returned by the decoders when the input parsed but held nothing drawable.
var ErrNoGeometry = errors.New("no geometries found")

// LoadGeo reads a GeoJSON file and returns Data (points, lines, polygons)
func LoadGeo(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()
	return DecodeGeoJSON(f)
}

// DecodeGeoJSON accepts a bare geometry, a Feature or a FeatureCollection.
func DecodeGeoJSON(r io.Reader) (Data, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Data{}, err
	}
	var d Data
	var walkGeom func(g map[string]any)
	walkGeom = func(g map[string]any) {
		gt, _ := g["type"].(string)
		coords := g["coordinates"]
		switch gt {
		case "Point":
			if pt, ok := jsonPoint(coords); ok {
				d.addPoint(pt)
			}
		case "MultiPoint":
			for _, p := range jsonPoints(coords) {
				d.addPoint(p)
			}
		case "LineString":
			if ls := jsonPoints(coords); len(ls) > 0 {
				d.addLine(ls)
			}
		case "MultiLineString":
			for _, el := range jsonArray(coords) {
				if ls := jsonPoints(el); len(ls) > 0 {
					d.addLine(ls)
				}
			}
		case "Polygon":
			if poly := jsonPolygon(coords); len(poly) > 0 {
				d.addPolygon(poly)
			}
		case "MultiPolygon":
			for _, el := range jsonArray(coords) {
				if poly := jsonPolygon(el); len(poly) > 0 {
					d.addPolygon(poly)
				}
			}
		case "GeometryCollection":
			for _, el := range jsonArray(g["geometries"]) {
				if sub, ok := el.(map[string]any); ok {
					walkGeom(sub)
				}
			}
		}
	}
	t, _ := raw["type"].(string)
	switch t {
	case "Feature":
		if g, ok := raw["geometry"].(map[string]any); ok {
			walkGeom(g)
		}
	case "FeatureCollection":
		for _, f := range jsonArray(raw["features"]) {
			if fm, ok := f.(map[string]any); ok {
				if g, ok := fm["geometry"].(map[string]any); ok {
					walkGeom(g)
				}
			}
		}
	default:
		if len(raw) > 0 {
			walkGeom(raw)
		}
	}
	if d.Empty() {
		return Data{}, ErrNoGeometry
	}
	return d, nil
}

func jsonArray(v any) []any {
	arr, _ := v.([]any)
	return arr
}

func jsonPoint(v any) ([2]float64, bool) {
	if a, ok := v.([]any); ok && len(a) >= 2 {
		lon, lok := a[0].(float64)
		lat, aok := a[1].(float64)
		if lok && aok {
			return [2]float64{lon, lat}, true
		}
	}
	return [2]float64{}, false
}

func jsonPoints(v any) [][2]float64 {
	var pts [][2]float64
	for _, el := range jsonArray(v) {
		if pt, ok := jsonPoint(el); ok {
			pts = append(pts, pt)
		}
	}
	return pts
}

func jsonPolygon(v any) [][][2]float64 {
	var poly [][][2]float64
	for _, ring := range jsonArray(v) {
		if ls := jsonPoints(ring); len(ls) > 0 {
			poly = append(poly, ls)
		}
	}
	return poly
}
