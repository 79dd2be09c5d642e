package geom

import (
	"errors"
	"strconv"
	"strings"
)

// ParseWKTData parses a subset of WKT.
// Supported: POINT, MULTIPOINT, LINESTRING, MULTILINESTRING, POLYGON.
func ParseWKTData(wkt string) (Data, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return Data{}, errors.New("empty wkt")
	}
	up := strings.ToUpper(s)
	var d Data
	// body returns the text between the first open and the matching last close delimiter
	body := func(open, close, kind string) (string, error) {
		i := strings.Index(s, open)
		j := strings.LastIndex(s, close)
		if i < 0 || j <= i {
			return "", errors.New("wkt " + kind + ": invalid")
		}
		return s[i+len(open) : j], nil
	}
	// checked in order so MULTI* prefixes win over their single forms
	switch {
	case strings.HasPrefix(up, "MULTIPOINT"):
		b, err := body("(", ")", "multipoint")
		if err != nil {
			return Data{}, err
		}
		for _, p := range wktTuples(b) {
			d.addPoint(p)
		}
	case strings.HasPrefix(up, "POINT"):
		b, err := body("(", ")", "point")
		if err != nil {
			return Data{}, err
		}
		for _, p := range wktTuples(b) {
			d.addPoint(p)
		}
	case strings.HasPrefix(up, "MULTILINESTRING"):
		b, err := body("((", "))", "multilinestring")
		if err != nil {
			return Data{}, err
		}
		for _, part := range wktRings(b) {
			if ls := wktTuples(part); len(ls) > 0 {
				d.addLine(ls)
			}
		}
	case strings.HasPrefix(up, "LINESTRING"):
		b, err := body("(", ")", "linestring")
		if err != nil {
			return Data{}, err
		}
		if ls := wktTuples(b); len(ls) > 0 {
			d.addLine(ls)
		}
	case strings.HasPrefix(up, "POLYGON"):
		b, err := body("((", "))", "polygon")
		if err != nil {
			return Data{}, err
		}
		var poly [][][2]float64
		for _, rp := range wktRings(b) {
			if ring := wktTuples(rp); len(ring) > 0 {
				poly = append(poly, ring)
			}
		}
		if len(poly) > 0 {
			d.addPolygon(poly)
		}
	default:
		return Data{}, errors.New("unsupported wkt type")
	}
	if d.Empty() {
		return Data{}, errors.New("wkt: no coordinates parsed")
	}
	return d, nil
}

// wktRings splits "a b, c d), (e f, g h" into its ring bodies.
func wktRings(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ")") {
		part = strings.TrimSpace(part)
		part = strings.TrimSpace(strings.TrimPrefix(part, ","))
		part = strings.TrimSpace(strings.TrimPrefix(part, "("))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func wktTuples(block string) [][2]float64 {
	block = strings.NewReplacer("(", " ", ")", " ").Replace(block)
	var out [][2]float64
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(tup)
		if len(parts) < 2 {
			continue
		}
		x, e1 := strconv.ParseFloat(parts[0], 64)
		y, e2 := strconv.ParseFloat(parts[1], 64)
		if e1 != nil || e2 != nil {
			continue
		}
		out = append(out, [2]float64{x, y})
	}
	return out
}
