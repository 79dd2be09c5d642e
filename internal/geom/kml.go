package geom

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadKML extracts Placemark geometries (Point, LineString, Polygon) from a KML file.
func LoadKML(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()
	return DecodeKML(f)
}

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer kmlCoords   `xml:"outerBoundaryIs>LinearRing"`
	Inner []kmlCoords `xml:"innerBoundaryIs>LinearRing"`
}

type kmlPlacemark struct {
	Point      *kmlCoords  `xml:"Point"`
	LineString *kmlCoords  `xml:"LineString"`
	Polygon    *kmlPolygon `xml:"Polygon"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Document   struct {
		Placemarks []kmlPlacemark `xml:"Placemark"`
		Folders    []struct {
			Placemarks []kmlPlacemark `xml:"Placemark"`
		} `xml:"Folder"`
	} `xml:"Document"`
}

func (doc kmlDoc) placemarks() []kmlPlacemark {
	out := append([]kmlPlacemark{}, doc.Placemarks...)
	out = append(out, doc.Document.Placemarks...)
	for _, f := range doc.Document.Folders {
		out = append(out, f.Placemarks...)
	}
	return out
}

// DecodeKML reads Placemark geometries. KML coordinates are "lon,lat[,alt]"; altitude is ignored.
func DecodeKML(r io.Reader) (Data, error) {
	var doc kmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return Data{}, err
	}
	var d Data
	for _, pm := range doc.placemarks() {
		switch {
		case pm.Point != nil:
			for _, p := range kmlTuples(pm.Point.Coordinates) {
				d.addPoint(p)
			}
		case pm.LineString != nil:
			if ls := kmlTuples(pm.LineString.Coordinates); len(ls) > 0 {
				d.addLine(ls)
			}
		case pm.Polygon != nil:
			poly := [][][2]float64{kmlTuples(pm.Polygon.Outer.Coordinates)}
			for _, in := range pm.Polygon.Inner {
				poly = append(poly, kmlTuples(in.Coordinates))
			}
			if len(poly[0]) > 0 {
				d.addPolygon(poly)
			}
		}
	}
	if d.Empty() {
		return Data{}, ErrNoGeometry
	}
	return d, nil
}

// tuples are separated by whitespace
func kmlTuples(s string) [][2]float64 {
	var out [][2]float64
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, [2]float64{lon, lat})
	}
	return out
}
