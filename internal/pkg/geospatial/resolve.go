package geospatial

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Point is a resolved WGS 84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both components are finite and within degree range.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// WKT renders the point in well-known-text notation (X before Y).
func (p Point) WKT() string {
	return fmt.Sprintf("POINT(%v %v)", p.Lon, p.Lat)
}

// EWKB geometry type word layout: low 28 bits hold the geometry type,
// the 0x20000000 bit flags a trailing 4-byte SRID.
const (
	ewkbTypeMask  = 0x0FFFFFFF
	ewkbSRIDFlag  = 0x20000000
	ewkbPointType = 1
)

var wktPointRe = regexp.MustCompile(`POINT\(\s*(-?[0-9][0-9.eE+-]*)\s+(-?[0-9][0-9.eE+-]*)\s*\)`)

// Resolve normalizes the representations a geography value arrives in —
// WKT point text (optionally SRID-prefixed), hex-encoded EWKB, a flat
// lng/lat mapping, or a GeoJSON-style coordinates array — into a Point.
// Malformed, ambiguous, or out-of-range input yields (Point{}, false);
// Resolve never panics and never clamps.
func Resolve(raw any) (Point, bool) {
	switch v := raw.(type) {
	case nil:
		return Point{}, false
	case Point:
		return validated(v)
	case *Point:
		if v == nil {
			return Point{}, false
		}
		return validated(*v)
	case []byte:
		return resolveString(string(v))
	case string:
		return resolveString(v)
	case map[string]any:
		if p, ok := fromMapping(v); ok {
			return validated(p)
		}
		if p, ok := fromGeoJSON(v); ok {
			return validated(p)
		}
		return Point{}, false
	default:
		return Point{}, false
	}
}

func resolveString(s string) (Point, bool) {
	if p, ok := parseWKT(s); ok {
		return validated(p)
	}
	if p, ok := parseEWKBHex(s); ok {
		return validated(p)
	}
	return Point{}, false
}

func validated(p Point) (Point, bool) {
	if !p.Valid() {
		return Point{}, false
	}
	return p, true
}

// parseWKT matches POINT(<lon> <lat>), tolerating an SRID=n; prefix.
func parseWKT(s string) (Point, bool) {
	m := wktPointRe.FindStringSubmatch(s)
	if m == nil {
		return Point{}, false
	}
	lon, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Point{}, false
	}
	lat, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Point{}, false
	}
	return Point{Lat: lat, Lon: lon}, true
}

// parseEWKBHex decodes a hex-encoded (extended) well-known-binary 2D point.
// Byte 0 selects the byte order (1 = little-endian, 0 = big-endian), the
// following 4-byte type word must decode to a point, and an optional SRID
// word is skipped before the two IEEE-754 doubles (lon, lat).
func parseEWKBHex(s string) (Point, bool) {
	data, err := hex.DecodeString(s)
	if err != nil || len(data) < 5 {
		return Point{}, false
	}

	var order binary.ByteOrder
	switch data[0] {
	case 1:
		order = binary.LittleEndian
	case 0:
		order = binary.BigEndian
	default:
		return Point{}, false
	}

	word := order.Uint32(data[1:5])
	if word&ewkbTypeMask != ewkbPointType {
		return Point{}, false
	}

	offset := 5
	if word&ewkbSRIDFlag != 0 {
		offset += 4 // SRID present but not otherwise used
	}
	if len(data) < offset+16 {
		return Point{}, false
	}

	lon := math.Float64frombits(order.Uint64(data[offset : offset+8]))
	lat := math.Float64frombits(order.Uint64(data[offset+8 : offset+16]))
	return Point{Lat: lat, Lon: lon}, true
}

// fromMapping probes a flat mapping for longitude under lng|longitude|x and
// latitude under lat|latitude|y. An exact (0,0) result is indistinguishable
// from absent fields in the upstream data and is treated as not found so the
// GeoJSON probe gets a chance.
func fromMapping(m map[string]any) (Point, bool) {
	lon, lonOK := probe(m, "lng", "longitude", "x")
	lat, latOK := probe(m, "lat", "latitude", "y")
	if !lonOK || !latOK {
		return Point{}, false
	}
	if lon == 0 && lat == 0 {
		return Point{}, false
	}
	return Point{Lat: lat, Lon: lon}, true
}

// fromGeoJSON reads a coordinates field holding an ordered [lon, lat, ...]
// sequence.
func fromGeoJSON(m map[string]any) (Point, bool) {
	coords, ok := m["coordinates"]
	if !ok {
		return Point{}, false
	}

	var elems []any
	switch c := coords.(type) {
	case []any:
		elems = c
	case []float64:
		for _, f := range c {
			elems = append(elems, f)
		}
	default:
		return Point{}, false
	}
	if len(elems) < 2 {
		return Point{}, false
	}

	lon, lonOK := toFloat(elems[0])
	lat, latOK := toFloat(elems[1])
	if !lonOK || !latOK {
		return Point{}, false
	}
	return Point{Lat: lat, Lon: lon}, true
}

func probe(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return toFloat(v)
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return 0, false
	}
}
