package geospatial

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"testing"
)

func TestResolve_WKT(t *testing.T) {
	p, ok := Resolve("POINT(79.8612 6.9271)")
	if !ok {
		t.Fatal("expected WKT point to resolve")
	}
	if p.Lon != 79.8612 || p.Lat != 6.9271 {
		t.Errorf("got %+v", p)
	}
}

func TestResolve_WKT_SRIDPrefix(t *testing.T) {
	p, ok := Resolve("SRID=4326;POINT(-2.935 43.263)")
	if !ok {
		t.Fatal("expected SRID-prefixed WKT to resolve")
	}
	if p.Lon != -2.935 || p.Lat != 43.263 {
		t.Errorf("got %+v", p)
	}
}

func TestResolve_WKT_RoundTrip(t *testing.T) {
	orig := Point{Lat: 6.9271, Lon: 79.8612}
	p, ok := Resolve(orig.WKT())
	if !ok {
		t.Fatal("round trip failed to resolve")
	}
	if math.Abs(p.Lat-orig.Lat) > 1e-9 || math.Abs(p.Lon-orig.Lon) > 1e-9 {
		t.Errorf("round trip drifted: %+v != %+v", p, orig)
	}
}

func TestResolve_EWKBHex_LittleEndian(t *testing.T) {
	// POINT(1 2), little-endian, no SRID
	p, ok := Resolve("0101000000000000000000F03F0000000000000040")
	if !ok {
		t.Fatal("expected LE EWKB to resolve")
	}
	if p.Lon != 1 || p.Lat != 2 {
		t.Errorf("got %+v", p)
	}
}

func TestResolve_EWKBHex_BigEndian(t *testing.T) {
	// POINT(1 2), big-endian, no SRID
	p, ok := Resolve("00000000013FF00000000000004000000000000000")
	if !ok {
		t.Fatal("expected BE EWKB to resolve")
	}
	if p.Lon != 1 || p.Lat != 2 {
		t.Errorf("got %+v", p)
	}
}

// encodeEWKB builds a little-endian extended WKB point with the SRID flag
// set, the same shape PostGIS emits for a geography column.
func encodeEWKB(lon, lat float64, srid uint32) string {
	buf := make([]byte, 25)
	buf[0] = 1 // little-endian
	binary.LittleEndian.PutUint32(buf[1:5], ewkbPointType|ewkbSRIDFlag)
	binary.LittleEndian.PutUint32(buf[5:9], srid)
	binary.LittleEndian.PutUint64(buf[9:17], math.Float64bits(lon))
	binary.LittleEndian.PutUint64(buf[17:25], math.Float64bits(lat))
	return hex.EncodeToString(buf)
}

func TestResolve_EWKBHex_WithSRID(t *testing.T) {
	raw := encodeEWKB(79.8612, 6.9271, 4326)
	p, ok := Resolve(raw)
	if !ok {
		t.Fatalf("expected SRID-flagged EWKB to resolve: %s", raw)
	}
	if math.Abs(p.Lon-79.8612) > 1e-6 || math.Abs(p.Lat-6.9271) > 1e-6 {
		t.Errorf("got %+v", p)
	}
}

func TestResolve_EWKBHex_Rejects(t *testing.T) {
	cases := map[string]string{
		"truncated":    "0101000000000000000000F03F",
		"not a point":  "0102000000000000000000F03F0000000000000040",
		"bad order":    "0201000000000000000000F03F0000000000000040",
		"odd length":   "0101000000000000000000F03F000000000000004",
		"not hex":      "zz01000000000000000000F03F0000000000000040",
		"srid missing": "0101000020000000000000F03F0000000000000040",
	}
	for name, raw := range cases {
		if _, ok := Resolve(raw); ok {
			t.Errorf("%s: expected rejection for %q", name, raw)
		}
	}
}

func TestResolve_Mapping(t *testing.T) {
	cases := []map[string]any{
		{"lng": 79.8612, "lat": 6.9271},
		{"longitude": 79.8612, "latitude": 6.9271},
		{"x": 79.8612, "y": 6.9271},
		{"lng": "79.8612", "lat": "6.9271"}, // numeric strings
	}
	for i, m := range cases {
		p, ok := Resolve(m)
		if !ok {
			t.Fatalf("case %d: expected mapping to resolve", i)
		}
		if math.Abs(p.Lon-79.8612) > 1e-9 || math.Abs(p.Lat-6.9271) > 1e-9 {
			t.Errorf("case %d: got %+v", i, p)
		}
	}
}

func TestResolve_Mapping_RangeRejection(t *testing.T) {
	if _, ok := Resolve(map[string]any{"lat": 95.0, "lng": 10.0}); ok {
		t.Error("latitude 95 must be rejected, not clamped")
	}
	if _, ok := Resolve(map[string]any{"lat": 10.0, "lng": -181.0}); ok {
		t.Error("longitude -181 must be rejected")
	}
	if _, ok := Resolve(map[string]any{"lat": math.NaN(), "lng": 10.0}); ok {
		t.Error("NaN latitude must be rejected")
	}
}

func TestResolve_Mapping_ZeroZeroFallsThrough(t *testing.T) {
	// (0,0) from the flat keys is indistinguishable from absent fields;
	// the coordinates array must win.
	p, ok := Resolve(map[string]any{
		"lng":         0.0,
		"lat":         0.0,
		"coordinates": []any{79.8612, 6.9271},
	})
	if !ok {
		t.Fatal("expected fallback to coordinates array")
	}
	if p.Lon != 79.8612 || p.Lat != 6.9271 {
		t.Errorf("got %+v", p)
	}

	if _, ok := Resolve(map[string]any{"lng": 0.0, "lat": 0.0}); ok {
		t.Error("bare (0,0) mapping must resolve to nothing")
	}
}

func TestResolve_GeoJSON(t *testing.T) {
	p, ok := Resolve(map[string]any{"coordinates": []any{79.8612, 6.9271}})
	if !ok {
		t.Fatal("expected GeoJSON-style mapping to resolve")
	}
	if p.Lon != 79.8612 || p.Lat != 6.9271 {
		t.Errorf("got %+v", p)
	}

	if _, ok := Resolve(map[string]any{"coordinates": []any{79.8612}}); ok {
		t.Error("single-element coordinates must be rejected")
	}
	if _, ok := Resolve(map[string]any{"coordinates": "79.8612,6.9271"}); ok {
		t.Error("non-sequence coordinates must be rejected")
	}
}

func TestResolve_UnknownShapes(t *testing.T) {
	for _, raw := range []any{nil, 42, 3.14, true, []string{"a"}, "not a point", ""} {
		if _, ok := Resolve(raw); ok {
			t.Errorf("expected %v (%T) to resolve to nothing", raw, raw)
		}
	}
}
