package geospatial

import (
	"math"
	"testing"
)

func TestDistanceKm_Zero(t *testing.T) {
	colombo := Point{Lat: 6.9271, Lon: 79.8612}
	if d := DistanceKm(colombo, colombo); d != 0 {
		t.Errorf("distance to self = %v, want 0", d)
	}
}

func TestDistanceKm_KnownFixture(t *testing.T) {
	// One degree of longitude on the equator is ~111.19 km.
	d := DistanceKm(Point{Lat: 0, Lon: 0}, Point{Lat: 0, Lon: 1})
	if math.Abs(d-111.19) > 0.5 {
		t.Errorf("equator degree = %v km, want ~111.19", d)
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	pairs := [][2]Point{
		{{Lat: 6.9271, Lon: 79.8612}, {Lat: 6.0535, Lon: 80.2210}}, // Colombo–Galle
		{{Lat: 43.263, Lon: -2.935}, {Lat: 40.4168, Lon: -3.7038}},
		{{Lat: -33.8688, Lon: 151.2093}, {Lat: 51.5074, Lon: -0.1278}},
	}
	for _, pair := range pairs {
		ab := DistanceKm(pair[0], pair[1])
		ba := DistanceKm(pair[1], pair[0])
		if ab != ba {
			t.Errorf("asymmetric: %v vs %v for %+v", ab, ba, pair)
		}
		if ab < 0 {
			t.Errorf("negative distance %v for %+v", ab, pair)
		}
	}
}

func TestDistanceKm_MillimeterRounding(t *testing.T) {
	d := DistanceKm(Point{Lat: 6.9271, Lon: 79.8612}, Point{Lat: 6.9344, Lon: 79.8428})
	if scaled := d * 1000; scaled != math.Trunc(scaled) {
		t.Errorf("distance %v not rounded to millimeter precision", d)
	}
}

func TestHaversine_MetersMatchesKm(t *testing.T) {
	a := Point{Lat: 6.9271, Lon: 79.8612}
	b := Point{Lat: 6.0535, Lon: 80.2210}
	meters := Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
	if math.Abs(meters/1000-DistanceKm(a, b)) > 0.001 {
		t.Errorf("meters %v and km %v disagree", meters, DistanceKm(a, b))
	}
}
