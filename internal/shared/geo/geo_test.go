package geo

import (
	"testing"
	"time"
)

func TestDistanceKm(t *testing.T) {
	// Kaliningrad, two points ~5.8 km apart
	d := DistanceKm(Point{54.7216, 20.5247}, Point{54.7722, 20.5470})
	if d < 5.7 || d > 5.95 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestDistanceKmLongLeg(t *testing.T) {
	// Jakarta (-6.2, 106.816) to Bandung (-6.9175, 107.6191) ~ 115-120 km
	d := DistanceKm(Point{-6.2, 106.816}, Point{-6.9175, 107.6191})
	if d < 100 || d > 140 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestDistanceKmKnownGeodesic(t *testing.T) {
	// Flinders Peak to Buninyong, Vincenty's published test line: 54972.271 m
	d := DistanceKm(
		Point{-(37 + 57.0/60 + 3.72030/3600), 144 + 25.0/60 + 29.52440/3600},
		Point{-(37 + 39.0/60 + 10.15610/3600), 143 + 55.0/60 + 35.38390/3600},
	)
	if d != 54.972 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestDistanceSymmetricAndZero(t *testing.T) {
	points := []Point{
		{0, 0},
		{54.7216, 20.5247},
		{-33.8688, 151.2093},
		{89.9, -179.9},
		{-90, 180},
		{20.0001, 50.0001},
	}
	for _, a := range points {
		if DistanceKm(a, a) != 0 {
			t.Fatalf("expected zero distance for %v", a)
		}
		for _, b := range points {
			if DistanceKm(a, b) != DistanceKm(b, a) {
				t.Fatalf("asymmetric distance between %v and %v", a, b)
			}
		}
	}
}

func TestDistanceNearlyAntipodal(t *testing.T) {
	d := DistanceKm(Point{0, 0}, Point{0.5, 179.7})
	if d < 19900 || d > 20100 {
		t.Fatalf("unexpected antipodal distance: %v", d)
	}
}

func TestDistanceAntipodalOnEllipsoid(t *testing.T) {
	// half a meridian, which is shorter than half the equator
	if d := DistanceKm(Point{0, 0}, Point{0, 180}); d != 20003.931 {
		t.Fatalf("unexpected antipodal distance: %v", d)
	}
}

func TestDistanceM(t *testing.T) {
	d := DistanceM(Point{20.0001, 50.0001}, Point{20.0, 50.0})
	if d <= 0 || d >= 100 {
		t.Fatalf("expected a short distance, got %v", d)
	}
	far := DistanceM(Point{20.0, 50.0}, Point{20.01, 50.0})
	if far < 1000 {
		t.Fatalf("expected over a kilometre, got %v", far)
	}
}

func TestPathKm(t *testing.T) {
	a := Point{54.7216, 20.5247}
	b := Point{54.7300, 20.5300}
	c := Point{54.7722, 20.5470}
	got := PathKm([]Point{a, b, c})
	want := Round(DistanceKm(a, b)+DistanceKm(b, c), 3)
	if got != want {
		t.Fatalf("path %v != legs %v", got, want)
	}
	if PathKm(nil) != 0 || PathKm([]Point{a}) != 0 {
		t.Fatalf("expected zero for short paths")
	}
}

func TestElapsedSeconds(t *testing.T) {
	start := time.Date(2025, 10, 10, 18, 0, 0, 0, time.UTC)
	if got := ElapsedSeconds(start.Add(90*time.Second+500*time.Millisecond), start); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
	if got := ElapsedSeconds(start, start.Add(time.Minute)); got != -60 {
		t.Fatalf("expected -60, got %d", got)
	}
}

func TestValid(t *testing.T) {
	if !(Point{90, -180}).Valid() {
		t.Fatalf("expected boundary to be valid")
	}
	if (Point{90.0001, 0}).Valid() || (Point{0, 180.5}).Valid() {
		t.Fatalf("expected out of range to be invalid")
	}
}
