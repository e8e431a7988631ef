package cluster

import (
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"snapsort/internal/analyze"
	"snapsort/internal/logging"
)

func TestHaversineKM(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKM                 float64
		tolerance              float64
	}{
		{"same point", 48.8566, 2.3522, 48.8566, 2.3522, 0, 0.001},
		{"paris to london", 48.8566, 2.3522, 51.5074, -0.1278, 343.5, 2},
		{"equator degree of longitude", 0, 0, 0, 1, 111.2, 0.5},
		{"antipodal", 0, 0, 0, 180, math.Pi * 6371.0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKM(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKM) > tt.tolerance {
				t.Fatalf("HaversineKM = %.3f, want %.3f +/- %.3f", got, tt.wantKM, tt.tolerance)
			}
		})
	}
}

func geotagged(fingerprint string, lat, lon float64) analyze.FileRecord {
	return analyze.FileRecord{
		Fingerprint: fingerprint,
		Coordinate:  &analyze.Coordinate{Lat: lat, Lon: lon},
		ClusterID:   Noise,
	}
}

func TestAssignSeparatesDistantGroups(t *testing.T) {
	// Two tight groups roughly 340 km apart plus one isolated point.
	records := []analyze.FileRecord{
		geotagged("a1", 48.8566, 2.3522),
		geotagged("a2", 48.8570, 2.3530),
		geotagged("a3", 48.8560, 2.3515),
		geotagged("b1", 51.5074, -0.1278),
		geotagged("b2", 51.5080, -0.1270),
		geotagged("b3", 51.5070, -0.1285),
		geotagged("c1", 40.7128, -74.0060),
	}

	c := New(1.0, 3, logging.NewNop())
	clusters := c.Assign(records)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}

	if records[0].ClusterID != records[1].ClusterID || records[1].ClusterID != records[2].ClusterID {
		t.Fatal("paris records should share a cluster")
	}
	if records[3].ClusterID != records[4].ClusterID || records[4].ClusterID != records[5].ClusterID {
		t.Fatal("london records should share a cluster")
	}
	if records[0].ClusterID == records[3].ClusterID {
		t.Fatal("paris and london must land in different clusters")
	}
	if records[6].ClusterID != Noise {
		t.Fatalf("isolated record should be noise, got %d", records[6].ClusterID)
	}
}

func TestAssignSkipsRecordsWithoutCoordinates(t *testing.T) {
	records := []analyze.FileRecord{
		{Fingerprint: "x1", ClusterID: 7},
		geotagged("a1", 48.8566, 2.3522),
		geotagged("a2", 48.8570, 2.3530),
		geotagged("a3", 48.8560, 2.3515),
	}

	c := New(1.0, 3, logging.NewNop())
	clusters := c.Assign(records)
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	if records[0].ClusterID != Noise {
		t.Fatalf("record without coordinates should be relabeled noise, got %d", records[0].ClusterID)
	}
}

func TestAssignDeterministicAcrossInputOrder(t *testing.T) {
	var base []analyze.FileRecord
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		base = append(base, geotagged(
			fmt.Sprintf("%02d", i),
			48.85+rng.Float64()*0.005,
			2.35+rng.Float64()*0.005,
		))
	}
	for i := 20; i < 30; i++ {
		base = append(base, geotagged(
			fmt.Sprintf("%02d", i),
			51.50+rng.Float64()*0.005,
			-0.12+rng.Float64()*0.005,
		))
	}

	labelsByFingerprint := func(records []analyze.FileRecord) map[string]int {
		out := make(map[string]int)
		for _, rec := range records {
			out[rec.Fingerprint] = rec.ClusterID
		}
		return out
	}

	first := make([]analyze.FileRecord, len(base))
	copy(first, base)
	c := New(1.0, 3, logging.NewNop())
	c.Assign(first)
	want := labelsByFingerprint(first)

	for trial := 0; trial < 5; trial++ {
		shuffled := make([]analyze.FileRecord, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		c.Assign(shuffled)
		got := labelsByFingerprint(shuffled)
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("labels differ under input reordering:\nwant %v\ngot  %v", want, got)
		}
	}
}

func TestAssignCentroid(t *testing.T) {
	records := []analyze.FileRecord{
		geotagged("a1", 10.0, 20.0),
		geotagged("a2", 10.002, 20.002),
		geotagged("a3", 10.004, 20.004),
	}

	c := New(1.0, 3, logging.NewNop())
	clusters := c.Assign(records)
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	centroid := clusters[0].Centroid
	if math.Abs(centroid.Lat-10.002) > 1e-9 || math.Abs(centroid.Lon-20.002) > 1e-9 {
		t.Fatalf("centroid = %+v, want about (10.002, 20.002)", centroid)
	}
	if len(clusters[0].Members) != 3 {
		t.Fatalf("member count = %d, want 3", len(clusters[0].Members))
	}
}

func TestAssignMinPointsOne(t *testing.T) {
	records := []analyze.FileRecord{
		geotagged("a1", 0, 0),
		geotagged("b1", 45, 90),
	}

	c := New(1.0, 1, logging.NewNop())
	clusters := c.Assign(records)
	if len(clusters) != 2 {
		t.Fatalf("with min_points=1 every point forms a cluster, got %d", len(clusters))
	}
}

func TestAssignNoGeotaggedRecords(t *testing.T) {
	records := []analyze.FileRecord{{Fingerprint: "x1"}, {Fingerprint: "x2"}}
	c := New(1.0, 3, logging.NewNop())
	if clusters := c.Assign(records); clusters != nil {
		t.Fatalf("expected no clusters, got %v", clusters)
	}
}
