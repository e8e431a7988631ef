package cluster

import (
	"log/slog"
	"sort"

	"snapsort/internal/analyze"
	"snapsort/internal/logging"
)

// Noise marks records that belong to no cluster.
const Noise = -1

// Cluster is one detected shooting location.
type Cluster struct {
	ID       int
	Members  []int // indices into the record slice handed to Assign
	Centroid analyze.Coordinate

	// Filled in by location resolution after clustering.
	LocationName string
}

// Clusterer runs density-based clustering over record coordinates.
type Clusterer struct {
	epsilonKM float64
	minPoints int
	logger    *slog.Logger
}

// New constructs a clusterer. epsilonKM is the neighborhood radius and
// minPoints the density threshold including the point itself.
func New(epsilonKM float64, minPoints int, logger *slog.Logger) *Clusterer {
	return &Clusterer{
		epsilonKM: epsilonKM,
		minPoints: minPoints,
		logger:    logging.NewComponentLogger(logger, "cluster"),
	}
}

type point struct {
	recordIdx int
	lat, lon  float64
}

// Assign labels every geotagged record with a cluster identifier and returns
// the detected clusters sorted by ID. Records without coordinates, and
// geotagged records in low-density regions, keep the Noise label. Identifiers
// are assigned in fingerprint order, so repeated runs over the same records
// produce identical labels.
func (c *Clusterer) Assign(records []analyze.FileRecord) []Cluster {
	var points []point
	for i := range records {
		records[i].ClusterID = Noise
		if records[i].Coordinate != nil {
			points = append(points, point{recordIdx: i, lat: records[i].Coordinate.Lat, lon: records[i].Coordinate.Lon})
		}
	}
	if len(points) == 0 {
		return nil
	}
	sort.Slice(points, func(a, b int) bool {
		return records[points[a].recordIdx].Fingerprint < records[points[b].recordIdx].Fingerprint
	})

	const unvisited = -2
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = unvisited
	}

	nextID := 0
	for i := range points {
		if labels[i] != unvisited {
			continue
		}
		neighbors := c.neighborsOf(points, i)
		if len(neighbors) < c.minPoints {
			labels[i] = Noise
			continue
		}

		id := nextID
		nextID++
		labels[i] = id

		// FIFO expansion keeps membership order tied to discovery order.
		queue := neighbors
		for head := 0; head < len(queue); head++ {
			j := queue[head]
			if labels[j] == Noise {
				labels[j] = id
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = id
			more := c.neighborsOf(points, j)
			if len(more) >= c.minPoints {
				queue = append(queue, more...)
			}
		}
	}

	clusters := make([]Cluster, nextID)
	for i := range clusters {
		clusters[i].ID = i
	}
	for i, p := range points {
		id := labels[i]
		records[p.recordIdx].ClusterID = id
		if id == Noise {
			continue
		}
		clusters[id].Members = append(clusters[id].Members, p.recordIdx)
	}
	for i := range clusters {
		clusters[i].Centroid = centroidOf(records, clusters[i].Members)
	}

	c.logger.Info("clustering complete",
		logging.Int("geotagged", len(points)),
		logging.Int("clusters", len(clusters)))
	return clusters
}

// neighborsOf returns the indices of all points within epsilon of points[i],
// including i itself.
func (c *Clusterer) neighborsOf(points []point, i int) []int {
	var out []int
	for j := range points {
		if HaversineKM(points[i].lat, points[i].lon, points[j].lat, points[j].lon) <= c.epsilonKM {
			out = append(out, j)
		}
	}
	return out
}

func centroidOf(records []analyze.FileRecord, members []int) analyze.Coordinate {
	if len(members) == 0 {
		return analyze.Coordinate{}
	}
	var lat, lon float64
	for _, idx := range members {
		lat += records[idx].Coordinate.Lat
		lon += records[idx].Coordinate.Lon
	}
	n := float64(len(members))
	return analyze.Coordinate{Lat: lat / n, Lon: lon / n}
}
