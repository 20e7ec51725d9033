// Package render assembles the map payload served to clients: breadcrumb
// tracks, trigger markers, per-dataset origin estimates, the combined origin
// bullseye and a density heatmap.
package render

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"github.com/sigfinder/sigfinder-go/internal/models"
	"github.com/sigfinder/sigfinder-go/internal/spatial"
)

const (
	// simplifyTolerance is the Douglas-Peucker tolerance in degrees used for
	// the outline track (roughly 10 m at the equator).
	simplifyTolerance = 0.0001

	// heatmapCellMeters is the edge length of one heatmap bin in projected
	// web-mercator meters.
	heatmapCellMeters = 100.0

	earthRadiusMeters = 6378137.0
)

// Track is one dataset's breadcrumb trail plus a simplified outline for
// low-zoom rendering.
type Track struct {
	DatasetID string       `json:"datasetId"`
	Name      string       `json:"name"`
	Color     string       `json:"color"`
	Points    [][2]float64 `json:"points"`  // [lat, lon]
	Outline   [][2]float64 `json:"outline"` // simplified [lat, lon]
}

// HeatPoint is one occupied heatmap bin with its sample count.
type HeatPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Weight    int     `json:"weight"`
}

// Bounds is the lat/lon envelope of everything in the payload.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLon float64 `json:"minLon"`
	MaxLat float64 `json:"maxLat"`
	MaxLon float64 `json:"maxLon"`
}

// OriginMarker is one dataset's origin estimate annotated with its offset
// from the combined origin, when one exists, so the map can label how far
// each per-file estimate sits from the bullseye.
type OriginMarker struct {
	models.OriginEstimate
	OffsetFromCombinedMeters float64 `json:"offsetFromCombinedMeters,omitempty"`
	BearingFromCombinedDeg   float64 `json:"bearingFromCombinedDeg,omitempty"`
}

// Payload is the full render state for the map view.
type Payload struct {
	Tracks   []Track                `json:"tracks"`
	Markers  []models.Marker        `json:"markers"`
	Origins  []OriginMarker         `json:"origins"`
	Combined *models.CombinedOrigin `json:"combined,omitempty"`
	Heatmap  []HeatPoint            `json:"heatmap"`
	Bounds   *Bounds                `json:"bounds,omitempty"`
}

// Build assembles the payload from visible datasets and analysis results.
// Datasets with no positioned samples contribute no track.
func Build(datasets []models.Dataset, markers []models.Marker, origins []models.OriginEstimate, combined *models.CombinedOrigin) Payload {
	p := Payload{
		Tracks:   make([]Track, 0, len(datasets)),
		Markers:  markers,
		Origins:  originMarkers(origins, combined),
		Combined: combined,
		Heatmap:  nil,
	}
	if p.Markers == nil {
		p.Markers = []models.Marker{}
	}

	var bound orb.Bound
	haveBound := false
	var allPoints []orb.Point

	for _, ds := range datasets {
		if !ds.Visible {
			continue
		}
		ls := make(orb.LineString, 0, len(ds.Samples))
		points := make([][2]float64, 0, len(ds.Samples))
		for _, s := range ds.Samples {
			ls = append(ls, orb.Point{s.Longitude, s.Latitude})
			points = append(points, [2]float64{s.Latitude, s.Longitude})
		}
		if len(ls) == 0 {
			continue
		}

		if b := ls.Bound(); haveBound {
			bound = bound.Union(b)
		} else {
			bound = b
			haveBound = true
		}
		allPoints = append(allPoints, ls...)

		outline := points
		if len(ls) > 2 {
			reduced := simplify.DouglasPeucker(simplifyTolerance).Simplify(ls.Clone()).(orb.LineString)
			outline = make([][2]float64, 0, len(reduced))
			for _, pt := range reduced {
				outline = append(outline, [2]float64{pt.Lat(), pt.Lon()})
			}
		}

		p.Tracks = append(p.Tracks, Track{
			DatasetID: ds.ID,
			Name:      ds.Name,
			Color:     ds.Color,
			Points:    points,
			Outline:   outline,
		})
	}

	extras := make([]orb.Point, 0, len(p.Markers)+len(origins)+1)
	for _, m := range p.Markers {
		extras = append(extras, orb.Point{m.Longitude, m.Latitude})
	}
	for _, est := range origins {
		extras = append(extras, orb.Point{est.Longitude, est.Latitude})
	}
	if combined != nil {
		extras = append(extras, orb.Point{combined.Longitude, combined.Latitude})
	}
	for _, pt := range extras {
		if haveBound {
			bound = bound.Extend(pt)
		} else {
			bound = orb.Bound{Min: pt, Max: pt}
			haveBound = true
		}
	}

	if haveBound {
		p.Bounds = &Bounds{
			MinLat: bound.Min.Lat(),
			MinLon: bound.Min.Lon(),
			MaxLat: bound.Max.Lat(),
			MaxLon: bound.Max.Lon(),
		}
	}

	p.Heatmap = heatmap(allPoints)
	return p
}

// originMarkers annotates each per-dataset origin with its distance and
// bearing from the combined origin. Without a combined origin the estimates
// pass through unannotated.
func originMarkers(origins []models.OriginEstimate, combined *models.CombinedOrigin) []OriginMarker {
	out := make([]OriginMarker, 0, len(origins))
	for _, est := range origins {
		m := OriginMarker{OriginEstimate: est}
		if combined != nil {
			if d, err := spatial.Distance(combined.Latitude, combined.Longitude, est.Latitude, est.Longitude); err == nil {
				m.OffsetFromCombinedMeters = d
				m.BearingFromCombinedDeg = spatial.Bearing(combined.Latitude, combined.Longitude, est.Latitude, est.Longitude)
			}
		}
		out = append(out, m)
	}
	return out
}

// heatmap bins points onto a fixed web-mercator grid and returns the center
// of each occupied cell with its count.
func heatmap(points []orb.Point) []HeatPoint {
	if len(points) == 0 {
		return []HeatPoint{}
	}

	type cell struct{ x, y int64 }
	counts := make(map[cell]int)
	for _, pt := range points {
		mx, my := toMercator(pt.Lat(), pt.Lon())
		counts[cell{
			x: int64(math.Floor(mx / heatmapCellMeters)),
			y: int64(math.Floor(my / heatmapCellMeters)),
		}]++
	}

	out := make([]HeatPoint, 0, len(counts))
	for c, n := range counts {
		cx := (float64(c.x) + 0.5) * heatmapCellMeters
		cy := (float64(c.y) + 0.5) * heatmapCellMeters
		lat, lon := fromMercator(cx, cy)
		out = append(out, HeatPoint{Latitude: lat, Longitude: lon, Weight: n})
	}
	return out
}

func toMercator(lat, lon float64) (x, y float64) {
	x = earthRadiusMeters * lon * math.Pi / 180
	y = earthRadiusMeters * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y
}

func fromMercator(x, y float64) (lat, lon float64) {
	lon = x / earthRadiusMeters * 180 / math.Pi
	lat = (2*math.Atan(math.Exp(y/earthRadiusMeters)) - math.Pi/2) * 180 / math.Pi
	return lat, lon
}
