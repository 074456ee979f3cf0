package geo

import (
	"errors"
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"

	"github.com/san-kum/dronesearch/internal/coverage"
)

// EarthRadius is the sphere radius, in metres, areas are measured on.
const EarthRadius = orb.EarthRadius

type Unit string

const (
	SquareKilometres Unit = "km2"
	Hectares         Unit = "ha"
	SquareMetres     Unit = "m2"
)

// Units maps each unit to its factor from square metres.
var Units = map[Unit]float64{
	SquareKilometres: 1e-6,
	Hectares:         1e-4,
	SquareMetres:     1,
}

var ErrUnsupportedUnit = errors.New("geo: unsupported area unit")

func UnitNames() []string {
	names := make([]string, 0, len(Units))
	for u := range Units {
		names = append(names, string(u))
	}
	sort.Strings(names)
	return names
}

// Area returns the area of a (lon, lat) polygon in the given unit. Fewer
// than three vertices have zero area.
func Area(coords []coverage.Point, unit Unit) (float64, error) {
	factor, ok := Units[unit]
	if !ok {
		return 0, fmt.Errorf("%w %q, choose from %v", ErrUnsupportedUnit, unit, UnitNames())
	}
	return SquareMetresOf(coords) * factor, nil
}

// SquareMetresOf computes the spherical area of a lon/lat ring. The ring
// may be open or closed.
func SquareMetresOf(coords []coverage.Point) float64 {
	if len(coords) < 3 {
		return 0
	}
	return orbgeo.Area(orb.Polygon{ring(coords)})
}

func ring(coords []coverage.Point) orb.Ring {
	r := make(orb.Ring, 0, len(coords)+1)
	for _, p := range coords {
		r = append(r, orb.Point{p.X, p.Y})
	}
	if !r.Closed() {
		r = append(r, r[0])
	}
	return r
}

// BBox is a lon/lat bounding box.
type BBox struct {
	MinLon, MinLat float64
	MaxLon, MaxLat float64
}

func Bounds(coords []coverage.Point) BBox {
	if len(coords) == 0 {
		return BBox{}
	}
	b := ring(coords).Bound()
	return BBox{MinLon: b.Min.Lon(), MinLat: b.Min.Lat(), MaxLon: b.Max.Lon(), MaxLat: b.Max.Lat()}
}

func (b BBox) Center() coverage.Point {
	return coverage.Point{X: (b.MinLon + b.MaxLon) / 2, Y: (b.MinLat + b.MaxLat) / 2}
}
