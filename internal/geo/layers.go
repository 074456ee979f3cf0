package geo

import (
	"fmt"
	"net/url"
	"strconv"
)

type Kind string

const (
	KindTile         Kind = "tile"
	KindExternalTile Kind = "external_tile"
	KindWMS          Kind = "wms"
)

const (
	BhuvanWMS         = "https://bhuvan-vec2.nrsc.gov.in/bhuvan/wms"
	DefaultWMSVersion = "1.3.0"
	DefaultBaseLayer  = "ESRI Satellite"
	FallbackBaseLayer = "OpenStreetMap"
)

// Layer is one entry of the map layer catalogue. The concrete type
// carries the fields its kind needs.
type Layer interface {
	Title() string
	Kind() Kind
	IsOverlay() bool
}

type TileLayer struct {
	Name        string
	URL         string
	Attribution string
}

func (l TileLayer) Title() string   { return l.Name }
func (l TileLayer) Kind() Kind      { return KindTile }
func (l TileLayer) IsOverlay() bool { return false }

type ExternalTileLayer struct {
	Name        string
	URL         string
	Attribution string
}

func (l ExternalTileLayer) Title() string   { return l.Name }
func (l ExternalTileLayer) Kind() Kind      { return KindExternalTile }
func (l ExternalTileLayer) IsOverlay() bool { return false }

type WMSLayer struct {
	Name        string
	URL         string
	LayerName   string
	Version     string
	Overlay     bool
	Attribution string
}

func (l WMSLayer) Title() string   { return l.Name }
func (l WMSLayer) Kind() Kind      { return KindWMS }
func (l WMSLayer) IsOverlay() bool { return l.Overlay }

// GetMapURL builds a WMS GetMap request for bbox. Version 1.3.0 uses
// CRS=EPSG:4326 with lat/lon axis order; older versions use SRS and lon/lat.
// Overlays are requested transparent.
func (l WMSLayer) GetMapURL(bbox BBox, width, height int) (string, error) {
	u, err := url.Parse(l.URL)
	if err != nil {
		return "", fmt.Errorf("wms layer %s: %w", l.Name, err)
	}

	version := l.Version
	if version == "" {
		version = DefaultWMSVersion
	}

	q := u.Query()
	q.Set("SERVICE", "WMS")
	q.Set("REQUEST", "GetMap")
	q.Set("VERSION", version)
	q.Set("LAYERS", l.LayerName)
	q.Set("STYLES", "")
	q.Set("FORMAT", "image/png")
	q.Set("TRANSPARENT", strconv.FormatBool(l.Overlay))
	q.Set("WIDTH", strconv.Itoa(width))
	q.Set("HEIGHT", strconv.Itoa(height))

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	if version == "1.3.0" {
		q.Set("CRS", "EPSG:4326")
		q.Set("BBOX", f(bbox.MinLat)+","+f(bbox.MinLon)+","+f(bbox.MaxLat)+","+f(bbox.MaxLon))
	} else {
		q.Set("SRS", "EPSG:4326")
		q.Set("BBOX", f(bbox.MinLon)+","+f(bbox.MinLat)+","+f(bbox.MaxLon)+","+f(bbox.MaxLat))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// DefaultLayers returns the layer catalogue in display order.
func DefaultLayers() []Layer {
	return []Layer{
		TileLayer{
			Name:        "OpenStreetMap",
			URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: "© OpenStreetMap contributors",
		},
		ExternalTileLayer{
			Name:        "ESRI Satellite",
			URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
			Attribution: "© Esri, Maxar, Earthstar Geographics, and the GIS User Community",
		},
		ExternalTileLayer{
			Name:        "ESRI Terrain",
			URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Terrain_Base/MapServer/tile/{z}/{y}/{x}",
			Attribution: "© Esri, USGS, FAO, NOAA",
		},
		WMSLayer{Name: "State Boundaries", URL: BhuvanWMS, LayerName: "admin:INDIA_STATE", Version: DefaultWMSVersion, Overlay: true, Attribution: "ISRO Bhuvan"},
		WMSLayer{Name: "District Boundaries", URL: BhuvanWMS, LayerName: "admin:INDIA_DIST_250K", Version: DefaultWMSVersion, Overlay: true, Attribution: "ISRO Bhuvan"},
		WMSLayer{Name: "Rivers", URL: BhuvanWMS, LayerName: "disaster:godavari_Rivers", Version: DefaultWMSVersion, Overlay: true, Attribution: "ISRO Bhuvan"},
	}
}

func FindLayer(layers []Layer, name string) (Layer, bool) {
	for _, l := range layers {
		if l.Title() == name {
			return l, true
		}
	}
	return nil, false
}

// Stack resolves a base layer and overlays against the catalogue. An
// unknown or overlay-only base falls back to OpenStreetMap; unknown
// overlays are skipped and reported by name.
func Stack(layers []Layer, base string, overlays []string) (Layer, []Layer, []string) {
	b, ok := FindLayer(layers, base)
	if !ok || b.IsOverlay() {
		b, _ = FindLayer(layers, FallbackBaseLayer)
	}

	var picked []Layer
	var skipped []string
	for _, name := range overlays {
		l, ok := FindLayer(layers, name)
		if !ok || !l.IsOverlay() {
			skipped = append(skipped, name)
			continue
		}
		picked = append(picked, l)
	}
	return b, picked, skipped
}
