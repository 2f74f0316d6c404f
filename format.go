package geokit

import (
	"sort"
	"strings"
)

// Format identifies a supported geospatial interchange format.
type Format string

const (
	GeoJSON    Format = "geojson"
	EsriJSON   Format = "esrijson"
	GeoJSONSeq Format = "geojsonseq"
	TopoJSON   Format = "topojson"
	KML        Format = "kml"
	KMZ        Format = "kmz"
	Shapefile  Format = "shapefile"
	GPX        Format = "gpx"
	GML        Format = "gml"
	OSM        Format = "osm"
	CSV        Format = "csv"
	FileGDB    Format = "filegdb"
	MapInfoTab Format = "mapinfo-tab"
	MapInfoMIF Format = "mapinfo-mif"
	GeoPackage Format = "geopackage"
)

// String returns the format key.
func (f Format) String() string {
	return string(f)
}

// Descriptor describes a single format: its key, the file extensions that
// map to it directly, and the set of extensions that must ALL be present
// inside an archive for the format to match via requirement matching.
type Descriptor struct {
	// Name is the unique format key.
	Name Format

	// Extensions are the file extensions (lowercase, with leading dot)
	// that resolve to this format by plain extension lookup.
	Extensions []string

	// ArchiveRequired lists extensions that must all be discovered among
	// an archive's entries for this format to match. Empty means the
	// format is never resolved by archive requirement matching.
	ArchiveRequired []string
}

// formatTable is the static descriptor table. It is built once and never
// mutated. The JSON sub-formats (geojson, esrijson, topojson, geojsonseq)
// declare no archive requirements beyond their own variant suffix: the
// generic .json case inside archives is resolved by content sniffing.
var formatTable = []Descriptor{
	{Name: Shapefile, Extensions: []string{".shp"}, ArchiveRequired: []string{".shp", ".shx", ".dbf"}},
	{Name: MapInfoTab, Extensions: []string{".tab"}, ArchiveRequired: []string{".tab", ".dat", ".map", ".id"}},
	{Name: FileGDB, Extensions: []string{".gdb"}, ArchiveRequired: []string{".gdb", ".gdbtable"}},
	{Name: MapInfoMIF, Extensions: []string{".mif"}, ArchiveRequired: []string{".mif", ".mid"}},
	{Name: GeoPackage, Extensions: []string{".gpkg"}, ArchiveRequired: []string{".gpkg"}},
	{Name: KML, Extensions: []string{".kml"}, ArchiveRequired: []string{".kml"}},
	{Name: GPX, Extensions: []string{".gpx"}, ArchiveRequired: []string{".gpx"}},
	{Name: GML, Extensions: []string{".gml"}, ArchiveRequired: []string{".gml"}},
	{Name: OSM, Extensions: []string{".osm"}, ArchiveRequired: []string{".osm"}},
	{Name: CSV, Extensions: []string{".csv"}, ArchiveRequired: []string{".csv"}},
	{Name: KMZ, Extensions: []string{".kmz"}},
	{Name: GeoJSON, Extensions: []string{".geojson"}},
	{Name: EsriJSON, Extensions: []string{".esrijson"}},
	{Name: TopoJSON, Extensions: []string{".topojson"}},
	{Name: GeoJSONSeq, Extensions: []string{".jsonl", ".ndjson", ".geojsonl"}},
}

var (
	// extensionIndex maps a lowercase extension to its descriptor.
	extensionIndex = make(map[string]*Descriptor)

	// archiveIndex holds descriptors with archive requirements, ordered
	// most specific first: descriptors requiring more extensions sort
	// earlier, ties keep table declaration order. This is the priority
	// order for strict requirement matching, so that a shapefile bundle
	// is never claimed by a single-extension format that happens to be
	// satisfied too.
	archiveIndex []*Descriptor
)

func init() {
	for i := range formatTable {
		desc := &formatTable[i]
		for _, ext := range desc.Extensions {
			extensionIndex[ext] = desc
		}
		if len(desc.ArchiveRequired) > 0 {
			archiveIndex = append(archiveIndex, desc)
		}
	}
	sort.SliceStable(archiveIndex, func(i, j int) bool {
		return len(archiveIndex[i].ArchiveRequired) > len(archiveIndex[j].ArchiveRequired)
	})
}

// FormatByExtension returns the descriptor mapped to a file extension.
// The comparison is case-insensitive and tolerates a missing leading dot.
func FormatByExtension(ext string) (*Descriptor, bool) {
	ext = strings.ToLower(ext)
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	desc, ok := extensionIndex[ext]
	return desc, ok
}

// Formats returns the keys of all supported formats in table order.
func Formats() []Format {
	keys := make([]Format, 0, len(formatTable))
	for i := range formatTable {
		keys = append(keys, formatTable[i].Name)
	}
	return keys
}

// archiveDescriptors returns the requirement-bearing descriptors in
// matching priority order.
func archiveDescriptors() []*Descriptor {
	return archiveIndex
}
