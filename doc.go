// Package geokit identifies which geospatial interchange format a file
// or archive represents, without fully parsing or extracting it.
//
// Supported formats: GeoJSON, EsriJSON, newline-delimited GeoJSON
// sequences, TopoJSON, KML/KMZ, Shapefile, GPX, GML, OSM-XML, CSV,
// FileGDB, MapInfo TAB/MIF and GeoPackage.
//
// # How detection works
//
// Detection is purely textual and structural over bounded header reads:
//
//   - Registered extensions (.kml, .gpx, .shp, ...) resolve directly.
//   - Generic .json files go through an ordered heuristic rule chain
//     (TopoJSON, then EsriJSON, then NDJSON structure, then GeoJSON).
//   - Archives are resolved from their entry listing alone: JSON-variant
//     entries win immediately, a .kmz extension or top-level doc.kml
//     resolves to KMZ, generic .json entries are put to a majority vote,
//     and anything else falls to strict required-extension matching.
//
// No content is read past a fixed byte ceiling per file or archive
// entry, and archives are never extracted to disk.
//
// # Quick start
//
//	out := geokit.Detect("parks.geojson")
//	if out.Valid {
//	    fmt.Println(out.Format, out.Reason)
//	}
//
// A customized detector:
//
//	cfg := geokit.DefaultConfig()
//	cfg.HeaderBytes = 8 * 1024
//	d := geokit.New(geokit.WithConfig(cfg))
//	out := d.Detect("bundle.zip")
//
// Every outcome carries a human-readable Reason, on success and failure
// alike. Failures are categorized by DetectErrorType for programmatic
// handling.
package geokit
