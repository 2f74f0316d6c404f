package geokit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDetectInputValidation(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.csv", nil)

	testCases := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"whitespace path", "   "},
		{"missing file", filepath.Join(dir, "nope.geojson")},
		{"zero-byte file", empty},
		{"directory", dir},
	}

	d := New()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := d.Detect(tc.path)
			if out.Valid {
				t.Fatalf("expected failure, got %+v", out)
			}
			if out.Err.Type != ErrorTypeInput {
				t.Errorf("expected input error, got %s", out.Err.Type)
			}
			if out.Reason == "" {
				t.Error("reason must never be empty")
			}
		})
	}
}

func TestDetectByExtension(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name   string
		file   string
		body   []byte
		format Format
	}{
		{"geojson", "parks.geojson", []byte(`{"type":"FeatureCollection","features":[]}`), GeoJSON},
		{"kml", "tour.kml", []byte(`<kml xmlns="http://www.opengis.net/kml/2.2"></kml>`), KML},
		{"gpx", "track.gpx", []byte(`<gpx version="1.1"></gpx>`), GPX},
		{"gml", "parcels.gml", []byte(`<gml:FeatureCollection/>`), GML},
		{"osm", "extract.osm", []byte(`<osm version="0.6"></osm>`), OSM},
		{"csv", "points.csv", []byte("lat,lon\n1,2\n"), CSV},
		{"uppercase extension", "TRACK.GPX", []byte(`<gpx/>`), GPX},
	}

	d := New()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, dir, tc.file, tc.body)
			out := d.Detect(path)
			if !out.Valid || out.Format != tc.format {
				t.Fatalf("expected %s, got %+v", tc.format, out)
			}
			if !strings.Contains(out.Reason, "extension") {
				t.Errorf("reason must cite the extension mapping, got %q", out.Reason)
			}
		})
	}
}

func TestDetectGenericJSON(t *testing.T) {
	dir := t.TempDir()
	d := New()

	t.Run("esrijson", func(t *testing.T) {
		path := writeFile(t, dir, "export.json",
			pad(`{"spatialReference":{"wkid":4326},"features":[{"attributes":{"id":1},"geometry":null}]}`))
		out := d.Detect(path)
		if !out.Valid || out.Format != EsriJSON {
			t.Fatalf("expected esrijson, got %+v", out)
		}
	})

	t.Run("sequence", func(t *testing.T) {
		line := `{"type":"Feature","properties":{"name":"somewhere out there"}}` + "\n"
		path := writeFile(t, dir, "stream.json", []byte(strings.Repeat(line, 12)))
		out := d.Detect(path)
		if !out.Valid || out.Format != GeoJSONSeq {
			t.Fatalf("expected geojsonseq, got %+v", out)
		}
	})

	t.Run("broken json", func(t *testing.T) {
		path := writeFile(t, dir, "broken.json", pad(`{ this is not valid and holds no known markers }`))
		out := d.Detect(path)
		if out.Valid {
			t.Fatalf("expected failure, got %+v", out)
		}
		if out.Err.Type != ErrorTypeContent {
			t.Errorf("expected content error, got %s", out.Err.Type)
		}
		if !strings.Contains(out.Reason, "could not be determined") {
			t.Errorf("unexpected reason %q", out.Reason)
		}
	})

	t.Run("tiny payload", func(t *testing.T) {
		path := writeFile(t, dir, "tiny.json", []byte(`{}`))
		out := d.Detect(path)
		if out.Valid {
			t.Fatalf("a bare {} must not classify, got %+v", out)
		}
		if out.Err.Type != ErrorTypeContent {
			t.Errorf("expected content error, got %s", out.Err.Type)
		}
	})
}

func TestDetectUnknownExtensionFallsBackToSniffing(t *testing.T) {
	dir := t.TempDir()
	d := New()

	path := writeFile(t, dir, "payload.dat", pad(`{"type":"FeatureCollection","features":[]}`))
	out := d.Detect(path)
	if !out.Valid || out.Format != GeoJSON {
		t.Fatalf("expected geojson via content fallback, got %+v", out)
	}

	binary := writeFile(t, dir, "image.dat", []byte(strings.Repeat("\x00\x01\x02\x03", 256)))
	out = d.Detect(binary)
	if out.Valid {
		t.Fatalf("expected failure for binary content, got %+v", out)
	}
	if !strings.Contains(out.Reason, "unrecognized extension") {
		t.Errorf("unexpected reason %q", out.Reason)
	}
}

func TestDetectIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	d := New()
	path := writeFile(t, dir, "parks.geojson", []byte(`{"type":"FeatureCollection","features":[]}`))

	first := d.Detect(path)
	second := d.Detect(path)
	if first.Valid != second.Valid || first.Format != second.Format || first.Reason != second.Reason {
		t.Fatalf("detection not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestDetectUnmappedFormat(t *testing.T) {
	dir := t.TempDir()

	registry := NewConverterRegistry()
	registry.Register(GeoJSON, func(cfg *Config) (Converter, error) { return nil, nil })
	d := New(WithConverters(registry))

	mapped := writeFile(t, dir, "parks.geojson", []byte(`{"type":"FeatureCollection"}`))
	out := d.Detect(mapped)
	if !out.Valid || out.Format != GeoJSON {
		t.Fatalf("expected mapped geojson to pass, got %+v", out)
	}

	unmapped := writeFile(t, dir, "tour.kml", []byte(`<kml/>`))
	out = d.Detect(unmapped)
	if out.Valid {
		t.Fatalf("expected unmapped failure, got %+v", out)
	}
	if out.Err.Type != ErrorTypeUnmapped {
		t.Errorf("expected unmapped error, got %s", out.Err.Type)
	}
	if !strings.Contains(out.Reason, "kml") {
		t.Errorf("reason must name the unmapped format, got %q", out.Reason)
	}
}

func TestDetectPackageLevel(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "track.gpx", []byte(`<gpx version="1.1"></gpx>`))

	out := Detect(path)
	if !out.Valid || out.Format != GPX {
		t.Fatalf("expected gpx, got %+v", out)
	}
}

func TestOutcomeSummary(t *testing.T) {
	ok := success(GeoJSON, "extension .geojson maps to geojson")
	if !strings.Contains(ok.Summary(), "geojson") {
		t.Errorf("unexpected summary %q", ok.Summary())
	}

	bad := failure(ErrorTypeInput, "input path is empty")
	if !strings.Contains(bad.Summary(), "input path is empty") {
		t.Errorf("unexpected summary %q", bad.Summary())
	}
	if bad.Err == nil || bad.Err.Type != ErrorTypeInput {
		t.Error("failure outcome must carry its categorized error")
	}
}
