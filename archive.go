package geokit

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// archiveExtensions are the container suffixes handled by the inspector.
// KMZ is a ZIP archive by definition, so it is listed the same way.
var archiveExtensions = []string{".zip", ".kmz"}

// jsonFastPath maps unambiguous JSON-variant entry extensions to their
// format. Finding any of these inside an archive resolves immediately,
// bypassing voting. Checked in slice order for determinism.
var jsonFastPath = []struct {
	ext    string
	format Format
}{
	{".geojson", GeoJSON},
	{".esrijson", EsriJSON},
	{".topojson", TopoJSON},
	{".jsonl", GeoJSONSeq},
	{".ndjson", GeoJSONSeq},
	{".geojsonl", GeoJSONSeq},
}

// jsonEntryGlob selects generic .json entries for voting. No separator
// runes are configured, so the pattern matches entries at any depth.
var jsonEntryGlob = glob.MustCompile("*.json")

// IsArchivePath reports whether a path carries an archive container
// extension. The check is purely extension-based.
func IsArchivePath(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	for _, archExt := range archiveExtensions {
		if ext == archExt {
			return true
		}
	}
	return false
}

// ListArchiveEntries lists the entry names of a ZIP-based archive by
// reading only its central directory. Nothing is extracted.
func ListArchiveEntries(p string) ([]string, error) {
	reader, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer reader.Close()

	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// entryReadCloser ties an entry stream to its archive handle so both
// are released by a single Close.
type entryReadCloser struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (e *entryReadCloser) Close() error {
	err := e.ReadCloser.Close()
	if cerr := e.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

// OpenArchiveEntry opens a streamed read of a single archive entry
// without extracting it. The caller owns the returned stream.
func OpenArchiveEntry(archivePath, entryName string) (io.ReadCloser, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	for _, f := range reader.File {
		if f.Name == entryName {
			rc, err := f.Open()
			if err != nil {
				reader.Close()
				return nil, fmt.Errorf("failed to open entry %s: %w", entryName, err)
			}
			return &entryReadCloser{ReadCloser: rc, archive: reader}, nil
		}
	}
	reader.Close()
	return nil, fmt.Errorf("entry %s not found in %s", entryName, filepath.Base(archivePath))
}

// inspectArchive resolves the format of an archive from its entry
// listing alone, in fixed precedence: JSON-variant fast path, KMZ guard,
// generic-JSON voting, then strict requirement matching.
func (d *Detector) inspectArchive(archivePath string) Outcome {
	base := filepath.Base(archivePath)

	entries, err := ListArchiveEntries(archivePath)
	if err != nil {
		return failure(ErrorTypeArchive, fmt.Sprintf("cannot list entries of %s: %v", base, err))
	}
	if len(entries) == 0 {
		return failure(ErrorTypeArchive, fmt.Sprintf("archive %s has no entries", base))
	}
	if len(entries) > d.cfg.MaxArchiveEntries {
		return failure(ErrorTypeArchive, fmt.Sprintf("archive %s has %d entries, more than the %d entry limit",
			base, len(entries), d.cfg.MaxArchiveEntries))
	}

	discovered, hasDocKML := harvestExtensions(entries)

	for _, fp := range jsonFastPath {
		if discovered[fp.ext] {
			return success(fp.format, fmt.Sprintf("archive %s contains a %s entry", base, fp.ext))
		}
	}

	if strings.EqualFold(filepath.Ext(archivePath), ".kmz") {
		return success(KMZ, fmt.Sprintf("archive %s has the .kmz container extension", base))
	}
	if hasDocKML {
		return success(KMZ, fmt.Sprintf("archive %s contains a top-level doc.kml entry", base))
	}

	if discovered[".json"] {
		candidates := make([]string, 0, len(entries))
		for _, entry := range entries {
			if jsonEntryGlob.Match(strings.ToLower(entry)) {
				candidates = append(candidates, entry)
			}
		}
		return d.resolveVote(archivePath, candidates)
	}

	for _, desc := range archiveDescriptors() {
		if containsAll(discovered, desc.ArchiveRequired) {
			return success(desc.Name, fmt.Sprintf("archive %s contains all required extensions for %s (%s)",
				base, desc.Name, strings.Join(desc.ArchiveRequired, ", ")))
		}
	}

	return failure(ErrorTypeContent, fmt.Sprintf("no format matches archive %s (discovered extensions: %s)",
		base, strings.Join(sortedKeys(discovered), ", ")))
}

// harvestExtensions collects the lowercase extension of every path
// segment of every entry, so that directory-style suffixes such as a
// .gdb folder are discovered too. It also reports whether a top-level
// entry literally named doc.kml exists.
func harvestExtensions(entries []string) (map[string]bool, bool) {
	discovered := make(map[string]bool)
	hasDocKML := false

	for _, entry := range entries {
		normalized := strings.TrimSuffix(strings.ReplaceAll(entry, "\\", "/"), "/")
		if strings.EqualFold(normalized, "doc.kml") {
			hasDocKML = true
		}
		for _, segment := range strings.Split(normalized, "/") {
			if ext := strings.ToLower(path.Ext(segment)); ext != "" {
				discovered[ext] = true
			}
		}
	}

	return discovered, hasDocKML
}

// containsAll reports whether every required extension is present in the
// discovered set. Requirement matching is conjunctive, not best-effort.
func containsAll(discovered map[string]bool, required []string) bool {
	for _, ext := range required {
		if !discovered[ext] {
			return false
		}
	}
	return true
}

// sortedKeys returns map keys in lexicographic order so that reason
// strings stay byte-identical across calls.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
