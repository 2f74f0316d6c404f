package geokit

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// votePriority is the fixed specificity order used to break ties between
// formats with equal vote counts, most constrained first.
var votePriority = []Format{EsriJSON, TopoJSON, GeoJSON, GeoJSONSeq}

// resolveVote classifies every generic .json entry of an archive through
// a bounded header read and resolves the majority. Entries that fail to
// open or to classify cast no vote; they are skipped, not errors.
func (d *Detector) resolveVote(archivePath string, entryNames []string) Outcome {
	base := filepath.Base(archivePath)

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return failure(ErrorTypeArchive, fmt.Sprintf("cannot open archive %s for voting: %v", base, err))
	}
	defer reader.Close()

	index := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		index[f.Name] = f
	}

	tally := make(map[Format]int)
	voters := 0
	for _, name := range entryNames {
		entry := index[name]
		if entry == nil || entry.FileInfo().IsDir() {
			continue
		}
		prefix, err := readEntryPrefix(entry, d.cfg.HeaderBytes)
		if err != nil {
			d.logger.Debug("skipping unreadable archive entry", "archive", base, "entry", name, "err", err)
			continue
		}
		class := d.sniffer.Classify(prefix)
		format, ok := class.Format()
		if !ok {
			continue
		}
		tally[format]++
		voters++
	}

	if len(tally) == 0 {
		return failure(ErrorTypeVote, fmt.Sprintf("no JSON entries in %s could be classified", base))
	}

	winner, tied := resolveTally(tally)
	breakdown := formatTally(tally)
	if tied {
		return success(winner, fmt.Sprintf("majority vote over %d JSON entries in %s: %s; tie broken by specificity toward %s",
			voters, base, breakdown, winner))
	}
	return success(winner, fmt.Sprintf("majority vote over %d JSON entries in %s: %s", voters, base, breakdown))
}

// readEntryPrefix streams up to limit bytes from an archive entry.
// Nothing is written to disk.
func readEntryPrefix(entry *zip.File, limit int) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open entry: %w", err)
	}
	defer rc.Close()

	buf := make([]byte, limit)
	n, err := io.ReadFull(rc, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read entry header: %w", err)
	}
	return buf[:n], nil
}

// resolveTally picks the format with the maximum vote count. A single
// maximum-holder wins outright. Ties fall through the fixed specificity
// order, then a lexicographic total order over format keys, so the same
// input always yields the same winner.
func resolveTally(tally map[Format]int) (Format, bool) {
	maxCount := 0
	for _, count := range tally {
		if count > maxCount {
			maxCount = count
		}
	}

	var tied []Format
	for format, count := range tally {
		if count == maxCount {
			tied = append(tied, format)
		}
	}
	if len(tied) == 1 {
		return tied[0], false
	}

	inTie := make(map[Format]bool, len(tied))
	for _, format := range tied {
		inTie[format] = true
	}
	for _, format := range votePriority {
		if inTie[format] {
			return format, true
		}
	}

	sort.Slice(tied, func(i, j int) bool { return tied[i] < tied[j] })
	return tied[0], true
}

// formatTally renders a vote breakdown in deterministic order: count
// descending, then specificity priority, then format key.
func formatTally(tally map[Format]int) string {
	formats := make([]Format, 0, len(tally))
	for format := range tally {
		formats = append(formats, format)
	}
	sort.Slice(formats, func(i, j int) bool {
		if tally[formats[i]] != tally[formats[j]] {
			return tally[formats[i]] > tally[formats[j]]
		}
		pi, pj := priorityRank(formats[i]), priorityRank(formats[j])
		if pi != pj {
			return pi < pj
		}
		return formats[i] < formats[j]
	})

	parts := make([]string, 0, len(formats))
	for _, format := range formats {
		parts = append(parts, fmt.Sprintf("%s=%d", format, tally[format]))
	}
	return strings.Join(parts, ", ")
}

func priorityRank(f Format) int {
	for i, p := range votePriority {
		if p == f {
			return i
		}
	}
	return len(votePriority)
}
