package geokit

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// PrefixFingerprint returns a short hex fingerprint of a sniffed prefix.
// It is attached to debug logs and watcher events so repeated detections
// of identical content can be correlated downstream. Detection itself
// never caches results; every call reruns the full rule chain.
func PrefixFingerprint(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// FileFingerprint fingerprints the first limit bytes of a file.
func FileFingerprint(path string, limit int) (string, error) {
	prefix, err := readFilePrefix(path, limit)
	if err != nil {
		return "", err
	}
	return PrefixFingerprint(prefix), nil
}
