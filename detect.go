package geokit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Detector resolves the geospatial format of a file or archive path.
// It holds only read-only configuration, so a single Detector may be
// shared across goroutines.
type Detector struct {
	cfg        *Config
	sniffer    *Sniffer
	logger     *log.Logger
	converters *ConverterRegistry
}

// Option configures a Detector.
type Option func(*Detector)

// WithConfig overrides the default detection limits.
func WithConfig(cfg *Config) Option {
	return func(d *Detector) { d.cfg = cfg }
}

// WithLogger replaces the default stderr logger.
func WithLogger(logger *log.Logger) Option {
	return func(d *Detector) { d.logger = logger }
}

// WithConverters makes the detector verify that a converter is
// registered for every resolved format. Without it, detection stops at
// classification.
func WithConverters(registry *ConverterRegistry) Option {
	return func(d *Detector) { d.converters = registry }
}

// New creates a Detector with the given options.
func New(opts ...Option) *Detector {
	d := &Detector{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		level, err := log.ParseLevel(d.cfg.LogLevel)
		if err != nil {
			level = log.WarnLevel
		}
		d.logger = log.NewWithOptions(os.Stderr, log.Options{
			Level:  level,
			Prefix: "geokit",
		})
	}
	d.sniffer = NewSniffer(d.cfg)
	return d
}

// Detect resolves the format of the file at path. It returns exactly one
// of a successful format with reason or a categorized failure with
// reason; collaborator panics are recovered here and surfaced as
// unexpected failures, never re-thrown.
func (d *Detector) Detect(path string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("detection panicked", "path", path, "panic", r)
			out = failure(ErrorTypeUnexpected,
				fmt.Sprintf("unexpected failure detecting %s: %v", filepath.Base(path), r))
		}
	}()

	if strings.TrimSpace(path) == "" {
		return failure(ErrorTypeInput, "input path is empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		return failure(ErrorTypeInput, fmt.Sprintf("cannot stat %s: %v", path, err))
	}
	if info.IsDir() {
		return failure(ErrorTypeInput, fmt.Sprintf("%s is a directory, not a regular file", filepath.Base(path)))
	}
	if info.Size() == 0 {
		return failure(ErrorTypeInput, fmt.Sprintf("%s is empty (0 bytes)", filepath.Base(path)))
	}

	if IsArchivePath(path) {
		out = d.inspectArchive(path)
	} else {
		out = d.detectFile(path)
	}
	return d.checkMapped(out)
}

// detectFile resolves a non-archive path: plain extension lookup for
// registered suffixes, content sniffing for generic .json and for
// unregistered extensions.
func (d *Detector) detectFile(path string) Outcome {
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".json" {
		return d.sniffFile(path)
	}
	if desc, ok := FormatByExtension(ext); ok {
		return success(desc.Name, fmt.Sprintf("extension %s maps to %s", ext, desc.Name))
	}

	if out := d.sniffFile(path); out.Valid {
		return out
	}
	return failure(ErrorTypeContent,
		fmt.Sprintf("unrecognized extension %q and content of %s did not match any rule", ext, filepath.Base(path)))
}

// sniffFile runs the two-stage JSON classification over a bounded header
// read. The sniffer's inability to decide is a normal no-result, turned
// into an undetermined-content failure here.
func (d *Detector) sniffFile(path string) Outcome {
	base := filepath.Base(path)

	prefix, err := readFilePrefix(path, d.cfg.HeaderBytes)
	if err != nil {
		return failure(ErrorTypeContent, fmt.Sprintf("cannot read header of %s: %v", base, err))
	}

	class := d.sniffer.Classify(prefix)
	d.logger.Debug("sniffed file header",
		"path", path, "bytes", len(prefix), "fingerprint", PrefixFingerprint(prefix), "class", class)

	if format, ok := class.Format(); ok {
		return success(format, fmt.Sprintf("JSON content of %s classified as %s", base, format))
	}
	return failure(ErrorTypeContent, fmt.Sprintf("format of %s could not be determined from its content", base))
}

// checkMapped converts a successful detection into an unmapped failure
// when a converter registry is configured and has no entry for the
// resolved format.
func (d *Detector) checkMapped(out Outcome) Outcome {
	if !out.Valid || d.converters == nil || d.converters.Has(out.Format) {
		return out
	}
	return failure(ErrorTypeUnmapped,
		fmt.Sprintf("format %s detected but no converter is registered for it", out.Format))
}

// readFilePrefix reads up to limit bytes from the start of a file.
func readFilePrefix(path string, limit int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, limit)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	return buf[:n], nil
}

// Global default detector (lazy initialized)
var (
	defaultDetector     *Detector
	defaultDetectorOnce sync.Once
)

// Default returns the process-wide default detector.
// Thread-safe, lazy initialization.
func Default() *Detector {
	defaultDetectorOnce.Do(func() {
		defaultDetector = New()
	})
	return defaultDetector
}

// Detect resolves the format of path using the default detector.
func Detect(path string) Outcome {
	return Default().Detect(path)
}
