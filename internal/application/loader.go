package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

// StudyFormat identifies a study file encoding.
type StudyFormat string

// Study file formats accepted by the loader.
const (
	StudyFormatYAML StudyFormat = "yaml"
	StudyFormatXML  StudyFormat = "xml"
)

// StudyLoader parses, validates, and caches study files. Identical
// content is compiled once: studies are cached by SHA256 of their raw
// bytes and concurrent loads of the same content are collapsed through
// singleflight.
// WARNING: cached studies are shared between callers and must not be
// mutated.
type StudyLoader struct {
	// cache stores compiled studies indexed by SHA256 hash of the source
	// bytes to avoid recompilation of identical files.
	cache map[string]*Study

	// cacheMu provides thread-safe access to the cache map during
	// concurrent read and write operations.
	cacheMu sync.RWMutex

	// sf prevents duplicate compilation when multiple goroutines request
	// the same study simultaneously.
	sf singleflight.Group
}

// NewStudyLoader creates a study loader with an empty cache.
func NewStudyLoader() *StudyLoader {
	return &StudyLoader{cache: make(map[string]*Study)}
}

// LoadFromFile loads a study from a YAML or XML file, inferring the
// format from the file extension (.xml is XML, everything else YAML).
// The returned study is a shared cached instance and must not be mutated.
func (sl *StudyLoader) LoadFromFile(ctx context.Context, path string) (*Study, error) {
	cleanPath := filepath.Clean(path)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read study file: %w", err)
	}

	format := StudyFormatYAML
	if strings.EqualFold(filepath.Ext(cleanPath), ".xml") {
		format = StudyFormatXML
	}

	return sl.load(ctx, data, format)
}

// LoadFromReader loads a study in the given format from an io.Reader.
// The returned study is a shared cached instance and must not be mutated.
func (sl *StudyLoader) LoadFromReader(ctx context.Context, r io.Reader, format StudyFormat) (*Study, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read study data: %w", err)
	}

	return sl.load(ctx, data, format)
}

// load is the common implementation behind both entry points. Parsing
// and validation run inside singleflight so concurrent loads of the same
// bytes compile the study exactly once.
func (sl *StudyLoader) load(_ context.Context, data []byte, format StudyFormat) (*Study, error) {
	sum := sha256.Sum256(append([]byte(format), data...))
	hash := hex.EncodeToString(sum[:])

	v, err, _ := sl.sf.Do(hash, func() (any, error) {
		// Check cache inside singleflight to handle the race between the
		// cache check and group execution.
		if study, ok := sl.getCached(hash); ok {
			return study, nil
		}

		config, err := sl.parse(data, format)
		if err != nil {
			return nil, err
		}

		if err := validate.Struct(config); err != nil {
			return nil, fmt.Errorf("study validation failed: %w", err)
		}

		study, err := config.Compile()
		if err != nil {
			return nil, fmt.Errorf("failed to compile study: %w", err)
		}

		sl.putCached(hash, study)
		return study, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Study), nil
}

// parse decodes the raw bytes into the common StudyConfig. YAML decoding
// is strict so configuration typos fail instead of being silently
// ignored.
func (sl *StudyLoader) parse(data []byte, format StudyFormat) (*StudyConfig, error) {
	switch format {
	case StudyFormatYAML:
		var config StudyConfig
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&config); err != nil {
			return nil, fmt.Errorf("YAML decode failed: %w", err)
		}
		return &config, nil

	case StudyFormatXML:
		var doc XMLStudy
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("XML decode failed: %w", err)
		}
		config, err := doc.toConfig()
		if err != nil {
			return nil, fmt.Errorf("XML study conversion failed: %w", err)
		}
		return config, nil

	default:
		return nil, fmt.Errorf("unsupported study format %q", format)
	}
}

func (sl *StudyLoader) getCached(hash string) (*Study, bool) {
	sl.cacheMu.RLock()
	defer sl.cacheMu.RUnlock()
	study, ok := sl.cache[hash]
	return study, ok
}

func (sl *StudyLoader) putCached(hash string, study *Study) {
	sl.cacheMu.Lock()
	defer sl.cacheMu.Unlock()
	sl.cache[hash] = study
}
