package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Importer orchestrates import from a Source to a library YAML file.
type Importer struct {
	source Source
	logger *zap.Logger
}

// New constructs an Importer backed by the given Source.
//
// Precondition: source and logger must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(source Source, logger *zap.Logger) *Importer {
	if source == nil || logger == nil {
		panic("importer: New requires a non-nil source and logger")
	}
	return &Importer{source: source, logger: logger}
}

// Import loads path and converts it into a Library.
func (imp *Importer) Import(path string) (*Library, error) {
	t0 := time.Now()
	nodes, err := imp.source.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading source: %w", err)
	}
	lib, err := Convert(nodes)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", path, err)
	}
	imp.logger.Info("imported library",
		zap.String("path", path),
		zap.Int("traits", len(lib.Traits)),
		zap.Int("skills", len(lib.Skills)),
		zap.Int("spells", len(lib.Spells)),
		zap.Int("equipment", len(lib.Equipment)),
		zap.Int("weapons", len(lib.Weapons)),
		zap.Duration("elapsed", time.Since(t0)),
	)
	return lib, nil
}

// Run imports sourcePath and writes the library as YAML to outputPath.
//
// Precondition: outputPath's directory must exist or be creatable.
// Postcondition: the written file decodes back into a valid Library, or an
// error is returned and nothing is written.
func (imp *Importer) Run(sourcePath, outputPath string) error {
	lib, err := imp.Import(sourcePath)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(lib)
	if err != nil {
		return fmt.Errorf("serialising library: %w", err)
	}
	if _, err := ParseLibrary(data); err != nil {
		return fmt.Errorf("library failed validation: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("writing library to %s: %w", outputPath, err)
	}
	imp.logger.Info("wrote library", zap.String("path", outputPath), zap.Int("bytes", len(data)))
	return nil
}

// ParseLibrary decodes a library written by Run and validates its
// equipment.
func ParseLibrary(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parsing library: %w", err)
	}
	for _, it := range lib.Equipment {
		if err := it.Validate(); err != nil {
			return nil, err
		}
	}
	return &lib, nil
}
