package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// FilePluginID owns entries loaded from a catalog file that name no plugin.
const FilePluginID = "file"

// File is the YAML layout of a catalog file:
//
//	ocr:
//	  - id: manga-ocr
//	    name: Manga OCR
//	    supported_languages: [ja]
//	translation:
//	  - id: gemini
//	    name: Gemini
//	    supports_auto_detect: true
type File struct {
	OCR         []OCRService         `yaml:"ocr"`
	Translation []TranslationService `yaml:"translation"`
}

// DecodeFile parses a catalog file. Unknown keys are rejected.
func DecodeFile(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to decode catalog file: %w", err)
	}
	return &f, nil
}

// LoadFile registers every service listed in the file at path. It stops at
// the first entry that fails to register.
func (c *Catalog) LoadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	f, err := DecodeFile(bytes.NewReader(data))
	if err != nil {
		return err
	}

	for _, svc := range f.OCR {
		if err := c.RegisterOCR(ctx, FilePluginID, svc); err != nil {
			return fmt.Errorf("catalog file %s: %w", path, err)
		}
	}
	for _, svc := range f.Translation {
		if err := c.RegisterTranslation(ctx, FilePluginID, svc); err != nil {
			return fmt.Errorf("catalog file %s: %w", path, err)
		}
	}

	c.logger.Info("catalog file loaded",
		"path", path,
		"ocr_services", len(f.OCR),
		"translation_services", len(f.Translation))
	return nil
}
