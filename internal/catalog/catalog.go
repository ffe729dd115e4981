package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
)

// EventServicesUpdated is published after every successful change.
const EventServicesUpdated = "plugins:bunny_services_updated"

// BuiltinPluginID owns the entries installed by WithBuiltins.
const BuiltinPluginID = "builtin"

var (
	// ErrServiceExists is returned when registering an id already present
	// in the same category.
	ErrServiceExists = errors.New("service already registered")

	// ErrServiceNotFound is returned when no category holds the id.
	ErrServiceNotFound = errors.New("service not found")

	// ErrBuiltinService is returned when removing a built-in entry.
	ErrBuiltinService = errors.New("built-in services cannot be removed")

	// ErrInvalidService is returned when a service description fails validation.
	ErrInvalidService = errors.New("invalid service description")
)

// OCRService describes an OCR model.
type OCRService struct {
	ID                    string   `json:"id" yaml:"id" validate:"required,max=64"`
	Name                  string   `json:"name" yaml:"name" validate:"required"`
	Version               string   `json:"version,omitempty" yaml:"version"`
	PluginID              string   `json:"plugin_id" yaml:"plugin_id"`
	SupportedLanguages    []string `json:"supported_languages" yaml:"supported_languages"`
	SupportedImageFormats []string `json:"supported_image_formats" yaml:"supported_image_formats"`
	MaxImageSize          *int     `json:"max_image_size,omitempty" yaml:"max_image_size" validate:"omitempty,gt=0"`
}

// TranslationService describes a translation backend.
type TranslationService struct {
	ID                 string   `json:"id" yaml:"id" validate:"required,max=64"`
	Name               string   `json:"name" yaml:"name" validate:"required"`
	Version            string   `json:"version,omitempty" yaml:"version"`
	PluginID           string   `json:"plugin_id" yaml:"plugin_id"`
	SourceLanguages    []string `json:"source_languages" yaml:"source_languages"`
	TargetLanguages    []string `json:"target_languages" yaml:"target_languages"`
	SupportsAutoDetect bool     `json:"supports_auto_detect" yaml:"supports_auto_detect"`
	MaxTextLength      *int     `json:"max_text_length,omitempty" yaml:"max_text_length" validate:"omitempty,gt=0"`
}

// Listing is the full catalog content, as published and served.
type Listing struct {
	OCR         []OCRService         `json:"ocr"`
	Translation []TranslationService `json:"translation"`
}

// Publisher receives catalog change events.
type Publisher interface {
	Publish(ctx context.Context, name string, payload []byte) error
}

// Catalog is a concurrency-safe registry of OCR and translation services.
type Catalog struct {
	mu          sync.RWMutex
	ocr         map[string]OCRService
	translation map[string]TranslationService
	publisher   Publisher
	validate    *validator.Validate
	logger      *slog.Logger
}

// New creates an empty catalog. A nil publisher disables change events.
func New(publisher Publisher, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		ocr:         make(map[string]OCRService),
		translation: make(map[string]TranslationService),
		publisher:   publisher,
		validate:    validator.New(),
		logger:      logger.With("component", "catalog"),
	}
}

// WithBuiltins installs the built-in OCR models and translation services
// without publishing an event.
func (c *Catalog) WithBuiltins() *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, svc := range builtinOCR() {
		c.ocr[svc.ID] = svc
	}
	for _, svc := range builtinTranslation() {
		c.translation[svc.ID] = svc
	}
	return c
}

// RegisterOCR adds an OCR service. An empty PluginID is stored as pluginID.
func (c *Catalog) RegisterOCR(ctx context.Context, pluginID string, svc OCRService) error {
	if svc.PluginID == "" {
		svc.PluginID = pluginID
	}
	if err := c.validate.Struct(svc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidService, err)
	}

	c.mu.Lock()
	if _, exists := c.ocr[svc.ID]; exists {
		c.mu.Unlock()
		return fmt.Errorf("%w: ocr service %q", ErrServiceExists, svc.ID)
	}
	c.ocr[svc.ID] = svc
	listing := c.listingLocked()
	c.mu.Unlock()

	c.logger.Info("ocr service registered", "service_id", svc.ID, "plugin_id", svc.PluginID)
	c.publish(ctx, listing)
	return nil
}

// RegisterTranslation adds a translation service. An empty PluginID is stored as pluginID.
func (c *Catalog) RegisterTranslation(ctx context.Context, pluginID string, svc TranslationService) error {
	if svc.PluginID == "" {
		svc.PluginID = pluginID
	}
	if err := c.validate.Struct(svc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidService, err)
	}

	c.mu.Lock()
	if _, exists := c.translation[svc.ID]; exists {
		c.mu.Unlock()
		return fmt.Errorf("%w: translation service %q", ErrServiceExists, svc.ID)
	}
	c.translation[svc.ID] = svc
	listing := c.listingLocked()
	c.mu.Unlock()

	c.logger.Info("translation service registered", "service_id", svc.ID, "plugin_id", svc.PluginID)
	c.publish(ctx, listing)
	return nil
}

// Unregister removes the id from both categories.
func (c *Catalog) Unregister(ctx context.Context, id string) error {
	c.mu.Lock()
	ocr, inOCR := c.ocr[id]
	tr, inTranslation := c.translation[id]
	if !inOCR && !inTranslation {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrServiceNotFound, id)
	}
	if (inOCR && ocr.PluginID == BuiltinPluginID) || (inTranslation && tr.PluginID == BuiltinPluginID) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrBuiltinService, id)
	}
	delete(c.ocr, id)
	delete(c.translation, id)
	listing := c.listingLocked()
	c.mu.Unlock()

	c.logger.Info("service unregistered", "service_id", id)
	c.publish(ctx, listing)
	return nil
}

// UnregisterPlugin removes every service owned by pluginID and returns how
// many were removed. An event is published even when nothing matched.
func (c *Catalog) UnregisterPlugin(ctx context.Context, pluginID string) int {
	c.mu.Lock()
	removed := 0
	if pluginID != BuiltinPluginID {
		for id, svc := range c.ocr {
			if svc.PluginID == pluginID {
				delete(c.ocr, id)
				removed++
			}
		}
		for id, svc := range c.translation {
			if svc.PluginID == pluginID {
				delete(c.translation, id)
				removed++
			}
		}
	}
	listing := c.listingLocked()
	c.mu.Unlock()

	c.logger.Info("plugin services unregistered", "plugin_id", pluginID, "removed", removed)
	c.publish(ctx, listing)
	return removed
}

// HasOCR reports whether id names an OCR service.
func (c *Catalog) HasOCR(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.ocr[id]
	return ok
}

// HasTranslation reports whether id names a translation service.
func (c *Catalog) HasTranslation(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.translation[id]
	return ok
}

// PluginFor returns the plugin owning id, checking OCR first.
func (c *Catalog) PluginFor(id string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if svc, ok := c.ocr[id]; ok {
		return svc.PluginID, true
	}
	if svc, ok := c.translation[id]; ok {
		return svc.PluginID, true
	}
	return "", false
}

// List returns both categories sorted by id.
func (c *Catalog) List() Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listingLocked()
}

func (c *Catalog) listingLocked() Listing {
	l := Listing{
		OCR:         make([]OCRService, 0, len(c.ocr)),
		Translation: make([]TranslationService, 0, len(c.translation)),
	}
	for _, svc := range c.ocr {
		l.OCR = append(l.OCR, svc)
	}
	for _, svc := range c.translation {
		l.Translation = append(l.Translation, svc)
	}
	sort.Slice(l.OCR, func(i, j int) bool { return l.OCR[i].ID < l.OCR[j].ID })
	sort.Slice(l.Translation, func(i, j int) bool { return l.Translation[i].ID < l.Translation[j].ID })
	return l
}

func (c *Catalog) publish(ctx context.Context, listing Listing) {
	if c.publisher == nil {
		return
	}
	payload, err := json.Marshal(listing)
	if err != nil {
		c.logger.Error("failed to encode catalog listing", "error", err)
		return
	}
	if err := c.publisher.Publish(ctx, EventServicesUpdated, payload); err != nil {
		c.logger.Warn("failed to publish catalog update", "error", err)
	}
}
