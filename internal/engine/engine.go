package engine

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/gcbaptista/go-query-engine/config"
	"github.com/gcbaptista/go-query-engine/internal/errors"
	"github.com/gcbaptista/go-query-engine/internal/indexing"
	"github.com/gcbaptista/go-query-engine/internal/search"
	"github.com/gcbaptista/go-query-engine/model"
	"github.com/gcbaptista/go-query-engine/services"
)

// Engine manages multiple search indexes.
// It implements the services.IndexManager interface.
type Engine struct {
	mu      sync.RWMutex
	indexes map[string]*IndexInstance
	dataDir string
}

// NewEngine creates a new query engine orchestrator and loads any indexes
// persisted under dataDir.
func NewEngine(dataDir string) *Engine {
	eng := &Engine{
		indexes: make(map[string]*IndexInstance),
		dataDir: dataDir,
	}
	eng.loadIndexesFromDisk()
	return eng
}

// CreateIndex creates a new index with the given settings and persists it.
func (e *Engine) CreateIndex(settings config.IndexSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if settings.Name == "" {
		return fmt.Errorf("index name cannot be empty")
	}
	if _, exists := e.indexes[settings.Name]; exists {
		return errors.NewIndexAlreadyExistsError(settings.Name)
	}

	if validationErrors := settings.ValidateFieldNames(); len(validationErrors) > 0 {
		return errors.NewValidationError("settings", fmt.Sprintf("invalid field names: %v", validationErrors))
	}
	settings.ApplyDefaults()

	instance, err := NewIndexInstance(settings)
	if err != nil {
		return fmt.Errorf("failed to create new index instance for '%s': %w", settings.Name, err)
	}

	// Persist the initial (empty) state so the index survives a restart.
	if err := e.persistIndexUnsafe(settings.Name, settings, instance); err != nil {
		return fmt.Errorf("failed to persist new index '%s': %w", settings.Name, err)
	}

	e.indexes[settings.Name] = instance
	log.Printf("Index '%s' created and persisted.", settings.Name)
	return nil
}

// GetIndex retrieves an index by its name.
func (e *Engine) GetIndex(name string) (services.IndexAccessor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return nil, errors.NewIndexNotFoundError(name)
	}
	return instance, nil
}

// GetIndexSettings retrieves a copy of the settings for a specific index.
func (e *Engine) GetIndexSettings(name string) (config.IndexSettings, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return config.IndexSettings{}, errors.NewIndexNotFoundError(name)
	}
	return *instance.settings, nil
}

// UpdateIndexSettings updates the settings for an existing index and persists
// them. When the change affects how documents are analyzed or which fields are
// indexed, all documents are re-indexed synchronously before the call returns.
func (e *Engine) UpdateIndexSettings(name string, newSettings config.IndexSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	instance, exists := e.indexes[name]
	if !exists {
		return errors.NewIndexNotFoundError(name)
	}

	if newSettings.Name != "" && newSettings.Name != name {
		return errors.NewValidationError("name", fmt.Sprintf("cannot change index name from '%s' to '%s' during settings update; use rename", name, newSettings.Name))
	}
	newSettings.Name = name
	if validationErrors := newSettings.ValidateFieldNames(); len(validationErrors) > 0 {
		return errors.NewValidationError("settings", fmt.Sprintf("invalid field names: %v", validationErrors))
	}
	newSettings.ApplyDefaults()

	reindex := requiresReindexing(*instance.settings, newSettings)

	var docs []model.Document
	if reindex {
		docs = extractAllDocumentsUnsafe(instance)
		if err := instance.DeleteAllDocuments(); err != nil {
			return fmt.Errorf("failed to clear index for reindexing: %w", err)
		}
	}

	*instance.settings = newSettings

	// Both services capture analyzer flags and thresholds at construction;
	// rebuild them so the new settings take effect.
	indexerService, err := indexing.NewService(instance.InvertedIndex, instance.DocumentStore)
	if err != nil {
		return fmt.Errorf("failed to create indexer service with new settings: %w", err)
	}
	instance.indexer = indexerService

	searchService, err := search.NewService(instance.InvertedIndex, instance.DocumentStore, instance.settings)
	if err != nil {
		return fmt.Errorf("failed to create search service with new settings: %w", err)
	}
	instance.SetSearcher(searchService)

	if reindex && len(docs) > 0 {
		if err := instance.AddDocuments(docs); err != nil {
			return fmt.Errorf("failed to re-add documents during reindexing: %w", err)
		}
	}

	if err := e.persistIndexUnsafe(name, newSettings, instance); err != nil {
		return fmt.Errorf("failed to persist updated settings for index '%s': %w", name, err)
	}

	log.Printf("Settings for index '%s' updated and persisted (reindexed: %t).", name, reindex)
	return nil
}

// RenameIndex renames an index, moving its persisted data to the new name.
func (e *Engine) RenameIndex(oldName, newName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if oldName == newName {
		return errors.NewSameNameError(oldName)
	}

	instance, exists := e.indexes[oldName]
	if !exists {
		return errors.NewIndexNotFoundError(oldName)
	}
	if _, exists := e.indexes[newName]; exists {
		return errors.NewIndexAlreadyExistsError(newName)
	}

	newSettings := *instance.settings
	newSettings.Name = newName

	if err := e.persistIndexUnsafe(newName, newSettings, instance); err != nil {
		return fmt.Errorf("failed to persist renamed index: %w", err)
	}

	instance.settings.Name = newName
	e.indexes[newName] = instance
	delete(e.indexes, oldName)

	oldIndexPath := filepath.Join(e.dataDir, oldName)
	if err := os.RemoveAll(oldIndexPath); err != nil {
		log.Printf("Warning: Failed to remove old index directory %s: %v", oldIndexPath, err)
	}

	log.Printf("Index renamed from '%s' to '%s'.", oldName, newName)
	return nil
}

// DeleteIndex removes an index by its name from memory and disk.
func (e *Engine) DeleteIndex(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indexes[name]; !exists {
		return errors.NewIndexNotFoundError(name)
	}
	delete(e.indexes, name)

	indexPath := filepath.Join(e.dataDir, name)
	if err := os.RemoveAll(indexPath); err != nil {
		return fmt.Errorf("failed to delete index data directory %s: %w", indexPath, err)
	}
	log.Printf("Index '%s' deleted from memory and disk.", name)
	return nil
}

// ListIndexes returns the names of all loaded indexes.
func (e *Engine) ListIndexes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.indexes))
	for name := range e.indexes {
		names = append(names, name)
	}
	return names
}

// requiresReindexing reports whether a settings change invalidates the
// existing postings. Analyzer flags and the searchable field list shape what
// gets indexed; everything else is applied at search time.
func requiresReindexing(oldSettings, newSettings config.IndexSettings) bool {
	if !slicesEqual(oldSettings.SearchableFields, newSettings.SearchableFields) {
		return true
	}
	if oldSettings.DisableStopWords != newSettings.DisableStopWords {
		return true
	}
	if oldSettings.DisableStemming != newSettings.DisableStemming {
		return true
	}
	return false
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
