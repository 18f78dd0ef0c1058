package analytics

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gcbaptista/go-query-engine/model"
)

const (
	analyticsFileName = "analytics.json"
	maxEventsToKeep   = 10000 // Keep last 10k events for performance
	topQueriesLimit   = 5
)

// Service tracks search events and builds usage reports. Events are kept in
// memory (capped) and persisted as JSON alongside the engine's data directory.
type Service struct {
	mutex        sync.RWMutex
	saveMu       sync.Mutex // serializes file writes so an older snapshot never lands last
	events       []model.SearchEvent
	dataFilePath string
}

// NewService creates a new analytics service persisting under dataDir.
func NewService(dataDir string) *Service {
	service := &Service{
		events:       make([]model.SearchEvent, 0),
		dataFilePath: filepath.Join(dataDir, analyticsFileName),
	}

	if err := service.loadData(); err != nil {
		log.Printf("Warning: Failed to load analytics data: %v", err)
	}

	return service
}

// Track records a new search event.
func (s *Service) Track(event model.SearchEvent) {
	s.mutex.Lock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.events = append(s.events, event)

	// Cap history to prevent unbounded growth.
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}

	s.mutex.Unlock()

	// Persist outside the event lock; losing an event on crash is acceptable.
	go s.persist()
}

// persist writes the current event log to disk. Writers are serialized on
// saveMu and each one snapshots the log after acquiring it, so the file always
// converges to the newest state.
func (s *Service) persist() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mutex.RLock()
	snapshot := make([]model.SearchEvent, len(s.events))
	copy(snapshot, s.events)
	s.mutex.RUnlock()

	if err := s.saveData(snapshot); err != nil {
		log.Printf("Warning: Failed to save analytics data: %v", err)
	}
}

// Report summarizes all tracked search activity.
func (s *Service) Report() model.AnalyticsReport {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	report := model.AnalyticsReport{
		TotalSearches:  len(s.events),
		PopularQueries: []model.QueryCount{},
		IndexUsage:     make(map[string]int),
		SearchTypes:    make(map[string]int),
	}

	if len(s.events) == 0 {
		return report
	}

	queryCounts := make(map[string]int)
	var totalResponseMs float64
	for _, event := range s.events {
		if event.EmptyQuery {
			report.EmptyQueryCount++
		}
		if event.Query != "" {
			queryCounts[event.Query]++
		}
		report.IndexUsage[event.IndexName]++
		if event.SearchType != "" {
			report.SearchTypes[event.SearchType]++
		}
		totalResponseMs += event.ResponseTimeMs
	}

	report.EmptyQueryRate = float64(report.EmptyQueryCount) / float64(len(s.events))
	report.AvgResponseTimeMs = totalResponseMs / float64(len(s.events))
	report.PopularQueries = topQueries(queryCounts, topQueriesLimit)

	return report
}

// topQueries returns the limit most frequent queries, ties broken
// alphabetically for stable output.
func topQueries(counts map[string]int, limit int) []model.QueryCount {
	queries := make([]model.QueryCount, 0, len(counts))
	for query, count := range counts {
		queries = append(queries, model.QueryCount{Query: query, Count: count})
	}

	sort.Slice(queries, func(i, j int) bool {
		if queries[i].Count != queries[j].Count {
			return queries[i].Count > queries[j].Count
		}
		return queries[i].Query < queries[j].Query
	})

	if len(queries) > limit {
		queries = queries[:limit]
	}
	return queries
}

// loadData loads persisted analytics events, tolerating a missing file.
func (s *Service) loadData() error {
	data, err := os.ReadFile(s.dataFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read analytics file: %w", err)
	}

	if err := json.Unmarshal(data, &s.events); err != nil {
		return fmt.Errorf("failed to unmarshal analytics data: %w", err)
	}
	return nil
}

// saveData writes the event snapshot to disk.
func (s *Service) saveData(events []model.SearchEvent) error {
	dir := filepath.Dir(s.dataFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create analytics directory: %w", err)
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analytics data: %w", err)
	}

	if err := os.WriteFile(s.dataFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write analytics file: %w", err)
	}
	return nil
}
