package model

import "time"

// SearchEvent records a single executed search for analytics purposes.
type SearchEvent struct {
	IndexName      string    `json:"index_name"`
	Query          string    `json:"query"`
	SearchType     string    `json:"search_type"` // "search" or "phrase_search"
	EmptyQuery     bool      `json:"empty_query"` // true when the query repaired to the no-query sentinel
	ResultCount    int       `json:"result_count"`
	ResponseTimeMs float64   `json:"response_time_ms"`
	Timestamp      time.Time `json:"timestamp"`
}

// QueryCount pairs a query string with how often it was seen.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// AnalyticsReport summarizes search activity across all indexes.
type AnalyticsReport struct {
	TotalSearches     int            `json:"total_searches"`
	EmptyQueryCount   int            `json:"empty_query_count"`
	EmptyQueryRate    float64        `json:"empty_query_rate"`
	AvgResponseTimeMs float64        `json:"avg_response_time_ms"`
	PopularQueries    []QueryCount   `json:"popular_queries"`
	IndexUsage        map[string]int `json:"index_usage"`
	SearchTypes       map[string]int `json:"search_types"`
}
