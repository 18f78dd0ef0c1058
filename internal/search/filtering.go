package search

import (
	"log"
	"strings"

	"github.com/gcbaptista/go-query-engine/model"
	"github.com/gcbaptista/go-query-engine/services"
)

// matchesFilters checks whether a document satisfies every filter condition.
// Conditions referencing fields not configured as filterable are skipped with
// a warning, matching how unknown filters are treated elsewhere: user input is
// fixed up, not rejected.
func (s *Service) matchesFilters(doc model.Document, conditions []services.FilterCondition) bool {
	if len(conditions) == 0 {
		return true
	}

	filterable := make(map[string]struct{}, len(s.settings.FilterableFields))
	for _, field := range s.settings.FilterableFields {
		filterable[field] = struct{}{}
	}

	for _, cond := range conditions {
		if _, ok := filterable[cond.Field]; !ok {
			log.Printf("Warning: Field '%s' is not configured as filterable in index '%s' settings. Skipping filter.", cond.Field, s.settings.Name)
			continue
		}

		docFieldVal, exists := doc[cond.Field]
		if !exists {
			return false
		}

		if !applyCondition(docFieldVal, cond.Operator, cond.Value) {
			return false
		}
	}

	return true
}

// applyCondition evaluates a single operator against a document field value.
func applyCondition(docVal interface{}, operator string, filterVal interface{}) bool {
	switch operator {
	case "", "eq":
		return valuesEqual(docVal, filterVal)
	case "ne":
		return !valuesEqual(docVal, filterVal)
	case "gt", "gte", "lt", "lte":
		docNum, okDoc := toFloat(docVal)
		filterNum, okFilter := toFloat(filterVal)
		if !okDoc || !okFilter {
			return false
		}
		switch operator {
		case "gt":
			return docNum > filterNum
		case "gte":
			return docNum >= filterNum
		case "lt":
			return docNum < filterNum
		case "lte":
			return docNum <= filterNum
		}
	case "contains":
		return containsValue(docVal, filterVal)
	default:
		log.Printf("Warning: Unknown filter operator '%s'. Skipping condition.", operator)
		return true
	}
	return false
}

func valuesEqual(docVal, filterVal interface{}) bool {
	if docNum, ok := toFloat(docVal); ok {
		if filterNum, okF := toFloat(filterVal); okF {
			return docNum == filterNum
		}
		return false
	}
	if docStr, ok := docVal.(string); ok {
		filterStr, okF := filterVal.(string)
		return okF && docStr == filterStr
	}
	if docBool, ok := docVal.(bool); ok {
		filterBool, okF := filterVal.(bool)
		return okF && docBool == filterBool
	}
	return false
}

// containsValue handles substring match for strings and membership for slices.
func containsValue(docVal, filterVal interface{}) bool {
	filterStr, filterIsStr := filterVal.(string)

	switch v := docVal.(type) {
	case string:
		return filterIsStr && strings.Contains(v, filterStr)
	case []string:
		for _, item := range v {
			if filterIsStr && item == filterStr {
				return true
			}
		}
	case []interface{}:
		for _, item := range v {
			if valuesEqual(item, filterVal) {
				return true
			}
		}
	}
	return false
}

// toFloat converts the numeric types that appear in JSON-decoded documents.
func toFloat(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint32:
		return float64(v), true
	}
	return 0, false
}
