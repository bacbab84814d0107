package search

import (
	"fmt"
	"strings"

	"github.com/clinisearch/go-context-search/model"
	"github.com/clinisearch/go-context-search/services"
)

// matchesFilters reports whether a document satisfies every filter condition
// (AND semantics). Conditions on fields absent from the document fail.
func matchesFilters(doc model.Document, filters []services.FilterCondition) bool {
	for _, filter := range filters {
		if !matchesCondition(doc, filter) {
			return false
		}
	}
	return true
}

func matchesCondition(doc model.Document, filter services.FilterCondition) bool {
	docValue, exists := doc[filter.Field]
	if !exists {
		return false
	}

	switch strings.ToLower(filter.Operator) {
	case "eq":
		return compareEqual(docValue, filter.Value)
	case "ne":
		return !compareEqual(docValue, filter.Value)
	case "gte":
		cmp, ok := compareOrdered(docValue, filter.Value)
		return ok && cmp >= 0
	case "lte":
		cmp, ok := compareOrdered(docValue, filter.Value)
		return ok && cmp <= 0
	default:
		return false
	}
}

func compareEqual(a, b interface{}) bool {
	// Numeric values compare as numbers regardless of concrete type.
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// compareOrdered returns -1, 0, or 1, and whether the values were comparable.
// Numbers compare numerically, strings lexicographically (which orders
// ISO-8601 dates correctly).
func compareOrdered(a, b interface{}) (int, bool) {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}
