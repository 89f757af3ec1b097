package brief

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// impactFields are the counters coerced inside impact_summary.
var impactFields = []string{
	"policy_developments",
	"international_updates",
	"economic_indicators",
	"scientific_advances",
}

// maxCounter keeps coerced values inside the range float64 represents exactly.
const maxCounter = 1 << 53

// Normalize coerces a loosely-typed payload into the DailyBrief shape.
// It only converts counters that are present to numbers, fills in missing
// collections and sorts sections by id. Everything else passes through
// untouched, including absent counters, which Decode reads as 0. The input
// map is modified in place and returned.
func Normalize(raw map[string]any) map[string]any {
	if raw == nil {
		return nil
	}

	if meta, ok := raw["meta"].(map[string]any); ok {
		if wc, present := meta["word_count"]; present && wc != nil {
			meta["word_count"] = ToNumber(wc)
		}
	}

	if impact, ok := raw["impact_summary"].(map[string]any); ok {
		for _, key := range impactFields {
			if v, present := impact[key]; present {
				impact[key] = ToNumber(v)
			}
		}
	}

	if raw["rapid_updates"] == nil {
		raw["rapid_updates"] = []any{}
	}

	if raw["sections"] == nil {
		raw["sections"] = []any{}
	}
	if sections, ok := raw["sections"].([]any); ok {
		sort.SliceStable(sections, func(i, j int) bool {
			return sectionID(sections[i]) < sectionID(sections[j])
		})
		for _, s := range sections {
			section, ok := s.(map[string]any)
			if !ok {
				continue
			}
			articles, ok := section["articles"].([]any)
			if !ok {
				continue
			}
			for _, a := range articles {
				if article, ok := a.(map[string]any); ok {
					fillArticleLists(article)
				}
			}
		}
	}

	if focus, ok := raw["primary_focus"].(map[string]any); ok {
		fillArticleLists(focus)
	}

	return raw
}

// ToNumber applies the counter coercion table: numbers are truncated toward
// zero, strings are parsed after trimming, booleans become 1 or 0, and
// anything else (including unparseable strings, NaN and infinities) is 0.
func ToNumber(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case int:
		f = float64(x)
	case string:
		parsed, ok := parseDecimal(x)
		if !ok {
			return 0
		}
		f = parsed
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	if f > maxCounter {
		return maxCounter
	}
	if f < -maxCounter {
		return -maxCounter
	}
	return f
}

// Decode converts a normalized, validated payload into a DailyBrief.
func Decode(normalized map[string]any) (*DailyBrief, error) {
	data, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	var b DailyBrief
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding brief: %w", err)
	}
	return &b, nil
}

func fillArticleLists(article map[string]any) {
	if article["key_terms"] == nil {
		article["key_terms"] = []any{}
	}
	if article["citations"] == nil {
		article["citations"] = []any{}
	}
}

func sectionID(v any) string {
	section, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	id, _ := section["id"].(string)
	return id
}
