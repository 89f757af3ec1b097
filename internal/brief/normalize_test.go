package brief

import (
	"encoding/json"
	"testing"
)

func decodeRaw(t *testing.T, s string) map[string]any {
	t.Helper()
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("invalid test payload: %v", err)
	}
	return raw
}

func TestNormalizeImpactSummaryStrings(t *testing.T) {
	raw := decodeRaw(t, `{
		"impact_summary": {
			"policy_developments": "3",
			"international_updates": " 2 ",
			"economic_indicators": "lots",
			"scientific_advances": 4
		}
	}`)

	out := Normalize(raw)
	impact := out["impact_summary"].(map[string]any)

	want := map[string]float64{
		"policy_developments":   3,
		"international_updates": 2,
		"economic_indicators":   0,
		"scientific_advances":   4,
	}
	for k, v := range want {
		got, ok := impact[k].(float64)
		if !ok {
			t.Errorf("%s: expected number, got %T", k, impact[k])
			continue
		}
		if got != v {
			t.Errorf("%s: expected %v, got %v", k, v, got)
		}
	}
}

func TestNormalizeAbsentImpactCountersStayAbsent(t *testing.T) {
	raw := decodeRaw(t, `{"impact_summary": {"policy_developments": "2"}}`)
	impact := Normalize(raw)["impact_summary"].(map[string]any)
	if impact["policy_developments"] != float64(2) {
		t.Errorf("expected policy_developments 2, got %#v", impact["policy_developments"])
	}
	for _, k := range impactFields[1:] {
		if v, present := impact[k]; present {
			t.Errorf("%s: expected absent, got %#v", k, v)
		}
	}

	b, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.ImpactSummary.ScientificAdvances != 0 || b.ImpactSummary.PolicyDevelopments != 2 {
		t.Errorf("unexpected impact summary %+v", b.ImpactSummary)
	}
}

func TestNormalizeWordCount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want any
	}{
		{"numeric string", `{"meta": {"word_count": "1742"}}`, float64(1742)},
		{"non-numeric string", `{"meta": {"word_count": "many"}}`, float64(0)},
		{"number", `{"meta": {"word_count": 12.9}}`, float64(12)},
		{"empty string", `{"meta": {"word_count": ""}}`, float64(0)},
		{"false", `{"meta": {"word_count": false}}`, float64(0)},
		{"true", `{"meta": {"word_count": true}}`, float64(1)},
		{"zero", `{"meta": {"word_count": 0}}`, float64(0)},
		{"null untouched", `{"meta": {"word_count": null}}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := Normalize(decodeRaw(t, tt.in))["meta"].(map[string]any)
			if meta["word_count"] != tt.want {
				t.Errorf("expected %#v, got %#v", tt.want, meta["word_count"])
			}
		})
	}
}

func TestNormalizeFillsCollections(t *testing.T) {
	raw := decodeRaw(t, `{
		"primary_focus": {"title": "Lead"},
		"sections": [
			{"id": "governance", "articles": [{"title": "A"}, {"title": "B", "key_terms": ["x"], "citations": null}]}
		]
	}`)

	out := Normalize(raw)

	if updates, ok := out["rapid_updates"].([]any); !ok || len(updates) != 0 {
		t.Errorf("expected empty rapid_updates, got %#v", out["rapid_updates"])
	}

	focus := out["primary_focus"].(map[string]any)
	for _, k := range []string{"key_terms", "citations"} {
		if list, ok := focus[k].([]any); !ok || len(list) != 0 {
			t.Errorf("primary_focus.%s: expected empty list, got %#v", k, focus[k])
		}
	}

	articles := out["sections"].([]any)[0].(map[string]any)["articles"].([]any)
	for i, a := range articles {
		article := a.(map[string]any)
		if _, ok := article["key_terms"].([]any); !ok {
			t.Errorf("article %d: key_terms missing", i)
		}
		if _, ok := article["citations"].([]any); !ok {
			t.Errorf("article %d: citations missing", i)
		}
	}
	if terms := articles[1].(map[string]any)["key_terms"].([]any); len(terms) != 1 {
		t.Errorf("expected existing key_terms preserved, got %#v", terms)
	}
}

func TestNormalizeMissingSections(t *testing.T) {
	out := Normalize(map[string]any{"title": "x"})
	if sections, ok := out["sections"].([]any); !ok || len(sections) != 0 {
		t.Errorf("expected empty sections, got %#v", out["sections"])
	}
	if out["primary_focus"] != nil {
		t.Error("expected absent primary_focus to stay absent")
	}
}

func TestNormalizeSortsSectionsStable(t *testing.T) {
	raw := decodeRaw(t, `{"sections": [
		{"id": "b", "title": "first b"},
		{"id": "a"},
		{"id": "b", "title": "second b"},
		{"title": "no id"}
	]}`)

	order := func(m map[string]any) []string {
		var ids []string
		for _, s := range m["sections"].([]any) {
			sec := s.(map[string]any)
			id, _ := sec["id"].(string)
			title, _ := sec["title"].(string)
			ids = append(ids, id+":"+title)
		}
		return ids
	}

	first := order(Normalize(raw))
	want := []string{":no id", "a:", "b:first b", "b:second b"}
	if len(first) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(first))
	}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], first[i])
		}
	}

	second := order(Normalize(raw))
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("normalize not idempotent at %d: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestNormalizeLeavesOddShapesAlone(t *testing.T) {
	raw := map[string]any{
		"sections":       "not a list",
		"impact_summary": "nope",
		"meta":           []any{1},
		"primary_focus":  42.0,
	}
	out := Normalize(raw)
	if out["sections"] != "not a list" {
		t.Errorf("expected sections untouched, got %#v", out["sections"])
	}
	if out["primary_focus"] != 42.0 {
		t.Errorf("expected primary_focus untouched, got %#v", out["primary_focus"])
	}
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{"3", 3},
		{"3.9", 3},
		{"-2", -2},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Infinity", 0},
		{"0x1p4", 0},
		{"1_000", 0},
		{" 1e3 ", 1000},
		{true, 1},
		{false, 0},
		{nil, 0},
		{7.0, 7},
		{map[string]any{}, 0},
		{"1e300", maxCounter},
	}
	for _, tt := range tests {
		if got := ToNumber(tt.in); got != tt.want {
			t.Errorf("ToNumber(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecodeNormalized(t *testing.T) {
	raw := decodeRaw(t, `{
		"title": "Brief",
		"date": "2025-09-07",
		"meta": {"word_count": "1742", "reading_time": "10 minutes", "generated_at": "2025-09-07T16:48:00+05:30"},
		"impact_summary": {"policy_developments": "3"},
		"primary_focus": {"title": "GST", "category": "Economic", "exam_relevance": "GS-III"},
		"sections": [{"id": "b", "articles": [{"title": "x"}]}, {"id": "a"}]
	}`)

	b, err := Decode(Normalize(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Meta.WordCount != 1742 {
		t.Errorf("expected word count 1742, got %d", b.Meta.WordCount)
	}
	if b.ImpactSummary.PolicyDevelopments != 3 {
		t.Errorf("expected 3 policy developments, got %d", b.ImpactSummary.PolicyDevelopments)
	}
	if b.PrimaryFocus.KeyTerms == nil || len(b.PrimaryFocus.KeyTerms) != 0 {
		t.Errorf("expected empty non-nil key terms, got %#v", b.PrimaryFocus.KeyTerms)
	}
	if b.PrimaryFocus.ExamLink() != "GS-III" {
		t.Errorf("expected exam link from exam_relevance, got %q", b.PrimaryFocus.ExamLink())
	}
	if len(b.Sections) != 2 || b.Sections[0].ID != "a" {
		t.Errorf("expected sections sorted [a b], got %+v", b.Sections)
	}
	if b.RapidUpdates == nil {
		t.Error("expected non-nil rapid updates")
	}
	if b.WeeklyAnalysis != nil {
		t.Error("expected nil weekly analysis")
	}
}
