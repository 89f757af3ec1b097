package brief

import (
	"strings"
	"testing"
)

const wellFormed = `{
	"title": "Today's General Studies Brief",
	"date": "2025-09-07",
	"meta": {"word_count": 1742, "reading_time": "10 minutes", "generated_at": "2025-09-07T16:48:00+05:30"},
	"impact_summary": {"policy_developments": 3, "international_updates": 2, "economic_indicators": 2, "scientific_advances": 2},
	"primary_focus": {
		"title": "GST 2.0 Reforms",
		"category": "Economic",
		"summary": "Two-tier structure.",
		"content": "Long form.",
		"exam_relevance": "GS-III",
		"multi_dimensional_impact": "Broad.",
		"key_terms": ["GST Council"],
		"citations": ["2", "3"]
	},
	"sections": [{
		"id": "governance",
		"title": "Governance",
		"summary": "Policy",
		"articles": [{"title": "Banking Laws", "summary": "Reforms", "development_overview": "19 amendments", "key_terms": [], "citations": ["4"]}]
	}],
	"rapid_updates": [{"category": "Environment", "content": "Steel demand", "citations": ["7"]}],
	"exam_intelligence": {"new_concepts": "GST 2.0"},
	"knowledge_synthesis": {"debate_points": "Revenue"},
	"weekly_analysis": {"emerging_trends": "Tax"}
}`

func TestValidateWellFormed(t *testing.T) {
	res := Validate(Normalize(decodeRaw(t, wellFormed)))
	if !res.Valid {
		t.Fatalf("expected valid, got errors: %v", res.Errors)
	}
	if len(res.Errors) != 0 {
		t.Errorf("expected no errors, got %v", res.Errors)
	}
}

func TestValidateDecodesAfterSuccess(t *testing.T) {
	normalized := Normalize(decodeRaw(t, wellFormed))
	if res := Validate(normalized); !res.Valid {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
	b, err := Decode(normalized)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if b.Sections[0].Articles[0].MainContent() != "19 amendments" {
		t.Errorf("unexpected main content %q", b.Sections[0].Articles[0].MainContent())
	}
}

func TestValidateAccumulatesInSchemaOrder(t *testing.T) {
	raw := decodeRaw(t, `{
		"title": 5,
		"date": "2025-09-07",
		"meta": {"word_count": "many", "reading_time": 10},
		"primary_focus": {"key_terms": "GST", "citations": [1, "2"]},
		"sections": [{"id": "a", "articles": [{"key_terms": [true], "citations": "x"}]}],
		"rapid_updates": [{"category": 1, "content": "ok", "citations": [null]}]
	}`)

	res := Validate(raw)
	if res.Valid {
		t.Fatal("expected invalid payload")
	}

	want := []string{
		"/title must be string",
		"/meta/word_count must be number or numeric string",
		"/meta/reading_time must be string",
		"/primary_focus/key_terms must be array",
		"/primary_focus/citations/0 must be string",
		"/sections/0/articles/0/key_terms/0 must be string",
		"/sections/0/articles/0/citations must be array",
		"/rapid_updates/0/category must be string",
		"/rapid_updates/0/citations/0 must be string",
	}
	if len(res.Errors) != len(want) {
		t.Fatalf("expected %d errors, got %d: %v", len(want), len(res.Errors), res.Errors)
	}
	for i := range want {
		if res.Errors[i] != want[i] {
			t.Errorf("error %d: expected %q, got %q", i, want[i], res.Errors[i])
		}
	}
}

func TestValidateNumericStringsAccepted(t *testing.T) {
	raw := decodeRaw(t, `{"meta": {"word_count": "12"}, "impact_summary": {"policy_developments": " 4 "}}`)
	if res := Validate(raw); !res.Valid {
		t.Errorf("expected numeric strings to validate, got %v", res.Errors)
	}
}

func TestValidateRejectsNonDecimalStrings(t *testing.T) {
	for _, v := range []string{"NaN", "Inf", "-infinity", "0x1p4", "1_000", "12abc"} {
		raw := map[string]any{"impact_summary": map[string]any{"scientific_advances": v}}
		res := Validate(raw)
		if res.Valid {
			t.Errorf("%q: expected invalid", v)
			continue
		}
		if res.Errors[0] != "/impact_summary/scientific_advances must be number or numeric string" {
			t.Errorf("%q: unexpected error %q", v, res.Errors[0])
		}
	}
}

func TestValidatePresenceNotEnforced(t *testing.T) {
	if res := Validate(map[string]any{}); !res.Valid {
		t.Errorf("expected empty object to validate, got %v", res.Errors)
	}
	if res := Validate(map[string]any{"weekly_analysis": nil, "title": nil}); !res.Valid {
		t.Errorf("expected nulls to validate, got %v", res.Errors)
	}
}

func TestValidateRootMustBeObject(t *testing.T) {
	res := Validate([]any{"x"})
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "must be object") {
		t.Errorf("unexpected errors %v", res.Errors)
	}
}

func TestValidateNestedShapes(t *testing.T) {
	raw := map[string]any{
		"sections":          map[string]any{},
		"exam_intelligence": "text",
		"weekly_analysis":   map[string]any{"policy_trajectory": 1.0},
	}
	res := Validate(raw)
	want := []string{
		"/sections must be array",
		"/exam_intelligence must be object",
		"/weekly_analysis/policy_trajectory must be string",
	}
	if strings.Join(res.Errors, "|") != strings.Join(want, "|") {
		t.Errorf("expected %v, got %v", want, res.Errors)
	}
}
