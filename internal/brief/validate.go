package brief

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Result is the outcome of Validate. Errors is empty when Valid is true.
type Result struct {
	Valid  bool
	Errors []string
}

type kind int

const (
	kindString kind = iota
	kindNumber
	kindObject
	kindArray
)

type field struct {
	name string
	node *node
}

type node struct {
	kind   kind
	fields []field
	items  *node
}

func str() *node { return &node{kind: kindString} }
func num() *node { return &node{kind: kindNumber} }

func object(fields ...field) *node { return &node{kind: kindObject, fields: fields} }

func array(items *node) *node { return &node{kind: kindArray, items: items} }

func texts(names ...string) []field {
	fields := make([]field, len(names))
	for i, n := range names {
		fields[i] = field{n, str()}
	}
	return fields
}

// articleFields lists the article schema in wire order. The primary focus
// shares it and appends its own fields.
func articleFields() []field {
	fields := texts("title", "summary",
		"development_overview", "global_update", "economic_update", "research_update", "social_update",
		"policy_significance", "exam_connection", "exam_relevance", "exam_integration",
		"analytical_perspectives")
	fields = append(fields, field{"key_terms", array(str())})
	fields = append(fields, texts("historical_context", "future_implications")...)
	fields = append(fields, field{"citations", array(str())})
	return fields
}

// schema mirrors DailyBrief field for field, so a payload that validates
// always decodes.
var schema = object(
	field{"title", str()},
	field{"date", str()},
	field{"meta", object(
		field{"word_count", num()},
		field{"reading_time", str()},
		field{"generated_at", str()},
	)},
	field{"impact_summary", object(
		field{"policy_developments", num()},
		field{"international_updates", num()},
		field{"economic_indicators", num()},
		field{"scientific_advances", num()},
	)},
	field{"primary_focus", object(append(articleFields(),
		texts("category", "content", "multi_dimensional_impact")...)...)},
	field{"sections", array(object(
		field{"id", str()},
		field{"title", str()},
		field{"summary", str()},
		field{"articles", array(object(articleFields()...))},
	))},
	field{"rapid_updates", array(object(
		field{"category", str()},
		field{"content", str()},
		field{"citations", array(str())},
	))},
	field{"exam_intelligence", object(texts("new_concepts", "static_dynamic_connections",
		"question_probability", "factual_database", "comparative_analysis")...)},
	field{"knowledge_synthesis", object(texts("cross_subject_connections", "historical_parallels",
		"predictive_analysis", "debate_points")...)},
	field{"weekly_analysis", object(texts("emerging_trends", "policy_trajectory", "economic_indicators")...)},
)

// Validate checks the type of every known field that is present. Missing
// fields and nulls are accepted. All violations are collected in a single
// depth-first pass over the schema, each reported as "<path> <reason>".
func Validate(v any) Result {
	var errs []string
	check("", v, schema, &errs)
	if len(errs) > 0 {
		return Result{Valid: false, Errors: errs}
	}
	return Result{Valid: true}
}

func check(path string, v any, n *node, errs *[]string) {
	switch n.kind {
	case kindString:
		if _, ok := v.(string); !ok {
			*errs = append(*errs, at(path)+" must be string")
		}
	case kindNumber:
		if !isNumeric(v) {
			*errs = append(*errs, at(path)+" must be number or numeric string")
		}
	case kindObject:
		obj, ok := v.(map[string]any)
		if !ok {
			*errs = append(*errs, at(path)+" must be object")
			return
		}
		for _, f := range n.fields {
			child, present := obj[f.name]
			if !present || child == nil {
				continue
			}
			check(path+"/"+f.name, child, f.node, errs)
		}
	case kindArray:
		arr, ok := v.([]any)
		if !ok {
			*errs = append(*errs, at(path)+" must be array")
			return
		}
		for i, item := range arr {
			check(path+"/"+strconv.Itoa(i), item, n.items, errs)
		}
	}
}

func at(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func isNumeric(v any) bool {
	switch x := v.(type) {
	case float64, int, json.Number:
		return true
	case string:
		_, ok := parseDecimal(x)
		return ok
	default:
		return false
	}
}

// parseDecimal parses a plain decimal number such as "12", " -3.5 " or
// "1e3". NaN, infinities, hex floats and digit separators are rejected.
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == 'e', r == 'E', r == '+', r == '-':
		default:
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
