package prompts

import "sort"

// ObjectSchema builds a strict object: every property is required and no
// additional properties are allowed.
func ObjectSchema(properties map[string]any) map[string]any {
	req := make([]string, 0, len(properties))
	for k := range properties {
		req = append(req, k)
	}
	sort.Strings(req)
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             req,
		"additionalProperties": false,
	}
}

// ArraySchema bounds item counts; a negative max leaves it open.
func ArraySchema(items map[string]any, minItems, maxItems int) map[string]any {
	s := map[string]any{
		"type":  "array",
		"items": items,
	}
	if minItems > 0 {
		s["minItems"] = minItems
	}
	if maxItems >= 0 {
		s["maxItems"] = maxItems
	}
	return s
}

func StringSchema() map[string]any {
	return map[string]any{"type": "string"}
}

func StringArraySchema(minItems, maxItems int) map[string]any {
	return ArraySchema(StringSchema(), minItems, maxItems)
}

func IntSchema() map[string]any {
	return map[string]any{"type": "integer"}
}

func EnumSchema(values ...string) map[string]any {
	arr := make([]any, 0, len(values))
	for _, v := range values {
		arr = append(arr, v)
	}
	return map[string]any{"type": "string", "enum": arr}
}

func letterSchema() map[string]any {
	return EnumSchema("A", "B", "C", "D")
}

func optionSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"letter": letterSchema(),
		"text":   StringSchema(),
	})
}

func stepSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"instruction":       StringSchema(),
		"expected_result":   StringSchema(),
		"estimated_minutes": IntSchema(),
	})
}
