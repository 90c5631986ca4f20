package buildstate

import (
	"encoding/json"
	"testing"
)

func TestMergeContent(t *testing.T) {
	current := []byte(`{"title":"Old","sections":[{"heading":"a"}],"attribution":"x"}`)
	merged, err := MergeContent(current, []byte(`{"title":"New","attribution":null,"sections":[{"heading":"b"},{"heading":"c"}]}`))
	if err != nil {
		t.Fatalf("MergeContent: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(merged, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["title"] != "New" {
		t.Fatalf("expected title replaced, got %v", got["title"])
	}
	if _, ok := got["attribution"]; ok {
		t.Fatalf("expected null to remove the key")
	}
	if secs, _ := got["sections"].([]any); len(secs) != 2 {
		t.Fatalf("expected arrays replaced whole, got %v", got["sections"])
	}

	if _, err := MergeContent(nil, []byte(`{"title":"x"}`)); err != nil {
		t.Fatalf("empty content should merge as an object: %v", err)
	}
}
