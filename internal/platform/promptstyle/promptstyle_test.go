package promptstyle

import (
	"strings"
	"testing"
)

func TestApplySystemIsIdempotent(t *testing.T) {
	once := ApplySystem("Write a quiz.", "json")
	if !strings.HasPrefix(once, marker) || !strings.HasSuffix(once, "Write a quiz.") {
		t.Fatalf("unexpected shape: %q", once)
	}
	if !strings.Contains(once, "conforms to the schema") {
		t.Fatalf("json mode should require schema output")
	}
	if twice := ApplySystem(once, "json"); twice != once {
		t.Fatalf("second application changed the prompt")
	}
	if ApplySystem("  ", "json") != "" {
		t.Fatalf("empty prompts stay empty")
	}
	if strings.Contains(ApplySystem("Chat.", "text"), "conforms to the schema") {
		t.Fatalf("text mode must not demand schema output")
	}
}
