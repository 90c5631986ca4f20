package authoring

import "testing"

func TestBuildStateOrder(t *testing.T) {
	order := []BuildState{
		BuildStateDraft, BuildStateGenerating, BuildStateGenerated,
		BuildStateReviewed, BuildStateApproved, BuildStatePublished,
	}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Fatalf("%s must rank above %s", order[i], order[i-1])
		}
	}
	if BuildState("LIMBO").Valid() {
		t.Fatalf("unknown state must be invalid")
	}
	if s, ok := ParseBuildState(" reviewed "); !ok || s != BuildStateReviewed {
		t.Fatalf("ParseBuildState: got %q %v", s, ok)
	}
}

func TestActivityCloneIsDeep(t *testing.T) {
	a := &Activity{Content: []byte(`{"title":"x"}`)}
	cp := a.Clone()
	cp.Content[2] = 'X'
	if string(a.Content) != `{"title":"x"}` {
		t.Fatalf("clone shares content buffer")
	}
	if (&Activity{Content: []byte("null")}).HasContent() {
		t.Fatalf("null content must count as absent")
	}
}
