package envutil

import (
	"testing"
	"time"
)

func TestTypedGetters(t *testing.T) {
	t.Setenv("CF_INT", "12")
	t.Setenv("CF_BAD_INT", "twelve")
	t.Setenv("CF_BOOL", "off")
	t.Setenv("CF_SECS", "90")
	t.Setenv("CF_LIST", "a, b,,c ")

	if got := Int("CF_INT", 1); got != 12 {
		t.Fatalf("Int: got %d", got)
	}
	if got := Int("CF_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback: got %d", got)
	}
	if Bool("CF_BOOL", true) {
		t.Fatalf("Bool: expected false")
	}
	if got := Seconds("CF_SECS", time.Second); got != 90*time.Second {
		t.Fatalf("Seconds: got %s", got)
	}
	if got := Seconds("CF_MISSING", 3*time.Second); got != 3*time.Second {
		t.Fatalf("Seconds default: got %s", got)
	}
	list := List("CF_LIST", nil)
	if len(list) != 3 || list[0] != "a" || list[2] != "c" {
		t.Fatalf("List: got %#v", list)
	}
}
