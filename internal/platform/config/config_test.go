package config

import (
	"testing"
	"time"

	kit "bandwatch/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	root := New()
	api := root.Prefix("CORE_API_")
	if got := api.key("PORT"); got != "CORE_API_PORT" {
		t.Fatalf("key() = %q, want %q", got, "CORE_API_PORT")
	}
	// nested prefix
	mail := root.Prefix("CORE_").Prefix("MAIL_")
	if got := mail.key("HOST"); got != "CORE_MAIL_HOST" {
		t.Fatalf("nested key() = %q, want %q", got, "CORE_MAIL_HOST")
	}
}

// Must* panics

func TestMustString(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  bandwatch ")
	if got := c.MustString("NAME"); got != "bandwatch" {
		t.Fatalf("MustString = %q, want %q", got, "bandwatch")
	}

	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMustPort(t *testing.T) {
	c := New().Prefix("P_")
	t.Setenv("P_PORT", "4000")
	if got := c.MustPort("PORT"); got != ":4000" {
		t.Fatalf("MustPort = %q, want %q", got, ":4000")
	}
	t.Setenv("P_BAD", "abc")
	kit.MustPanic(t, func() { _ = c.MustPort("BAD") })
	t.Setenv("P_OOB", "70000")
	kit.MustPanic(t, func() { _ = c.MustPort("OOB") })
}

func TestRequire(t *testing.T) {
	c := New().Prefix("REQ_")
	t.Setenv("REQ_A", "x")
	t.Setenv("REQ_B", "y")
	kit.MustNotPanic(t, func() { c.Require("A", "B") })
	kit.MustPanic(t, func() { c.Require("A", "C") })

	t.Setenv("REQ_WS", "   ")
	kit.MustPanic(t, func() { c.Require("WS") })
}

// May* fallbacks

func TestMayString(t *testing.T) {
	c := New().Prefix("S_")
	if got := c.MayString("MISSING", "def"); got != "def" {
		t.Fatalf("MayString default = %q, want %q", got, "def")
	}
	t.Setenv("S_NAME", " bandwatch ")
	if got := c.MayString("NAME", "x"); got != "bandwatch" {
		t.Fatalf("MayString value = %q, want %q", got, "bandwatch")
	}
}

func TestMayInt(t *testing.T) {
	c := New().Prefix("I_")
	if got := c.MayInt("MISSING", 9); got != 9 {
		t.Fatalf("MayInt default = %d, want %d", got, 9)
	}
	t.Setenv("I_OK", " 7 ")
	if got := c.MayInt("OK", 0); got != 7 {
		t.Fatalf("MayInt ok = %d, want %d", got, 7)
	}
	t.Setenv("I_BAD", "x")
	if got := c.MayInt("BAD", 3); got != 3 {
		t.Fatalf("MayInt bad -> default = %d, want %d", got, 3)
	}
}

func TestMayFloat64(t *testing.T) {
	c := New().Prefix("F_")
	if got := c.MayFloat64("MISSING", 0.25); got != 0.25 {
		t.Fatalf("MayFloat64 default = %v, want %v", got, 0.25)
	}
	t.Setenv("F_OK", " 0.4 ")
	if got := c.MayFloat64("OK", 0); got != 0.4 {
		t.Fatalf("MayFloat64 ok = %v, want %v", got, 0.4)
	}
	t.Setenv("F_BAD", "x")
	if got := c.MayFloat64("BAD", 0.2); got != 0.2 {
		t.Fatalf("MayFloat64 bad -> default = %v, want %v", got, 0.2)
	}
}

func TestMayBool(t *testing.T) {
	c := New().Prefix("B_")
	if !c.MayBool("MISSING", true) {
		t.Fatalf("MayBool default true expected")
	}
	t.Setenv("B_T", "1")
	if !c.MayBool("T", false) {
		t.Fatalf("MayBool 1 expected true")
	}
	t.Setenv("B_BAD", "nope")
	if c.MayBool("BAD", false) {
		t.Fatalf("MayBool bad -> default false expected")
	}
}

func TestMayDuration(t *testing.T) {
	c := New().Prefix("D_")
	if got := c.MayDuration("MISS", 5*time.Second); got != 5*time.Second {
		t.Fatalf("MayDuration default expected")
	}
	t.Setenv("D_OK", "150ms")
	if got := c.MayDuration("OK", time.Second); got != 150*time.Millisecond {
		t.Fatalf("MayDuration ok = %v, want %v", got, 150*time.Millisecond)
	}
	t.Setenv("D_BAD", "nope")
	if got := c.MayDuration("BAD", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration bad -> default expected")
	}
}

func TestMayStrings(t *testing.T) {
	c := New().Prefix("L_")
	def := []string{"a", "b"}
	if got := c.MayStrings("MISS", def); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("MayStrings default mismatch: %#v", got)
	}
	t.Setenv("L_VALS", " one, two , ,three ,, ")
	got := c.MayStrings("VALS", nil)
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("MayStrings len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MayStrings[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	t.Setenv("L_EMPTY", " , ,  ,")
	if got := c.MayStrings("EMPTY", []string{"fallback"}); len(got) != 1 || got[0] != "fallback" {
		t.Fatalf("MayStrings all-empty -> default mismatch: %#v", got)
	}
}
