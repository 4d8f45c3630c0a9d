package config

import (
	"testing"
	"time"
)

func TestGetEnvDefault(t *testing.T) {
	if got := GetEnv("BRANDWORKS_UNSET_VAR", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestGetEnvSet(t *testing.T) {
	t.Setenv("BRANDWORKS_TEST_VAR", "value")
	if got := GetEnv("BRANDWORKS_TEST_VAR", "fallback"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("BRANDWORKS_TEST_INT", "42")
	if got := GetEnvInt("BRANDWORKS_TEST_INT", 7); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	t.Setenv("BRANDWORKS_TEST_INT", "not-a-number")
	if got := GetEnvInt("BRANDWORKS_TEST_INT", 7); got != 7 {
		t.Fatalf("expected default 7 on parse failure, got %d", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("BRANDWORKS_TEST_DUR", "90s")
	if got := GetEnvDuration("BRANDWORKS_TEST_DUR", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %s", got)
	}
	t.Setenv("BRANDWORKS_TEST_DUR", "bogus")
	if got := GetEnvDuration("BRANDWORKS_TEST_DUR", time.Minute); got != time.Minute {
		t.Fatalf("expected default on parse failure, got %s", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("BRANDWORKS_TEST_BOOL", "true")
	if !GetEnvBool("BRANDWORKS_TEST_BOOL", false) {
		t.Fatal("expected true")
	}
	t.Setenv("BRANDWORKS_TEST_BOOL", "")
	if GetEnvBool("BRANDWORKS_TEST_BOOL", false) {
		t.Fatal("expected default false")
	}
}
