package clock_test

import (
	"testing"
	"time"

	"github.com/mapforge/mapforge/adapters/clock"
)

func TestReal_Now(t *testing.T) {
	c := clock.Real{}

	before := time.Now()
	got := c.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Now() = %v, expected between %v and %v", got, before, after)
	}
}

func TestFake_Now_Stable(t *testing.T) {
	fixedTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := clock.NewFake(fixedTime)

	for i := 0; i < 10; i++ {
		if got := c.Now(); !got.Equal(fixedTime) {
			t.Errorf("call %d: Now() = %v, want %v", i, got, fixedTime)
		}
	}
}

func TestFake_Set(t *testing.T) {
	c := clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	newTime := time.Date(2026, 12, 25, 10, 30, 0, 0, time.UTC)
	c.Set(newTime)

	if got := c.Now(); !got.Equal(newTime) {
		t.Errorf("Now() = %v, want %v", got, newTime)
	}
}

func TestFake_Advance(t *testing.T) {
	initial := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := clock.NewFake(initial)

	c.Advance(time.Hour)
	c.Advance(30 * time.Minute)

	expected := initial.Add(time.Hour + 30*time.Minute)
	if got := c.Now(); !got.Equal(expected) {
		t.Errorf("Now() = %v, want %v", got, expected)
	}
}
