package sysclock

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestDryRun(t *testing.T) {
	c := qt.New(t)
	h := &Host{DryRun: true}
	want := time.Date(2024, time.March, 9, 14, 5, 30, 0, time.UTC)

	c.Assert(h.Set(want), qt.IsNil)
	got := h.Now()
	c.Assert(got.Before(want), qt.IsFalse)
	c.Assert(got.Sub(want) < time.Second, qt.IsTrue)
}

func TestNowWithoutSet(t *testing.T) {
	c := qt.New(t)
	h := &Host{}
	c.Assert(time.Since(h.Now()) < time.Second, qt.IsTrue)
}
