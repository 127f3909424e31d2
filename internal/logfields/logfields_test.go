package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStringHelpers(t *testing.T) {
	cases := []struct {
		attr slog.Attr
		key  string
		val  string
	}{
		{CycleID("c1"), KeyCycleID, "c1"},
		{State("compiling"), KeyState, "compiling"},
		{Stage("mirror"), KeyStage, "mirror"},
		{Path("/tmp/x"), KeyPath, "/tmp/x"},
		{Outcome("success"), KeyOutcome, "success"},
		{URL("http://localhost:8080/"), KeyURL, "http://localhost:8080/"},
	}
	for _, c := range cases {
		assert.Equal(t, c.key, c.attr.Key)
		assert.Equal(t, c.val, c.attr.Value.String())
	}
}

func TestDuration(t *testing.T) {
	a := Duration(1500 * time.Microsecond)
	assert.Equal(t, KeyDurationMS, a.Key)
	assert.InDelta(t, 1.5, a.Value.Float64(), 0.0001)
}

func TestError(t *testing.T) {
	assert.Equal(t, "", Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}
