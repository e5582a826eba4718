package commands

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryRecall(t *testing.T) {
	h := NewHistory(3)
	assert.Equal(t, "typing", h.Prev("typing"), "empty history keeps the input")

	for _, l := range []string{"set -wheel sport", "price", "price", "  ", "reset", "rotate -off"} {
		h.Add(l)
	}
	assert.Equal(t, 3, h.Len(), "duplicates and blanks skipped, oldest dropped")

	assert.Equal(t, "rotate -off", h.Prev("set -b"))
	assert.Equal(t, "reset", h.Prev(""))
	assert.Equal(t, "price", h.Prev(""))
	assert.Equal(t, "price", h.Prev(""), "stops at the oldest")
	assert.Equal(t, "reset", h.Next())
	assert.Equal(t, "rotate -off", h.Next())
	assert.Equal(t, "set -b", h.Next(), "draft comes back past the newest")
	assert.Equal(t, "set -b", h.Next())

	h.Add("help")
	assert.Equal(t, "help", h.Prev(""))
}

func TestComplete(t *testing.T) {
	r := NewRegistry()
	noop := func(fs *flag.FlagSet) func() error { return func() error { return nil } }
	for _, n := range []string{"set", "reset", "rotate", "capture", "price", "help"} {
		r.Register(n, "", noop)
	}

	line, matches := r.Complete("ca")
	assert.Equal(t, "capture ", line)
	assert.Equal(t, []string{"capture"}, matches)

	line, matches = r.Complete("r")
	assert.Equal(t, "r", line)
	assert.Equal(t, []string{"reset", "rotate"}, matches)

	line, _ = r.Complete("cmd pr")
	assert.Equal(t, "cmd price ", line)

	line, matches = r.Complete("set -wh")
	assert.Equal(t, "set -wh", line)
	assert.Nil(t, matches)

	line, matches = r.Complete("zoom")
	assert.Equal(t, "zoom", line)
	assert.Nil(t, matches)
}
