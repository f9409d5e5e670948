package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"devconsole/internal/actions"
	"devconsole/internal/model"
)

func TestFuzzyMatchScore(t *testing.T) {
	s, ok := fuzzyMatchScore("frz", "Freeze")
	assert.True(t, ok)
	assert.Equal(t, 0+1+4, s)

	_, ok = fuzzyMatchScore("xyz", "Freeze")
	assert.False(t, ok)

	s, ok = fuzzyMatchScore("", "anything")
	assert.True(t, ok)
	assert.Zero(t, s)
}

func TestFilterActions(t *testing.T) {
	acts := actions.All()

	all := filterActions(acts, "  ")
	assert.Len(t, all, len(acts))
	assert.Equal(t, 0, all[0])

	got := filterActions(acts, "freeze")
	assert.Len(t, got, 2)
	assert.Equal(t, model.Freeze, acts[got[0]].ID)
	assert.Equal(t, model.Unfreeze, acts[got[1]].ID)

	assert.Empty(t, filterActions(acts, "qqqq"))
}
