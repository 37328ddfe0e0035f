package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanChipset(t *testing.T) {
	// Core-count qualifier, process-size token and punctuation removed
	clean := CleanChipset("ثماني النواة Snapdragon 8 Gen 2 (4nm)")
	assert.Contains(t, clean, "Snapdragon 8 Gen 2")
	assert.NotContains(t, clean, "النواة")
	assert.NotContains(t, clean, "nm")
	assert.NotContains(t, clean, "(")

	// Clock-speed tokens removed, whitespace collapsed
	clean = CleanChipset("رباعي النواة   MediaTek Helio G85 - 2.0GHz (12nm)")
	assert.Contains(t, clean, "MediaTek Helio G85")
	assert.NotContains(t, clean, "GHz")
	assert.NotContains(t, clean, "2.0")

	assert.Equal(t, "", CleanChipset("   "))
}

func TestShortChipset(t *testing.T) {
	// First alphanumeric token run wins
	assert.Equal(t, "Snapdragon 8", ShortChipset("ثماني النواة Snapdragon 8 Gen 2 (4nm)"))
	assert.Equal(t, "Helio G85", ShortChipset("Helio G85"))

	// Empty input falls back to the sentinel
	assert.Equal(t, ChipsetUnknown, ShortChipset(""))
	assert.Equal(t, ChipsetUnknown, ShortChipset("  ثنائي النواة  "))
}
