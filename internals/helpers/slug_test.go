package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "kitab-fiqih-dasar", Slugify("  Kitab Fiqih  Dasar!! ", 0))
	assert.Equal(t, "cafe-creme", Slugify("Café Crème", 0))
	assert.Equal(t, "item", Slugify("!!!", 0))
	assert.Equal(t, "abc", Slugify("abc-def", 4))
}

func TestUniqueSlugAmong(t *testing.T) {
	taken := []string{"iqro-1", "IQRO-1-2"}
	assert.Equal(t, "iqro-1-3", UniqueSlugAmong("Iqro 1", taken, 100))
	assert.Equal(t, "tajwid", UniqueSlugAmong("Tajwid", taken, 100))
}

func TestUniqueSlugAmong_RespectsMaxLen(t *testing.T) {
	got := UniqueSlugAmong("abcdefghij", []string{"abcdefghij"}, 10)
	assert.Equal(t, "abcdefgh-2", got)
	assert.LessOrEqual(t, len(got), 10)
}
