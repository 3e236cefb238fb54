package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIDFormat(t *testing.T) {
	id := GenerateID()
	assert.Regexp(t, regexp.MustCompile(`^\d{13}-[0-9a-f]{8}$`), id)
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("images", "My Tournament Poster.PNG")
	assert.True(t, strings.HasPrefix(key, "images/my-tournament-poster-"))
	assert.True(t, strings.HasSuffix(key, ".png"))
}

func TestObjectKeyBlankName(t *testing.T) {
	key := ObjectKey("images", "???.jpg")
	assert.True(t, strings.HasPrefix(key, "images/upload-"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
}

func TestObjectKeyCollisionResistance(t *testing.T) {
	a := ObjectKey("images", "poster.png")
	b := ObjectKey("images", "poster.png")
	assert.NotEqual(t, a, b)
}
