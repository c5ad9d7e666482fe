package ratings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuide(t *testing.T) {
	g := Guide()
	assert.Len(t, g, 5)
	for i, r := range g {
		assert.Equal(t, i+1, r.Stars)
		assert.Equal(t, r.Description, Describe(r.Stars))
	}

	g[0].Description = "changed"
	assert.NotEqual(t, "changed", Describe(1))
}

func TestDescribe_OutOfRange(t *testing.T) {
	assert.Empty(t, Describe(0))
	assert.Empty(t, Describe(6))
}

func TestStars(t *testing.T) {
	assert.Equal(t, "⭐⭐⭐", Stars(3))
	assert.Empty(t, Stars(-1))
}
