package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReference(t *testing.T) {
	ref := Reference()
	assert.Len(t, ref, 32)

	seen := make(map[string]bool)
	for _, tm := range ref {
		assert.False(t, seen[tm.Abbr], "duplicate abbr %s", tm.Abbr)
		seen[tm.Abbr] = true
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "KC", Resolve("Kansas City Chiefs"))
	assert.Equal(t, "KC", Resolve("  kansas city  "))
	assert.Equal(t, "LV", Resolve("Oakland Raiders"))
	assert.Equal(t, "WAS", Resolve("Washington Football Team"))
	assert.Equal(t, "LAR", Resolve("los angeles"))
	assert.Equal(t, "", Resolve("London Monarchs"))
}
