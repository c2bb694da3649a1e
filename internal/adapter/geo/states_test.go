package geo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateSource_Regions(t *testing.T) {
	regions, err := NewStateSource().Regions(context.Background())
	require.NoError(t, err)
	assert.Len(t, regions, 51)

	seen := map[string]bool{}
	for _, r := range regions {
		assert.Len(t, r.Code, 2)
		assert.NotEmpty(t, r.Name)
		assert.False(t, seen[r.Code], "duplicate code %s", r.Code)
		seen[r.Code] = true
	}
}

func TestStates_ReturnsCopy(t *testing.T) {
	regions := States()
	regions[0].Name = "Changed"
	assert.Equal(t, "Alabama", States()[0].Name)
}

func TestIsState(t *testing.T) {
	assert.True(t, IsState("TX"))
	assert.True(t, IsState("DC"))
	assert.False(t, IsState("PR"))
	assert.False(t, IsState("tx"))
}
