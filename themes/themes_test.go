package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.aimuz.me/viajero/internal/types"
)

func TestLookup(t *testing.T) {
	for _, d := range types.Destinations {
		th, ok := Lookup(d)
		require.True(t, ok, "destination %s", d)
		assert.Equal(t, d, th.ID)
		assert.NotEmpty(t, th.Name)
		assert.NotEmpty(t, th.Language)
		assert.NotEmpty(t, th.QuizLanguage)
	}

	_, ok := Lookup("FR")
	assert.False(t, ok)
}

func TestLanguages(t *testing.T) {
	assert.Equal(t, "Italiano", MustLookup(types.Italy).Language)
	assert.Equal(t, "Árabe", MustLookup(types.Egypt).Language)
	assert.Equal(t, "Árabe Egipcio", MustLookup(types.Egypt).QuizLanguage)
}

func TestAllOrder(t *testing.T) {
	all := All()
	require.Len(t, all, 2)
	assert.Equal(t, types.Italy, all[0].ID)
	assert.Equal(t, types.Egypt, all[1].ID)
}

func TestMustLookupPanics(t *testing.T) {
	assert.Panics(t, func() { MustLookup("XX") })
}
