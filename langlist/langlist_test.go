package langlist_test

import (
	"testing"

	"github.com/codearena/backend/langlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEnabledExcludesDisabled(t *testing.T) {
	langs, err := langlist.ListEnabled()
	require.NoError(t, err)
	require.NotEmpty(t, langs)
	for _, l := range langs {
		assert.True(t, l.Enabled, "ListEnabled returned disabled language %s", l.ID)
	}
}

func TestByID(t *testing.T) {
	l, err := langlist.ByID("cpp17")
	require.NoError(t, err)
	assert.Equal(t, "C++17 (g++ 13)", l.FullName)

	_, err = langlist.ByID("brainfuck")
	assert.Error(t, err)
}
