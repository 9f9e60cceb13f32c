package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_UniqueAndKnown(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range All() {
		require.False(t, seen[p], "duplicate %s", p)
		seen[p] = true
		assert.True(t, Known(p))
	}
	assert.False(t, Known("vehiculos:entries:fly"))
}

func TestRoleTargets(t *testing.T) {
	assert.NotContains(t, Admin(), DevConsoleAccess)
	assert.Len(t, Admin(), len(All())-1)
	assert.Contains(t, Developer(), DevConsoleAccess)
	assert.Len(t, Developer(), len(All()))

	for _, p := range Operator() {
		assert.True(t, Known(p), p)
	}
	assert.NotContains(t, Operator(), UsersCreate)
	assert.NotContains(t, Operator(), EntriesRemove)
}

func TestAll_ReturnsCopy(t *testing.T) {
	a := All()
	a[0] = "mutated"
	assert.Equal(t, EntriesRead, All()[0])
}

func TestGroup(t *testing.T) {
	g := Group([]string{EntriesCreate, EntriesRead, BackupCreate, "bogus"})
	assert.Equal(t, []string{"entries:create", "entries:read"}, g["vehiculos"])
	assert.Equal(t, []string{"create"}, g["backup"])
	assert.Len(t, g, 2)
}
