package sqlgrammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableHasAcceptingState(t *testing.T) {
	assert.GreaterOrEqual(t, Table.EOFState(), 0)
	assert.Equal(t, CMD, Table.StartKind())
}

func TestArtifactRoundTrip(t *testing.T) {
	data := SaveTables()
	require.NotEmpty(t, data)

	reloaded, err := LoadTables(data)
	require.NoError(t, err)

	for state := 0; state < Table.NumStates(); state++ {
		orig := Table.StateActions(state)
		got := reloaded.StateActions(state)
		assert.ElementsMatch(t, orig, got, "state %d", state)
	}
}

func TestDefaultParserBuilds(t *testing.T) {
	p := DefaultParser()
	require.NotNil(t, p)

	tree, err := p.Parse("SELECT * FROM foo;")
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.NotEqual(t, tree.SessionID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestDumpTableRendersNonEmpty(t *testing.T) {
	out := DumpTable(Table)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "state")
}
