package persona

import (
	"testing"

	"github.com/ethpandaops/persona/internal/testutil"
	"github.com/ethpandaops/persona/pkg/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTargetIndexLastWriteWins(t *testing.T) {
	index := NewTargetIndex([]records.Target{
		testutil.NewTarget("TGT001", testutil.WithArea("沿海")),
		testutil.NewTarget("TGT002"),
		testutil.NewTarget("TGT001", testutil.WithArea("山区")),
	})

	require.Len(t, index, 2)
	assert.Equal(t, "山区", index.Lookup("TGT001").TargetAreaType)
	assert.Nil(t, index.Lookup("TGT404"))
}

func TestGroupByUser(t *testing.T) {
	targets := []records.Target{
		testutil.NewTarget("TGT001"),
		testutil.NewTarget("TGT002"),
	}
	tasks := []records.Task{
		testutil.NewTask("r1", testutil.WithUser("U2", "G1"), testutil.WithTarget("TGT002")),
		testutil.NewTask("r2", testutil.WithUser("U1", "G1"), testutil.WithTarget("TGT001")),
		testutil.NewTask("r3", testutil.WithUser("U2", "G1"), testutil.WithTarget("TGT001")),
		testutil.NewTask("r4", testutil.WithUser("U2", "G1"), testutil.WithTarget("TGT002")),
		testutil.NewTask("r5", testutil.WithUser("U1", "G1"), testutil.WithTarget("TGT999")),
	}

	groups := GroupByUser(tasks, NewTargetIndex(targets))
	require.Len(t, groups, 2)

	assert.Equal(t, "U2_G1", groups[0].UserID)
	assert.Equal(t, []string{"r1", "r3", "r4"}, reqIDs(groups[0].Tasks))
	require.Len(t, groups[0].Targets, 2)
	assert.Equal(t, "TGT002", groups[0].Targets[0].TargetID)
	assert.Equal(t, "TGT001", groups[0].Targets[1].TargetID)
	assert.Zero(t, groups[0].Unresolved)

	assert.Equal(t, "U1_G1", groups[1].UserID)
	assert.Equal(t, []string{"r2", "r5"}, reqIDs(groups[1].Tasks))
	require.Len(t, groups[1].Targets, 1)
	assert.Equal(t, 1, groups[1].Unresolved)
}

func TestGroupByUserDeduplicatesByIdentifier(t *testing.T) {
	// Two distinct records with the same id: the index keeps the last one and
	// the group must still list it once.
	targets := []records.Target{
		testutil.NewTarget("TGT001", testutil.WithArea("沿海")),
		testutil.NewTarget("TGT001", testutil.WithArea("沿海")),
	}
	tasks := []records.Task{
		testutil.NewTask("r1"),
		testutil.NewTask("r2"),
	}

	groups := GroupByUser(tasks, NewTargetIndex(targets))
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Targets, 1)
}

func TestGroupByUserKeysAreComplete(t *testing.T) {
	tasks := []records.Task{
		testutil.NewTask("r1", testutil.WithUser("A", "B")),
		testutil.NewTask("r2", testutil.WithUser("A", "C")),
		testutil.NewTask("r3", testutil.WithUser("B", "B")),
		testutil.NewTask("r4", testutil.WithUser("A", "B")),
	}

	groups := GroupByUser(tasks, NewTargetIndex(nil))

	keys := make([]string, 0, len(groups))
	total := 0
	for _, g := range groups {
		keys = append(keys, g.UserID)
		total += len(g.Tasks)
	}

	assert.Equal(t, []string{"A_B", "A_C", "B_B"}, keys)
	assert.Equal(t, len(tasks), total)
}
