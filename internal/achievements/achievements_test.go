package achievements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_CoversRegistry(t *testing.T) {
	statuses := Evaluate(Facts{})
	require.Len(t, statuses, len(Achievements))

	seen := map[string]bool{}
	for _, s := range statuses {
		assert.False(t, seen[s.Key], "duplicate key %s", s.Key)
		seen[s.Key] = true
		assert.False(t, s.Achieved)
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Icon)
	}
}

func TestEvaluate_Predicates(t *testing.T) {
	statuses := Evaluate(Facts{
		DNFInCompletedGame:      true,
		ChuggedUnderFourSeconds: true,
		TotalGames:              100,
	})

	achieved := map[string]bool{}
	for _, s := range statuses {
		achieved[s.Key] = s.Achieved
	}
	assert.True(t, achieved["dnf"])
	assert.True(t, achieved["fast_chugger"])
	assert.True(t, achieved["centurion"])
	assert.False(t, achieved["top10"])
}
