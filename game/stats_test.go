package game

import (
	"testing"

	"github.com/bellapacxx/squares-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerStats(t *testing.T) {
	cfg := testConfig(models.RuleReturnToPool, 25, 25, 25, 25)
	cfg.Price = dec(5)
	b := lockedBoard(cfg, models.Scores{},
		models.Square{ID: "1", OwnerID: "admin", OwnerName: "Admin"},
		models.Square{ID: "2", OwnerID: "alice", OwnerName: "Alice", IsPaid: true},
		models.Square{ID: "3", OwnerID: "alice", OwnerName: "Alice"},
		models.Square{ID: "4", OwnerID: "bob", OwnerName: "Bob", IsPaid: true},
	)

	stats := PlayerStats(b)
	require.Len(t, stats, 3)

	assert.Equal(t, "admin", stats[0].UID)
	assert.True(t, stats[0].AllPaid, "admin squares never count as unpaid")
	assertAmount(t, 5, stats[0].Owed)

	assert.Equal(t, 2, stats[1].SquaresCount)
	assertAmount(t, 10, stats[1].Owed)
	assert.False(t, stats[1].AllPaid)

	assert.True(t, stats[2].AllPaid)
	assert.True(t, HasUnpaidPlayers(stats))
}

func TestStatsFor(t *testing.T) {
	cfg := testConfig(models.RuleReturnToPool, 25, 25, 25, 25)
	cfg.Price = dec(2)
	b := lockedBoard(cfg, models.Scores{},
		models.Square{ID: "1", OwnerID: "alice", IsPaid: true},
		models.Square{ID: "2", OwnerID: "alice"},
		models.Square{ID: "3", OwnerID: "alice"},
		models.Square{ID: "4", OwnerID: "bob"},
	)

	st := StatsFor(b, "alice")
	assert.Equal(t, 3, st.Count)
	assertAmount(t, 6, st.Owed)
	assertAmount(t, 4, st.UnpaidAmount)

	assert.Equal(t, 0, StatsFor(b, "").Count)
}

func TestTotalWon(t *testing.T) {
	b := lockedBoard(testConfig(models.RuleRequireFull, 20, 20, 20, 40),
		models.Scores{
			Q1:    score(0, 0),
			Half:  score(1, 1),
			Q3:    score(2, 2),
			Final: score(3, 3),
		},
		sq(0, "alice"), sq(11, "alice"), sq(22, "bob"), sq(33, "bob"))

	results := Compute(b)
	assertAmount(t, 40, TotalWon(results, "alice"))
	assertAmount(t, 60, TotalWon(results, "bob"))
	assertAmount(t, 0, TotalWon(results, "carol"))
}
