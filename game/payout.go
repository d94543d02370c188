package game

import (
	"sort"

	"github.com/bellapacxx/squares-backend/models"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	periodLabels = map[models.Period]string{
		models.PeriodQ1:    "Q1",
		models.PeriodHalf:  "Halftime",
		models.PeriodQ3:    "Q3",
		models.PeriodFinal: "FINAL",
	}
	periodColors = map[models.Period]string{
		models.PeriodQ1:    "#2196f3",
		models.PeriodHalf:  "#4caf50",
		models.PeriodQ3:    "#ff9800",
		models.PeriodFinal: "#e91e63",
	}
)

type Winner struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

// PeriodResult is the outcome of one scoring period.
type PeriodResult struct {
	Period            models.Period      `json:"period"`
	Label             string             `json:"label"`
	Score             *models.ScoreValue `json:"score"`
	PayoutAmount      decimal.Decimal    `json:"payoutAmount"`
	BasePayout        decimal.Decimal    `json:"basePayout"`
	Winner            *Winner            `json:"winner"`
	IsReallocated     bool               `json:"isReallocated"`
	IsSplitToPrevious bool               `json:"isSplitToPrevious"`
	Color             string             `json:"color"`
}

// Board is a consistent snapshot of everything the payout engine reads.
type Board struct {
	Status  models.GameStatus
	AdminID string
	Config  models.GameConfig
	Grid    *models.GridNumbers
	Scores  *models.Scores
	Squares []models.Square
	// Users supplies current display names; OwnerName on the square is the
	// fallback.
	Users map[string]models.User
}

// NewBoard snapshots a game. scores should already be resolved with
// ResolveScores.
func NewBoard(g *models.Game, scores *models.Scores, squares []models.Square, users map[string]models.User) Board {
	cfg := g.Config.Data()
	cfg.Rules = g.Rules()

	sorted := make([]models.Square, len(squares))
	copy(sorted, squares)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position() < sorted[j].Position()
	})

	return Board{
		Status:  g.Status,
		AdminID: g.AdminID,
		Config:  cfg,
		Grid:    g.GridNumbers,
		Scores:  scores,
		Squares: sorted,
		Users:   users,
	}
}

// BasePayout is the nominal share of the full 100-square pot for a period.
func BasePayout(cfg models.GameConfig, period models.Period) decimal.Decimal {
	pot := cfg.Price.Mul(hundred)
	return pot.Mul(cfg.Payouts.Get(period)).Div(hundred)
}

// Compute derives the winner and payout of every period, in period order.
// It never fails: missing data yields preview amounts and nil winners.
func Compute(b Board) []PeriodResult {
	results := make([]PeriodResult, len(models.Periods))

	if b.Status == models.StatusDraft || !b.Grid.Complete() || b.Scores == nil {
		for i, p := range models.Periods {
			base := BasePayout(b.Config, p)
			results[i] = newResult(p, base)
			results[i].PayoutAmount = base
		}
		return results
	}

	owners := b.ownersByPosition()
	returnToPool := b.Config.Rules.UnclaimedRule == models.RuleReturnToPool

	carryOver := decimal.Zero
	carryOverAppliedToPending := false

	for i, p := range models.Periods {
		base := BasePayout(b.Config, p)
		r := newResult(p, base)
		r.PayoutAmount = base

		score := b.Scores.Get(p)
		if !score.Settled() {
			if !carryOverAppliedToPending {
				r.PayoutAmount = r.PayoutAmount.Add(carryOver)
				carryOverAppliedToPending = true
			}
			results[i] = r
			continue
		}

		settled := score
		r.Score = &settled
		r.PayoutAmount = r.PayoutAmount.Add(carryOver)

		var sq *models.Square
		if pos, ok := WinningPosition(b.Grid, score); ok {
			sq = owners[pos]
		}

		switch {
		case sq != nil:
			r.Winner = &Winner{UID: sq.OwnerID, Name: b.displayName(sq)}
			carryOver = decimal.Zero
		case returnToPool && p != models.PeriodFinal:
			r.IsReallocated = true
			carryOver = r.PayoutAmount
			r.PayoutAmount = decimal.Zero
		default:
			carryOver = decimal.Zero
		}
		results[i] = r
	}

	splitFinal(results)
	return results
}

// splitFinal hands a house-won final to the earlier human winners, weighted
// by their base payouts.
func splitFinal(results []PeriodResult) {
	final := &results[len(results)-1]
	if final.Score == nil || final.Winner != nil || final.IsReallocated {
		return
	}

	total := decimal.Zero
	for _, r := range results[:len(results)-1] {
		if r.Winner != nil {
			total = total.Add(r.BasePayout)
		}
	}
	if !total.IsPositive() {
		return
	}

	amount := final.PayoutAmount
	for i := range results[:len(results)-1] {
		r := &results[i]
		if r.Winner == nil {
			continue
		}
		r.PayoutAmount = r.PayoutAmount.Add(r.BasePayout.Mul(amount).Div(total))
	}
	final.PayoutAmount = decimal.Zero
	final.IsSplitToPrevious = true
}

func newResult(p models.Period, base decimal.Decimal) PeriodResult {
	return PeriodResult{
		Period:     p,
		Label:      periodLabels[p],
		BasePayout: base,
		Color:      periodColors[p],
	}
}

func (b Board) ownersByPosition() map[int]*models.Square {
	owners := make(map[int]*models.Square, len(b.Squares))
	for i := range b.Squares {
		sq := &b.Squares[i]
		pos := sq.Position()
		if pos < 0 || sq.OwnerID == "" {
			continue
		}
		if _, dup := owners[pos]; !dup {
			owners[pos] = sq
		}
	}
	return owners
}

func (b Board) displayName(sq *models.Square) string {
	if u, ok := b.Users[sq.OwnerID]; ok && u.DisplayName != "" {
		return u.DisplayName
	}
	if sq.OwnerName != "" {
		return sq.OwnerName
	}
	return "Unknown"
}
