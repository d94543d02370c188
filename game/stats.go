package game

import "github.com/shopspring/decimal"

// PlayerStat summarises one participant's stake in a game.
type PlayerStat struct {
	UID          string          `json:"uid"`
	Name         string          `json:"name"`
	SquaresCount int             `json:"squaresCount"`
	Owed         decimal.Decimal `json:"owed"`
	AllPaid      bool            `json:"allPaid"`
}

// MyStats is the caller's own summary.
type MyStats struct {
	Count        int             `json:"count"`
	Owed         decimal.Decimal `json:"owed"`
	UnpaidAmount decimal.Decimal `json:"unpaidAmount"`
}

// PlayerStats groups squares by owner in board order. Squares held by the
// admin never count as unpaid.
func PlayerStats(b Board) []PlayerStat {
	var order []string
	byUID := make(map[string]*PlayerStat)

	for i := range b.Squares {
		sq := &b.Squares[i]
		if sq.OwnerID == "" {
			continue
		}
		ps, ok := byUID[sq.OwnerID]
		if !ok {
			ps = &PlayerStat{
				UID:     sq.OwnerID,
				Name:    b.displayName(sq),
				Owed:    decimal.Zero,
				AllPaid: true,
			}
			byUID[sq.OwnerID] = ps
			order = append(order, sq.OwnerID)
		}
		ps.SquaresCount++
		ps.Owed = ps.Owed.Add(b.Config.Price)
		if sq.OwnerID != b.AdminID && !sq.IsPaid {
			ps.AllPaid = false
		}
	}

	out := make([]PlayerStat, 0, len(order))
	for _, uid := range order {
		out = append(out, *byUID[uid])
	}
	return out
}

// HasUnpaidPlayers reports whether any participant still owes money.
func HasUnpaidPlayers(stats []PlayerStat) bool {
	for _, s := range stats {
		if !s.AllPaid {
			return true
		}
	}
	return false
}

func StatsFor(b Board, uid string) MyStats {
	st := MyStats{Owed: decimal.Zero, UnpaidAmount: decimal.Zero}
	if uid == "" {
		return st
	}
	for _, sq := range b.Squares {
		if sq.OwnerID != uid {
			continue
		}
		st.Count++
		st.Owed = st.Owed.Add(b.Config.Price)
		if !sq.IsPaid {
			st.UnpaidAmount = st.UnpaidAmount.Add(b.Config.Price)
		}
	}
	return st
}

// TotalWon sums the payouts of every period uid won.
func TotalWon(results []PeriodResult, uid string) decimal.Decimal {
	total := decimal.Zero
	if uid == "" {
		return total
	}
	for _, r := range results {
		if r.Winner != nil && r.Winner.UID == uid {
			total = total.Add(r.PayoutAmount)
		}
	}
	return total
}
