package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type GameStatus string

const (
	StatusDraft     GameStatus = "DRAFT"
	StatusLocked    GameStatus = "LOCKED"
	StatusCompleted GameStatus = "COMPLETED"
)

type UnclaimedRule string

const (
	RuleReturnToPool UnclaimedRule = "RETURN_TO_POOL"
	RuleRequireFull  UnclaimedRule = "REQUIRE_FULL"
)

// GridSize is the number of rows (and columns) on a board.
const GridSize = 10

// Game is a single squares pool. Config is stored as a JSON column; the grid
// and scores stay NULL until they are known.
type Game struct {
	ID          string                         `gorm:"primaryKey;size:36" json:"id"`
	AdminID     string                         `gorm:"index;not null" json:"admin_id"`
	Name        string                         `json:"name"`
	Status      GameStatus                     `gorm:"size:16;not null;default:DRAFT" json:"status"`
	Config      datatypes.JSONType[GameConfig] `json:"config"`
	GridNumbers *GridNumbers                   `gorm:"serializer:json" json:"grid_numbers,omitempty"`
	Scores      *Scores                        `gorm:"serializer:json" json:"scores,omitempty"`
	BigGameID   *string                        `gorm:"index" json:"big_game_id,omitempty"`
	StartedAt   *time.Time                     `json:"started_at,omitempty"`
	CreatedAt   time.Time                      `json:"created_at"`
	UpdatedAt   time.Time                      `json:"updated_at"`
}

// Rules returns the game's rule block, defaulting the unclaimed rule to
// RETURN_TO_POOL when it was never set.
func (g *Game) Rules() Rules {
	r := g.Config.Data().Rules
	if r.UnclaimedRule == "" {
		r.UnclaimedRule = RuleReturnToPool
	}
	return r
}

type GameConfig struct {
	Price   decimal.Decimal `json:"price"`
	Payouts Payouts         `json:"payouts"`
	Rules   Rules           `json:"rules"`
	Teams   Teams           `json:"teams"`
}

// Payouts holds the percentage of the pot paid at each period.
type Payouts struct {
	Q1    decimal.Decimal `json:"q1"`
	Half  decimal.Decimal `json:"half"`
	Q3    decimal.Decimal `json:"q3"`
	Final decimal.Decimal `json:"final"`
}

func (p Payouts) Get(period Period) decimal.Decimal {
	switch period {
	case PeriodQ1:
		return p.Q1
	case PeriodHalf:
		return p.Half
	case PeriodQ3:
		return p.Q3
	case PeriodFinal:
		return p.Final
	}
	return decimal.Zero
}

func (p Payouts) Sum() decimal.Decimal {
	return p.Q1.Add(p.Half).Add(p.Q3).Add(p.Final)
}

type Rules struct {
	UnclaimedRule UnclaimedRule `json:"unclaimed_rule"`
	MaxSquares    *int          `json:"max_squares"`
	TrackPayments bool          `json:"track_payments"`
	VenmoUsername string        `json:"venmoUsername,omitempty"`
}

type Teams struct {
	Home      string `json:"home"`
	HomeColor string `json:"homeColor,omitempty"`
	Away      string `json:"away"`
	AwayColor string `json:"awayColor,omitempty"`
}

// GridNumbers maps score digits to board positions.
type GridNumbers struct {
	Row []int `json:"row"`
	Col []int `json:"col"`
}

// Complete reports whether both sequences are permutations of 0..9.
func (g *GridNumbers) Complete() bool {
	if g == nil {
		return false
	}
	return isDigitPermutation(g.Row) && isDigitPermutation(g.Col)
}

func isDigitPermutation(seq []int) bool {
	if len(seq) != GridSize {
		return false
	}
	var seen [GridSize]bool
	for _, d := range seq {
		if d < 0 || d >= GridSize || seen[d] {
			return false
		}
		seen[d] = true
	}
	return true
}
