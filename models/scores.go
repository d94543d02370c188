package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gorm.io/datatypes"
)

type Period string

const (
	PeriodQ1    Period = "q1"
	PeriodHalf  Period = "half"
	PeriodQ3    Period = "q3"
	PeriodFinal Period = "final"
)

// Periods lists the scoring checkpoints in the order they are settled.
var Periods = []Period{PeriodQ1, PeriodHalf, PeriodQ3, PeriodFinal}

// ScoreValue is one period's score. A nil side means it is still pending.
type ScoreValue struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func (v ScoreValue) Settled() bool {
	return v.Home != nil && v.Away != nil
}

type Scores struct {
	Q1    ScoreValue `json:"q1"`
	Half  ScoreValue `json:"half"`
	Q3    ScoreValue `json:"q3"`
	Final ScoreValue `json:"final"`
}

func (s Scores) Get(period Period) ScoreValue {
	switch period {
	case PeriodQ1:
		return s.Q1
	case PeriodHalf:
		return s.Half
	case PeriodQ3:
		return s.Q3
	case PeriodFinal:
		return s.Final
	}
	return ScoreValue{}
}

func (s *Scores) Set(period Period, v ScoreValue) {
	switch period {
	case PeriodQ1:
		s.Q1 = v
	case PeriodHalf:
		s.Half = v
	case PeriodQ3:
		s.Q3 = v
	case PeriodFinal:
		s.Final = v
	}
}

// Merge overlays every side that is set in other.
func (s Scores) Merge(other Scores) Scores {
	out := s
	for _, p := range Periods {
		cur, next := out.Get(p), other.Get(p)
		if next.Home != nil {
			cur.Home = next.Home
		}
		if next.Away != nil {
			cur.Away = next.Away
		}
		out.Set(p, cur)
	}
	return out
}

// ScoreSide names one side of one period.
type ScoreSide struct {
	Period Period
	Away   bool
}

// ScorePatch is a partial score update. Sides given a number in Set are
// overwritten; sides listed in Clear go back to pending.
type ScorePatch struct {
	Set   Scores
	Clear []ScoreSide
}

// UnmarshalJSON reads {"q1": {"home": 7, "away": null}}. An absent side is
// left alone, an explicit null clears it, and a null period clears both
// sides.
func (p *ScorePatch) UnmarshalJSON(data []byte) error {
	var raw map[Period]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out ScorePatch
	for period, sides := range raw {
		if !knownPeriod(period) {
			return fmt.Errorf("unknown period %q", period)
		}
		if sides == nil {
			out.Clear = append(out.Clear, ScoreSide{Period: period}, ScoreSide{Period: period, Away: true})
			continue
		}
		v := out.Set.Get(period)
		for side, msg := range sides {
			var away bool
			switch side {
			case "home":
			case "away":
				away = true
			default:
				return fmt.Errorf("unknown side %q in %s", side, period)
			}
			if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
				out.Clear = append(out.Clear, ScoreSide{Period: period, Away: away})
				continue
			}
			var n int
			if err := json.Unmarshal(msg, &n); err != nil {
				return fmt.Errorf("%s.%s: %w", period, side, err)
			}
			if away {
				v.Away = &n
			} else {
				v.Home = &n
			}
		}
		out.Set.Set(period, v)
	}
	sort.Slice(out.Clear, func(i, j int) bool {
		a, b := out.Clear[i], out.Clear[j]
		if a.Period != b.Period {
			return periodIndex(a.Period) < periodIndex(b.Period)
		}
		return !a.Away && b.Away
	})
	*p = out
	return nil
}

// Apply returns s with the patch's sets and clears applied.
func (s Scores) Apply(p ScorePatch) Scores {
	out := s.Merge(p.Set)
	for _, c := range p.Clear {
		v := out.Get(c.Period)
		if c.Away {
			v.Away = nil
		} else {
			v.Home = nil
		}
		out.Set(c.Period, v)
	}
	return out
}

func knownPeriod(p Period) bool {
	return periodIndex(p) >= 0
}

func periodIndex(p Period) int {
	for i, known := range Periods {
		if known == p {
			return i
		}
	}
	return -1
}

// GlobalScores is a score record shared by every game that references it via
// big_game_id (keyed by season year, e.g. "2026").
type GlobalScores struct {
	ID        string                     `gorm:"primaryKey;size:32" json:"id"`
	Scores    datatypes.JSONType[Scores] `json:"scores"`
	UpdatedAt time.Time                  `json:"updated_at"`
}
