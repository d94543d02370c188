package game

import (
	"errors"
	"fmt"

	"github.com/bellapacxx/squares-backend/models"
)

var (
	ErrPayoutSum     = errors.New("payout percentages must add up to 100")
	ErrNegativePrice = errors.New("price must not be negative")
)

// ValidateConfig checks a configuration at creation time.
func ValidateConfig(cfg models.GameConfig) error {
	if cfg.Price.IsNegative() {
		return ErrNegativePrice
	}
	for _, p := range models.Periods {
		if cfg.Payouts.Get(p).IsNegative() {
			return fmt.Errorf("payout for %s must not be negative", p)
		}
	}
	if !cfg.Payouts.Sum().Equal(hundred) {
		return fmt.Errorf("%w (got %s)", ErrPayoutSum, cfg.Payouts.Sum())
	}
	return ValidateRules(cfg.Rules)
}

// ValidateRules checks the mutable rule block.
func ValidateRules(r models.Rules) error {
	switch r.UnclaimedRule {
	case models.RuleReturnToPool, models.RuleRequireFull:
	default:
		return fmt.Errorf("unknown unclaimed rule %q", r.UnclaimedRule)
	}
	if r.MaxSquares != nil && *r.MaxSquares < 1 {
		return fmt.Errorf("max squares must be at least 1, got %d", *r.MaxSquares)
	}
	return nil
}
