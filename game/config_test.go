package game

import (
	"testing"

	"github.com/bellapacxx/squares-backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	valid := testConfig(models.RuleRequireFull, 25, 25, 25, 25)
	assert.NoError(t, ValidateConfig(valid))

	fractional := valid
	fractional.Payouts = models.Payouts{
		Q1:    decimal.RequireFromString("12.5"),
		Half:  dec(25),
		Q3:    decimal.RequireFromString("12.5"),
		Final: dec(50),
	}
	assert.NoError(t, ValidateConfig(fractional))

	badSum := testConfig(models.RuleRequireFull, 25, 25, 25, 20)
	assert.ErrorIs(t, ValidateConfig(badSum), ErrPayoutSum)

	negative := valid
	negative.Price = dec(-1)
	assert.ErrorIs(t, ValidateConfig(negative), ErrNegativePrice)

	badRule := testConfig("SOMETHING", 25, 25, 25, 25)
	assert.Error(t, ValidateConfig(badRule))

	zero := 0
	badMax := valid
	badMax.Rules.MaxSquares = &zero
	assert.Error(t, ValidateConfig(badMax))
}
