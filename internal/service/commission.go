package service

import (
	"refearn/internal/domain"
	"refearn/internal/models"

	"github.com/shopspring/decimal"
)

// CalculateCommissions is the pure commission calculator: profit in plus the
// resolved ancestors, ordered tuples out. No I/O. The level 1 tuple (direct
// parent) always precedes the level 2 tuple (grandparent); a nil ancestor
// simply yields no tuple for that level.
//
// Amounts are computed in fixed-point cents and rounded half-up to the
// smallest currency unit, so binary floating point never touches money.
func CalculateCommissions(profitCents int64, parent, grandparent *models.User, policy CommissionPolicy) []domain.CommissionTuple {
	tuples := make([]domain.CommissionTuple, 0, 2)
	profit := decimal.NewFromInt(profitCents)
	if parent != nil {
		tuples = append(tuples, domain.CommissionTuple{
			BeneficiaryID: parent.ID,
			Level:         domain.LevelDirect,
			AmountCents:   profit.Mul(policy.Level1Rate).Round(0).IntPart(),
		})
	}
	if grandparent != nil {
		tuples = append(tuples, domain.CommissionTuple{
			BeneficiaryID: grandparent.ID,
			Level:         domain.LevelIndirect,
			AmountCents:   profit.Mul(policy.Level2Rate).Round(0).IntPart(),
		})
	}
	return tuples
}
