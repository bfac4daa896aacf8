package roster

import (
	"strings"
	"time"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

const daysPerYear = 365.25

func isLieutenantOrAbove(r domain.Rank) bool {
	lower := strings.ToLower(string(r))
	for _, kw := range []string{"lieutenant", "captain", "chief", "commander"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isSergeant(r domain.Rank) bool {
	return strings.Contains(strings.ToLower(string(r)), "sergeant")
}

// ServiceCreditCalculator derives an officer's seniority credit in years.
// A manual override always wins. Otherwise Sergeants accrue from their
// promotion-to-sergeant date and Lieutenant-and-above from their
// promotion-to-lieutenant date, so time in grade decides order inside a rank
// group; everyone else accrues from hire date.
type ServiceCreditCalculator struct{}

func (ServiceCreditCalculator) Credit(officer *domain.OfficerProfile, asOf time.Time) float64 {
	if officer == nil {
		return 0
	}
	if officer.ServiceCreditOverride != nil {
		return *officer.ServiceCreditOverride
	}

	start := officer.HireDate
	switch {
	case isLieutenantOrAbove(officer.Rank):
		if officer.LieutenantPromotionDate != nil {
			start = *officer.LieutenantPromotionDate
		}
	case isSergeant(officer.Rank):
		if officer.SergeantPromotionDate != nil {
			start = *officer.SergeantPromotionDate
		}
	}

	if start.IsZero() || asOf.Before(start) {
		return 0
	}

	return asOf.Sub(start).Hours() / 24 / daysPerYear
}
