package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

func TestServiceCreditFromHireDate(t *testing.T) {
	var calc ServiceCreditCalculator
	asOf := testDate(2025, time.June, 9)

	officer := &domain.OfficerProfile{
		Rank:     domain.RankOfficer,
		HireDate: testDate(2015, time.June, 9),
	}

	want := asOf.Sub(officer.HireDate).Hours() / 24 / daysPerYear
	assert.InDelta(t, want, calc.Credit(officer, asOf), 1e-9)
}

func TestServiceCreditOverrideWins(t *testing.T) {
	var calc ServiceCreditCalculator
	override := 12.5

	officer := &domain.OfficerProfile{
		Rank:                  domain.RankSergeant,
		HireDate:              testDate(2000, time.January, 1),
		ServiceCreditOverride: &override,
	}

	assert.Equal(t, 12.5, calc.Credit(officer, testDate(2025, time.June, 9)))
}

func TestServiceCreditUsesTimeInGrade(t *testing.T) {
	var calc ServiceCreditCalculator
	asOf := testDate(2025, time.June, 9)
	hired := testDate(2005, time.March, 1)
	sgtDate := testDate(2014, time.July, 1)
	ltDate := testDate(2020, time.February, 1)

	sergeant := &domain.OfficerProfile{
		Rank:                  domain.RankSergeant,
		HireDate:              hired,
		SergeantPromotionDate: &sgtDate,
	}
	assert.InDelta(t, asOf.Sub(sgtDate).Hours()/24/daysPerYear, calc.Credit(sergeant, asOf), 1e-9)

	lieutenant := &domain.OfficerProfile{
		Rank:                    domain.RankLieutenant,
		HireDate:                hired,
		SergeantPromotionDate:   &sgtDate,
		LieutenantPromotionDate: &ltDate,
	}
	assert.InDelta(t, asOf.Sub(ltDate).Hours()/24/daysPerYear, calc.Credit(lieutenant, asOf), 1e-9)

	// a supervisor with no promotion date on record falls back to hire date
	unrecorded := &domain.OfficerProfile{
		Rank:     domain.RankSergeant,
		HireDate: hired,
	}
	assert.InDelta(t, asOf.Sub(hired).Hours()/24/daysPerYear, calc.Credit(unrecorded, asOf), 1e-9)
}

func TestServiceCreditEdgeCases(t *testing.T) {
	var calc ServiceCreditCalculator
	asOf := testDate(2025, time.June, 9)

	assert.Zero(t, calc.Credit(nil, asOf))

	future := &domain.OfficerProfile{
		Rank:     domain.RankOfficer,
		HireDate: testDate(2026, time.January, 1),
	}
	assert.Zero(t, calc.Credit(future, asOf))

	assert.Zero(t, calc.Credit(&domain.OfficerProfile{Rank: domain.RankOfficer}, asOf))
}
