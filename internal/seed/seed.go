package seed

import (
	"context"
	"log/slog"
	"time"

	"github.com/millbrook-pd/roster/backend/internal/domain"
	"github.com/millbrook-pd/roster/backend/internal/repository"
	"github.com/millbrook-pd/roster/backend/internal/roster"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

type seedOfficer struct {
	officer  domain.OfficerProfile
	position string
	unit     string
	partner  int // index into the officer list, -1 for none
}

// SeedDemoData loads a small but complete precinct: three shifts, a day
// watch with a supervisor chain, a riding partner pair, a PPO, and the
// staffing minimums that make the daily roster meaningful.
func SeedDemoData(repo *repository.Repository) {
	ctx := context.Background()

	/**********************************************
	 * shift types
	 **********************************************/
	shifts := []*domain.ShiftType{
		{Name: "Day", StartTime: "07:00:00", EndTime: "15:00:00"},
		{Name: "Evening", StartTime: "15:00:00", EndTime: "23:00:00"},
		{Name: "Night", StartTime: "23:00:00", EndTime: "07:00:00"},
	}
	for _, st := range shifts {
		if err := repo.CreateShiftType(ctx, st); err != nil {
			slog.Error("failed to insert shift type", "name", st.Name, "error", err)
			return
		}
	}
	dayShift := shifts[0]

	/**********************************************
	 * officers
	 **********************************************/
	officers := []seedOfficer{
		{
			officer: domain.OfficerProfile{
				FirstName: "Dana", LastName: "Whitfield", BadgeNumber: "1201",
				Rank: domain.RankLieutenant, HireDate: date(2004, time.March, 15),
				SergeantPromotionDate:   datePtr(2012, time.June, 1),
				LieutenantPromotionDate: datePtr(2018, time.September, 1),
			},
			position: "Watch Supervisor", partner: -1,
		},
		{
			officer: domain.OfficerProfile{
				FirstName: "Marcus", LastName: "Reyes", BadgeNumber: "1530",
				Rank: domain.RankSergeant, HireDate: date(2009, time.July, 20),
				SergeantPromotionDate: datePtr(2017, time.April, 12),
			},
			position: "Supervisor", partner: -1,
		},
		{
			officer: domain.OfficerProfile{
				FirstName: "Karen", LastName: "Okafor", BadgeNumber: "1544",
				Rank: domain.RankSergeant, HireDate: date(2011, time.January, 10),
				SergeantPromotionDate: datePtr(2019, time.October, 5),
			},
			position: "Supervisor", partner: -1,
		},
		{
			officer: domain.OfficerProfile{
				FirstName: "Luis", LastName: "Delgado", BadgeNumber: "2087",
				Rank: domain.RankOfficer, HireDate: date(2013, time.May, 6),
			},
			position: "District 1", unit: "201", partner: -1,
		},
		{
			officer: domain.OfficerProfile{
				FirstName: "Angela", LastName: "Brooks", BadgeNumber: "2214",
				Rank: domain.RankOfficer, HireDate: date(2015, time.August, 24),
			},
			position: "District 2", unit: "202", partner: -1,
		},
		{
			officer: domain.OfficerProfile{
				FirstName: "Derek", LastName: "Sullivan", BadgeNumber: "2355",
				Rank: domain.RankOfficer, HireDate: date(2017, time.February, 13),
			},
			position: "District 3", unit: "203", partner: 6,
		},
		{
			officer: domain.OfficerProfile{
				FirstName: "Teresa", LastName: "Novak", BadgeNumber: "2390",
				Rank: domain.RankOfficer, HireDate: date(2018, time.November, 5),
			},
			position: "District 3", unit: "203", partner: 5,
		},
		{
			officer: domain.OfficerProfile{
				FirstName: "Kevin", LastName: "Ingram", BadgeNumber: "2460",
				Rank: domain.RankOfficer, HireDate: date(2020, time.June, 29),
			},
			position: "Desk", unit: "", partner: -1,
		},
		{
			officer: domain.OfficerProfile{
				FirstName: "Rachel", LastName: "Torres", BadgeNumber: "2511",
				Rank: domain.RankProbationary, HireDate: date(2025, time.March, 3),
			},
			position: "Riding Partner (Probationary)", unit: "201", partner: -1,
		},
	}
	for i := range officers {
		if err := repo.CreateOfficer(ctx, &officers[i].officer); err != nil {
			slog.Error("failed to insert officer", "badge", officers[i].officer.BadgeNumber, "error", err)
			return
		}
	}

	/**********************************************
	 * recurring day-watch pattern, Monday through Friday
	 **********************************************/
	effectiveStart := date(2025, time.January, 6)
	batch := make([]*domain.RecurringAssignment, 0)
	for dow := int32(1); dow <= 5; dow++ {
		for i := range officers {
			ra := &domain.RecurringAssignment{
				OfficerID:      officers[i].officer.ID,
				ShiftTypeID:    dayShift.ID,
				DayOfWeek:      dow,
				Position:       officers[i].position,
				UnitNumber:     officers[i].unit,
				EffectiveStart: effectiveStart,
			}
			if officers[i].partner >= 0 {
				ra.Partnership = true
				ra.PartnerID = &officers[officers[i].partner].officer.ID
			}
			batch = append(batch, ra)
		}
	}
	if err := repo.CreateRecurringBatch(ctx, batch); err != nil {
		slog.Error("failed to insert recurring assignments", "error", err)
		return
	}

	/**********************************************
	 * staffing minimums
	 **********************************************/
	for dow := int32(1); dow <= 5; dow++ {
		ms := &domain.MinimumStaffing{
			DayOfWeek:      dow,
			ShiftTypeID:    dayShift.ID,
			MinOfficers:    4,
			MinSupervisors: 2,
		}
		if err := repo.UpsertMinimumStaffing(ctx, ms); err != nil {
			slog.Error("failed to insert minimum staffing", "dayOfWeek", dow, "error", err)
			return
		}
	}

	/**********************************************
	 * default assignment for the desk officer
	 **********************************************/
	da := &domain.DefaultAssignment{
		OfficerID:      officers[7].officer.ID,
		Position:       "Station",
		EffectiveStart: effectiveStart,
	}
	if err := repo.CreateDefaultAssignment(ctx, da); err != nil {
		slog.Error("failed to insert default assignment", "error", err)
		return
	}

	/**********************************************
	 * sample exceptions: one vacation day and one partial sick leave
	 **********************************************/
	sampleDate := date(2025, time.June, 9) // a Monday
	partial := "11:00:00"
	exceptions := []*domain.ScheduleException{
		{
			OfficerID:   officers[4].officer.ID,
			Date:        sampleDate,
			ShiftTypeID: dayShift.ID,
			IsOff:       true,
			LeaveReason: "Vacation",
			Source:      domain.ExceptionSourceManual,
		},
		{
			OfficerID:       officers[3].officer.ID,
			Date:            sampleDate,
			ShiftTypeID:     dayShift.ID,
			IsOff:           true,
			LeaveReason:     "Sick",
			CustomStartTime: &partial,
			Source:          domain.ExceptionSourceManual,
		},
	}
	for _, exc := range exceptions {
		if err := repo.UpsertException(ctx, exc); err != nil {
			slog.Error("failed to insert exception", "error", err)
			return
		}
	}

	/**********************************************
	 * a manual partnership on the sample date
	 **********************************************/
	resolver := roster.NewPartnershipResolver(repo, slog.Default())
	if err := resolver.Create(ctx, officers[7].officer.ID, officers[8].officer.ID, sampleDate, dayShift.ID); err != nil {
		slog.Error("failed to create sample partnership", "error", err)
		return
	}

	slog.Info("demo data seeded",
		"shiftTypes", len(shifts),
		"officers", len(officers),
		"recurring", len(batch),
	)
}
