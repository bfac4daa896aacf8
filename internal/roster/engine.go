package roster

import (
	"context"
	"log/slog"
	"time"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

// Engine merges recurring assignments with date-specific exceptions into a
// resolved, categorized, staffing-annotated roster. It is stateless: every
// call reads a snapshot through the Store and computes a pure function of
// it. The only caches are per-call lookup maps discarded on return.
type Engine struct {
	store       Store
	logger      *slog.Logger
	credit      ServiceCreditCalculator
	pto         PTOResolver
	categorizer OfficerCategorizer
	staffing    StaffingCalculator
}

func NewEngine(store Store, logger *slog.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// rangeCache holds per-request lookups shared across the days of one
// resolution call.
type rangeCache struct {
	shift    *domain.ShiftType
	profiles map[int64]*domain.OfficerProfile
	// minimums are resolved once per weekday and reused across dates
	// sharing that weekday
	minimums       map[int32]*domain.MinimumStaffing
	minimumFetched map[int32]bool
}

func newRangeCache(shift *domain.ShiftType) *rangeCache {
	return &rangeCache{
		shift:          shift,
		profiles:       make(map[int64]*domain.OfficerProfile),
		minimums:       make(map[int32]*domain.MinimumStaffing),
		minimumFetched: make(map[int32]bool),
	}
}

// ResolveDay resolves one (date, shift). Fails only when the shift id does
// not exist; missing officer profiles degrade to an "Unknown" placeholder.
func (e *Engine) ResolveDay(ctx context.Context, date time.Time, shiftTypeID int64, sortCtx SortContext) (*ResolvedDay, error) {
	shift, err := e.store.GetShiftType(ctx, shiftTypeID)
	if err != nil {
		return nil, err
	}

	recurring, err := e.store.ListRecurring(ctx, shiftTypeID, date, date)
	if err != nil {
		return nil, err
	}
	exceptions, err := e.store.ListExceptions(ctx, date, shiftTypeID)
	if err != nil {
		return nil, err
	}

	return e.resolveDay(ctx, newRangeCache(shift), date, recurring, exceptions, sortCtx)
}

// ResolveRange resolves every date in the inclusive interval, ordered by
// date. Recurring rows and exceptions are fetched once for the whole range;
// minimum staffing is resolved per weekday and reused.
func (e *Engine) ResolveRange(ctx context.Context, start, end time.Time, shiftTypeID int64, sortCtx SortContext) ([]*ResolvedDay, error) {
	if end.Before(start) {
		return nil, &ValidationError{Field: "dateRange", Reason: "end date precedes start date"}
	}

	shift, err := e.store.GetShiftType(ctx, shiftTypeID)
	if err != nil {
		return nil, err
	}

	recurring, err := e.store.ListRecurring(ctx, shiftTypeID, start, end)
	if err != nil {
		return nil, err
	}
	exceptions, err := e.store.ListExceptionsInRange(ctx, start, end, shiftTypeID)
	if err != nil {
		return nil, err
	}

	excByDate := make(map[string][]*domain.ScheduleException)
	for _, exc := range exceptions {
		key := exc.Date.Format("2006-01-02")
		excByDate[key] = append(excByDate[key], exc)
	}

	cache := newRangeCache(shift)
	days := make([]*ResolvedDay, 0)
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		day, err := e.resolveDay(ctx, cache, date, recurring, excByDate[date.Format("2006-01-02")], sortCtx)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	return days, nil
}

// resolveDay is the single merge step. Working and leave exceptions are
// looked up independently per officer: both may be present, e.g. a partial
// leave on a regularly scheduled day.
func (e *Engine) resolveDay(ctx context.Context, cache *rangeCache, date time.Time, recurring []*domain.RecurringAssignment, exceptions []*domain.ScheduleException, sortCtx SortContext) (*ResolvedDay, error) {
	weekday := int32(date.Weekday())

	working := make(map[int64]*domain.ScheduleException)
	leave := make(map[int64]*domain.ScheduleException)
	for _, exc := range exceptions {
		if exc.IsOff {
			leave[exc.OfficerID] = exc
		} else {
			working[exc.OfficerID] = exc
		}
	}

	defaults, err := e.store.ListDefaultAssignments(ctx, date)
	if err != nil {
		return nil, err
	}
	defaultByOfficer := make(map[int64]*domain.DefaultAssignment)
	for _, da := range defaults {
		if da.Contains(date) {
			defaultByOfficer[da.OfficerID] = da
		}
	}

	// one record per officer; an exception-derived record always wins over
	// a recurring-derived one for the same officer
	assignments := make(map[int64]*ResolvedAssignment)

	for _, rec := range recurring {
		if rec.DayOfWeek != weekday || !rec.Contains(date) {
			continue
		}
		assignments[rec.OfficerID] = e.mergeAssignment(cache.shift, date, rec, working[rec.OfficerID], leave[rec.OfficerID], defaultByOfficer[rec.OfficerID])
	}

	for officerID, exc := range working {
		if _, onPattern := assignments[officerID]; onPattern {
			continue
		}
		a := e.mergeAssignment(cache.shift, date, nil, exc, leave[officerID], defaultByOfficer[officerID])
		// present via exception only, working, not on leave for the whole day
		a.IsExtraShift = leave[officerID] == nil || !leave[officerID].FullDayLeave()
		assignments[officerID] = a
	}

	for officerID, exc := range leave {
		if _, seen := assignments[officerID]; seen {
			continue
		}
		assignments[officerID] = e.mergeAssignment(cache.shift, date, nil, nil, exc, defaultByOfficer[officerID])
	}

	if err := e.attachProfiles(ctx, cache, assignments); err != nil {
		return nil, err
	}

	for _, a := range assignments {
		a.ServiceCredit = e.credit.Credit(a.Officer, date)
		a.Leave = e.pto.Resolve(cache.shift, leave[a.OfficerID])
	}

	e.annotatePartnerships(date, assignments, recurring, working, leave, weekday)

	list := make([]*ResolvedAssignment, 0, len(assignments))
	for _, a := range assignments {
		list = append(list, a)
	}

	minimum, err := e.minimumFor(ctx, cache, weekday, cache.shift.ID)
	if err != nil {
		return nil, err
	}

	return &ResolvedDay{
		Date:        date,
		Shift:       cache.shift,
		Assignments: list,
		Categories:  e.categorizer.Categorize(list, sortCtx),
		Staffing:    e.staffing.Evaluate(list, minimum),
	}, nil
}

// mergeAssignment builds one officer's record: working-exception fields win
// over recurring fields when present, and the default assignment fills in
// position/unit only when both are absent.
func (e *Engine) mergeAssignment(shift *domain.ShiftType, date time.Time, rec *domain.RecurringAssignment, working, leave *domain.ScheduleException, def *domain.DefaultAssignment) *ResolvedAssignment {
	a := &ResolvedAssignment{
		Date:        date,
		ShiftTypeID: shift.ID,
		StartTime:   shift.StartTime,
		EndTime:     shift.EndTime,
	}

	if rec != nil {
		a.OfficerID = rec.OfficerID
		a.Position = rec.Position
		a.UnitNumber = rec.UnitNumber
		a.IsRegularRecurringDay = true
	}

	if working != nil {
		a.OfficerID = working.OfficerID
		if working.Position != "" {
			a.Position = working.Position
		}
		if working.UnitNumber != "" {
			a.UnitNumber = working.UnitNumber
		}
		if working.Notes != "" {
			a.Notes = working.Notes
		}
		if working.CustomStartTime != nil {
			a.StartTime = *working.CustomStartTime
		}
		if working.CustomEndTime != nil {
			a.EndTime = *working.CustomEndTime
		}
		a.Source = working.Source
	}

	if working == nil && leave != nil {
		a.OfficerID = leave.OfficerID
		a.Source = leave.Source
	}

	if a.Position == "" && a.UnitNumber == "" && def != nil {
		a.Position = def.Position
		a.UnitNumber = def.UnitNumber
	}

	return a
}

// attachProfiles loads the day's officer profiles through the per-request
// cache. A missing profile becomes an "Unknown" placeholder instead of
// failing the resolution.
func (e *Engine) attachProfiles(ctx context.Context, cache *rangeCache, assignments map[int64]*ResolvedAssignment) error {
	missing := make([]int64, 0)
	for id := range assignments {
		if _, ok := cache.profiles[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		profiles, err := e.store.ListOfficers(ctx, missing)
		if err != nil {
			return err
		}
		for _, p := range profiles {
			cache.profiles[p.ID] = p
		}
	}

	for id, a := range assignments {
		profile, ok := cache.profiles[id]
		if !ok {
			e.logger.Warn("no profile for rostered officer", "officerID", id)
			profile = &domain.OfficerProfile{ID: id, LastName: "Unknown"}
			cache.profiles[id] = profile
		}
		a.Officer = profile
	}

	return nil
}

// annotatePartnerships attaches each officer's partnership state and
// enforces the symmetry invariant at read time: any one-sided pairing is
// logged and degraded to unpartnered, never a fatal error.
func (e *Engine) annotatePartnerships(date time.Time, assignments map[int64]*ResolvedAssignment, recurring []*domain.RecurringAssignment, working, leave map[int64]*domain.ScheduleException, weekday int32) {
	recurringByOfficer := make(map[int64]*domain.RecurringAssignment)
	for _, rec := range recurring {
		if rec.DayOfWeek == weekday && rec.Contains(date) {
			recurringByOfficer[rec.OfficerID] = rec
		}
	}

	pairingFor := func(id int64) *effectivePairing {
		if exc, ok := working[id]; ok {
			return &effectivePairing{partnered: exc.Partnership, suspended: exc.PartnershipSuspended, partnerID: exc.PartnerID}
		}
		if exc, ok := leave[id]; ok && (exc.Partnership || exc.PartnershipSuspended) {
			return &effectivePairing{partnered: exc.Partnership, suspended: exc.PartnershipSuspended, partnerID: exc.PartnerID}
		}
		if rec, ok := recurringByOfficer[id]; ok {
			return &effectivePairing{partnered: rec.Partnership, partnerID: rec.PartnerID}
		}
		return &effectivePairing{}
	}

	for id, a := range assignments {
		p := pairingFor(id)
		if !p.partnered && !p.suspended {
			continue
		}

		status := &PartnershipStatus{
			Partnered: p.partnered,
			Suspended: p.suspended,
		}
		if p.partnerID != nil {
			status.PartnerID = *p.partnerID
		}
		if exc, ok := leave[id]; ok && exc.PartnershipSuspended {
			status.SuspensionReason = exc.SuspensionReason
		} else if exc, ok := working[id]; ok && exc.PartnershipSuspended {
			status.SuspensionReason = exc.SuspensionReason
		}

		if p.partnered {
			broken := false
			if p.partnerID == nil {
				broken = true
			} else {
				partner := pairingFor(*p.partnerID)
				if !partner.partnered || partner.partnerID == nil || *partner.partnerID != id {
					broken = true
				}
			}
			if broken {
				e.logger.Warn("broken partnership degraded to unpartnered",
					"officerID", id, "date", date.Format("2006-01-02"), "shiftTypeID", a.ShiftTypeID)
				status.Partnered = false
				status.Broken = true
			}
		}

		a.Partnership = status
	}
}

func (e *Engine) minimumFor(ctx context.Context, cache *rangeCache, weekday int32, shiftTypeID int64) (*domain.MinimumStaffing, error) {
	if cache.minimumFetched[weekday] {
		return cache.minimums[weekday], nil
	}

	minimum, err := e.store.GetMinimumStaffing(ctx, weekday, shiftTypeID)
	if err != nil {
		return nil, err
	}
	cache.minimums[weekday] = minimum
	cache.minimumFetched[weekday] = true
	return minimum, nil
}
