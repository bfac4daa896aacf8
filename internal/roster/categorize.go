package roster

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SortContext selects the service-credit direction for regular officers.
// The force list ranks least-senior officers first because they are first in
// line to be forced into an open shift; every other view ranks most-senior
// first.
type SortContext int

const (
	SortRoster SortContext = iota
	SortForceList
	SortWeeklyGrid
)

// predefinedPositions is the fixed position vocabulary. Anything outside it
// (or containing "other") is a special assignment.
var predefinedPositions = map[string]struct{}{
	"patrol":                        {},
	"desk":                          {},
	"station":                       {},
	"traffic":                       {},
	"supervisor":                    {},
	"watch supervisor":              {},
	"riding partner":                {},
	"riding partner (probationary)": {},
	"available for reassignment":    {},
}

var districtPattern = regexp.MustCompile(`(?i)^district\s+(\d+)$`)

func isPredefinedPosition(position string) bool {
	lower := strings.ToLower(strings.TrimSpace(position))
	if _, ok := predefinedPositions[lower]; ok {
		return true
	}
	return districtPattern.MatchString(lower)
}

func isFullDayLeave(a *ResolvedAssignment) bool {
	return a.Leave != nil && a.Leave.FullDay
}

func isSpecialAssignment(a *ResolvedAssignment) bool {
	if isFullDayLeave(a) {
		return false
	}
	pos := strings.TrimSpace(a.Position)
	if pos == "" {
		return false
	}
	if strings.Contains(strings.ToLower(pos), "other") {
		return true
	}
	return !isPredefinedPosition(pos)
}

func isSupervisorAssignment(a *ResolvedAssignment) bool {
	if isFullDayLeave(a) || isSpecialAssignment(a) {
		return false
	}
	if a.Officer != nil && a.Officer.Rank.IsSupervisor() {
		return true
	}
	return strings.Contains(strings.ToLower(a.Position), "supervisor")
}

func isProbationaryAssignment(a *ResolvedAssignment) bool {
	if isFullDayLeave(a) || isSpecialAssignment(a) || isSupervisorAssignment(a) {
		return false
	}
	return a.Officer != nil && a.Officer.Rank.IsProbationary()
}

// OfficerCategorizer partitions a resolved day into role buckets and applies
// the deterministic sort orders.
type OfficerCategorizer struct{}

func (c OfficerCategorizer) Categorize(assignments []*ResolvedAssignment, sortCtx SortContext) Categorized {
	out := Categorized{
		Supervisors:       make([]*ResolvedAssignment, 0),
		Officers:          make([]*ResolvedAssignment, 0),
		Probationary:      make([]*ResolvedAssignment, 0),
		SpecialAssignment: make([]*ResolvedAssignment, 0),
	}

	for _, a := range assignments {
		switch {
		case isSpecialAssignment(a):
			out.SpecialAssignment = append(out.SpecialAssignment, a)
		case isSupervisorAssignment(a):
			out.Supervisors = append(out.Supervisors, a)
		case isProbationaryAssignment(a):
			out.Probationary = append(out.Probationary, a)
		default:
			out.Officers = append(out.Officers, a)
		}
	}

	c.sortSupervisors(out.Supervisors)
	c.sortOfficers(out.Officers, sortCtx)
	c.sortOfficers(out.Probationary, sortCtx)
	c.sortOfficers(out.SpecialAssignment, sortCtx)

	return out
}

// sortSupervisors orders Lieutenants and above before Sergeants, then by
// descending service credit, ascending badge number, last name.
func (OfficerCategorizer) sortSupervisors(supervisors []*ResolvedAssignment) {
	sort.SliceStable(supervisors, func(i, j int) bool {
		a, b := supervisors[i], supervisors[j]

		ga, gb := supervisorRankGroup(a), supervisorRankGroup(b)
		if ga != gb {
			return ga < gb
		}
		if a.ServiceCredit != b.ServiceCredit {
			return a.ServiceCredit > b.ServiceCredit
		}
		if cmp := compareNumericAware(badgeOf(a), badgeOf(b)); cmp != 0 {
			return cmp < 0
		}
		return lastNameOf(a) < lastNameOf(b)
	})
}

func (OfficerCategorizer) sortOfficers(officers []*ResolvedAssignment, sortCtx SortContext) {
	sort.SliceStable(officers, func(i, j int) bool {
		a, b := officers[i], officers[j]

		if sortCtx == SortWeeklyGrid {
			if cmp := compareDistrictPosition(a.Position, b.Position); cmp != 0 {
				return cmp < 0
			}
		}
		if a.ServiceCredit != b.ServiceCredit {
			if sortCtx == SortForceList {
				return a.ServiceCredit < b.ServiceCredit
			}
			return a.ServiceCredit > b.ServiceCredit
		}
		return lastNameOf(a) < lastNameOf(b)
	})
}

func supervisorRankGroup(a *ResolvedAssignment) int {
	if a.Officer != nil && isLieutenantOrAbove(a.Officer.Rank) {
		return 0
	}
	return 1
}

func badgeOf(a *ResolvedAssignment) string {
	if a.Officer == nil {
		return ""
	}
	return a.Officer.BadgeNumber
}

func lastNameOf(a *ResolvedAssignment) string {
	if a.Officer == nil {
		return ""
	}
	return a.Officer.LastName
}

// compareNumericAware compares two strings numerically when both parse as
// integers, lexicographically otherwise.
func compareNumericAware(a, b string) int {
	na, errA := strconv.Atoi(strings.TrimSpace(a))
	nb, errB := strconv.Atoi(strings.TrimSpace(b))
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// compareDistrictPosition orders "District N" positions by their numeric
// suffix, falling back to plain lexicographic position comparison.
func compareDistrictPosition(a, b string) int {
	ma := districtPattern.FindStringSubmatch(strings.TrimSpace(a))
	mb := districtPattern.FindStringSubmatch(strings.TrimSpace(b))

	if ma != nil && mb != nil {
		na, _ := strconv.Atoi(ma[1])
		nb, _ := strconv.Atoi(mb[1])
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
