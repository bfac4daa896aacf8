package domain

import (
	"strings"
	"time"
)

type Rank string

const (
	RankOfficer      Rank = "Officer"
	RankProbationary Rank = "Probationary"
	RankSergeant     Rank = "Sergeant"
	RankLieutenant   Rank = "Lieutenant"
	RankCaptain      Rank = "Captain"
	RankChief        Rank = "Chief"
	RankCommander    Rank = "Commander"
)

// supervisorRankKeywords matches any rank that carries supervisory authority.
// Matching is substring and case-insensitive so that variants such as
// "Deputy Chief" or "Staff Sergeant" still classify correctly.
var supervisorRankKeywords = []string{"sergeant", "lieutenant", "captain", "chief", "commander"}

func (r Rank) IsSupervisor() bool {
	lower := strings.ToLower(string(r))
	for _, kw := range supervisorRankKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (r Rank) IsProbationary() bool {
	return strings.EqualFold(string(r), string(RankProbationary))
}

// OfficerProfile is owned by the personnel store; the roster engine only
// reads it.
type OfficerProfile struct {
	ID                      int64      `json:"id"`
	FirstName               string     `json:"firstName"`
	LastName                string     `json:"lastName"`
	BadgeNumber             string     `json:"badgeNumber"`
	Rank                    Rank       `json:"rank"`
	HireDate                time.Time  `json:"hireDate"`
	SergeantPromotionDate   *time.Time `json:"sergeantPromotionDate"`
	LieutenantPromotionDate *time.Time `json:"lieutenantPromotionDate"`
	ServiceCreditOverride   *float64   `json:"serviceCreditOverride"`
	IsActive                bool       `json:"isActive"`
	CreatedAt               time.Time  `json:"createdAt"`
	Version                 int32      `json:"-"`
}

func (o *OfficerProfile) FullName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}
