package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// RaidStatus represents the lifecycle state of a raid encounter
type RaidStatus string

const (
	RaidStatusActive  RaidStatus = "active"
	RaidStatusVictory RaidStatus = "victory"
	RaidStatusFailed  RaidStatus = "failed"
)

// ChargeMeterMax is the value at which the boss counter-attack fires
const ChargeMeterMax = 100

// Raid is a shared boss encounter.
// BossCurrentHP never increases while the raid is active.
// ChargeMeter is the meter value settled at ChargeUpdatedAt; the live value
// is derived from the accumulation rate.
type Raid struct {
	ID                  uuid.UUID  `json:"id"`
	BossName            string     `json:"boss_name"`
	BossMaxHP           int        `json:"boss_max_hp"`
	BossCurrentHP       int        `json:"boss_current_hp"`
	BossDamage          int        `json:"boss_damage"`
	Deadline            time.Time  `json:"deadline"`
	Status              RaidStatus `json:"status"`
	ChargeMeter         int        `json:"charge_meter"`
	ChargeRatePerMinute int        `json:"charge_rate_per_minute"`
	ChargeUpdatedAt     time.Time  `json:"charge_updated_at"`
	ChargeDeadline      time.Time  `json:"charge_deadline"`
	IsStunned           bool       `json:"is_stunned"`
	StunnedUntil        *time.Time `json:"stunned_until,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	EndedAt             *time.Time `json:"ended_at,omitempty"`
	Version             int64      `json:"version"`
}

// StunnedAt reports whether the boss debuff window covers now
func (r *Raid) StunnedAt(now time.Time) bool {
	return r.IsStunned && r.StunnedUntil != nil && now.Before(*r.StunnedUntil)
}

// RaidMember tracks one participant's contribution. DamageDealt never decreases.
type RaidMember struct {
	RaidID      uuid.UUID `json:"raid_id"`
	UserID      string    `json:"user_id"`
	DamageDealt int       `json:"damage_dealt"`
	IsLeader    bool      `json:"is_leader"`
	JoinedAt    time.Time `json:"joined_at"`
}

// RaidState is the raid aggregate persisted as a whole
type RaidState struct {
	Raid    Raid         `json:"raid"`
	Members []RaidMember `json:"members"`
}

// Member returns a pointer into Members for in-place mutation
func (s *RaidState) Member(userID string) *RaidMember {
	for i := range s.Members {
		if s.Members[i].UserID == userID {
			return &s.Members[i]
		}
	}
	return nil
}

// Clone deep-copies the aggregate
func (s *RaidState) Clone() *RaidState {
	out := &RaidState{Raid: s.Raid}
	out.Members = make([]RaidMember, len(s.Members))
	copy(out.Members, s.Members)
	return out
}

// LeaderboardEntry is a ranked raid contribution
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DamageDealt int    `json:"damage_dealt"`
	IsLeader    bool   `json:"is_leader,omitempty"`
}

// Leaderboard ranks members by damage dealt, ties broken by join time
func (s *RaidState) Leaderboard() []LeaderboardEntry {
	members := make([]RaidMember, len(s.Members))
	copy(members, s.Members)
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].DamageDealt != members[j].DamageDealt {
			return members[i].DamageDealt > members[j].DamageDealt
		}
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})

	entries := make([]LeaderboardEntry, len(members))
	for i, m := range members {
		entries[i] = LeaderboardEntry{
			Rank:        i + 1,
			UserID:      m.UserID,
			DamageDealt: m.DamageDealt,
			IsLeader:    m.IsLeader,
		}
	}
	return entries
}
