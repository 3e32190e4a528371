// Package raid runs shared boss encounters. The boss HP pool only goes
// down, member contributions only go up, and the counter-attack meter is
// derived from persisted timestamps so that a periodic sweep can settle it.
package raid

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

// Params configures a new raid
type Params struct {
	BossName            string        `json:"boss_name"`
	BossMaxHP           int           `json:"boss_max_hp"`
	BossDamage          int           `json:"boss_damage"`
	Duration            time.Duration `json:"duration"`
	ChargeRatePerMinute int           `json:"charge_rate_per_minute"`
}

func (p Params) validate() error {
	name := strings.TrimSpace(p.BossName)
	switch {
	case name == "" || len(name) > MaxBossNameLength:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidBossName)
	case p.BossMaxHP <= 0:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidBossHP)
	case p.BossDamage < 0:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidBossDamage)
	case p.Duration <= 0 || p.Duration > MaxDuration:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidDuration)
	case p.ChargeRatePerMinute < 0:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidChargeRate)
	}
	return nil
}

// NewRaid opens a raid with the leader as its first member
func NewRaid(p Params, leader *domain.Character, now time.Time) (*domain.RaidState, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if leader.IsIncapacitated() {
		return nil, fmt.Errorf("%w: %s", domain.ErrIncapacitated, leader.UserID)
	}

	r := domain.Raid{
		ID:                  uuid.New(),
		BossName:            strings.TrimSpace(p.BossName),
		BossMaxHP:           p.BossMaxHP,
		BossCurrentHP:       p.BossMaxHP,
		BossDamage:          p.BossDamage,
		Deadline:            now.Add(p.Duration),
		Status:              domain.RaidStatusActive,
		ChargeRatePerMinute: p.ChargeRatePerMinute,
		ChargeUpdatedAt:     now,
		CreatedAt:           now,
	}
	r.ChargeDeadline = chargeDeadline(&r)

	return &domain.RaidState{
		Raid: r,
		Members: []domain.RaidMember{{
			RaidID:   r.ID,
			UserID:   leader.UserID,
			IsLeader: true,
			JoinedAt: now,
		}},
	}, nil
}

func requireOpen(r *domain.Raid, now time.Time) error {
	if r.Status != domain.RaidStatusActive {
		return fmt.Errorf("%w: %s (%s)", domain.ErrInvalidTransition, ErrMsgRaidNotActive, r.Status)
	}
	if !now.Before(r.Deadline) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgRaidExpired)
	}
	return nil
}

// Join adds a healthy character to an open raid
func Join(st *domain.RaidState, c *domain.Character, now time.Time) error {
	if err := requireOpen(&st.Raid, now); err != nil {
		return err
	}
	if c.IsIncapacitated() {
		return fmt.Errorf("%w: %s", domain.ErrIncapacitated, c.UserID)
	}
	if st.Member(c.UserID) != nil {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyMember, c.UserID)
	}
	st.Members = append(st.Members, domain.RaidMember{
		RaidID:   st.Raid.ID,
		UserID:   c.UserID,
		JoinedAt: now,
	})
	return nil
}

// Damage is the effect of one hit on the boss
type Damage struct {
	UserID      string `json:"user_id"`
	Amount      int    `json:"amount"`
	MemberTotal int    `json:"member_total"`
	BossHP      int    `json:"boss_current_hp"`
	Victory     bool   `json:"victory"`
}

// ApplyDamage lowers the boss HP pool, floored at zero, and credits the
// member with the full amount. The hit that empties the pool wins the raid.
func ApplyDamage(st *domain.RaidState, userID string, amount int, now time.Time) (*Damage, error) {
	r := &st.Raid
	if err := requireOpen(r, now); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidAmount)
	}
	m := st.Member(userID)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotParticipant, userID)
	}

	r.BossCurrentHP -= amount
	if r.BossCurrentHP < 0 {
		r.BossCurrentHP = 0
	}
	m.DamageDealt += amount

	d := &Damage{UserID: userID, Amount: amount, MemberTotal: m.DamageDealt, BossHP: r.BossCurrentHP}
	if r.BossCurrentHP == 0 {
		r.Status = domain.RaidStatusVictory
		r.EndedAt = &now
		d.Victory = true
	}
	return d, nil
}

// chargeStart is the instant from which the meter accumulates again
func chargeStart(r *domain.Raid) time.Time {
	if r.IsStunned && r.StunnedUntil != nil && r.StunnedUntil.After(r.ChargeUpdatedAt) {
		return *r.StunnedUntil
	}
	return r.ChargeUpdatedAt
}

// ChargeAt derives the meter at now from the settled value. Time spent
// stunned does not count.
func ChargeAt(r *domain.Raid, now time.Time) int {
	meter := r.ChargeMeter
	start := chargeStart(r)
	if r.ChargeRatePerMinute > 0 && now.After(start) {
		meter += int(now.Sub(start).Seconds() * float64(r.ChargeRatePerMinute) / 60)
	}
	if meter > domain.ChargeMeterMax {
		meter = domain.ChargeMeterMax
	}
	return meter
}

func chargeDeadline(r *domain.Raid) time.Time {
	if r.ChargeRatePerMinute <= 0 {
		return time.Time{}
	}
	remaining := domain.ChargeMeterMax - r.ChargeMeter
	if remaining < 0 {
		remaining = 0
	}
	return chargeStart(r).Add(time.Duration(remaining) * time.Minute / time.Duration(r.ChargeRatePerMinute))
}

// settle folds the accumulated charge into the stored meter at now
func settle(r *domain.Raid, now time.Time) {
	r.ChargeMeter = ChargeAt(r, now)
	r.ChargeUpdatedAt = now
	if r.IsStunned && !r.StunnedAt(now) {
		r.IsStunned = false
		r.StunnedUntil = nil
	}
	r.ChargeDeadline = chargeDeadline(r)
}

// IsChargeComplete reports whether the boss is ready to strike. A stunned
// boss never is.
func IsChargeComplete(meter int, now, deadline time.Time, stunned bool) bool {
	if stunned {
		return false
	}
	if meter >= domain.ChargeMeterMax {
		return true
	}
	return !deadline.IsZero() && !now.Before(deadline)
}

// Stun freezes the meter for d. Overlapping stuns extend the window; the
// charge deadline moves back by the frozen time.
func Stun(st *domain.RaidState, d time.Duration, now time.Time) error {
	r := &st.Raid
	if err := requireOpen(r, now); err != nil {
		return err
	}
	if d <= 0 || d > MaxStunDuration {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidStun)
	}

	settle(r, now)
	until := now.Add(d)
	if r.StunnedUntil != nil && r.StunnedUntil.After(until) {
		until = *r.StunnedUntil
	}
	r.IsStunned = true
	r.StunnedUntil = &until
	r.ChargeDeadline = chargeDeadline(r)
	return nil
}

// ReduceCharge drains the meter, floored at zero
func ReduceCharge(st *domain.RaidState, amount int, now time.Time) error {
	r := &st.Raid
	if err := requireOpen(r, now); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidAmount)
	}

	settle(r, now)
	r.ChargeMeter -= amount
	if r.ChargeMeter < 0 {
		r.ChargeMeter = 0
	}
	r.ChargeDeadline = chargeDeadline(r)
	return nil
}

// ResolveCounterAttack fires the boss attack when the meter is full and
// resets it. It returns the user ids to hit, or nil when nothing fired.
// Applying the damage to characters is up to the caller.
func ResolveCounterAttack(st *domain.RaidState, now time.Time) []string {
	r := &st.Raid
	if r.Status != domain.RaidStatusActive {
		return nil
	}
	stunned := r.StunnedAt(now)
	if !IsChargeComplete(ChargeAt(r, now), now, r.ChargeDeadline, stunned) {
		return nil
	}

	settle(r, now)
	r.ChargeMeter = 0
	r.ChargeDeadline = chargeDeadline(r)

	targets := make([]string, len(st.Members))
	for i, m := range st.Members {
		targets[i] = m.UserID
	}
	return targets
}

// CheckDeadline fails an active raid whose deadline passed with the boss
// still standing. It reports whether the status changed.
func CheckDeadline(st *domain.RaidState, now time.Time) bool {
	r := &st.Raid
	if r.Status != domain.RaidStatusActive || r.BossCurrentHP == 0 || now.Before(r.Deadline) {
		return false
	}
	r.Status = domain.RaidStatusFailed
	r.EndedAt = &now
	return true
}

// Leaderboard ranks members by damage dealt, earlier joiners first on ties
func Leaderboard(members []domain.RaidMember) []domain.LeaderboardEntry {
	st := domain.RaidState{Members: members}
	return st.Leaderboard()
}
