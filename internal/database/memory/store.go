// Package memory provides in-process repository implementations used for
// development and tests. Every read returns a copy so callers can never
// mutate stored state without going through a versioned write.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/repository"
)

// Store holds all aggregates behind a single RWMutex
type Store struct {
	mu         sync.RWMutex
	characters map[string]domain.Character
	taskEvents map[string]map[string]domain.TaskEvent
	tasks      map[string]domain.Task
	items      map[string]domain.Item
	syncMeta   map[string]domain.SyncMetadata
	duels      map[uuid.UUID]*domain.DuelState
	raids      map[uuid.UUID]*domain.RaidState
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		characters: make(map[string]domain.Character),
		taskEvents: make(map[string]map[string]domain.TaskEvent),
		tasks:      make(map[string]domain.Task),
		items:      make(map[string]domain.Item),
		syncMeta:   make(map[string]domain.SyncMetadata),
		duels:      make(map[uuid.UUID]*domain.DuelState),
		raids:      make(map[uuid.UUID]*domain.RaidState),
	}
}

var (
	_ repository.Character = (*Store)(nil)
	_ repository.Task      = (*Store)(nil)
	_ repository.Item      = (*Store)(nil)
	_ repository.Duel      = (*Store)(nil)
	_ repository.Raid      = (*Store)(nil)
)

// ---- Characters ----

// GetCharacter returns a copy of the stored character
func (s *Store) GetCharacter(_ context.Context, userID string) (*domain.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.characters[userID]
	if !ok {
		return nil, domain.ErrCharacterNotFound
	}
	out := c.Clone()
	return &out, nil
}

// CreateCharacter stores a new character at version 1
func (s *Store) CreateCharacter(_ context.Context, c *domain.Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.characters[c.UserID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrCharacterExists, c.UserID)
	}
	if c.Version == 0 {
		c.Version = 1
	}
	s.characters[c.UserID] = c.Clone()
	return nil
}

// UpdateCharacter replaces the character when the version matches
func (s *Store) UpdateCharacter(_ context.Context, c *domain.Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateCharacterLocked(c)
}

// ApplyTaskEvent records the event key and writes c atomically
func (s *Store) ApplyTaskEvent(_ context.Context, c *domain.Character, ev *domain.TaskEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.taskEvents[ev.UserID]
	if _, seen := events[ev.Key]; seen {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateEvent, ev.Key)
	}
	if err := s.updateCharacterLocked(c); err != nil {
		return err
	}
	if events == nil {
		events = make(map[string]domain.TaskEvent)
		s.taskEvents[ev.UserID] = events
	}
	events[ev.Key] = *ev
	return nil
}

func (s *Store) updateCharacterLocked(c *domain.Character) error {
	stored, ok := s.characters[c.UserID]
	if !ok {
		return domain.ErrCharacterNotFound
	}
	if stored.Version != c.Version {
		return fmt.Errorf("%w: character %s at version %d", domain.ErrStaleWrite, c.UserID, c.Version)
	}
	c.Version++
	s.characters[c.UserID] = c.Clone()
	return nil
}

// ---- Tasks ----

// GetTask returns a copy of the stored task
func (s *Store) GetTask(_ context.Context, taskID string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
	}
	return &t, nil
}

// PutTask inserts or replaces a task. The task tracker owns tasks in
// production; this stands in for it during development.
func (s *Store) PutTask(t domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t
}

// ---- Items ----

// GetItem returns a catalog entry by normalized id
func (s *Store) GetItem(_ context.Context, id string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	item.Effects = append([]domain.Effect(nil), item.Effects...)
	return &item, nil
}

// GetAllItems returns every item ordered by key
func (s *Store) GetAllItems(_ context.Context) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Item, 0, len(s.items))
	for _, item := range s.items {
		item.Effects = append([]domain.Effect(nil), item.Effects...)
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// UpsertItem inserts or replaces a catalog entry
func (s *Store) UpsertItem(_ context.Context, item *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *item
	stored.Effects = append([]domain.Effect(nil), item.Effects...)
	s.items[item.ID] = stored
	return nil
}

// ErrSyncMetadataNotFound is returned before the first catalog sync
var ErrSyncMetadataNotFound = errors.New("sync metadata not found")

// GetSyncMetadata returns the last recorded sync for configName
func (s *Store) GetSyncMetadata(_ context.Context, configName string) (*domain.SyncMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.syncMeta[configName]
	if !ok {
		return nil, ErrSyncMetadataNotFound
	}
	return &m, nil
}

// UpsertSyncMetadata records a sync
func (s *Store) UpsertSyncMetadata(_ context.Context, m *domain.SyncMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncMeta[m.ConfigName] = *m
	return nil
}

// ---- Duels ----

// CreateDuel stores a new duel aggregate. Like the Postgres partial unique
// index, it refuses a second unfinished duel for the same pair.
func (s *Store) CreateDuel(_ context.Context, st *domain.DuelState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.duels {
		d := other.Duel
		if !d.Status.IsTerminal() && d.IsParticipant(st.Duel.ChallengerID) && d.IsParticipant(st.Duel.ChallengedID) {
			return fmt.Errorf("%w: open duel %s already pairs these users", domain.ErrInvalidTransition, d.ID)
		}
	}
	if st.Duel.Version == 0 {
		st.Duel.Version = 1
	}
	s.duels[st.Duel.ID] = st.Clone()
	return nil
}

// GetDuel returns a copy of the duel aggregate
func (s *Store) GetDuel(_ context.Context, id uuid.UUID) (*domain.DuelState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.duels[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuelNotFound, id)
	}
	return st.Clone(), nil
}

// SaveDuel replaces the aggregate when the duel version matches
func (s *Store) SaveDuel(_ context.Context, st *domain.DuelState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.duels[st.Duel.ID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrDuelNotFound, st.Duel.ID)
	}
	if stored.Duel.Version != st.Duel.Version {
		return fmt.Errorf("%w: duel %s at version %d", domain.ErrStaleWrite, st.Duel.ID, st.Duel.Version)
	}
	st.Duel.Version++
	s.duels[st.Duel.ID] = st.Clone()
	return nil
}

// ListOpenDuels returns ids of non-terminal duels ordered by creation
func (s *Store) ListOpenDuels(_ context.Context) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	open := make([]*domain.DuelState, 0)
	for _, st := range s.duels {
		if !st.Duel.Status.IsTerminal() {
			open = append(open, st)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Duel.CreatedAt.Before(open[j].Duel.CreatedAt) })

	ids := make([]uuid.UUID, len(open))
	for i, st := range open {
		ids[i] = st.Duel.ID
	}
	return ids, nil
}

// HasOpenDuel reports whether the pair already shares a non-terminal duel
func (s *Store) HasOpenDuel(_ context.Context, userA, userB string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.duels {
		d := st.Duel
		if d.Status.IsTerminal() {
			continue
		}
		if d.IsParticipant(userA) && d.IsParticipant(userB) {
			return true, nil
		}
	}
	return false, nil
}

// ---- Raids ----

// CreateRaid stores a new raid aggregate
func (s *Store) CreateRaid(_ context.Context, st *domain.RaidState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st.Raid.Version == 0 {
		st.Raid.Version = 1
	}
	s.raids[st.Raid.ID] = st.Clone()
	return nil
}

// GetRaid returns a copy of the raid aggregate
func (s *Store) GetRaid(_ context.Context, id uuid.UUID) (*domain.RaidState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.raids[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRaidNotFound, id)
	}
	return st.Clone(), nil
}

// SaveRaid replaces the aggregate when the raid version matches
func (s *Store) SaveRaid(_ context.Context, st *domain.RaidState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.raids[st.Raid.ID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrRaidNotFound, st.Raid.ID)
	}
	if stored.Raid.Version != st.Raid.Version {
		return fmt.Errorf("%w: raid %s at version %d", domain.ErrStaleWrite, st.Raid.ID, st.Raid.Version)
	}
	st.Raid.Version++
	s.raids[st.Raid.ID] = st.Clone()
	return nil
}

// ListActiveRaids returns ids of active raids ordered by creation
func (s *Store) ListActiveRaids(_ context.Context) ([]uuid.UUID, error) {
	return s.listRaids(func(*domain.RaidState) bool { return true }), nil
}

// ListActiveRaidsForMember returns ids of active raids userID has joined
func (s *Store) ListActiveRaidsForMember(_ context.Context, userID string) ([]uuid.UUID, error) {
	return s.listRaids(func(st *domain.RaidState) bool { return st.Member(userID) != nil }), nil
}

func (s *Store) listRaids(keep func(*domain.RaidState) bool) []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]*domain.RaidState, 0)
	for _, st := range s.raids {
		if st.Raid.Status == domain.RaidStatusActive && keep(st) {
			active = append(active, st)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Raid.CreatedAt.Before(active[j].Raid.CreatedAt) })

	ids := make([]uuid.UUID, len(active))
	for i, st := range active {
		ids[i] = st.Raid.ID
	}
	return ids
}
