package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bellapacxx/squares-backend/models"
	"gorm.io/datatypes"
)

type memData struct {
	mu      sync.Mutex
	games   map[string]models.Game
	squares map[string]map[string]models.Square
	global  map[string]models.GlobalScores
	users   map[string]models.User
	admins  map[string]models.SuperAdmin
}

func (d *memData) snapshot() *memData {
	cp := &memData{
		games:   make(map[string]models.Game, len(d.games)),
		squares: make(map[string]map[string]models.Square, len(d.squares)),
		global:  make(map[string]models.GlobalScores, len(d.global)),
		users:   make(map[string]models.User, len(d.users)),
		admins:  make(map[string]models.SuperAdmin, len(d.admins)),
	}
	for k, v := range d.games {
		cp.games[k] = v
	}
	for k, m := range d.squares {
		inner := make(map[string]models.Square, len(m))
		for id, sq := range m {
			inner[id] = sq
		}
		cp.squares[k] = inner
	}
	for k, v := range d.global {
		cp.global[k] = v
	}
	for k, v := range d.users {
		cp.users[k] = v
	}
	for k, v := range d.admins {
		cp.admins[k] = v
	}
	return cp
}

func (d *memData) restore(from *memData) {
	d.games, d.squares, d.global = from.games, from.squares, from.global
	d.users, d.admins = from.users, from.admins
}

// MemoryStore keeps everything in process memory. Transactions and
// standalone calls are serialized on txMu; a failed or cancelled transaction
// is rolled back.
type MemoryStore struct {
	data *memData
	txMu *sync.Mutex
	inTx bool
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: &memData{
			games:   make(map[string]models.Game),
			squares: make(map[string]map[string]models.Square),
			global:  make(map[string]models.GlobalScores),
			users:   make(map[string]models.User),
			admins:  make(map[string]models.SuperAdmin),
		},
		txMu: &sync.Mutex{},
		now:  time.Now,
	}
}

func (s *MemoryStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.data.mu.Lock()
	saved := s.data.snapshot()
	s.data.mu.Unlock()

	tx := &MemoryStore{data: s.data, txMu: s.txMu, inTx: true, now: s.now}
	err := fn(tx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.data.mu.Lock()
		s.data.restore(saved)
		s.data.mu.Unlock()
		return err
	}
	return nil
}

// exclusive serializes a standalone call with running transactions, so a
// rollback can only undo the transaction's own writes and no caller reads
// uncommitted state. Inside a transaction txMu is already held.
func (s *MemoryStore) exclusive() func() {
	if s.inTx {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

func (s *MemoryStore) CreateGame(_ context.Context, g *models.Game) error {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if _, ok := s.data.games[g.ID]; ok {
		return ErrConflict
	}
	now := s.now()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	s.data.games[g.ID] = cloneGame(*g)
	return nil
}

func (s *MemoryStore) GetGame(_ context.Context, id string) (*models.Game, error) {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	g, ok := s.data.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneGame(g)
	return &out, nil
}

// GetGameForUpdate relies on InTx for serialization.
func (s *MemoryStore) GetGameForUpdate(ctx context.Context, id string) (*models.Game, error) {
	return s.GetGame(ctx, id)
}

func (s *MemoryStore) listGames(match func(models.Game) bool) []models.Game {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	var out []models.Game
	for _, g := range s.data.games {
		if match(g) {
			out = append(out, cloneGame(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *MemoryStore) ListGamesByAdmin(_ context.Context, adminID string) ([]models.Game, error) {
	defer s.exclusive()()
	return s.listGames(func(g models.Game) bool { return g.AdminID == adminID }), nil
}

func (s *MemoryStore) ListGamesByParticipant(_ context.Context, uid string) ([]models.Game, error) {
	defer s.exclusive()()

	s.data.mu.Lock()
	ids := make(map[string]struct{})
	for gameID, squares := range s.data.squares {
		for _, sq := range squares {
			if sq.OwnerID == uid {
				ids[gameID] = struct{}{}
				break
			}
		}
	}
	s.data.mu.Unlock()

	return s.listGames(func(g models.Game) bool {
		_, ok := ids[g.ID]
		return ok
	}), nil
}

func (s *MemoryStore) ListGamesByBigGame(_ context.Context, bigGameID string) ([]models.Game, error) {
	defer s.exclusive()()
	return s.listGames(func(g models.Game) bool {
		return g.BigGameID != nil && *g.BigGameID == bigGameID
	}), nil
}

func (s *MemoryStore) DeleteGame(_ context.Context, id string) error {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if _, ok := s.data.games[id]; !ok {
		return ErrNotFound
	}
	delete(s.data.games, id)
	delete(s.data.squares, id)
	return nil
}

func (s *MemoryStore) updateGame(id string, fn func(g *models.Game) error) error {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	g, ok := s.data.games[id]
	if !ok {
		return ErrNotFound
	}
	if err := fn(&g); err != nil {
		return err
	}
	g.UpdatedAt = s.now()
	s.data.games[id] = cloneGame(g)
	return nil
}

func (s *MemoryStore) UpdateScores(_ context.Context, id string, scores models.Scores) error {
	defer s.exclusive()()
	return s.updateGame(id, func(g *models.Game) error {
		g.Scores = &scores
		return nil
	})
}

func (s *MemoryStore) UpdateConfig(_ context.Context, id string, cfg models.GameConfig) error {
	defer s.exclusive()()
	return s.updateGame(id, func(g *models.Game) error {
		g.Config = datatypes.NewJSONType(cfg)
		return nil
	})
}

func (s *MemoryStore) LockGame(_ context.Context, id string, grid models.GridNumbers, startedAt time.Time) error {
	defer s.exclusive()()
	return s.updateGame(id, func(g *models.Game) error {
		if g.Status != models.StatusDraft {
			return ErrConflict
		}
		g.Status = models.StatusLocked
		g.GridNumbers = &grid
		g.StartedAt = &startedAt
		return nil
	})
}

func (s *MemoryStore) ListSquares(_ context.Context, gameID string) ([]models.Square, error) {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	out := make([]models.Square, 0, len(s.data.squares[gameID]))
	for _, sq := range s.data.squares[gameID] {
		out = append(out, sq)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position() < out[j].Position() })
	return out, nil
}

func (s *MemoryStore) CountSquares(_ context.Context, gameID string) (int64, error) {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	return int64(len(s.data.squares[gameID])), nil
}

func (s *MemoryStore) CountSquaresByOwner(_ context.Context, gameID, ownerID string) (int64, error) {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	var n int64
	for _, sq := range s.data.squares[gameID] {
		if sq.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) GetSquare(_ context.Context, gameID string, position int) (*models.Square, error) {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	sq, ok := s.data.squares[gameID][models.SquareID(position)]
	if !ok {
		return nil, ErrNotFound
	}
	return &sq, nil
}

func (s *MemoryStore) ClaimSquare(_ context.Context, sq *models.Square) error {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	squares, ok := s.data.squares[sq.GameID]
	if !ok {
		squares = make(map[string]models.Square)
		s.data.squares[sq.GameID] = squares
	}
	if _, taken := squares[sq.ID]; taken {
		return ErrSquareTaken
	}
	if sq.CreatedAt.IsZero() {
		sq.CreatedAt = s.now()
	}
	squares[sq.ID] = *sq
	return nil
}

func (s *MemoryStore) ReleaseSquare(_ context.Context, gameID string, position int) error {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	id := models.SquareID(position)
	if _, ok := s.data.squares[gameID][id]; !ok {
		return ErrNotFound
	}
	delete(s.data.squares[gameID], id)
	return nil
}

func (s *MemoryStore) SetSquarePaid(_ context.Context, gameID string, position int, paid bool) error {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	id := models.SquareID(position)
	sq, ok := s.data.squares[gameID][id]
	if !ok {
		return ErrNotFound
	}
	sq.IsPaid = paid
	s.data.squares[gameID][id] = sq
	return nil
}

func (s *MemoryStore) SetPlayerPaid(_ context.Context, gameID, ownerID string, paid bool) (int64, error) {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	var n int64
	for id, sq := range s.data.squares[gameID] {
		if sq.OwnerID != ownerID {
			continue
		}
		sq.IsPaid = paid
		s.data.squares[gameID][id] = sq
		n++
	}
	return n, nil
}

func (s *MemoryStore) GetGlobalScores(_ context.Context, id string) (*models.GlobalScores, error) {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	gs, ok := s.data.global[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &gs, nil
}

func (s *MemoryStore) SaveGlobalScores(_ context.Context, id string, patch models.ScorePatch) (*models.GlobalScores, error) {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	gs := s.data.global[id]
	gs.ID = id
	gs.Scores = datatypes.NewJSONType(gs.Scores.Data().Apply(patch))
	gs.UpdatedAt = s.now()
	s.data.global[id] = gs
	return &gs, nil
}

func (s *MemoryStore) UpsertUser(_ context.Context, u *models.User) error {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	now := s.now()
	if existing, ok := s.data.users[u.UID]; ok {
		u.CreatedAt = existing.CreatedAt
	} else if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	s.data.users[u.UID] = *u
	return nil
}

func (s *MemoryStore) GetUsers(_ context.Context, uids []string) (map[string]models.User, error) {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	out := make(map[string]models.User, len(uids))
	for _, uid := range uids {
		if u, ok := s.data.users[uid]; ok {
			out[uid] = u
		}
	}
	return out, nil
}

func (s *MemoryStore) AddSuperAdmin(_ context.Context, uid string) error {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if _, ok := s.data.admins[uid]; !ok {
		s.data.admins[uid] = models.SuperAdmin{UID: uid, Role: "super_admin", CreatedAt: s.now()}
	}
	return nil
}

func (s *MemoryStore) IsSuperAdmin(_ context.Context, uid string) (bool, error) {
	defer s.exclusive()()

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	_, ok := s.data.admins[uid]
	return ok, nil
}

func cloneGame(g models.Game) models.Game {
	out := g
	if g.GridNumbers != nil {
		out.GridNumbers = &models.GridNumbers{
			Row: append([]int(nil), g.GridNumbers.Row...),
			Col: append([]int(nil), g.GridNumbers.Col...),
		}
	}
	if g.Scores != nil {
		sc := *g.Scores
		out.Scores = &sc
	}
	if g.BigGameID != nil {
		id := *g.BigGameID
		out.BigGameID = &id
	}
	if g.StartedAt != nil {
		ts := *g.StartedAt
		out.StartedAt = &ts
	}
	return out
}
