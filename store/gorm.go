package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bellapacxx/squares-backend/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

// GormStore implements Store on top of gorm (postgres in production).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) CreateGame(ctx context.Context, g *models.Game) error {
	if err := s.db.WithContext(ctx).Create(g).Error; err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

func (s *GormStore) GetGame(ctx context.Context, id string) (*models.Game, error) {
	return s.getGame(s.db.WithContext(ctx), id)
}

func (s *GormStore) GetGameForUpdate(ctx context.Context, id string) (*models.Game, error) {
	return s.getGame(s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (s *GormStore) getGame(db *gorm.DB, id string) (*models.Game, error) {
	var g models.Game
	if err := db.Where("id = ?", id).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get game %s: %w", id, err)
	}
	return &g, nil
}

func (s *GormStore) ListGamesByAdmin(ctx context.Context, adminID string) ([]models.Game, error) {
	var games []models.Game
	err := s.db.WithContext(ctx).
		Where("admin_id = ?", adminID).
		Order("created_at DESC").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("list games by admin: %w", err)
	}
	return games, nil
}

func (s *GormStore) ListGamesByParticipant(ctx context.Context, uid string) ([]models.Game, error) {
	var games []models.Game
	sub := s.db.Model(&models.Square{}).Select("game_id").Where("owner_id = ?", uid)
	err := s.db.WithContext(ctx).
		Where("id IN (?)", sub).
		Order("created_at DESC").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("list games by participant: %w", err)
	}
	return games, nil
}

func (s *GormStore) ListGamesByBigGame(ctx context.Context, bigGameID string) ([]models.Game, error) {
	var games []models.Game
	if err := s.db.WithContext(ctx).Where("big_game_id = ?", bigGameID).Find(&games).Error; err != nil {
		return nil, fmt.Errorf("list games by big game: %w", err)
	}
	return games, nil
}

func (s *GormStore) DeleteGame(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&models.Square{}).Error; err != nil {
			return fmt.Errorf("delete squares: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Game{})
		if res.Error != nil {
			return fmt.Errorf("delete game: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *GormStore) UpdateScores(ctx context.Context, id string, scores models.Scores) error {
	g := models.Game{ID: id, Scores: &scores}
	res := s.db.WithContext(ctx).Model(&g).Select("Scores").Updates(&g)
	return rowsOrNotFound(res, "update scores")
}

func (s *GormStore) UpdateConfig(ctx context.Context, id string, cfg models.GameConfig) error {
	res := s.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ?", id).
		Update("config", datatypes.NewJSONType(cfg))
	return rowsOrNotFound(res, "update config")
}

func (s *GormStore) LockGame(ctx context.Context, id string, grid models.GridNumbers, startedAt time.Time) error {
	g := models.Game{
		Status:      models.StatusLocked,
		GridNumbers: &grid,
		StartedAt:   &startedAt,
	}
	res := s.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ? AND status = ?", id, models.StatusDraft).
		Select("Status", "GridNumbers", "StartedAt").
		Updates(&g)
	if res.Error != nil {
		return fmt.Errorf("lock game: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (s *GormStore) ListSquares(ctx context.Context, gameID string) ([]models.Square, error) {
	var squares []models.Square
	if err := s.db.WithContext(ctx).Where("game_id = ?", gameID).Find(&squares).Error; err != nil {
		return nil, fmt.Errorf("list squares: %w", err)
	}
	return squares, nil
}

func (s *GormStore) CountSquares(ctx context.Context, gameID string) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Square{}).Where("game_id = ?", gameID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count squares: %w", err)
	}
	return n, nil
}

func (s *GormStore) CountSquaresByOwner(ctx context.Context, gameID, ownerID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Square{}).
		Where("game_id = ? AND owner_id = ?", gameID, ownerID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count owner squares: %w", err)
	}
	return n, nil
}

func (s *GormStore) GetSquare(ctx context.Context, gameID string, position int) (*models.Square, error) {
	var sq models.Square
	err := s.db.WithContext(ctx).
		Where("game_id = ? AND id = ?", gameID, models.SquareID(position)).
		First(&sq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get square: %w", err)
	}
	return &sq, nil
}

func (s *GormStore) ClaimSquare(ctx context.Context, sq *models.Square) error {
	if err := s.db.WithContext(ctx).Create(sq).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrSquareTaken
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSquareTaken
		}
		return fmt.Errorf("claim square: %w", err)
	}
	return nil
}

func (s *GormStore) ReleaseSquare(ctx context.Context, gameID string, position int) error {
	res := s.db.WithContext(ctx).
		Where("game_id = ? AND id = ?", gameID, models.SquareID(position)).
		Delete(&models.Square{})
	return rowsOrNotFound(res, "release square")
}

func (s *GormStore) SetSquarePaid(ctx context.Context, gameID string, position int, paid bool) error {
	res := s.db.WithContext(ctx).Model(&models.Square{}).
		Where("game_id = ? AND id = ?", gameID, models.SquareID(position)).
		Update("is_paid", paid)
	return rowsOrNotFound(res, "set square paid")
}

func (s *GormStore) SetPlayerPaid(ctx context.Context, gameID, ownerID string, paid bool) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Square{}).
		Where("game_id = ? AND owner_id = ?", gameID, ownerID).
		Update("is_paid", paid)
	if res.Error != nil {
		return 0, fmt.Errorf("set player paid: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *GormStore) GetGlobalScores(ctx context.Context, id string) (*models.GlobalScores, error) {
	var gs models.GlobalScores
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&gs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get global scores: %w", err)
	}
	return &gs, nil
}

func (s *GormStore) SaveGlobalScores(ctx context.Context, id string, patch models.ScorePatch) (*models.GlobalScores, error) {
	var out *models.GlobalScores
	err := s.InTx(ctx, func(tx Store) error {
		db := tx.(*GormStore).db
		var gs models.GlobalScores
		err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&gs).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			gs = models.GlobalScores{ID: id}
		case err != nil:
			return fmt.Errorf("load global scores: %w", err)
		}

		gs.Scores = datatypes.NewJSONType(gs.Scores.Data().Apply(patch))
		if err := db.Save(&gs).Error; err != nil {
			return fmt.Errorf("save global scores: %w", err)
		}
		out = &gs
		return nil
	})
	return out, err
}

func (s *GormStore) UpsertUser(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "email", "updated_at"}),
	}).Create(u).Error
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *GormStore) GetUsers(ctx context.Context, uids []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(uids))
	if len(uids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("uid IN ?", uids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	for _, u := range users {
		out[u.UID] = u
	}
	return out, nil
}

func (s *GormStore) AddSuperAdmin(ctx context.Context, uid string) error {
	sa := models.SuperAdmin{UID: uid, Role: "super_admin"}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&sa).Error; err != nil {
		return fmt.Errorf("add super admin: %w", err)
	}
	return nil
}

func (s *GormStore) IsSuperAdmin(ctx context.Context, uid string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.SuperAdmin{}).Where("uid = ?", uid).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check super admin: %w", err)
	}
	return n > 0, nil
}

func rowsOrNotFound(res *gorm.DB, op string) error {
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
