package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bellapacxx/squares-backend/auth"
	"github.com/bellapacxx/squares-backend/game"
	"github.com/bellapacxx/squares-backend/models"
	"github.com/bellapacxx/squares-backend/store"
	"github.com/bellapacxx/squares-backend/utils/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/datatypes"
)

// Notifier is told whenever a game's observable state changes.
type Notifier interface {
	Publish(gameID string)
}

type nopNotifier struct{}

func (nopNotifier) Publish(string) {}

// GameService owns every write to games and squares.
type GameService struct {
	store     store.Store
	shuffler  *game.Shuffler
	notifier  Notifier
	now       func() time.Time
	publicURL string
}

func NewGameService(st store.Store, shuffler *game.Shuffler, publicURL string) *GameService {
	if shuffler == nil {
		shuffler = game.NewShuffler(nil)
	}
	return &GameService{
		store:     st,
		shuffler:  shuffler,
		notifier:  nopNotifier{},
		now:       time.Now,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// SetNotifier wires change notifications (usually the websocket Hub).
func (s *GameService) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	s.notifier = n
}

type CreateGameRequest struct {
	Name      string            `json:"name"`
	BigGameID string            `json:"big_game_id"`
	Config    models.GameConfig `json:"config"`
}

func (s *GameService) CreateGame(ctx context.Context, caller *auth.Identity, req CreateGameRequest) (*models.Game, error) {
	if caller == nil {
		return nil, errUnauthenticated
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "A game name is required.")
	}

	cfg := req.Config
	if cfg.Rules.UnclaimedRule == "" {
		cfg.Rules.UnclaimedRule = models.RuleRequireFull
	}
	if err := game.ValidateConfig(cfg); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	g := &models.Game{
		ID:      uuid.NewString(),
		AdminID: caller.UID,
		Name:    name,
		Status:  models.StatusDraft,
		Config:  datatypes.NewJSONType(cfg),
		Scores:  game.EmptyScores(),
	}
	if id := strings.TrimSpace(req.BigGameID); id != "" {
		g.BigGameID = &id
	}

	if err := s.store.CreateGame(ctx, g); err != nil {
		return nil, storeError(err, "Game not found.")
	}
	logger.Infow("game created", "game_id", g.ID, "admin_id", g.AdminID, "rule", cfg.Rules.UnclaimedRule)
	return g, nil
}

// GetGame loads a game with its scores resolved against the shared big-game
// record.
func (s *GameService) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	if gameID == "" {
		return nil, status.Error(codes.InvalidArgument, "A gameId is required.")
	}
	g, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, storeError(err, "Game not found.")
	}
	s.resolveScores(ctx, g)
	return g, nil
}

func (s *GameService) resolveScores(ctx context.Context, g *models.Game) {
	if g.BigGameID == nil {
		return
	}
	gs, err := s.store.GetGlobalScores(ctx, *g.BigGameID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warnf("global scores %s for game %s: %v", *g.BigGameID, g.ID, err)
		}
		return
	}
	shared := gs.Scores.Data()
	g.Scores = game.ResolveScores(g.Scores, &shared)
}

func (s *GameService) ListOwnedGames(ctx context.Context, caller *auth.Identity) ([]models.Game, error) {
	if caller == nil {
		return nil, errUnauthenticated
	}
	games, err := s.store.ListGamesByAdmin(ctx, caller.UID)
	if err != nil {
		return nil, storeError(err, "Game not found.")
	}
	for i := range games {
		s.resolveScores(ctx, &games[i])
	}
	return games, nil
}

func (s *GameService) ListParticipatingGames(ctx context.Context, caller *auth.Identity) ([]models.Game, error) {
	if caller == nil {
		return nil, errUnauthenticated
	}
	games, err := s.store.ListGamesByParticipant(ctx, caller.UID)
	if err != nil {
		return nil, storeError(err, "Game not found.")
	}
	for i := range games {
		s.resolveScores(ctx, &games[i])
	}
	return games, nil
}

// loadAsAdmin fetches a game and checks that caller administers it.
func (s *GameService) loadAsAdmin(ctx context.Context, gameID string, caller *auth.Identity, action string) (*models.Game, error) {
	if caller == nil {
		return nil, errUnauthenticated
	}
	g, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.AdminID != caller.UID {
		return nil, status.Errorf(codes.PermissionDenied, "Only the game admin can %s.", action)
	}
	return g, nil
}

func (s *GameService) DeleteGame(ctx context.Context, gameID string, caller *auth.Identity) error {
	if _, err := s.loadAsAdmin(ctx, gameID, caller, "delete the game"); err != nil {
		return err
	}
	if err := s.store.DeleteGame(ctx, gameID); err != nil {
		return storeError(err, "Game not found.")
	}
	logger.Infow("game deleted", "game_id", gameID)
	s.notifier.Publish(gameID)
	return nil
}

func (s *GameService) UpdateScores(ctx context.Context, gameID string, caller *auth.Identity, scores models.Scores) error {
	if _, err := s.loadAsAdmin(ctx, gameID, caller, "enter scores"); err != nil {
		return err
	}
	if err := validateScores(scores); err != nil {
		return err
	}
	if err := s.store.UpdateScores(ctx, gameID, scores); err != nil {
		return storeError(err, "Game not found.")
	}
	logger.Infow("scores updated", "game_id", gameID)
	s.notifier.Publish(gameID)
	return nil
}

func validateScores(scores models.Scores) error {
	for _, p := range models.Periods {
		v := scores.Get(p)
		if (v.Home != nil && *v.Home < 0) || (v.Away != nil && *v.Away < 0) {
			return status.Errorf(codes.InvalidArgument, "Score for %s must not be negative.", p)
		}
	}
	return nil
}

// RulesPatch changes the mutable rules. A MaxSquares below 1 removes the
// per-player limit.
type RulesPatch struct {
	UnclaimedRule *models.UnclaimedRule `json:"unclaimed_rule"`
	MaxSquares    *int                  `json:"max_squares"`
}

func (s *GameService) UpdateRules(ctx context.Context, gameID string, caller *auth.Identity, patch RulesPatch) (*models.GameConfig, error) {
	g, err := s.loadAsAdmin(ctx, gameID, caller, "change the rules")
	if err != nil {
		return nil, err
	}

	cfg := g.Config.Data()
	cfg.Rules = g.Rules()
	if patch.UnclaimedRule != nil {
		cfg.Rules.UnclaimedRule = *patch.UnclaimedRule
	}
	if patch.MaxSquares != nil {
		if *patch.MaxSquares < 1 {
			cfg.Rules.MaxSquares = nil
		} else {
			limit := *patch.MaxSquares
			cfg.Rules.MaxSquares = &limit
		}
	}
	if err := game.ValidateRules(cfg.Rules); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := s.store.UpdateConfig(ctx, gameID, cfg); err != nil {
		return nil, storeError(err, "Game not found.")
	}
	logger.Infow("rules updated", "game_id", gameID, "rule", cfg.Rules.UnclaimedRule, "max_squares", cfg.Rules.MaxSquares)
	s.notifier.Publish(gameID)
	return &cfg, nil
}

type SquareView struct {
	models.Square
	GridName string `json:"grid_name"`
}

type MeView struct {
	IsAdmin  bool            `json:"isAdmin"`
	Stats    game.MyStats    `json:"stats"`
	TotalWon decimal.Decimal `json:"totalWon"`
}

// BoardView is everything a client needs to render a game.
type BoardView struct {
	Game             *models.Game        `json:"game"`
	Squares          []SquareView        `json:"squares"`
	FilledSquares    int                 `json:"filledSquares"`
	Winners          []game.PeriodResult `json:"winners"`
	Players          []game.PlayerStat   `json:"players"`
	HasUnpaidPlayers bool                `json:"hasUnpaidPlayers"`
	Me               *MeView             `json:"me,omitempty"`
}

// Board recomputes standings from scratch. caller may be nil.
func (s *GameService) Board(ctx context.Context, gameID string, caller *auth.Identity) (*BoardView, error) {
	g, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	squares, err := s.store.ListSquares(ctx, gameID)
	if err != nil {
		return nil, storeError(err, "Game not found.")
	}

	uids := make([]string, 0, len(squares))
	for _, sq := range squares {
		if sq.OwnerID != "" {
			uids = append(uids, sq.OwnerID)
		}
	}
	users, err := s.store.GetUsers(ctx, uids)
	if err != nil {
		return nil, storeError(err, "Game not found.")
	}

	b := game.NewBoard(g, g.Scores, squares, users)
	winners := game.Compute(b)
	players := game.PlayerStats(b)

	names := make([]string, 0, len(b.Squares))
	for _, sq := range b.Squares {
		names = append(names, sq.OwnerName)
	}
	views := make([]SquareView, 0, len(b.Squares))
	for _, sq := range b.Squares {
		views = append(views, SquareView{Square: sq, GridName: game.GridName(sq.OwnerName, names)})
	}

	out := &BoardView{
		Game:             g,
		Squares:          views,
		FilledSquares:    len(squares),
		Winners:          winners,
		Players:          players,
		HasUnpaidPlayers: game.HasUnpaidPlayers(players),
	}
	if caller != nil {
		out.Me = &MeView{
			IsAdmin:  g.AdminID == caller.UID,
			Stats:    game.StatsFor(b, caller.UID),
			TotalWon: game.TotalWon(winners, caller.UID),
		}
	}
	return out, nil
}

// UpsertProfile records the caller's display name for board rendering.
func (s *GameService) UpsertProfile(ctx context.Context, caller *auth.Identity) (*models.User, error) {
	if caller == nil {
		return nil, errUnauthenticated
	}
	u := &models.User{UID: caller.UID, DisplayName: caller.Name, Email: caller.Email}
	if err := s.store.UpsertUser(ctx, u); err != nil {
		return nil, storeError(err, "User not found.")
	}
	return u, nil
}
