// Package service provides business logic implementations.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"tendatree/internal/game/round"
	"tendatree/internal/model"
	"tendatree/internal/repository"
)

// Common errors for account operations.
var (
	ErrEmailRequired = errors.New("email is required")
	ErrEmailTaken    = errors.New("email already registered")
	ErrInvalidToken  = errors.New("invalid or unknown token")
)

// AccountService handles registration and identity resolution. Credential
// verification is outside this service; identity is an opaque API token
// issued at registration and resolved by lookup.
type AccountService struct {
	userRepo       *repository.UserRepository
	treeRepo       *repository.TreeRepository
	speciesRepo    *repository.SpeciesRepository
	defaultSpecies string
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(
	userRepo *repository.UserRepository,
	treeRepo *repository.TreeRepository,
	speciesRepo *repository.SpeciesRepository,
	defaultSpecies string,
) *AccountService {
	return &AccountService{
		userRepo:       userRepo,
		treeRepo:       treeRepo,
		speciesRepo:    speciesRepo,
		defaultSpecies: defaultSpecies,
	}
}

// Register creates a user account with a fresh API token and plants the
// starter tree: default species, seedling stage, zero points, four targets
// drawn independently, activity and evaluation timestamps set to now.
func (s *AccountService) Register(ctx context.Context, email, displayName string) (*model.User, *model.Tree, error) {
	if email == "" {
		return nil, nil, ErrEmailRequired
	}

	token, err := newToken()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue token: %w", err)
	}

	user, err := s.userRepo.Create(ctx, email, displayName, model.RoleUser, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("failed to register user: %w", err)
	}

	species, err := s.speciesRepo.GetByName(ctx, s.defaultSpecies)
	if err != nil {
		return nil, nil, fmt.Errorf("default species %q not found: %w", s.defaultSpecies, err)
	}

	now := time.Now().UTC()
	meta := model.RoundMeta{
		GrowthPoints:   0,
		Targets:        round.DrawTargets(nil),
		LastEvaluation: now,
		LastActivity:   now,
		Health:         model.HealthHealthy,
	}

	tree, err := s.treeRepo.Create(ctx, user.ID, species.ID, model.StageSeedling, meta)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to plant starter tree: %w", err)
	}

	return user, tree, nil
}

// ResolveToken returns the user owning an API token.
// Returns ErrInvalidToken for unknown tokens.
func (s *AccountService) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	return user, nil
}

// newToken generates an opaque 32-byte hex API token.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
