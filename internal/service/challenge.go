package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/id"
	"github.com/inkwellapp/inkwell/internal/store"
	"github.com/inkwellapp/inkwell/internal/validation"
)

// ChallengeService orchestrates reading-challenge operations.
type ChallengeService struct {
	store     *store.Store
	hydrator  *Hydrator
	validator *validation.Validator
	logger    *slog.Logger
}

// NewChallengeService creates a new challenge service.
func NewChallengeService(s *store.Store, h *Hydrator, v *validation.Validator, logger *slog.Logger) *ChallengeService {
	return &ChallengeService{
		store:     s,
		hydrator:  h,
		validator: v,
		logger:    logger,
	}
}

// AddChallenge creates a new challenge. An empty ID gets a generated one.
func (s *ChallengeService) AddChallenge(ctx context.Context, challenge domain.Challenge) (*domain.Challenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if challenge.ID == "" {
		cid, err := id.Generate(id.PrefixChallenge)
		if err != nil {
			return nil, fmt.Errorf("generate challenge id: %w", err)
		}
		challenge.ID = cid
	}
	if challenge.Books == nil {
		challenge.Books = []string{}
	}
	challenge.InitTimestamps()

	if err := s.validator.Validate(&challenge); err != nil {
		return nil, err
	}

	if err := s.store.Challenges.Put(ctx, challenge.ID, &challenge); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("challenge created",
			"challenge_id", challenge.ID,
			"title", challenge.Title,
			"goal_count", challenge.GoalCount,
		)
	}
	return &challenge, nil
}

// GetChallenges lists every challenge hydrated: book references resolved and
// the derived status computed from current reading progress.
func (s *ChallengeService) GetChallenges(ctx context.Context) ([]*domain.ChallengeView, error) {
	challenges, err := s.store.Challenges.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.ChallengeView, 0, len(challenges))
	for _, c := range challenges {
		view, err := s.hydrator.Challenge(ctx, c)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// GetChallenge retrieves a single challenge hydrated.
func (s *ChallengeService) GetChallenge(ctx context.Context, challengeID string) (*domain.ChallengeView, error) {
	challenge, err := s.store.Challenges.Get(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	return s.hydrator.Challenge(ctx, challenge)
}

// AddBookToChallenge adds an ISBN to a challenge's book list and returns the
// re-hydrated view. The read-modify-write is serialized per challenge id so
// two concurrent additions both land.
func (s *ChallengeService) AddBookToChallenge(ctx context.Context, challengeID, isbn string) (*domain.ChallengeView, error) {
	return s.mutateMembership(ctx, challengeID, func(c *domain.Challenge) bool {
		return c.AddBook(isbn)
	})
}

// RemoveBookFromChallenge removes an ISBN from a challenge's book list.
func (s *ChallengeService) RemoveBookFromChallenge(ctx context.Context, challengeID, isbn string) (*domain.ChallengeView, error) {
	return s.mutateMembership(ctx, challengeID, func(c *domain.Challenge) bool {
		return c.RemoveBook(isbn)
	})
}

func (s *ChallengeService) mutateMembership(ctx context.Context, challengeID string, mutate func(*domain.Challenge) bool) (*domain.ChallengeView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unlock := s.store.Lock(challengeID)
	defer unlock()

	challenge, err := s.store.Challenges.Get(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	if mutate(challenge) {
		challenge.Touch()
		if err := s.store.Challenges.Put(ctx, challengeID, challenge); err != nil {
			return nil, err
		}
	}

	return s.hydrator.Challenge(ctx, challenge)
}

// DeleteChallenge removes a challenge. Referenced books are never deleted
// with it. Returns false when no challenge existed.
func (s *ChallengeService) DeleteChallenge(ctx context.Context, challengeID string) (bool, error) {
	existed, err := s.store.Challenges.Delete(ctx, challengeID)
	if err != nil {
		return false, err
	}
	if existed && s.logger != nil {
		s.logger.Info("challenge deleted", "challenge_id", challengeID)
	}
	return existed, nil
}
