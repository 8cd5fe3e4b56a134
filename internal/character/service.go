// AngelaMos | 2026
// service.go

package character

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/rpg-backend/internal/characterclass"
	"github.com/carterperez-dev/templates/rpg-backend/internal/core"
)

var (
	ErrClassNotFound = fmt.Errorf("character class: %w", core.ErrNotFound)
	ErrNotOwner      = fmt.Errorf("character belongs to another user: %w", core.ErrForbidden)
)

type ClassProvider interface {
	GetByID(ctx context.Context, id int) (*characterclass.CharacterClass, error)
}

type Service struct {
	repo    Repository
	classes ClassProvider
}

func NewService(repo Repository, classes ClassProvider) *Service {
	return &Service{
		repo:    repo,
		classes: classes,
	}
}

func (s *Service) List(ctx context.Context, userID string) ([]WithClass, error) {
	characters, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]WithClass, 0, len(characters))
	for i := range characters {
		v, err := s.withClass(ctx, &characters[i])
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	return views, nil
}

// Get returns any character by id. Reads are not restricted to the owner.
func (s *Service) Get(ctx context.Context, id int64) (WithClass, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return WithClass{}, err
	}

	return s.withClass(ctx, c)
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CharacterRequest,
) (WithClass, error) {
	class, err := s.lookupClass(ctx, req.CharacterClassID)
	if err != nil {
		return WithClass{}, err
	}

	c := &Character{UserID: userID}
	req.apply(c)

	if err := s.repo.Create(ctx, c); err != nil {
		return WithClass{}, err
	}

	return WithClass{Character: c, Class: class}, nil
}

// Update replaces every field of an owned character. Existence is checked
// before ownership, and the class after both.
func (s *Service) Update(
	ctx context.Context,
	userID string,
	id int64,
	req CharacterRequest,
) (WithClass, error) {
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return WithClass{}, err
	}

	class, err := s.lookupClass(ctx, req.CharacterClassID)
	if err != nil {
		return WithClass{}, err
	}

	req.apply(c)

	if err := s.repo.Update(ctx, c); err != nil {
		return WithClass{}, err
	}

	return WithClass{Character: c, Class: class}, nil
}

func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) owned(
	ctx context.Context,
	userID string,
	id int64,
) (*Character, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !c.OwnedBy(userID) {
		return nil, ErrNotOwner
	}

	return c, nil
}

func (s *Service) lookupClass(
	ctx context.Context,
	id int,
) (*characterclass.CharacterClass, error) {
	class, err := s.classes.GetByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	return class, nil
}

func (s *Service) withClass(ctx context.Context, c *Character) (WithClass, error) {
	class, err := s.lookupClass(ctx, c.CharacterClassID)
	if err != nil {
		return WithClass{}, fmt.Errorf("character %d: %w", c.ID, err)
	}
	return WithClass{Character: c, Class: class}, nil
}
