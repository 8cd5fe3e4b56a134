// AngelaMos | 2026
// service.go

package characterclass

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

const listKey = "classes:all"

// Service serves the class catalog. The catalog only changes through
// migrations, so reads are cached in process for ttl.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

func NewService(repo Repository, ttl time.Duration) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (s *Service) List(ctx context.Context) ([]CharacterClass, error) {
	if cached, ok := s.cache.Get(listKey); ok {
		return copyClasses(cached.([]CharacterClass)), nil
	}

	classes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(listKey, copyClasses(classes))
	return classes, nil
}

func (s *Service) GetByID(ctx context.Context, id int) (*CharacterClass, error) {
	key := "classes:" + strconv.Itoa(id)
	if cached, ok := s.cache.Get(key); ok {
		class := cached.(CharacterClass)
		return &class, nil
	}

	class, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(key, *class)
	return class, nil
}

// Invalidate drops every cached entry.
func (s *Service) Invalidate() {
	s.cache.Flush()
}

func copyClasses(in []CharacterClass) []CharacterClass {
	out := make([]CharacterClass, len(in))
	copy(out, in)
	return out
}
