// AngelaMos | 2026
// fakes_test.go

package character

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carterperez-dev/templates/rpg-backend/internal/characterclass"
	"github.com/carterperez-dev/templates/rpg-backend/internal/core"
)

type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]Character
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[int64]Character)}
}

func (m *memoryRepo) Create(_ context.Context, c *Character) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.rows[c.ID] = *c
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("get character: %w", core.ErrNotFound)
	}
	return &c, nil
}

func (m *memoryRepo) ListByUser(_ context.Context, userID string) ([]Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Character
	for id := int64(1); id <= m.nextID; id++ {
		if c, ok := m.rows[id]; ok && c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memoryRepo) Update(_ context.Context, c *Character) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[c.ID]; !ok {
		return fmt.Errorf("update character: %w", core.ErrNotFound)
	}
	c.UpdatedAt = time.Now()
	m.rows[c.ID] = *c
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("delete character: %w", core.ErrNotFound)
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryRepo) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows), nil
}

type staticClasses map[int]characterclass.CharacterClass

func (s staticClasses) GetByID(_ context.Context, id int) (*characterclass.CharacterClass, error) {
	c, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("get character class: %w", core.ErrNotFound)
	}
	return &c, nil
}

func catalog() staticClasses {
	return staticClasses{
		1: {ID: 1, Type: "warrior", Strength: 40, Agility: 25, Charisma: 15, Luck: 20},
		2: {ID: 2, Type: "thief", Strength: 15, Agility: 40, Charisma: 20, Luck: 25},
		3: {ID: 3, Type: "mage", Strength: 15, Agility: 20, Charisma: 30, Luck: 35},
		4: {ID: 4, Type: "archer", Strength: 20, Agility: 35, Charisma: 25, Luck: 20},
	}
}
