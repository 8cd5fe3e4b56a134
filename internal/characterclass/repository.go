// AngelaMos | 2026
// repository.go

package characterclass

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/rpg-backend/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]CharacterClass, error)
	GetByID(ctx context.Context, id int) (*CharacterClass, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const classColumns = `
	id, type, strength, agility, charisma, luck, created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]CharacterClass, error) {
	query := `SELECT` + classColumns + `
		FROM character_classes
		ORDER BY id`

	var classes []CharacterClass
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list character classes: %w", err)
	}

	return classes, nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id int,
) (*CharacterClass, error) {
	query := `SELECT` + classColumns + `
		FROM character_classes
		WHERE id = $1`

	var class CharacterClass
	err := r.db.GetContext(ctx, &class, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get character class: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get character class: %w", err)
	}

	return &class, nil
}
