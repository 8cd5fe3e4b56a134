// AngelaMos | 2026
// repository.go

package character

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/rpg-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, c *Character) error
	GetByID(ctx context.Context, id int64) (*Character, error)
	ListByUser(ctx context.Context, userID string) ([]Character, error)
	Update(ctx context.Context, c *Character) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const characterColumns = `
	id, user_id, character_class_id, name, strength, agility, charisma, luck,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, c *Character) error {
	query := `
		INSERT INTO characters
			(user_id, character_class_id, name, strength, agility, charisma, luck)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		c.UserID,
		c.CharacterClassID,
		c.Name,
		c.Strength,
		c.Agility,
		c.Charisma,
		c.Luck,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create character: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Character, error) {
	query := `SELECT` + characterColumns + `
		FROM characters
		WHERE id = $1`

	var c Character
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get character: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get character: %w", err)
	}

	return &c, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Character, error) {
	query := `SELECT` + characterColumns + `
		FROM characters
		WHERE user_id = $1
		ORDER BY id`

	var characters []Character
	if err := r.db.SelectContext(ctx, &characters, query, userID); err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}

	return characters, nil
}

func (r *repository) Update(ctx context.Context, c *Character) error {
	query := `
		UPDATE characters
		SET character_class_id = $2, name = $3, strength = $4, agility = $5,
			charisma = $6, luck = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &c.UpdatedAt, query,
		c.ID,
		c.CharacterClassID,
		c.Name,
		c.Strength,
		c.Agility,
		c.Charisma,
		c.Luck,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update character: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update character: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete character: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM characters`); err != nil {
		return 0, fmt.Errorf("count characters: %w", err)
	}
	return total, nil
}
