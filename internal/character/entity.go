// AngelaMos | 2026
// entity.go

package character

import (
	"time"

	"github.com/carterperez-dev/templates/rpg-backend/internal/characterclass"
)

type Character struct {
	ID               int64     `db:"id"`
	UserID           string    `db:"user_id"`
	CharacterClassID int       `db:"character_class_id"`
	Name             string    `db:"name"`
	Strength         int       `db:"strength"`
	Agility          int       `db:"agility"`
	Charisma         int       `db:"charisma"`
	Luck             int       `db:"luck"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (c *Character) OwnedBy(userID string) bool {
	return c.UserID == userID
}

// WithClass pairs a character with its resolved class.
type WithClass struct {
	Character *Character
	Class     *characterclass.CharacterClass
}
