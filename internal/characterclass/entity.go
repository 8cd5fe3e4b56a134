// AngelaMos | 2026
// entity.go

package characterclass

import (
	"time"
)

// CharacterClass is one entry of the fixed class catalog. Its stats are the
// suggested starting values for a new character.
type CharacterClass struct {
	ID        int       `db:"id"`
	Type      string    `db:"type"`
	Strength  int       `db:"strength"`
	Agility   int       `db:"agility"`
	Charisma  int       `db:"charisma"`
	Luck      int       `db:"luck"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type ClassResponse struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Strength int    `json:"strength"`
	Agility  int    `json:"agility"`
	Charisma int    `json:"charisma"`
	Luck     int    `json:"luck"`
}

func ToClassResponse(c *CharacterClass) ClassResponse {
	return ClassResponse{
		ID:       c.ID,
		Type:     c.Type,
		Strength: c.Strength,
		Agility:  c.Agility,
		Charisma: c.Charisma,
		Luck:     c.Luck,
	}
}

func ToClassResponseList(classes []CharacterClass) []ClassResponse {
	out := make([]ClassResponse, 0, len(classes))
	for i := range classes {
		out = append(out, ToClassResponse(&classes[i]))
	}
	return out
}
