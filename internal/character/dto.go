// AngelaMos | 2026
// dto.go

package character

import (
	"time"

	"github.com/carterperez-dev/templates/rpg-backend/internal/characterclass"
)

// CharacterRequest is the body of both create and update.
type CharacterRequest struct {
	CharacterClassID int    `json:"characterClassId" validate:"required,min=1"`
	Name             string `json:"name"             validate:"required,min=1,max=50"`
	Strength         int    `json:"strength"         validate:"min=0,max=100"`
	Agility          int    `json:"agility"          validate:"min=0,max=100"`
	Charisma         int    `json:"charisma"         validate:"min=0,max=100"`
	Luck             int    `json:"luck"             validate:"min=0,max=100"`
}

func (r CharacterRequest) apply(c *Character) {
	c.CharacterClassID = r.CharacterClassID
	c.Name = r.Name
	c.Strength = r.Strength
	c.Agility = r.Agility
	c.Charisma = r.Charisma
	c.Luck = r.Luck
}

type CharacterResponse struct {
	ID             int64                        `json:"id"`
	UserID         string                       `json:"userId"`
	Name           string                       `json:"name"`
	Strength       int                          `json:"strength"`
	Agility        int                          `json:"agility"`
	Charisma       int                          `json:"charisma"`
	Luck           int                          `json:"luck"`
	CharacterClass characterclass.ClassResponse `json:"characterClass"`
	CreatedAt      time.Time                    `json:"createdAt"`
	UpdatedAt      time.Time                    `json:"updatedAt"`
}

func ToCharacterResponse(v WithClass) CharacterResponse {
	c := v.Character
	return CharacterResponse{
		ID:             c.ID,
		UserID:         c.UserID,
		Name:           c.Name,
		Strength:       c.Strength,
		Agility:        c.Agility,
		Charisma:       c.Charisma,
		Luck:           c.Luck,
		CharacterClass: characterclass.ToClassResponse(v.Class),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func ToCharacterResponseList(views []WithClass) []CharacterResponse {
	out := make([]CharacterResponse, 0, len(views))
	for _, v := range views {
		out = append(out, ToCharacterResponse(v))
	}
	return out
}
