package account

import (
	"time"

	"github.com/google/uuid"
)

// View is the only shape an account leaves the service in.
type View struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	PlayerTags []string  `json:"player_tags"`
	ClubTags   []string  `json:"club_tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewView(a *Account) *View {
	if a == nil {
		return nil
	}
	players, clubs := a.Tags()
	return &View{
		ID:         a.ID,
		Email:      a.Email,
		PlayerTags: players,
		ClubTags:   clubs,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
