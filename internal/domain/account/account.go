package account

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Account is one registered user. Password only ever holds a bcrypt hash and
// is never serialized; responses go through View.
type Account struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Email      string                      `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password   string                      `gorm:"not null;column:password" json:"-"`
	PlayerTags datatypes.JSONSlice[string] `gorm:"column:player_tags" json:"player_tags"`
	ClubTags   datatypes.JSONSlice[string] `gorm:"column:club_tags" json:"club_tags"`
	CreatedAt  time.Time                   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time                   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string { return "account" }

// Tags returns copies of both tag lists.
func (a *Account) Tags() (players, clubs []string) {
	if a == nil {
		return []string{}, []string{}
	}
	return append([]string{}, a.PlayerTags...), append([]string{}, a.ClubTags...)
}
