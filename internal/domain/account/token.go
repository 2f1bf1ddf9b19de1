package account

import (
	"time"

	"github.com/google/uuid"
)

// AccountToken is one issued access token. Deleting the row revokes the token.
type AccountToken struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID   uuid.UUID `gorm:"type:uuid;index;not null;column:account_id" json:"account_id"`
	Account     *Account  `gorm:"constraint:OnDelete:CASCADE;foreignKey:AccountID;references:ID" json:"-"`
	AccessToken string    `gorm:"uniqueIndex;not null;column:access_token" json:"-"`
	ExpiresAt   time.Time `gorm:"not null;column:expires_at" json:"expires_at"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (AccountToken) TableName() string { return "account_token" }

func (t *AccountToken) Expired(now time.Time) bool {
	return t == nil || !t.ExpiresAt.After(now)
}
