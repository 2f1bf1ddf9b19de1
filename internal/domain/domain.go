package domain

import (
	"github.com/yungbote/brawltrack-backend/internal/domain/account"
)

type Account = account.Account
type AccountToken = account.AccountToken
type AccountView = account.View

var NewAccountView = account.NewView

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{
		&Account{},
		&AccountToken{},
	}
}

type AccountWriteSet = account.WriteSet
