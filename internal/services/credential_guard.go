package services

import (
	"errors"

	types "github.com/yungbote/brawltrack-backend/internal/domain"
	"github.com/yungbote/brawltrack-backend/internal/platform/passhash"
)

// CredentialGuard turns a proposed write into one that is safe to persist: a
// plaintext password present in the write is replaced by its bcrypt hash before
// the write reaches the repository. Writes without a password pass unchanged.
type CredentialGuard struct {
	hasher *passhash.Hasher
}

func NewCredentialGuard(hasher *passhash.Hasher) *CredentialGuard {
	if hasher == nil {
		hasher = passhash.New(0)
	}
	return &CredentialGuard{hasher: hasher}
}

// PrepareCreate requires a password and derives it.
func (g *CredentialGuard) PrepareCreate(ws types.AccountWriteSet) (types.AccountWriteSet, error) {
	if !ws.HasPassword() {
		return types.AccountWriteSet{}, newValidationError("password", "is required")
	}
	return g.derive(ws)
}

// PrepareUpdate derives the password if and only if the write carries one.
func (g *CredentialGuard) PrepareUpdate(ws types.AccountWriteSet) (types.AccountWriteSet, error) {
	if !ws.HasPassword() {
		return ws, nil
	}
	return g.derive(ws)
}

// Verify checks plain against a stored hash.
func (g *CredentialGuard) Verify(derived, plain string) error {
	return g.hasher.Compare(derived, plain)
}

func (g *CredentialGuard) derive(ws types.AccountWriteSet) (types.AccountWriteSet, error) {
	hash, err := g.hasher.Hash(*ws.Password)
	if err != nil {
		ve := &ValidationError{Err: err}
		switch {
		case errors.Is(err, passhash.ErrEmpty):
			ve.add("password", "is required")
		case errors.Is(err, passhash.ErrTooLong):
			ve.add("password", "must be at most 72 bytes")
		default:
			ve.add("password", "could not be processed")
		}
		return types.AccountWriteSet{}, ve
	}
	out := ws
	out.Password = &hash
	return out, nil
}
