package repository

import "loan-predictor/domain"

// TokenStore persists at most one session across process restarts. Save
// replaces any previous session; there is never a window with two valid
// tokens on disk.
type TokenStore interface {
	Load() (domain.Session, bool)
	Save(session domain.Session) error
	Clear() error
}
