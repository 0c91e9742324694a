package service

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"loan-predictor/domain"
	"loan-predictor/repository"
)

// SessionState is the lifecycle stage of the current session.
type SessionState int

const (
	StateAnonymous SessionState = iota
	StateAuthenticating
	StateAuthenticated
	StateExpired
)

func (s SessionState) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// AuthAPI is the slice of the backend client the session store needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (domain.Session, error)
	Signup(ctx context.Context, email, username, password string) (domain.Session, error)
}

var emailValidator = validator.New()

// SessionStore owns the one bearer token and the identity it belongs to.
// State moves Anonymous → Authenticating → Authenticated, and Authenticated →
// Expired → Anonymous when the backend rejects the token mid-use. Everything
// else reads the token through here; only this type writes it.
type SessionStore struct {
	mu      sync.Mutex
	state   SessionState
	session domain.Session

	api       AuthAPI
	tokens    repository.TokenStore
	onExpired []func()
	onEnd     []func()
	logger    *zap.Logger
}

// NewSessionStore builds the store and restores a previously persisted
// session, if any, so a restart does not force a fresh login.
func NewSessionStore(api AuthAPI, tokens repository.TokenStore, logger *zap.Logger) *SessionStore {
	s := &SessionStore{
		state:  StateAnonymous,
		api:    api,
		tokens: tokens,
		logger: logger,
	}
	if session, ok := tokens.Load(); ok {
		s.session = session
		s.state = StateAuthenticated
		logger.Debug("restored persisted session", zap.String("username", session.User.Username))
	}
	return s
}

// OnExpired registers a callback fired once per forced expiry, so the
// presentation layer can prompt for re-authentication.
func (s *SessionStore) OnExpired(fn func()) {
	s.mu.Lock()
	s.onExpired = append(s.onExpired, fn)
	s.mu.Unlock()
}

// OnSessionEnd registers a callback fired whenever the session stops being
// valid, by logout or by expiry. Used to cancel in-flight work.
func (s *SessionStore) OnSessionEnd(fn func()) {
	s.mu.Lock()
	s.onEnd = append(s.onEnd, fn)
	s.mu.Unlock()
}

// Login authenticates and atomically replaces any previous session. On
// failure the store stays Anonymous and the backend's message comes back as
// an AuthError.
func (s *SessionStore) Login(ctx context.Context, username, password string) error {
	s.mu.Lock()
	s.state = StateAuthenticating
	s.mu.Unlock()

	session, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.mu.Lock()
		s.state = StateAnonymous
		s.mu.Unlock()
		return err
	}

	s.install(session)
	return nil
}

// Signup registers a new account. The email format is checked locally before
// any network call.
func (s *SessionStore) Signup(ctx context.Context, email, username, password string) error {
	if err := emailValidator.Var(email, "required,email"); err != nil {
		return domain.FieldViolations{"email": "must be a valid email address"}
	}

	s.mu.Lock()
	s.state = StateAuthenticating
	s.mu.Unlock()

	session, err := s.api.Signup(ctx, email, username, password)
	if err != nil {
		s.mu.Lock()
		s.state = StateAnonymous
		s.mu.Unlock()
		return err
	}

	s.install(session)
	return nil
}

func (s *SessionStore) install(session domain.Session) {
	s.mu.Lock()
	s.session = session
	s.state = StateAuthenticated
	err := s.tokens.Save(session)
	s.mu.Unlock()

	if err != nil {
		// The session is still usable for this process; only persistence
		// across restarts is lost.
		s.logger.Warn("failed to persist session", zap.Error(err))
	}
}

// Logout clears the session unconditionally. It involves no network call and
// cannot be blocked by one.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	s.session = domain.Session{}
	s.state = StateAnonymous
	err := s.tokens.Clear()
	ended := append([]func(){}, s.onEnd...)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("failed to clear persisted session", zap.Error(err))
	}
	for _, fn := range ended {
		fn()
	}
}

// HandleUnauthorized reacts to a 401 on an authenticated request: the token
// is gone, the store returns to Anonymous, and the expiry callbacks fire.
// Idempotent: concurrent 401s collapse to a single transition.
func (s *SessionStore) HandleUnauthorized() {
	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.mu.Unlock()
		return
	}
	s.state = StateExpired
	s.session = domain.Session{}
	err := s.tokens.Clear()
	expired := append([]func(){}, s.onExpired...)
	ended := append([]func(){}, s.onEnd...)
	s.state = StateAnonymous
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("failed to clear persisted session", zap.Error(err))
	}
	s.logger.Info("session expired, re-authentication required")
	for _, fn := range expired {
		fn()
	}
	for _, fn := range ended {
		fn()
	}
}

// IsAuthenticated reports whether a session token is currently held.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAuthenticated
}

// State returns the current lifecycle stage.
func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentUser returns the authenticated identity, if any.
func (s *SessionStore) CurrentUser() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return domain.User{}, false
	}
	return s.session.User, true
}

// Token returns the bearer token, if authenticated. Read-only access for
// the prediction and history callers.
func (s *SessionStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return "", false
	}
	return s.session.Token, true
}
