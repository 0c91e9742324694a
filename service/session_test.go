package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"loan-predictor/domain"
	"loan-predictor/repository"
)

type fakeAuthAPI struct {
	mu          sync.Mutex
	loginCalls  int
	signupCalls int
	session     domain.Session
	err         error
}

func (f *fakeAuthAPI) Login(_ context.Context, username, password string) (domain.Session, error) {
	f.mu.Lock()
	f.loginCalls++
	f.mu.Unlock()
	if f.err != nil {
		return domain.Session{}, f.err
	}
	return f.session, nil
}

func (f *fakeAuthAPI) Signup(_ context.Context, email, username, password string) (domain.Session, error) {
	f.mu.Lock()
	f.signupCalls++
	f.mu.Unlock()
	if f.err != nil {
		return domain.Session{}, f.err
	}
	return f.session, nil
}

func testSession() domain.Session {
	return domain.Session{
		Token: "tok-123",
		User:  domain.User{Username: "maria", Email: "maria@example.com"},
	}
}

func TestLoginSuccessPersistsToken(t *testing.T) {
	authAPI := &fakeAuthAPI{session: testSession()}
	tokens := repository.NewMemoryTokenStore()
	store := NewSessionStore(authAPI, tokens, zap.NewNop())

	require.NoError(t, store.Login(context.Background(), "maria", "hunter2"))

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, StateAuthenticated, store.State())

	token, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-123", token)

	persisted, ok := tokens.Load()
	require.True(t, ok)
	assert.Equal(t, "tok-123", persisted.Token)
}

func TestLoginFailureStaysAnonymous(t *testing.T) {
	authAPI := &fakeAuthAPI{err: &domain.AuthError{Detail: "bad credentials"}}
	tokens := repository.NewMemoryTokenStore()
	store := NewSessionStore(authAPI, tokens, zap.NewNop())

	err := store.Login(context.Background(), "maria", "wrong")

	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "bad credentials", authErr.Detail)
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, StateAnonymous, store.State())

	_, ok := tokens.Load()
	assert.False(t, ok)
}

func TestLoginReplacesPreviousToken(t *testing.T) {
	authAPI := &fakeAuthAPI{session: testSession()}
	tokens := repository.NewMemoryTokenStore()
	require.NoError(t, tokens.Save(domain.Session{Token: "old-token", User: domain.User{Username: "old"}}))
	store := NewSessionStore(authAPI, tokens, zap.NewNop())

	require.NoError(t, store.Login(context.Background(), "maria", "hunter2"))

	token, _ := store.Token()
	assert.Equal(t, "tok-123", token)
	persisted, _ := tokens.Load()
	assert.Equal(t, "tok-123", persisted.Token)
}

func TestSignupValidatesEmailBeforeNetwork(t *testing.T) {
	authAPI := &fakeAuthAPI{session: testSession()}
	store := NewSessionStore(authAPI, repository.NewMemoryTokenStore(), zap.NewNop())

	err := store.Signup(context.Background(), "not-an-email", "maria", "hunter2")

	var violations domain.FieldViolations
	require.ErrorAs(t, err, &violations)
	assert.Contains(t, violations, "email")
	assert.Zero(t, authAPI.signupCalls, "invalid email must not reach the network")
	assert.False(t, store.IsAuthenticated())
}

func TestSignupSuccess(t *testing.T) {
	authAPI := &fakeAuthAPI{session: testSession()}
	store := NewSessionStore(authAPI, repository.NewMemoryTokenStore(), zap.NewNop())

	require.NoError(t, store.Signup(context.Background(), "maria@example.com", "maria", "hunter2"))

	assert.True(t, store.IsAuthenticated())
	user, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "maria", user.Username)
}

func TestLogoutClearsPersistedTokenWithoutNetwork(t *testing.T) {
	authAPI := &fakeAuthAPI{session: testSession()}
	tokens := repository.NewMemoryTokenStore()
	store := NewSessionStore(authAPI, tokens, zap.NewNop())
	require.NoError(t, store.Login(context.Background(), "maria", "hunter2"))

	calls := authAPI.loginCalls
	store.Logout()

	assert.False(t, store.IsAuthenticated())
	_, ok := tokens.Load()
	assert.False(t, ok)
	assert.Equal(t, calls, authAPI.loginCalls, "logout must not call the backend")

	_, ok = store.Token()
	assert.False(t, ok)
}

func TestHandleUnauthorizedClearsSession(t *testing.T) {
	tokens := repository.NewMemoryTokenStore()
	require.NoError(t, tokens.Save(testSession()))
	store := NewSessionStore(&fakeAuthAPI{}, tokens, zap.NewNop())
	require.True(t, store.IsAuthenticated(), "persisted session should restore")

	store.HandleUnauthorized()

	assert.False(t, store.IsAuthenticated())
	_, ok := tokens.Load()
	assert.False(t, ok)
}

func TestHandleUnauthorizedIsIdempotent(t *testing.T) {
	tokens := repository.NewMemoryTokenStore()
	require.NoError(t, tokens.Save(testSession()))
	store := NewSessionStore(&fakeAuthAPI{}, tokens, zap.NewNop())

	var mu sync.Mutex
	expiries := 0
	store.OnExpired(func() {
		mu.Lock()
		expiries++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.HandleUnauthorized()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, expiries, "concurrent 401s must collapse to one expiry")
	assert.False(t, store.IsAuthenticated())
}

func TestHandleUnauthorizedWhenAnonymousIsNoop(t *testing.T) {
	store := NewSessionStore(&fakeAuthAPI{}, repository.NewMemoryTokenStore(), zap.NewNop())

	fired := false
	store.OnExpired(func() { fired = true })
	store.HandleUnauthorized()

	assert.False(t, fired)
	assert.Equal(t, StateAnonymous, store.State())
}

func TestSessionEndFiresOnLogoutAndExpiry(t *testing.T) {
	tokens := repository.NewMemoryTokenStore()
	require.NoError(t, tokens.Save(testSession()))
	store := NewSessionStore(&fakeAuthAPI{session: testSession()}, tokens, zap.NewNop())

	ended := 0
	store.OnSessionEnd(func() { ended++ })

	store.HandleUnauthorized()
	assert.Equal(t, 1, ended)

	require.NoError(t, store.Login(context.Background(), "maria", "hunter2"))
	store.Logout()
	assert.Equal(t, 2, ended)
}
