package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"loan-predictor/api"
	"loan-predictor/config"
	"loan-predictor/domain"
	"loan-predictor/repository"
	"loan-predictor/service"
)

// fakeBackend is a minimal in-process scoring backend.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-123",
			"user":  map[string]string{"username": creds["username"]},
		})
	})

	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"loan_paid_back_probability": 0.93,
			"loan_will_be_paid_back":     true,
			"risk_level":                 "Very Low Risk",
			"confidence":                 "Excellent",
		})
	})

	mux.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "loan_amount": 20000.0, "credit_score": 700, "default_probability": 0.07, "is_default_predicted": false},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testApp(t *testing.T, baseURL string) (*App, *repository.MemoryTokenStore) {
	t.Helper()
	logger := zap.NewNop()
	tokens := repository.NewMemoryTokenStore()
	client := api.NewClient(baseURL, 5*time.Second, logger)
	sessions := service.NewSessionStore(client, tokens, logger)
	classifier := service.NewRiskClassifierFromConfig(config.RiskConfig{
		SuccessMin: 0.90, InfoMin: 0.70, WarningMin: 0.50,
	})
	return &App{
		Sessions:  sessions,
		Form:      service.NewFormModel(),
		Predictor: service.NewPredictor(client, sessions, classifier, logger),
		History:   service.NewHistoryService(client, sessions, repository.NewMemoryCache(time.Minute), 50, logger),
		Client:    client,
		Logger:    logger,
	}, tokens
}

func run(root *cobra.Command, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func predictArgs() []string {
	return []string{
		"predict",
		"--annual-income", "75000",
		"--debt-to-income-ratio", "0.32",
		"--credit-score", "700",
		"--loan-amount", "20000",
		"--interest-rate", "7.5",
		"--gender", "Female",
		"--marital-status", "Married",
		"--education-level", "PhD",
		"--employment-status", "Employed",
		"--loan-purpose", "Home",
		"--grade-subgrade", "A2",
	}
}

func TestLoginPredictHistoryFlow(t *testing.T) {
	server := fakeBackend(t)
	app, tokens := testApp(t, server.URL)

	stdout, _, err := run(NewRootCmd(app), "login", "-u", "maria", "-p", "hunter2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in as maria")

	persisted, ok := tokens.Load()
	require.True(t, ok)
	assert.Equal(t, "tok-123", persisted.Token)

	stdout, _, err = run(NewRootCmd(app), predictArgs()...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Loan will be paid back")
	assert.Contains(t, stdout, "93%")
	assert.Contains(t, stdout, "[success]")

	stdout, _, err = run(NewRootCmd(app), "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "#1")
	assert.Contains(t, stdout, "Safe")
}

func TestLoginFailure(t *testing.T) {
	server := fakeBackend(t)
	app, _ := testApp(t, server.URL)

	_, _, err := run(NewRootCmd(app), "login", "-u", "maria", "-p", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect username or password")
	assert.False(t, app.Sessions.IsAuthenticated())
}

func TestPredictRequiresLogin(t *testing.T) {
	server := fakeBackend(t)
	app, _ := testApp(t, server.URL)

	_, _, err := run(NewRootCmd(app), predictArgs()...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestPredictReportsFieldViolations(t *testing.T) {
	server := fakeBackend(t)
	app, _ := testApp(t, server.URL)

	_, _, err := run(NewRootCmd(app), "login", "-u", "maria", "-p", "hunter2")
	require.NoError(t, err)

	args := predictArgs()
	for i, arg := range args {
		if arg == "700" {
			args[i] = "900"
		}
	}

	_, stderr, err := run(NewRootCmd(app), args...)
	require.Error(t, err)
	assert.Contains(t, stderr, "credit_score")
}

func TestExpiredTokenForcesReAuth(t *testing.T) {
	server := fakeBackend(t)
	app, tokens := testApp(t, server.URL)

	// Simulate a session persisted by a previous run that the backend no
	// longer accepts.
	require.NoError(t, tokens.Save(domain.Session{
		Token: "revoked-token",
		User:  domain.User{Username: "maria"},
	}))
	app.Sessions = service.NewSessionStore(app.Client, tokens, zap.NewNop())
	app.Predictor = service.NewPredictor(app.Client, app.Sessions, service.NewRiskClassifierFromConfig(config.RiskConfig{
		SuccessMin: 0.90, InfoMin: 0.70, WarningMin: 0.50,
	}), zap.NewNop())

	_, _, err := run(NewRootCmd(app), predictArgs()...)
	require.ErrorIs(t, err, domain.ErrAuthExpired)

	assert.False(t, app.Sessions.IsAuthenticated())
	_, ok := tokens.Load()
	assert.False(t, ok, "rejected token must be cleared")
}

func TestLogout(t *testing.T) {
	server := fakeBackend(t)
	app, tokens := testApp(t, server.URL)

	_, _, err := run(NewRootCmd(app), "login", "-u", "maria", "-p", "hunter2")
	require.NoError(t, err)

	stdout, _, err := run(NewRootCmd(app), "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged out")

	_, ok := tokens.Load()
	assert.False(t, ok)
}

func TestWhoami(t *testing.T) {
	server := fakeBackend(t)
	app, _ := testApp(t, server.URL)

	stdout, _, err := run(NewRootCmd(app), "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Not logged in")

	_, _, err = run(NewRootCmd(app), "login", "-u", "maria", "-p", "hunter2")
	require.NoError(t, err)

	stdout, _, err = run(NewRootCmd(app), "whoami")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "maria"))
}
