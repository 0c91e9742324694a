package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"loan-predictor/domain"
)

// PredictAPI is the slice of the backend client the predictor needs.
type PredictAPI interface {
	Predict(ctx context.Context, token string, app domain.LoanApplication) (domain.PredictionResult, error)
}

// Outcome pairs the backend's result with the client-side classification.
type Outcome struct {
	Result domain.PredictionResult
	Risk   domain.RiskAssessment
}

// Predictor owns submission ordering. Each Submit cancels the previous
// in-flight request and bumps a generation counter; a response whose
// generation is no longer current is discarded, so a slow stale request can
// never overwrite a newer result. There is never more than one request in
// flight.
type Predictor struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	latest *Outcome

	api        PredictAPI
	sessions   *SessionStore
	classifier *RiskClassifier
	logger     *zap.Logger
}

func NewPredictor(api PredictAPI, sessions *SessionStore, classifier *RiskClassifier, logger *zap.Logger) *Predictor {
	p := &Predictor{
		api:        api,
		sessions:   sessions,
		classifier: classifier,
		logger:     logger,
	}
	// A session ending for any reason invalidates whatever is in flight.
	sessions.OnSessionEnd(p.CancelInFlight)
	return p
}

// Submit sends one validated application. On a 401 the session store is told
// to invalidate before the error surfaces. No automatic retry: a failure is
// only retried by the user submitting again.
func (p *Predictor) Submit(ctx context.Context, app domain.LoanApplication) (Outcome, error) {
	token, ok := p.sessions.Token()
	if !ok {
		return Outcome{}, domain.ErrNotAuthenticated
	}

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.gen++
	gen := p.gen
	p.mu.Unlock()
	defer cancel()

	result, err := p.api.Predict(ctx, token, app)

	p.mu.Lock()
	current := gen == p.gen
	if current && p.cancel != nil {
		p.cancel = nil
	}
	p.mu.Unlock()

	if !current {
		// A newer submission took over; this result must not be applied.
		p.logger.Debug("discarding superseded prediction", zap.Uint64("generation", gen))
		return Outcome{}, domain.ErrSuperseded
	}

	if err != nil {
		if errors.Is(err, domain.ErrAuthExpired) {
			p.sessions.HandleUnauthorized()
		}
		return Outcome{}, err
	}

	outcome := Outcome{
		Result: result,
		Risk:   p.classifier.Classify(result.LoanPaidBackProbability),
	}

	p.mu.Lock()
	// Re-check: the session may have ended while we classified.
	if gen == p.gen {
		p.latest = &outcome
	}
	p.mu.Unlock()

	return outcome, nil
}

// CancelInFlight aborts any pending submission and invalidates its
// generation, so a late response is discarded. Called on logout, expiry, and
// when the form view goes away.
func (p *Predictor) CancelInFlight() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
	p.latest = nil
	p.mu.Unlock()
}

// Latest returns the most recently applied outcome, if any.
func (p *Predictor) Latest() (Outcome, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest == nil {
		return Outcome{}, false
	}
	return *p.latest, true
}
