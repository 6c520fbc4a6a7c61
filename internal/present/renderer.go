package present

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/ppiankov/factcheck/internal/errors"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/rs/zerolog"
)

// State is the phase of a Renderer
type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateRendered State = "rendered"
	StateErrored  State = "errored"
)

// Token identifies one submission; tokens increase monotonically per renderer
type Token uint64

// Notice is the user-facing message of a failed submission
type Notice struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Retryable   bool   `json:"retryable"`
	Dismissible bool   `json:"dismissible"` // false for the persistent configuration banner
}

// Snapshot is a consistent copy of the renderer state
type Snapshot struct {
	State  State                  `json:"state"`
	Token  Token                  `json:"token"`
	Result *model.FactCheckResult `json:"result,omitempty"`
	View   *View                  `json:"view,omitempty"`
	Notice *Notice                `json:"notice,omitempty"`
}

// Renderer owns the displayed result and the in-flight request token.
// Both change only through Begin, Resolve, Fail and Reset.
type Renderer struct {
	mu      sync.Mutex
	state   State
	token   Token
	result  *model.FactCheckResult
	view    *View
	notice  *Notice
	cancel  context.CancelFunc // Cancels the in-flight submission
	logger  *zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewRenderer creates an idle renderer; logger and metrics may be nil
func NewRenderer(logger *zerolog.Logger, m *metrics.Metrics) *Renderer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Renderer{
		state:   StateIdle,
		logger:  logger,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Begin starts a new submission: the renderer returns to loading immediately and
// every earlier token becomes stale
func (r *Renderer) Begin() Token {
	return r.begin(nil)
}

func (r *Renderer) begin(cancel context.CancelFunc) Token {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}
	r.token++
	r.state = StateLoading
	r.result = nil
	r.view = nil
	r.notice = nil
	r.cancel = cancel
	return r.token
}

// Resolve renders res if tok is the latest submission. Stale responses are
// discarded and reported as not accepted.
func (r *Renderer) Resolve(tok Token, res *model.FactCheckResult) bool {
	if res == nil {
		return r.Fail(tok, apperrors.New(apperrors.CodeInternal, "the analysis returned no result"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.acceptLocked(tok) {
		return false
	}
	r.state = StateRendered
	r.result = res.Clone()
	r.view = BuildView(r.result)
	r.notice = nil
	r.cancel = nil
	return true
}

// Fail renders the safe fallback for err if tok is the latest submission
func (r *Renderer) Fail(tok Token, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.acceptLocked(tok) {
		return false
	}

	notice := NoticeFor(err)
	r.state = StateErrored
	r.result = model.ErrorResult(notice.Message, r.now())
	r.view = BuildView(r.result)
	r.notice = &notice
	r.cancel = nil

	r.logger.Warn().Err(err).Uint64("token", uint64(tok)).Str("code", notice.Code).Msg("analysis failed")
	return true
}

func (r *Renderer) acceptLocked(tok Token) bool {
	if tok == r.token && r.state == StateLoading {
		return true
	}
	r.metrics.StaleResponse()
	r.logger.Debug().
		Uint64("token", uint64(tok)).
		Uint64("current", uint64(r.token)).
		Str("state", string(r.state)).
		Msg("discarded stale response")
	return false
}

// Reset returns to idle, abandoning any in-flight submission
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.token++
	r.state = StateIdle
	r.result = nil
	r.view = nil
	r.notice = nil
}

// Snapshot returns a copy of the current state
func (r *Renderer) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Snapshot{State: r.state, Token: r.token}
	if r.result != nil {
		s.Result = r.result.Clone()
	}
	if r.view != nil {
		v := *r.view
		s.View = &v
	}
	if r.notice != nil {
		n := *r.notice
		s.Notice = &n
	}
	return s
}

// Submit runs analyze as a new submission. Starting a newer submission cancels the
// context of this one; whatever it returns afterwards is discarded.
// The returned snapshot is the state right after this submission settled.
func (r *Renderer) Submit(ctx context.Context, analyze func(context.Context) (*model.FactCheckResult, error)) (Snapshot, bool) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	tok := r.begin(cancel)

	res, err := analyze(runCtx)

	var accepted bool
	if err != nil {
		accepted = r.Fail(tok, err)
	} else {
		accepted = r.Resolve(tok, res)
	}
	return r.Snapshot(), accepted
}

// NoticeFor maps an error onto the user-facing notice of the error taxonomy
func NoticeFor(err error) Notice {
	n := Notice{
		Code:        apperrors.Code(err),
		Message:     apperrors.Message(err),
		Dismissible: true,
	}
	if n.Message == "" {
		n.Message = "The analysis failed."
	}

	switch {
	case apperrors.IsNetwork(err):
		n.Retryable = true
	case apperrors.IsConfiguration(err):
		n.Dismissible = false
	}
	return n
}
