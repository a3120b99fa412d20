package flow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"csvdesk/internal/api"
	"csvdesk/internal/logging"
	"csvdesk/internal/session"
	"csvdesk/internal/table"
)

const (
	MsgAnalyzeFailed  = "Analysis failed. Please try again."
	MsgValidateFailed = "Validation failed. Please try again."
)

// Checker runs the backend's analysis and validation over a row set.
type Checker interface {
	Analyze(ctx context.Context, rows []table.Row) (*api.AnalyzeResult, error)
	Validate(ctx context.Context, rows []table.Row) (*api.ValidateResult, error)
}

// Analysis sends the working set for analysis or validation and stores the
// report next to the rows. Rows are never changed.
type Analysis struct {
	lifecycle

	client Checker
	csv    *session.WorkingSet
	log    *slog.Logger

	analyzing  *inflight
	validating *inflight

	mu     sync.Mutex
	errMsg string
}

func NewAnalysis(client Checker, csv *session.WorkingSet) *Analysis {
	return &Analysis{
		client:     client,
		csv:        csv,
		log:        logging.New("analysis"),
		analyzing:  newInflight(),
		validating: newInflight(),
	}
}

// Analyze requests the analysis report for the current rows.
func (a *Analysis) Analyze(ctx context.Context) (*api.AnalysisReport, error) {
	if !a.analyzing.begin() {
		return nil, ErrBusy
	}
	defer a.analyzing.end()

	rows, err := a.start()
	if err != nil {
		return nil, err
	}
	res, err := a.client.Analyze(ctx, rows)
	if err == nil && (!res.Success || res.Analysis == nil) {
		err = errors.New(MsgAnalyzeFailed)
	}
	if err != nil {
		a.fail(err, MsgAnalyzeFailed)
		return nil, err
	}
	a.csv.SetAnalysis(res.Analysis)
	a.log.Info("analysis complete", "rows", res.Analysis.TotalRows, "columns", res.Analysis.TotalColumns)
	return res.Analysis, nil
}

// Validate requests the validation report for the current rows.
func (a *Analysis) Validate(ctx context.Context) (*api.ValidationReport, error) {
	if !a.validating.begin() {
		return nil, ErrBusy
	}
	defer a.validating.end()

	rows, err := a.start()
	if err != nil {
		return nil, err
	}
	res, err := a.client.Validate(ctx, rows)
	if err == nil && (!res.Success || res.Validation == nil) {
		err = errors.New(MsgValidateFailed)
	}
	if err != nil {
		a.fail(err, MsgValidateFailed)
		return nil, err
	}
	a.csv.SetValidation(res.Validation)
	a.log.Info("validation complete", "has_data", res.Validation.HasData)
	return res.Validation, nil
}

// Analyzing reports whether an analysis request is in flight.
func (a *Analysis) Analyzing() bool { return a.analyzing.busy() }

// Validating reports whether a validation request is in flight.
func (a *Analysis) Validating() bool { return a.validating.busy() }

// ErrorText returns the last failure message.
func (a *Analysis) ErrorText() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.errMsg
}

func (a *Analysis) start() ([]table.Row, error) {
	rows := a.csv.Rows()
	if len(rows) == 0 {
		a.setError(MsgNoData)
		return nil, invalid(MsgNoData)
	}
	a.setError("")
	return rows, nil
}

func (a *Analysis) fail(err error, fallback string) {
	a.log.Warn("request failed", "error", err)
	if !a.Mounted() {
		return
	}
	msg := api.Message(err)
	if msg == "" {
		msg = fallback
	}
	a.setError(msg)
}

func (a *Analysis) setError(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errMsg = msg
}
