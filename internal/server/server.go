package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/property-pnl/internal/fx"
	"github.com/iwvelando/property-pnl/internal/valuation"
	"github.com/iwvelando/property-pnl/pkg/constants"
	"github.com/iwvelando/property-pnl/pkg/labels"
	"github.com/iwvelando/property-pnl/pkg/output"
	"github.com/iwvelando/property-pnl/pkg/stampduty"
	"github.com/iwvelando/property-pnl/pkg/validation"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

// Quote source used when the request supplies its own rate.
const sourceInput = "input"

type contextKey string

const requestIDKey contextKey = "requestID"

type handler struct {
	logger         *zap.Logger
	resolver       *fx.Resolver
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler that serves the valuation API. A nil
// resolver answers every rate lookup with the default rate.
func NewHandler(logger *zap.Logger, resolver *fx.Resolver, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if resolver == nil {
		resolver = fx.NewResolver(logger, nil, nil, constants.DefaultFallbackRate)
	}

	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, resolver: resolver, maxRequestSize: maxRequestSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Full valuation with rows and CSV
	mux.HandleFunc("/api/calculate", h.handleCalculate)

	// CSV download of the same valuation
	mux.HandleFunc("/api/export", h.handleExport)

	// Exchange rate lookup
	mux.HandleFunc("/api/rate", h.handleRate)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return requestIDMiddleware(mux)
}

// requestIDMiddleware propagates a caller supplied X-Request-ID or assigns a
// new one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestID returns the identifier assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type calculateRequest struct {
	Input   valuation.PurchaseInput `json:"input"`
	Options requestOptions          `json:"options"`
}

type requestOptions struct {
	LoanBasis                string  `json:"loanBasis"`
	StampDutyPolicy          string  `json:"stampDutyPolicy"`
	FlatStampDutyRatePercent float64 `json:"flatStampDutyRatePercent"`
	Language                 string  `json:"language"`
	Currency                 string  `json:"currency"`
	ManualRate               float64 `json:"manualRate"`
}

type calculateResponse struct {
	Result    valuation.Result `json:"result"`
	Rows      []output.Row     `json:"rows"`
	CSV       string           `json:"csv"`
	FX        fx.Quote         `json:"fx"`
	Warnings  []string         `json:"warnings,omitempty"`
	RequestID string           `json:"requestId"`
	Duration  string           `json:"duration"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// calculation is a fully evaluated request.
type calculation struct {
	input    valuation.PurchaseInput
	result   valuation.Result
	report   output.Report
	quote    fx.Quote
	warnings []string
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	calc, ok := h.calculate(w, r, op)
	if !ok {
		return
	}
	elapsed := time.Since(start)

	response := calculateResponse{
		Result:    calc.result,
		Rows:      calc.report.Rows,
		CSV:       output.CsvString(calc.report),
		FX:        calc.quote,
		Warnings:  calc.warnings,
		RequestID: RequestID(r.Context()),
		Duration:  elapsed.String(),
	}

	h.logger.Info("valuation computed",
		zap.String("op", op),
		zap.String("requestId", response.RequestID),
		zap.Float64("monthlyProfit", calc.result.MonthlyProfit),
		zap.Bool("fallbackRate", calc.quote.Fallback),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	calc, ok := h.calculate(w, r, op)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", constants.ExportFileName))
	w.WriteHeader(http.StatusOK)
	if err := output.CsvFormat(w, calc.report); err != nil {
		h.logger.Error("failed to write CSV export",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) handleRate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	base := strings.ToUpper(query.Get("base"))
	if base == "" {
		base = constants.DefaultForeignCurrency
	}
	quote := strings.ToUpper(query.Get("quote"))
	if quote == "" {
		quote = constants.HomeCurrency
	}
	for _, code := range []string{base, quote} {
		if err := validation.ValidateCurrencyCode(code); err != nil {
			h.respondError(w, r, http.StatusBadRequest, err.Error(), "", "server.handleRate")
			return
		}
	}

	h.writeJSON(w, http.StatusOK, h.resolver.Resolve(r.Context(), base, quote))
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// calculate decodes the request, resolves the rate and runs the valuation.
// On failure the error response has already been written.
func (h *handler) calculate(w http.ResponseWriter, r *http.Request, op string) (calculation, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), "", op)
			return calculation{}, false
		}
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), "", op)
		return calculation{}, false
	}

	opts, err := req.Options.valuationOptions()
	if err != nil {
		field, _ := valuation.FieldOf(err)
		h.respondError(w, r, http.StatusBadRequest, err.Error(), field, op)
		return calculation{}, false
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Options.Currency))
	if currency == "" {
		currency = constants.DefaultForeignCurrency
	}
	if err := validation.ValidateCurrencyCode(currency); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), "currency", op)
		return calculation{}, false
	}

	input := req.Input
	quote := fx.Quote{Base: currency, Quote: constants.HomeCurrency, Rate: input.ForeignCurrencyRate, Source: sourceInput}
	if input.ForeignCurrencyRate == 0 {
		quote = h.resolver.WithManualRate(req.Options.ManualRate).Resolve(r.Context(), currency, constants.HomeCurrency)
		input.ForeignCurrencyRate = quote.Rate
	}

	result, err := valuation.Calculate(input, opts)
	if err != nil {
		field, _ := valuation.FieldOf(err)
		h.respondError(w, r, http.StatusBadRequest, err.Error(), field, op)
		return calculation{}, false
	}

	lang := req.Options.Language
	if lang == "" {
		lang = r.Header.Get("Accept-Language")
	}
	report := output.NewReport(input, result, labels.For(lang), currency)
	if quote.Fallback {
		report = report.WithFallbackWarning()
	}

	validator := &validation.InputValidator{Input: input, LoanBasis: opts.LoanBasis}
	warnings := validator.ValidateAll()
	if quote.Warning != "" {
		warnings = append(warnings, quote.Warning)
	}

	return calculation{
		input:    input,
		result:   result,
		report:   report,
		quote:    quote,
		warnings: warnings,
	}, true
}

func (o requestOptions) valuationOptions() (valuation.Options, error) {
	opts := valuation.DefaultOptions()
	if o.LoanBasis != "" {
		opts.LoanBasis = o.LoanBasis
	}
	if o.StampDutyPolicy != "" {
		policy, err := stampduty.ByName(o.StampDutyPolicy, o.FlatStampDutyRatePercent)
		if err != nil {
			return valuation.Options{}, valuation.NewInvalidInputError("stampDutyPolicy", o.StampDutyPolicy, err.Error())
		}
		opts.StampDutyPolicy = policy
	}
	if o.ManualRate < 0 {
		return valuation.Options{}, valuation.NewInvalidInputError("manualRate", o.ManualRate, "must not be negative")
	}
	if err := opts.Validate(); err != nil {
		return valuation.Options{}, err
	}
	return opts, nil
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg, field, op string) {
	requestID := RequestID(r.Context())
	h.logger.Error("valuation request failed",
		zap.String("op", op),
		zap.String("requestId", requestID),
		zap.Int("status", status),
		zap.String("field", field),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, errorResponse{Error: msg, Field: field, RequestID: requestID})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
