package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"hermes/internal/services/sentiment"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// Query parameter bounds for GET /sentiment
const (
	maxTickerLength     = 10
	minLookbackDays     = 1
	maxLookbackDays     = 14
	defaultLookbackDays = 5
	minLimit            = 1
	maxLimit            = 50
	defaultLimit        = 10
)

// SentimentHandler serves GET /sentiment
type SentimentHandler struct {
	svc *sentiment.Service
	log *logger.Logger
}

// NewSentimentHandler creates the sentiment endpoint handler
func NewSentimentHandler(svc *sentiment.Service, log *logger.Logger) *SentimentHandler {
	return &SentimentHandler{svc: svc, log: log}
}

// HandleSentiment parses the query, runs the analysis and writes the
// JSON result
func (h *SentimentHandler) HandleSentiment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, err := parseSentimentQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Analyze(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, context.Canceled):
			// Client went away; nothing left to write
		default:
			h.log.Errorw("sentiment analysis failed",
				"ticker", req.Ticker,
				"error", err,
			)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// parseSentimentQuery validates query parameters and applies defaults
func parseSentimentQuery(q url.Values) (sentiment.Request, error) {
	req := sentiment.Request{
		LookbackDays:      defaultLookbackDays,
		Limit:             defaultLimit,
		IncludeRationales: true,
	}

	ticker := strings.ToUpper(strings.TrimSpace(q.Get("ticker")))
	if ticker == "" {
		return req, errors.NewValidationError("ticker", "is required", ticker)
	}
	if len(ticker) > maxTickerLength {
		return req, errors.NewValidationError("ticker", "must be at most 10 characters", ticker)
	}
	req.Ticker = ticker

	if raw := q.Get("lookback_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < minLookbackDays || days > maxLookbackDays {
			return req, errors.NewValidationError("lookback_days", "must be an integer between 1 and 14", raw)
		}
		req.LookbackDays = days
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < minLimit || limit > maxLimit {
			return req, errors.NewValidationError("limit", "must be an integer between 1 and 50", raw)
		}
		req.Limit = limit
	}

	if raw := q.Get("include_rationales"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return req, errors.NewValidationError("include_rationales", "must be a boolean", raw)
		}
		req.IncludeRationales = include
	}

	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
