package http

import (
	"context"
	"net/http"
	"time"

	"compta/internal/core"
	"compta/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports whether the ledger store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := map[string]any{}
	status, code := "ready", http.StatusOK
	if err := s.backend.Ping(ctx); err != nil {
		checks["store"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}
	checks["rate_limiter"] = map[string]any{"active_clients": s.rateLimiter.ActiveClients()}

	NewJSONResponse().Status(code).Body(map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	accounts, err := s.backend.Accounts(ctx)
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}
	out := make([]accountJSON, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountJSON(a))
	}
	NewJSONResponse().Body(out).Write(w)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	a, err := s.backend.Account(ctx, core.ParseAccountCode(r.PathValue("code")))
	if err != nil {
		s.fail(w, r, "get_account", err)
		return
	}
	NewJSONResponse().Body(toAccountJSON(a)).Write(w)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	txs, err := s.backend.ListTransactions(ctx, f)
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}
	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionJSON(t))
	}
	NewJSONResponse().Body(out).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, "get_transaction", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	t, err := s.backend.Transaction(ctx, id)
	if err != nil {
		s.fail(w, r, "get_transaction", err)
		return
	}
	NewJSONResponse().Body(toTransactionJSON(t)).Write(w)
}

func (s *Server) handleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	draft, err := DecodeTransactionRequest(r)
	if err != nil {
		s.fail(w, r, log.OpRecord, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	t, err := s.backend.Record(ctx, draft)
	if err != nil {
		s.fail(w, r, log.OpRecord, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+itoa(t.ID)).
		Body(toTransactionJSON(t)).
		Write(w)
}

func (s *Server) handleReverseTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, log.OpReverse, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	t, err := s.backend.Reverse(ctx, id)
	if err != nil {
		s.fail(w, r, log.OpReverse, err)
		return
	}
	NewJSONResponse().Body(toTransactionJSON(t)).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	p, err := ParseMonthParams(r.URL.Query(), s.now())
	if err != nil {
		s.fail(w, r, log.OpSummary, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	ov, err := s.backend.MonthOverview(ctx, p.Year, p.Month)
	if err != nil {
		s.fail(w, r, log.OpSummary, err)
		return
	}
	NewJSONResponse().Body(toOverviewJSON(ov)).Write(w)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	st, err := s.backend.Stats(ctx)
	if err != nil {
		s.fail(w, r, "stats", err)
		return
	}
	NewJSONResponse().Body(toStatsJSON(st)).Write(w)
}

// fail writes the error response for err and logs server-side failures.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	resp := FromError(err)
	if resp.statusCode >= http.StatusInternalServerError {
		fields := log.NewFields().WithRequestID(log.RequestIDFromContext(r.Context()))
		s.errLog.LogError(r.Context(), "Ledger request failed", err, op, fields)
	}
	resp.Write(w)
}
