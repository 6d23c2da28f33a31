package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andrenbrandao/bank-accounts/pkg/domain"
	"github.com/andrenbrandao/bank-accounts/pkg/repositories"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type createAccountRequest struct {
	Owner   string          `json:"owner"`
	Balance decimal.Decimal `json:"balance"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type transferRequest struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type transferResponse struct {
	From repositories.AccountRecord `json:"from"`
	To   repositories.AccountRecord `json:"to"`
}

type bankResponse struct {
	Name     string `json:"name"`
	Accounts int    `json:"accounts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newServer(repo *repositories.AccountRepository, logger *zap.SugaredLogger) http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, otelhttp.WithRouteTag(pattern, h))
	}

	handle("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Server is running!\n"))
	})

	handle("GET /bank", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, bankResponse{
			Name:     repo.BankName(r.Context()),
			Accounts: len(repo.ListAccounts(r.Context())),
		})
	})

	handle("POST /accounts", func(w http.ResponseWriter, r *http.Request) {
		var req createAccountRequest
		if !decode(w, r, &req) {
			return
		}
		if req.Owner == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "owner is required"})
			return
		}
		rec, err := repo.CreateAccount(r.Context(), req.Owner, req.Balance)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	})

	handle("GET /accounts", func(w http.ResponseWriter, r *http.Request) {
		if owner := r.URL.Query().Get("owner"); owner != "" {
			rec, err := repo.FindByOwner(r.Context(), owner)
			if err != nil {
				writeError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, []repositories.AccountRecord{rec})
			return
		}
		writeJSON(w, http.StatusOK, repo.ListAccounts(r.Context()))
	})

	handle("GET /accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
		rec, err := repo.GetAccount(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	handle("POST /accounts/{id}/credit", func(w http.ResponseWriter, r *http.Request) {
		var req amountRequest
		if !decode(w, r, &req) {
			return
		}
		rec, err := repo.Deposit(r.Context(), r.PathValue("id"), req.Amount)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	handle("POST /accounts/{id}/debit", func(w http.ResponseWriter, r *http.Request) {
		var req amountRequest
		if !decode(w, r, &req) {
			return
		}
		rec, err := repo.Withdraw(r.Context(), r.PathValue("id"), req.Amount)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	handle("POST /transfers", func(w http.ResponseWriter, r *http.Request) {
		var req transferRequest
		if !decode(w, r, &req) {
			return
		}
		from, to, err := repo.Transfer(r.Context(), req.From, req.To, req.Amount)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, transferResponse{From: from, To: to})
	})

	return otelhttp.NewHandler(mux, "bank")
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

var errorStatus = []struct {
	err    error
	status int
}{
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrInsufficientFunds, http.StatusUnprocessableEntity},
	{domain.ErrInvalidAmount, http.StatusBadRequest},
	{domain.ErrSameAccount, http.StatusBadRequest},
}

// writeError answers with the domain error message only, never the wrapped
// context added by the repository.
func writeError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			writeJSON(w, e.status, errorResponse{Error: e.err.Error()})
			return
		}
	}
	logger.Errorw("unexpected error", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
