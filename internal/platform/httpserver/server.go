package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	savingsvault "goalvault/contexts/custody/savings-vault"
	vaulterrors "goalvault/contexts/custody/savings-vault/domain/errors"
	vaulthttp "goalvault/contexts/custody/savings-vault/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "goalvault/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	vaults savingsvault.Module
}

func New(vaults savingsvault.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		vaults: vaults,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/vaults", s.handleCreateVault)
	s.mux.HandleFunc("GET /v1/vaults/{vault_id}", s.handleGetVault)
	s.mux.HandleFunc("POST /v1/vaults/{vault_id}/deposit", s.handleDeposit)
	s.mux.HandleFunc("POST /v1/vaults/{vault_id}/withdraw", s.handleWithdraw)
	s.mux.HandleFunc("POST /v1/vaults/{vault_id}/lock", s.handleLock)
}

func (s *Server) handleCreateVault(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeVaultError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req vaulthttp.CreateVaultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVaultError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.vaults.Handler.CreateVaultHandler(r.Context(), userID, req)
	if err != nil {
		writeVaultDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetVault(w http.ResponseWriter, r *http.Request) {
	vaultID := r.PathValue("vault_id")
	resp, err := s.vaults.Handler.GetVaultHandler(r.Context(), vaultID)
	if err != nil {
		writeVaultDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeVaultError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req vaulthttp.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVaultError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.vaults.Handler.DepositHandler(r.Context(), userID, r.PathValue("vault_id"), req)
	if err != nil {
		writeVaultDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeVaultError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req vaulthttp.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVaultError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.vaults.Handler.WithdrawHandler(r.Context(), userID, r.PathValue("vault_id"), req)
	if err != nil {
		writeVaultDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeVaultError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req vaulthttp.LockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVaultError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.vaults.Handler.LockHandler(r.Context(), userID, r.PathValue("vault_id"), req)
	if err != nil {
		writeVaultDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVaultDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, vaulterrors.ErrVaultNotFound):
		writeVaultError(w, http.StatusNotFound, "vault_not_found", err.Error())
	case errors.Is(err, vaulterrors.ErrAlreadyExists):
		writeVaultError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, vaulterrors.ErrNotOwner):
		writeVaultError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, vaulterrors.ErrWrongCustodyAccount):
		writeVaultError(w, http.StatusConflict, "wrong_custody_account", err.Error())
	case errors.Is(err, vaulterrors.ErrWrongAsset):
		writeVaultError(w, http.StatusUnprocessableEntity, "wrong_asset", err.Error())
	case errors.Is(err, vaulterrors.ErrTokensLocked):
		writeVaultError(w, http.StatusLocked, "tokens_locked", err.Error())
	case errors.Is(err, vaulterrors.ErrInvalidLockDuration):
		writeVaultError(w, http.StatusUnprocessableEntity, "invalid_lock_duration", err.Error())
	case errors.Is(err, vaulterrors.ErrInsufficientFunds):
		writeVaultError(w, http.StatusUnprocessableEntity, "insufficient_funds", err.Error())
	case errors.Is(err, vaulterrors.ErrAccountNotFound):
		writeVaultError(w, http.StatusNotFound, "account_not_found", err.Error())
	case errors.Is(err, vaulterrors.ErrServiceUnavailable):
		writeVaultError(w, http.StatusServiceUnavailable, "service_unavailable", err.Error())
	case errors.Is(err, vaulterrors.ErrInvalidInput):
		writeVaultError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		writeVaultError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVaultError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, vaulthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
