package unit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	savingsvault "goalvault/contexts/custody/savings-vault"
	httptransport "goalvault/contexts/custody/savings-vault/transport/http"
	"goalvault/internal/platform/httpserver"
)

func vaultTestServer(t *testing.T) (http.Handler, savingsvault.Module) {
	t.Helper()
	module := savingsvault.NewInMemoryModule(nil)
	server := httpserver.New(module, nil, ":0")
	return server.Handler(), module
}

func doJSON(t *testing.T, handler http.Handler, method string, path string, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestHTTPCreateVaultRequiresUserHeader(t *testing.T) {
	handler, _ := vaultTestServer(t)

	resp := doJSON(t, handler, http.MethodPost, "/v1/vaults", "", httptransport.CreateVaultRequest{
		TargetAmount: 1000,
		Asset:        "USDC",
	})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user header, got %d", resp.Code)
	}

	var errResp httptransport.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != "missing_user" {
		t.Fatalf("expected missing_user code, got %s", errResp.Code)
	}
}

func TestHTTPVaultLifecycleStatusCodes(t *testing.T) {
	handler, module := vaultTestServer(t)
	sourceRef := seedOwnerAccount(t, module, "user-http-1", "USDC", 2000)

	created := doJSON(t, handler, http.MethodPost, "/v1/vaults", "user-http-1", httptransport.CreateVaultRequest{
		TargetAmount: 1000,
		Asset:        "USDC",
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201 on create, got %d: %s", created.Code, created.Body.String())
	}
	var createResp httptransport.CreateVaultResponse
	if err := json.Unmarshal(created.Body.Bytes(), &createResp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	vaultID := createResp.Data.VaultID

	duplicate := doJSON(t, handler, http.MethodPost, "/v1/vaults", "user-http-1", httptransport.CreateVaultRequest{
		TargetAmount: 1000,
		Asset:        "USDC",
	})
	if duplicate.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate create, got %d", duplicate.Code)
	}

	deposit := doJSON(t, handler, http.MethodPost, "/v1/vaults/"+vaultID+"/deposit", "user-http-1", httptransport.DepositRequest{
		Amount:           500,
		SourceAccountRef: sourceRef,
	})
	if deposit.Code != http.StatusOK {
		t.Fatalf("expected 200 on deposit, got %d: %s", deposit.Code, deposit.Body.String())
	}

	intruder := doJSON(t, handler, http.MethodPost, "/v1/vaults/"+vaultID+"/deposit", "user-http-2", httptransport.DepositRequest{
		Amount:           500,
		SourceAccountRef: sourceRef,
	})
	if intruder.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner deposit, got %d", intruder.Code)
	}

	lock := doJSON(t, handler, http.MethodPost, "/v1/vaults/"+vaultID+"/lock", "user-http-1", httptransport.LockRequest{
		DurationSeconds: 3600,
	})
	if lock.Code != http.StatusOK {
		t.Fatalf("expected 200 on lock, got %d: %s", lock.Code, lock.Body.String())
	}

	withdraw := doJSON(t, handler, http.MethodPost, "/v1/vaults/"+vaultID+"/withdraw", "user-http-1", httptransport.WithdrawRequest{
		Amount:                100,
		DestinationAccountRef: sourceRef,
	})
	if withdraw.Code != http.StatusLocked {
		t.Fatalf("expected 423 for locked withdrawal, got %d", withdraw.Code)
	}

	badLock := doJSON(t, handler, http.MethodPost, "/v1/vaults/"+vaultID+"/lock", "user-http-1", httptransport.LockRequest{
		DurationSeconds: -5,
	})
	if badLock.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for negative lock duration, got %d", badLock.Code)
	}

	missing := httptest.NewRecorder()
	handler.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/v1/vaults/nonexistent", nil))
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown vault, got %d", missing.Code)
	}

	view := httptest.NewRecorder()
	handler.ServeHTTP(view, httptest.NewRequest(http.MethodGet, "/v1/vaults/"+vaultID, nil))
	if view.Code != http.StatusOK {
		t.Fatalf("expected 200 on get vault, got %d", view.Code)
	}
	var viewResp httptransport.GetVaultResponse
	if err := json.Unmarshal(view.Body.Bytes(), &viewResp); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if viewResp.Data.CustodyBalance != 500 {
		t.Fatalf("expected custody balance 500, got %d", viewResp.Data.CustodyBalance)
	}
}
