package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"goalvault/contexts/custody/savings-vault/application"
	"goalvault/contexts/custody/savings-vault/domain/entities"
	"goalvault/contexts/custody/savings-vault/ports"
	httptransport "goalvault/contexts/custody/savings-vault/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateVaultHandler(
	ctx context.Context,
	userID string,
	req httptransport.CreateVaultRequest,
) (httptransport.CreateVaultResponse, error) {
	record, err := h.Service.Initialize(ctx, entities.Identity(userID), ports.InitializeInput{
		TargetAmount: req.TargetAmount,
		Asset:        req.Asset,
	})
	if err != nil {
		return httptransport.CreateVaultResponse{}, err
	}
	return httptransport.CreateVaultResponse{
		Status: "success",
		Data:   toDTO(record),
	}, nil
}

func (h Handler) GetVaultHandler(
	ctx context.Context,
	vaultID string,
) (httptransport.GetVaultResponse, error) {
	view, err := h.Service.GetVault(ctx, vaultID)
	if err != nil {
		return httptransport.GetVaultResponse{}, err
	}
	resp := httptransport.GetVaultResponse{Status: "success"}
	resp.Data.Vault = toDTO(view.Record)
	resp.Data.CustodyBalance = view.CustodyBalance
	return resp, nil
}

func (h Handler) DepositHandler(
	ctx context.Context,
	userID string,
	vaultID string,
	req httptransport.DepositRequest,
) (httptransport.DepositResponse, error) {
	result, err := h.Service.Deposit(ctx, entities.Identity(userID), ports.DepositInput{
		VaultID:           vaultID,
		SourceAccountRef:  req.SourceAccountRef,
		CustodyAccountRef: req.CustodyAccountRef,
		Amount:            req.Amount,
	})
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	resp := httptransport.DepositResponse{Status: "success"}
	resp.Data.VaultID = result.Record.RecordID
	resp.Data.Balance = result.NewBalance
	resp.Data.Released = result.Released
	resp.Data.ReleasedAmount = result.ReleasedAmount
	return resp, nil
}

func (h Handler) WithdrawHandler(
	ctx context.Context,
	userID string,
	vaultID string,
	req httptransport.WithdrawRequest,
) (httptransport.WithdrawResponse, error) {
	result, err := h.Service.Withdraw(ctx, entities.Identity(userID), ports.WithdrawInput{
		VaultID:               vaultID,
		DestinationAccountRef: req.DestinationAccountRef,
		CustodyAccountRef:     req.CustodyAccountRef,
		Amount:                req.Amount,
	})
	if err != nil {
		return httptransport.WithdrawResponse{}, err
	}
	resp := httptransport.WithdrawResponse{Status: "success"}
	resp.Data.VaultID = result.Record.RecordID
	resp.Data.Balance = result.NewBalance
	return resp, nil
}

func (h Handler) LockHandler(
	ctx context.Context,
	userID string,
	vaultID string,
	req httptransport.LockRequest,
) (httptransport.LockResponse, error) {
	record, err := h.Service.Lock(ctx, entities.Identity(userID), vaultID, req.DurationSeconds)
	if err != nil {
		return httptransport.LockResponse{}, err
	}
	resp := httptransport.LockResponse{Status: "success"}
	resp.Data.VaultID = record.RecordID
	if record.LockedUntil != nil {
		resp.Data.LockedUntil = *record.LockedUntil
	}
	return resp, nil
}

func toDTO(record entities.VaultRecord) httptransport.VaultDTO {
	return httptransport.VaultDTO{
		VaultID:           record.RecordID,
		Owner:             string(record.Owner),
		Asset:             record.Asset,
		TargetAmount:      record.TargetAmount,
		CustodyAccountRef: record.CustodyAccountRef,
		LockedUntil:       record.LockedUntil,
		CreatedAt:         record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
