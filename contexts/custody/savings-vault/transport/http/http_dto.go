package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateVaultRequest struct {
	TargetAmount uint64 `json:"target_amount"`
	Asset        string `json:"asset"`
}

type VaultDTO struct {
	VaultID           string `json:"vault_id"`
	Owner             string `json:"owner"`
	Asset             string `json:"asset"`
	TargetAmount      uint64 `json:"target_amount"`
	CustodyAccountRef string `json:"custody_account_ref"`
	LockedUntil       *int64 `json:"locked_until,omitempty"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

type CreateVaultResponse struct {
	Status string   `json:"status"`
	Data   VaultDTO `json:"data"`
}

type GetVaultResponse struct {
	Status string `json:"status"`
	Data   struct {
		Vault          VaultDTO `json:"vault"`
		CustodyBalance uint64   `json:"custody_balance"`
	} `json:"data"`
}

type DepositRequest struct {
	Amount            uint64 `json:"amount"`
	SourceAccountRef  string `json:"source_account_ref"`
	CustodyAccountRef string `json:"custody_account_ref,omitempty"`
}

type DepositResponse struct {
	Status string `json:"status"`
	Data   struct {
		VaultID        string `json:"vault_id"`
		Balance        uint64 `json:"balance"`
		Released       bool   `json:"released"`
		ReleasedAmount uint64 `json:"released_amount,omitempty"`
	} `json:"data"`
}

type WithdrawRequest struct {
	Amount                uint64 `json:"amount"`
	DestinationAccountRef string `json:"destination_account_ref"`
	CustodyAccountRef     string `json:"custody_account_ref,omitempty"`
}

type WithdrawResponse struct {
	Status string `json:"status"`
	Data   struct {
		VaultID string `json:"vault_id"`
		Balance uint64 `json:"balance"`
	} `json:"data"`
}

type LockRequest struct {
	DurationSeconds int64 `json:"duration_seconds"`
}

type LockResponse struct {
	Status string `json:"status"`
	Data   struct {
		VaultID     string `json:"vault_id"`
		LockedUntil int64  `json:"locked_until"`
	} `json:"data"`
}
