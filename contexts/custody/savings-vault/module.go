package savingsvault

import (
	"log/slog"

	httpadapter "goalvault/contexts/custody/savings-vault/adapters/http"
	"goalvault/contexts/custody/savings-vault/adapters/memory"
	"goalvault/contexts/custody/savings-vault/application"
	"goalvault/contexts/custody/savings-vault/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
	Ledger  *memory.Ledger
}

type Dependencies struct {
	Repository                ports.Repository
	Transfers                 ports.AssetTransferService
	Outbox                    ports.OutboxWriter
	Clock                     ports.Clock
	IDGenerator               ports.IDGenerator
	DisableVaultEventEmission bool
	Logger                    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:                      deps.Repository,
		Transfers:                 deps.Transfers,
		Clock:                     deps.Clock,
		IDGen:                     deps.IDGenerator,
		Outbox:                    deps.Outbox,
		DisableVaultEventEmission: deps.DisableVaultEventEmission,
		Logger:                    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module against in-memory adapters, including
// an in-memory asset ledger standing in for the external transfer service.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	ledger := memory.NewLedger()
	module := NewModule(Dependencies{
		Repository:  store,
		Transfers:   ledger,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	module.Ledger = ledger
	return module
}
