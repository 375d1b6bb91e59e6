package inventory

import (
	"context"

	"github.com/jhoicas/fulfillment-ledger/internal/domain"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/fulfillment-ledger/internal/domain/inventory"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var allLocationTypes = []entity.LocationType{
	entity.LocationTypeStock, entity.LocationTypeReceiving, entity.LocationTypeShipping, entity.LocationTypeQCHold,
}

// Discrepancy diferencia entre el saldo materializado y el reconstruido desde el ledger.
type Discrepancy struct {
	LocationID string
	Stored     decimal.Decimal
	Replayed   decimal.Decimal
}

// BalanceQueryUseCase lecturas del Balance Store.
type BalanceQueryUseCase struct {
	tx TxRunner
}

// NewBalanceQueryUseCase construye el caso de uso.
func NewBalanceQueryUseCase(tx TxRunner) *BalanceQueryUseCase {
	return &BalanceQueryUseCase{tx: tx}
}

// GetBalance saldo de una ubicación; cero si nunca se tocó.
func (uc *BalanceQueryUseCase) GetBalance(ctx context.Context, key entity.BalanceKey) (decimal.Decimal, error) {
	if key.TenantID == "" || key.SiteID == "" || key.ItemID == "" || key.LocationID == "" {
		return decimal.Zero, domain.NewValidationError("", "tenant_id, site_id, item_id y location_id son requeridos")
	}
	var qty decimal.Decimal
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		bal, err := repos.Balances.Get(ctx, key)
		if err != nil {
			return err
		}
		qty = bal.QtyBase
		return nil
	})
	return qty, err
}

// GetAvailableBalance suma de saldos en ubicaciones elegibles para asignación (STOCK y SHIPPING).
func (uc *BalanceQueryUseCase) GetAvailableBalance(ctx context.Context, tenantID, siteID, itemID string) (decimal.Decimal, error) {
	if tenantID == "" || siteID == "" || itemID == "" {
		return decimal.Zero, domain.NewValidationError("", "tenant_id, site_id e item_id son requeridos")
	}
	var qty decimal.Decimal
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		sum, err := repos.Balances.SumByItem(ctx, tenantID, siteID, itemID, entity.AllocationEligibleTypes)
		qty = sum
		return err
	})
	return qty, err
}

// ListBalances saldos del ítem en todas las ubicaciones del sitio.
func (uc *BalanceQueryUseCase) ListBalances(ctx context.Context, tenantID, siteID, itemID string) ([]entity.LocationBalance, error) {
	if tenantID == "" || siteID == "" || itemID == "" {
		return nil, domain.NewValidationError("", "tenant_id, site_id e item_id son requeridos")
	}
	var out []entity.LocationBalance
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		list, err := repos.Balances.ListByItem(ctx, tenantID, siteID, itemID, allLocationTypes)
		out = list
		return err
	})
	return out, err
}

// Reconcile reconstruye los saldos del ítem plegando su historial y los compara con los
// materializados. Una lista vacía indica que se conserva la igualdad ledger = saldos.
func (uc *BalanceQueryUseCase) Reconcile(ctx context.Context, tenantID, siteID, itemID string) ([]Discrepancy, error) {
	if tenantID == "" || siteID == "" || itemID == "" {
		return nil, domain.NewValidationError("", "tenant_id, site_id e item_id son requeridos")
	}
	var out []Discrepancy
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		out = nil
		events, err := repos.Events.ListByItem(ctx, tenantID, siteID, itemID, 0)
		if err != nil {
			return err
		}
		replayed, err := domaininv.Replay(events)
		if err != nil {
			return err
		}
		stored, err := repos.Balances.ListByItem(ctx, tenantID, siteID, itemID, allLocationTypes)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(stored))
		for _, b := range stored {
			seen[b.LocationID] = true
			if r := replayed[b.LocationID]; !r.Equal(b.QtyBase) {
				out = append(out, Discrepancy{LocationID: b.LocationID, Stored: b.QtyBase, Replayed: r})
			}
		}
		for loc, r := range replayed {
			if !seen[loc] && !r.IsZero() {
				out = append(out, Discrepancy{LocationID: loc, Stored: decimal.Zero, Replayed: r})
			}
		}
		return nil
	})
	return out, err
}
