package inventory

import (
	"context"

	"github.com/jhoicas/fulfillment-ledger/internal/domain"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/fulfillment-ledger/internal/domain/inventory"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// UomResolver convierte cantidades entre la unidad ingresada y la unidad base del ítem.
// Solo usa factores directos o su inverso; nunca asume 1:1 ni encadena conversiones.
type UomResolver struct {
	items repository.ItemRepository
	uoms  repository.UomRepository
}

// NewUomResolver construye el resolver sobre los repositorios dados (pool o tx).
func NewUomResolver(items repository.ItemRepository, uoms repository.UomRepository) *UomResolver {
	return &UomResolver{items: items, uoms: uoms}
}

// ConvertToBase devuelve qty expresada en la unidad base del ítem.
func (r *UomResolver) ConvertToBase(ctx context.Context, tenantID, itemID string, qty decimal.Decimal, uom string) (decimal.Decimal, error) {
	item, err := r.loadItem(ctx, tenantID, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	return r.ConvertItemToBase(ctx, item, qty, uom)
}

// ConvertItemToBase igual que ConvertToBase con el ítem ya cargado.
func (r *UomResolver) ConvertItemToBase(ctx context.Context, item *entity.Item, qty decimal.Decimal, uom string) (decimal.Decimal, error) {
	uom, err := r.checkInput(ctx, item.TenantID, qty, uom)
	if err != nil {
		return decimal.Zero, err
	}
	out, err := r.convert(ctx, item, qty, uom, item.BaseUom)
	if err != nil {
		return decimal.Zero, err
	}
	return domaininv.RoundQty(out), nil
}

// ConvertFromBase expresa una cantidad base en otra unidad del ítem (operación inversa).
func (r *UomResolver) ConvertFromBase(ctx context.Context, tenantID, itemID string, qtyBase decimal.Decimal, uom string) (decimal.Decimal, error) {
	item, err := r.loadItem(ctx, tenantID, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	uom, err = r.checkInput(ctx, tenantID, qtyBase, uom)
	if err != nil {
		return decimal.Zero, err
	}
	out, err := r.convert(ctx, item, qtyBase, item.BaseUom, uom)
	if err != nil {
		return decimal.Zero, err
	}
	return domaininv.RoundQty(out), nil
}

func (r *UomResolver) loadItem(ctx context.Context, tenantID, itemID string) (*entity.Item, error) {
	if itemID == "" {
		return nil, domain.NewValidationError("item_id", "requerido")
	}
	return r.items.GetByID(ctx, tenantID, itemID)
}

func (r *UomResolver) checkInput(ctx context.Context, tenantID string, qty decimal.Decimal, uom string) (string, error) {
	if qty.IsNegative() {
		return "", domain.NewValidationError("qty", "no puede ser negativa")
	}
	code := domaininv.NormalizeCode(uom)
	if code == "" {
		return "", domain.NewValidationError("uom", "requerida")
	}
	ok, err := r.uoms.Exists(ctx, tenantID, code)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.NewValidationError("uom", "unidad desconocida: "+code)
	}
	return code, nil
}

func (r *UomResolver) convert(ctx context.Context, item *entity.Item, qty decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return qty, nil
	}
	direct, err := r.uoms.FindConversion(ctx, item.TenantID, item.ID, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	if direct != nil && direct.Factor.IsPositive() {
		return qty.Mul(direct.Factor), nil
	}
	inverse, err := r.uoms.FindConversion(ctx, item.TenantID, item.ID, to, from)
	if err != nil {
		return decimal.Zero, err
	}
	if inverse != nil && inverse.Factor.IsPositive() {
		return qty.DivRound(inverse.Factor, domaininv.QtyScale+4), nil
	}
	return decimal.Zero, &domain.NoConversionPathError{ItemID: item.ID, From: from, To: to}
}

// ConversionUseCase expone el resolver fuera de una transacción de negocio.
type ConversionUseCase struct {
	tx TxRunner
}

// NewConversionUseCase construye el caso de uso.
func NewConversionUseCase(tx TxRunner) *ConversionUseCase {
	return &ConversionUseCase{tx: tx}
}

// ConvertToBase ver UomResolver.ConvertToBase.
func (uc *ConversionUseCase) ConvertToBase(ctx context.Context, tenantID, itemID string, qty decimal.Decimal, uom string) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		q, err := NewUomResolver(repos.Items, repos.Uoms).ConvertToBase(ctx, tenantID, itemID, qty, uom)
		out = q
		return err
	})
	return out, err
}

// ConvertFromBase ver UomResolver.ConvertFromBase.
func (uc *ConversionUseCase) ConvertFromBase(ctx context.Context, tenantID, itemID string, qtyBase decimal.Decimal, uom string) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		q, err := NewUomResolver(repos.Items, repos.Uoms).ConvertFromBase(ctx, tenantID, itemID, qtyBase, uom)
		out = q
		return err
	})
	return out, err
}
