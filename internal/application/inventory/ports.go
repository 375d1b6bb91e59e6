package inventory

import (
	"context"

	"github.com/jhoicas/fulfillment-ledger/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a ella.
// Commit si fn devuelve nil, Rollback en cualquier otro caso. Las implementaciones pueden
// reintentar fn ante fallos de serialización; fn debe ser repetible.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error
}
