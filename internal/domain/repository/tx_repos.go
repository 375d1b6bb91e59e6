package repository

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Items     ItemRepository
	Uoms      UomRepository
	Locations LocationRepository
	Balances  BalanceRepository
	Events    InventoryEventRepository
	Orders    SalesOrderRepository
	PickTasks PickTaskRepository
}
