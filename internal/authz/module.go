package authz

// Module identifies a protected resource category. The set is closed: a
// module unknown to the capability matrix is denied for every level except
// root.
type Module string

const (
	ModuleUsers        Module = "users"
	ModuleProducts     Module = "products"
	ModuleTransactions Module = "transactions"
	ModuleReports      Module = "reports"
	ModuleInventory    Module = "inventory"
	ModuleCustomers    Module = "customers"
	ModuleSuppliers    Module = "suppliers"
	ModuleSettings     Module = "settings"
)

// Operation is one of the four CRUD verbs.
type Operation string

const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Modules lists every module known to the capability matrix.
func Modules() []Module {
	return []Module{
		ModuleUsers,
		ModuleProducts,
		ModuleTransactions,
		ModuleReports,
		ModuleInventory,
		ModuleCustomers,
		ModuleSuppliers,
		ModuleSettings,
	}
}

// Operations lists the CRUD verbs in their conventional order.
func Operations() []Operation {
	return []Operation{OpCreate, OpRead, OpUpdate, OpDelete}
}
