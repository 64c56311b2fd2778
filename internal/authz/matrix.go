package authz

// capabilityKey addresses one cell of the capability matrix. Levels are
// stored canonical, so legacy aliases share the cells of their target tier.
type capabilityKey struct {
	level     Level
	module    Module
	operation Operation
}

// capabilityMatrix is the full (level, module, operation) table. It is built
// once during package init and never mutated afterwards, so concurrent reads
// need no locking. Anything absent from the table is denied.
var capabilityMatrix map[capabilityKey]struct{}

func init() {
	capabilityMatrix = make(map[capabilityKey]struct{})

	// Tenant admins and store admins hold every operation on every known
	// module. Root is not enumerated here: IsAllowed exempts it outright,
	// so its grants cannot go stale when a module is added. Store
	// confinement for store admins is enforced by the authorizer's
	// same-store requirement, not by the matrix.
	for _, level := range []Level{LevelTenantAdmin, LevelStoreAdmin} {
		for _, module := range Modules() {
			for _, op := range Operations() {
				grant(level, module, op)
			}
		}
	}

	// Cashiers run the register: full CRUD on transactions, read-only on
	// products and customers, nothing else.
	for _, op := range Operations() {
		grant(LevelCashier, ModuleTransactions, op)
	}
	grant(LevelCashier, ModuleProducts, OpRead)
	grant(LevelCashier, ModuleCustomers, OpRead)

	// Reviewers read everything, write nothing.
	for _, module := range Modules() {
		grant(LevelReviewer, module, OpRead)
	}
}

func grant(level Level, module Module, op Operation) {
	capabilityMatrix[capabilityKey{level: level, module: module, operation: op}] = struct{}{}
}

// IsAllowed reports whether the level may perform the operation on the
// module. Root is allowed unconditionally, modules included that the matrix
// has never heard of. Every other unknown level, module or operation is
// denied: adding a new module never grants access until the matrix is
// extended explicitly.
func IsAllowed(level Level, module Module, op Operation) bool {
	if level.Canonical() == LevelRoot {
		return true
	}
	_, ok := capabilityMatrix[capabilityKey{level: level.Canonical(), module: module, operation: op}]
	return ok
}
