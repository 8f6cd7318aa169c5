package enum

// ── State machines (CHECK constrained in DB) ──

const (
	KitchenStatusReceived  = "Received"
	KitchenStatusCooking   = "Cooking"
	KitchenStatusCompleted = "Completed"
)

const (
	BillStatusPending = "Pending"
	BillStatusPaid    = "Paid"
)

// ── Borderline (CHECK constrained in DB) ──

const (
	EmployeeRoleManager = "MANAGER"
	EmployeeRoleCashier = "CASHIER"
	EmployeeRoleKitchen = "KITCHEN"
)

const (
	PaymentMethodCard = "Card"
	PaymentMethodCash = "Cash"
)

// ── Configurable labels ──

const (
	MenuStatusAvailable   = "Available"
	MenuStatusUnavailable = "Unavailable"
)
