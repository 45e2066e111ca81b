package enum

// Roles known to the system. Sellers record sales; the sales manager
// additionally administers products, customers, users, the day gate and
// reports.
const (
	RoleSeller       = "seller"
	RoleSalesManager = "sales-manager"
)

// IsValidRole reports whether the given role name is known
func IsValidRole(role string) bool {
	return role == RoleSeller || role == RoleSalesManager
}
