package domain

// Roles carried in JWT claims minted by the surrounding platform. The gateway
// validates tokens but never issues them.
const (
	RoleAdmin    = "admin"
	RoleMerchant = "merchant"
)
