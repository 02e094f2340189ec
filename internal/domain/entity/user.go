package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// ValidRole indica si r es un rol conocido.
func ValidRole(r string) bool { return r == RoleAdmin || r == RoleStaff }

// User representa un usuario del sistema (cajero o administrador).
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string  // bcrypt hash, nunca plano en dominio después de persistir
	Role         string  // admin, staff
	StoreID      *string // tienda habitual del usuario
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
