package entity

import "time"

// Store representa una tienda de la cadena donde se mantiene inventario.
type Store struct {
	ID        string
	Code      string
	Name      string
	Address   string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Supplier proveedor de mercancía (origen de los GRN).
type Supplier struct {
	ID          string
	Name        string
	ContactName string
	Phone       string
	Email       string
	Address     string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
