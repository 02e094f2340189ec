package entity

import "time"

// Flavor sabor disponible en el catálogo (Chocolate, Vainilla...).
type Flavor struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductFlavor variante producto+sabor. Se desactiva (no se borra) si lotes o ventas la referencian.
type ProductFlavor struct {
	ID        string
	ProductID string
	FlavorID  string
	SKUSuffix string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
