package ports

import (
	"context"
	"time"
)

// Cache define el puerto de salida para la caché de reportes agregados.
// Los adaptadores (Redis, no-op) serializan el valor como JSON.
// Nunca se cachean costos usados por el motor de asignación: solo lecturas de reporte.
type Cache interface {
	// Get carga la clave en dest. found=false cuando la clave no existe o expiró.
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	// Set guarda el valor con TTL; ttl 0 significa sin expiración.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// DeletePrefix invalida todas las claves que empiezan por prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
