// Package cache implementa el puerto ports.Cache sobre Redis, con una variante no-op
// para despliegues sin Redis configurado.
package cache

import (
	"context"
	"time"

	"github.com/jhoicas/suplementos-api/internal/application/ports"
)

// Noop no guarda nada: todo Get es un miss.
type Noop struct{}

var _ ports.Cache = Noop{}

func (Noop) Get(_ context.Context, _ string, _ any) (bool, error) { return false, nil }

func (Noop) Set(_ context.Context, _ string, _ any, _ time.Duration) error { return nil }

func (Noop) DeletePrefix(_ context.Context, _ string) error { return nil }
