// Package reports contiene los casos de uso de reportes agregados de inventario, ventas y recepciones.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/ports"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

const keyPrefix = "reports:"

// ReportUseCase genera el resumen de inventario y los resúmenes de ventas y GRN.
//
// El resumen de inventario se cachea con TTL y se deduplica con singleflight:
// peticiones simultáneas para la misma tienda comparten una sola consulta.
// Las mutaciones de inventario llaman Invalidate.
type ReportUseCase struct {
	products     repository.ProductRepository
	batches      repository.BatchRepository
	sales        repository.SaleRepository
	grns         repository.GRNRepository
	cache        ports.Cache
	ttl          time.Duration
	expiringDays int
	group        singleflight.Group
}

// NewReportUseCase construye el caso de uso. cache puede ser un adaptador no-op.
func NewReportUseCase(
	products repository.ProductRepository,
	batches repository.BatchRepository,
	sales repository.SaleRepository,
	grns repository.GRNRepository,
	cache ports.Cache,
	ttl time.Duration,
	expiringDays int,
) *ReportUseCase {
	return &ReportUseCase{
		products:     products,
		batches:      batches,
		sales:        sales,
		grns:         grns,
		cache:        cache,
		ttl:          ttl,
		expiringDays: expiringDays,
	}
}

// InventorySummary resumen de inventario de una tienda; storeID vacío agrega toda la cadena.
// La clave incluye el día para que los conteos de vencidos no crucen la medianoche.
func (uc *ReportUseCase) InventorySummary(ctx context.Context, storeID string, now time.Time) (*dto.InventorySummaryDTO, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	key := fmt.Sprintf("%sinventory:%s:%s", keyPrefix, storeID, today.Format("20060102"))

	var cached dto.InventorySummaryDTO
	found, err := uc.cache.Get(ctx, key, &cached)
	if err != nil {
		// una caché caída no tumba el reporte
		log.Warn().Err(err).Str("key", key).Msg("reports: lectura de caché falló")
	} else if found {
		return &cached, nil
	}

	ch := uc.group.DoChan(key, func() (interface{}, error) {
		summary, err := uc.buildInventorySummary(ctx, storeID, today)
		if err != nil {
			return nil, err
		}
		if err := uc.cache.Set(ctx, key, summary, uc.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("reports: escritura de caché falló")
		}
		return summary, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dto.InventorySummaryDTO), nil
	}
}

func (uc *ReportUseCase) buildInventorySummary(ctx context.Context, storeID string, today time.Time) (*dto.InventorySummaryDTO, error) {
	// ── Consultas en paralelo ───────────────────────────────────────────────
	type stockResult struct {
		rows []repository.ProductStock
		err  error
	}
	type catalogResult struct {
		rows []*entity.Product
		err  error
	}
	type countResult struct {
		n   int
		err error
	}

	stockCh := make(chan stockResult, 1)
	catalogCh := make(chan catalogResult, 1)
	expiredCh := make(chan countResult, 1)
	soonCh := make(chan countResult, 1)

	go func() {
		rows, err := uc.batches.StockByProduct(ctx, storeID)
		stockCh <- stockResult{rows, err}
	}()
	go func() {
		rows, err := uc.products.List(ctx, repository.ProductFilter{ActiveOnly: true})
		catalogCh <- catalogResult{rows, err}
	}()
	go func() {
		list, err := uc.batches.ListExpiring(ctx, repository.ExpiryFilter{StoreID: storeID, Before: &today})
		expiredCh <- countResult{len(list), err}
	}()
	go func() {
		limit := today.AddDate(0, 0, uc.expiringDays+1)
		list, err := uc.batches.ListExpiring(ctx, repository.ExpiryFilter{StoreID: storeID, From: &today, Before: &limit})
		soonCh <- countResult{len(list), err}
	}()

	stock := <-stockCh
	catalog := <-catalogCh
	expired := <-expiredCh
	soon := <-soonCh

	if stock.err != nil {
		return nil, fmt.Errorf("reports: existencias: %w", stock.err)
	}
	if catalog.err != nil {
		return nil, fmt.Errorf("reports: catálogo: %w", catalog.err)
	}
	if expired.err != nil {
		return nil, fmt.Errorf("reports: vencidos: %w", expired.err)
	}
	if soon.err != nil {
		return nil, fmt.Errorf("reports: próximos a vencer: %w", soon.err)
	}

	// ── Agregación ─────────────────────────────────────────────────────────
	out := &dto.InventorySummaryDTO{
		StoreID:      storeID,
		ProductCount: len(catalog.rows),
		StockValue:   decimal.Zero,
		RetailValue:  decimal.Zero,
		ExpiredCount: expired.n,
		ExpiringSoon: soon.n,
		ExpiringDays: uc.expiringDays,
	}
	onHand := make(map[string]int, len(stock.rows))
	for _, s := range stock.rows {
		onHand[s.ProductID] = s.OnHand
		out.BatchCount += s.Batches
		out.UnitsOnHand += s.OnHand
		out.StockValue = out.StockValue.Add(s.StockValue)
		if s.OnHand > 0 {
			out.StockedCount++
		}
	}
	for _, p := range catalog.rows {
		qty := onHand[p.ID]
		out.RetailValue = out.RetailValue.Add(p.SellingPrice.Mul(decimal.NewFromInt(int64(qty))))
		if p.ReorderPoint > 0 && p.IsLowStock(qty) {
			out.LowStockCount++
		}
	}
	return out, nil
}

// Invalidate descarta los resúmenes cacheados. Se llama tras cualquier movimiento de inventario.
func (uc *ReportUseCase) Invalidate(ctx context.Context) {
	if err := uc.cache.DeletePrefix(ctx, keyPrefix); err != nil {
		log.Warn().Err(err).Msg("reports: invalidación de caché falló")
	}
}

// SalesSummary totales de ventas no anuladas con ticket promedio.
func (uc *ReportUseCase) SalesSummary(ctx context.Context, filter repository.SaleFilter) (*dto.SaleSummaryResponse, error) {
	s, err := uc.sales.Summary(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("reports: ventas: %w", err)
	}
	avg := decimal.Zero
	if s.SaleCount > 0 {
		avg = s.Revenue.Div(decimal.NewFromInt(int64(s.SaleCount))).Round(2)
	}
	byMethod := s.ByPaymentMethod
	if byMethod == nil {
		byMethod = map[string]decimal.Decimal{}
	}
	return &dto.SaleSummaryResponse{
		SaleCount:       s.SaleCount,
		Revenue:         s.Revenue,
		TaxAmount:       s.TaxAmount,
		DiscountAmount:  s.DiscountAmount,
		AverageTicket:   avg,
		ItemsSold:       s.ItemsSold,
		GrossProfit:     s.GrossProfit,
		ByPaymentMethod: byMethod,
	}, nil
}

// GRNSummary conteos por estado y valor recibido.
func (uc *ReportUseCase) GRNSummary(ctx context.Context, filter repository.GRNFilter) (*dto.GRNSummaryResponse, error) {
	s, err := uc.grns.Summary(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("reports: GRN: %w", err)
	}
	return &dto.GRNSummaryResponse{
		Total:      s.Total,
		Received:   s.Received,
		Verified:   s.Verified,
		Completed:  s.Completed,
		TotalValue: s.TotalValue,
	}, nil
}
