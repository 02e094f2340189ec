package http

import (
	"time"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toBatchResponse(b *entity.Batch, now time.Time) dto.BatchResponse {
	out := dto.BatchResponse{
		ID:              b.ID,
		ProductID:       b.ProductID,
		ProductFlavorID: b.ProductFlavorID,
		StoreID:         b.StoreID,
		SupplierID:      b.SupplierID,
		BatchNumber:     b.BatchNumber,
		ExpirationDate:  formatDate(b.ExpirationDate),
		IsExpired:       b.IsExpired(now),
		Quantity:        b.Quantity,
		UnitCost:        b.UnitCost,
		StockValue:      b.StockValue(),
		Location:        b.Location,
		DateReceived:    b.DateReceived,
		GRNID:           b.GRNID,
		Notes:           b.Notes,
		IsActive:        b.IsActive,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if days, ok := b.DaysUntilExpiry(now); ok {
		out.DaysUntilExpiry = &days
	}
	return out
}

func toBatchResponses(list []*entity.Batch, now time.Time) []dto.BatchResponse {
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBatchResponse(b, now))
	}
	return out
}

func toAllocationResponses(allocs []inventory.Allocation) []dto.AllocationResponse {
	out := make([]dto.AllocationResponse, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, dto.AllocationResponse{
			BatchID:     a.Batch.ID,
			BatchNumber: a.Batch.BatchNumber,
			Quantity:    a.Quantity,
			UnitCost:    a.UnitCost,
			Remaining:   a.Batch.Quantity,
		})
	}
	return out
}

func toLedgerResponses(list []*entity.LedgerEntry) []dto.LedgerEntryResponse {
	out := make([]dto.LedgerEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.LedgerEntryResponse{
			ID:              e.ID,
			ProductID:       e.ProductID,
			ProductFlavorID: e.ProductFlavorID,
			BatchID:         e.BatchID,
			StoreID:         e.StoreID,
			Kind:            string(e.Kind),
			Direction:       string(e.Direction),
			Quantity:        e.Quantity,
			SignedQuantity:  e.SignedQuantity(),
			UnitPrice:       e.UnitPrice,
			TotalAmount:     e.TotalAmount,
			Reference:       e.Reference,
			Notes:           e.Notes,
			CreatedBy:       e.CreatedBy,
			CreatedAt:       e.CreatedAt,
		})
	}
	return out
}

func toGRNResponse(g *entity.GRN) dto.GRNResponse {
	out := dto.GRNResponse{
		ID:                  g.ID,
		GRNNumber:           g.GRNNumber,
		StoreID:             g.StoreID,
		SupplierID:          g.SupplierID,
		PurchaseOrderNumber: g.PurchaseOrderNumber,
		InvoiceNumber:       g.InvoiceNumber,
		ReceivedDate:        g.ReceivedDate,
		TotalAmount:         g.TotalAmount,
		Status:              string(g.Status),
		Notes:               g.Notes,
		CreatedBy:           g.CreatedBy,
		VerifiedBy:          g.VerifiedBy,
		VerifiedDate:        g.VerifiedDate,
		CreatedAt:           g.CreatedAt,
		UpdatedAt:           g.UpdatedAt,
	}
	for _, it := range g.Items {
		out.Items = append(out.Items, dto.GRNItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			ProductFlavorID:  it.ProductFlavorID,
			QuantityOrdered:  it.QuantityOrdered,
			QuantityReceived: it.QuantityReceived,
			UnitCost:         it.UnitCost,
			LineTotal:        it.LineTotal,
			BatchNumber:      it.BatchNumber,
			ExpirationDate:   formatDate(it.ExpirationDate),
			Location:         it.Location,
			Notes:            it.Notes,
		})
	}
	return out
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:             s.ID,
		InvoiceNumber:  s.InvoiceNumber,
		StoreID:        s.StoreID,
		CustomerName:   s.CustomerName,
		CustomerPhone:  s.CustomerPhone,
		CustomerEmail:  s.CustomerEmail,
		SaleDate:       s.SaleDate,
		Subtotal:       s.Subtotal,
		TaxAmount:      s.TaxAmount,
		DiscountAmount: s.DiscountAmount,
		TotalAmount:    s.TotalAmount,
		PaymentMethod:  s.PaymentMethod,
		PaymentStatus:  string(s.PaymentStatus),
		Notes:          s.Notes,
		CreatedBy:      s.CreatedBy,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductFlavorID: it.ProductFlavorID,
			BatchID:         it.BatchID,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			UnitCost:        it.UnitCost,
			Discount:        it.Discount,
			LineTotal:       it.LineTotal,
		})
	}
	return out
}

func toTransferResponse(t *entity.StockTransfer) dto.TransferResponse {
	out := dto.TransferResponse{
		ID:             t.ID,
		TransferNumber: t.TransferNumber,
		FromStoreID:    t.FromStoreID,
		ToStoreID:      t.ToStoreID,
		Status:         string(t.Status),
		TransferDate:   t.TransferDate,
		CompletedDate:  t.CompletedDate,
		Notes:          t.Notes,
		CreatedBy:      t.CreatedBy,
		ApprovedBy:     t.ApprovedBy,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	for _, it := range t.Items {
		out.Items = append(out.Items, dto.TransferItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductFlavorID: it.ProductFlavorID,
			BatchID:         it.BatchID,
			Quantity:        it.Quantity,
			UnitCost:        it.UnitCost,
			Notes:           it.Notes,
		})
	}
	return out
}
