package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// StoreUseCase casos de uso CRUD para tiendas.
type StoreUseCase struct {
	repo repository.StoreRepository
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(repo repository.StoreRepository) *StoreUseCase {
	return &StoreUseCase{repo: repo}
}

// Create crea una nueva tienda. El código se guarda en mayúsculas y es único.
func (uc *StoreUseCase) Create(ctx context.Context, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return nil, domain.NewValidationError("code", "es obligatorio")
	}
	now := time.Now().UTC()
	store := &entity.Store{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      normalizeName(in.Name),
		Address:   in.Address,
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, store); err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// GetByID obtiene una tienda por ID.
func (uc *StoreUseCase) GetByID(ctx context.Context, id string) (*dto.StoreResponse, error) {
	store, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// Update actualiza una tienda.
func (uc *StoreUseCase) Update(ctx context.Context, id string, in dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	store, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		store.Code = strings.ToUpper(strings.TrimSpace(*in.Code))
	}
	if in.Name != nil {
		store.Name = normalizeName(*in.Name)
	}
	if in.Address != nil {
		store.Address = *in.Address
	}
	if in.Phone != nil {
		store.Phone = *in.Phone
	}
	if in.IsActive != nil {
		store.IsActive = *in.IsActive
	}
	store.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// List lista tiendas con paginación.
func (uc *StoreUseCase) List(ctx context.Context, activeOnly bool, limit, offset int) (*dto.StoreListResponse, error) {
	list, err := uc.repo.List(ctx, activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StoreResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toStoreResponse(s))
	}
	return &dto.StoreListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete borra la tienda si no tiene lotes, documentos ni usuarios; si no, la desactiva.
func (uc *StoreUseCase) Delete(ctx context.Context, id string) (*dto.DeleteResult, error) {
	store, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	referenced, err := uc.repo.IsReferenced(ctx, id)
	if err != nil {
		return nil, err
	}
	if !referenced {
		if err := uc.repo.Delete(ctx, id); err != nil {
			return nil, err
		}
		return &dto.DeleteResult{Deleted: true}, nil
	}
	store.IsActive = false
	store.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	return &dto.DeleteResult{Deactivated: true}, nil
}

func (uc *StoreUseCase) load(ctx context.Context, id string) (*entity.Store, error) {
	store, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.NewNotFoundError("store", id)
	}
	return store, nil
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	if s == nil {
		return nil
	}
	return &dto.StoreResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
