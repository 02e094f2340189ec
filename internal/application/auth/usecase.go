package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/usecase"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/jhoicas/suplementos-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	storeRepo repository.StoreRepository
	jwtCfg    JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, storeRepo repository.StoreRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, storeRepo: storeRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste.
// Username y email son únicos; la tienda, si viene, debe existir.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" {
		return nil, domain.NewValidationError("username", "es obligatorio")
	}
	if len(in.Password) < 8 {
		return nil, domain.NewValidationError("password", "debe tener al menos 8 caracteres")
	}
	role := in.Role
	if role == "" {
		role = entity.RoleStaff
	}
	if !entity.ValidRole(role) {
		return nil, domain.NewValidationError("role", "rol desconocido")
	}

	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflictError("user.username", username)
	}
	if email != "" {
		existing, err = uc.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.NewConflictError("user.email", email)
		}
	}
	if in.StoreID != nil {
		store, err := uc.storeRepo.GetByID(ctx, *in.StoreID)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, domain.NewNotFoundError("store", *in.StoreID)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		StoreID:      in.StoreID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return usecase.ToUserResponse(user), nil
}

// Login verifica username/password, genera JWT y retorna token + usuario.
// Usuario inexistente y contraseña errada devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	storeID := ""
	if user.StoreID != nil {
		storeID = *user.StoreID
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, storeID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *usecase.ToUserResponse(user),
	}, nil
}

// EnsureAdmin crea el administrador inicial si el username aún no existe. Idempotente.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, username, email, password string) error {
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	if _, err := uc.RegisterUser(ctx, dto.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
		Role:     entity.RoleAdmin,
	}); err != nil {
		return err
	}
	log.Info().Str("username", username).Msg("administrador inicial creado")
	return nil
}
