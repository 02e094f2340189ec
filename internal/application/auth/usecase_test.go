package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/auth"
	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/memory"
	"github.com/jhoicas/suplementos-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.Store) {
	t.Helper()
	st := memory.New()
	uc := auth.NewAuthUseCase(st.Users(), st.Repos().Stores, auth.JWTConfig{Secret: secret, ExpMinutes: 30, Issuer: "test"})
	return uc, st
}

func TestRegisterYLogin(t *testing.T) {
	uc, st := newAuth(t)
	ctx := context.Background()
	require.NoError(t, st.Repos().Stores.Create(ctx, &entity.Store{ID: "s1", Code: "A", Name: "A", IsActive: true}))

	storeID := "s1"
	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Email: "Ana@Tienda.co", Password: "password1", StoreID: &storeID})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStaff, u.Role)
	assert.Equal(t, "ana@tienda.co", u.Email)

	res, err := uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "password1"})
	require.NoError(t, err)
	claims, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "s1", claims.StoreID)
	assert.Equal(t, entity.RoleStaff, claims.Role)
}

func TestRegister_Errores(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Email: "a@x.co", Password: "password1"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Email: "b@x.co", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "otro", Email: "A@X.CO", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "corto", Email: "c@x.co", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "rol", Email: "d@x.co", Password: "password1", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ghost := "ghost"
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "sin", Email: "e@x.co", Password: "password1", StoreID: &ghost})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin_Rechazos(t *testing.T) {
	uc, st := newAuth(t)
	ctx := context.Background()
	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Email: "a@x.co", Password: "password1"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "malapass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	user, err := st.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, st.Users().Update(ctx, user))
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestEnsureAdmin_Idempotente(t *testing.T) {
	uc, st := newAuth(t)
	ctx := context.Background()

	require.NoError(t, uc.EnsureAdmin(ctx, "root", "root@x.co", "supersecret"))
	require.NoError(t, uc.EnsureAdmin(ctx, "root", "root@x.co", "supersecret"))

	users, err := st.Users().List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, entity.RoleAdmin, users[0].Role)
}
