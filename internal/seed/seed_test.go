package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront-api/internal/domain"
	"storefront-api/internal/testdb"
)

func TestRunIsIdempotent(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	admin := Admin{Email: " Admin@Example.com ", Password: "supersecret"}

	res, err := Run(ctx, db, admin)
	require.NoError(t, err)
	assert.Equal(t, Result{Categories: 3, Products: 15, Admin: true}, res)

	res, err = Run(ctx, db, admin)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	assert.EqualValues(t, 3, testdb.Count(t, db, &domain.Category{}))
	assert.EqualValues(t, 15, testdb.Count(t, db, &domain.Product{}))

	var vps domain.Product
	require.NoError(t, db.Preload("Category").Where("name = ?", "VPS Sunucu").First(&vps).Error)
	assert.Equal(t, "149.99", vps.Price.StringFixed(2))
	assert.Equal(t, 30, vps.StockQuantity)
	assert.Equal(t, "Hosting Hizmetleri", vps.Category.Name)

	var u domain.User
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&u).Error)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("supersecret")))
}

func TestRunWithoutAdmin(t *testing.T) {
	db := testdb.Open(t)

	res, err := Run(context.Background(), db, Admin{})
	require.NoError(t, err)
	assert.False(t, res.Admin)
	assert.Zero(t, testdb.Count(t, db, &domain.User{}))
}

func TestRunRejectsShortAdminPassword(t *testing.T) {
	db := testdb.Open(t)

	_, err := Run(context.Background(), db, Admin{Email: "a@example.com", Password: "short"})
	require.Error(t, err)
	assert.Zero(t, testdb.Count(t, db, &domain.Category{}))
}
