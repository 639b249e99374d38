package migrate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/flourhouse/bakery-backend/pkg/db"
	"github.com/flourhouse/bakery-backend/pkg/db/models"
)

// The sqlite fallback must be able to build the whole schema and insert rows
// without the postgres-only gen_random_uuid() default.
func TestDevModelsAutoMigrateOnSQLite(t *testing.T) {
	t.Parallel()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(devModels...))

	user := &models.User{
		Email:        "dev@example.com",
		PasswordHash: "x",
		FirstName:    "Dev",
		LastName:     "Fallback",
	}
	require.NoError(t, gdb.Create(user).Error)
	assert.NotEqual(t, uuid.Nil, user.ID, "id should be assigned client-side")

	cart := &models.Cart{UserID: user.ID}
	require.NoError(t, gdb.Create(cart).Error)
	assert.NotEqual(t, uuid.Nil, cart.ID)

	// The per-user uniqueness survives auto-migration and still maps to the
	// constraint name the services check.
	dupErr := gdb.Create(&models.Cart{UserID: user.ID}).Error
	require.Error(t, dupErr)
	assert.True(t, db.IsUniqueViolation(dupErr, "carts_user_id_key"))
}
