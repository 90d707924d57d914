package stores

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/qahs/toast-board/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Order{},
		&models.ServedOrder{},
		&models.Setting{},
		&models.ToastType{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestOrderStoreCreateAndGet(t *testing.T) {
	store := NewGormOrderStore(setupTestDB(t))

	details := models.OrderDetails{"toastType1": "Vegemite", "quantity1": "2"}
	id, err := store.Create("Alice", details, "no butter")
	assert.NoError(t, err)
	assert.Equal(t, uint(1), id)

	order, err := store.GetByID(id)
	assert.NoError(t, err)
	assert.Equal(t, "Alice", order.Name)
	assert.Equal(t, details, order.OrderDetails)
	assert.Equal(t, "no butter", order.Notes)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestOrderStoreGetMissing(t *testing.T) {
	store := NewGormOrderStore(setupTestDB(t))

	_, err := store.GetByID(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderStoreListActiveInsertionOrder(t *testing.T) {
	store := NewGormOrderStore(setupTestDB(t))

	first, _ := store.Create("Alice", nil, "")
	second, _ := store.Create("Bob", nil, "")

	orders, err := store.ListActive()
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, first, orders[0].ID)
	assert.Equal(t, second, orders[1].ID)
}

func TestOrderStoreServeMovesToArchive(t *testing.T) {
	store := NewGormOrderStore(setupTestDB(t))

	id, _ := store.Create("Alice", models.OrderDetails{"toastType1": "Vegemite"}, "")

	err := store.Serve(id)
	assert.NoError(t, err)

	// gone from the active set
	_, err = store.GetByID(id)
	assert.ErrorIs(t, err, ErrNotFound)

	active, _ := store.ListActive()
	assert.Empty(t, active)

	// present in the archive with a served timestamp
	archive, err := store.ListArchive()
	assert.NoError(t, err)
	assert.Len(t, archive, 1)
	assert.Equal(t, id, archive[0].ID)
	assert.Equal(t, "Alice", archive[0].Name)
	assert.False(t, archive[0].ServedAt.IsZero())
	assert.False(t, archive[0].ServedAt.Before(archive[0].CreatedAt))
}

func TestOrderStoreServeMissingLeavesStateAlone(t *testing.T) {
	store := NewGormOrderStore(setupTestDB(t))

	id, _ := store.Create("Alice", nil, "")
	assert.NoError(t, store.Serve(id))

	// serving again must fail and not duplicate the archive row
	err := store.Serve(id)
	assert.ErrorIs(t, err, ErrNotFound)

	archive, _ := store.ListArchive()
	assert.Len(t, archive, 1)

	active, _ := store.ListActive()
	assert.Empty(t, active)
}

func TestOrderStoreAverageServeDuration(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormOrderStore(db)

	// empty window -> 0, not an error
	avg, err := store.AverageServeDuration(5 * time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, float64(0), avg)

	now := time.Now()
	db.Create(&models.ServedOrder{
		ID: 1, Name: "Alice", OrderDetails: models.OrderDetails{},
		CreatedAt: now.Add(-90 * time.Second), ServedAt: now.Add(-30 * time.Second),
	})
	db.Create(&models.ServedOrder{
		ID: 2, Name: "Bob", OrderDetails: models.OrderDetails{},
		CreatedAt: now.Add(-140 * time.Second), ServedAt: now.Add(-20 * time.Second),
	})
	// served outside the window, must not count
	db.Create(&models.ServedOrder{
		ID: 3, Name: "Carol", OrderDetails: models.OrderDetails{},
		CreatedAt: now.Add(-2 * time.Hour), ServedAt: now.Add(-1 * time.Hour),
	})

	avg, err = store.AverageServeDuration(5 * time.Minute)
	assert.NoError(t, err)
	// (60 + 120) / 2
	assert.InDelta(t, 90, avg, 0.5)
}
