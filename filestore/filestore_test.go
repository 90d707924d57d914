package filestore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/qahs/toast-board/models"
	"github.com/qahs/toast-board/stores"
)

func openTestStore(t *testing.T) *Store {
	s, err := Open(filepath.Join(t.TempDir(), "board.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func TestFileStoreDefaults(t *testing.T) {
	s := openTestStore(t)

	value, err := s.Get(models.SettingOrderTaking)
	assert.NoError(t, err)
	assert.Equal(t, "1", value)

	value, err = s.Get(models.SettingOrderReadyTime)
	assert.NoError(t, err)
	assert.Equal(t, "300", value)
}

func TestFileStoreOrderLifecycle(t *testing.T) {
	s := openTestStore(t)

	details := models.OrderDetails{"toastType1": "Vegemite", "quantity1": "2"}
	id, err := s.Create("Alice", details, "")
	assert.NoError(t, err)
	assert.Equal(t, uint(1), id)

	order, err := s.GetByID(id)
	assert.NoError(t, err)
	assert.Equal(t, details, order.OrderDetails)

	assert.NoError(t, s.Serve(id))

	_, err = s.GetByID(id)
	assert.ErrorIs(t, err, stores.ErrNotFound)

	archive, _ := s.ListArchive()
	assert.Len(t, archive, 1)
	assert.Equal(t, id, archive[0].ID)
	assert.False(t, archive[0].ServedAt.Before(archive[0].CreatedAt))

	// second serve of the same id fails and changes nothing
	assert.ErrorIs(t, s.Serve(id), stores.ErrNotFound)
	archive, _ = s.ListArchive()
	assert.Len(t, archive, 1)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")

	s, err := Open(path)
	assert.NoError(t, err)

	id, _ := s.Create("Alice", models.OrderDetails{"toastType1": "Cheese"}, "extra hot")
	_, _ = s.Add("C", "Cheese")
	assert.NoError(t, s.Set("spotifyRefreshToken", "tok"))

	reopened, err := Open(path)
	assert.NoError(t, err)

	order, err := reopened.GetByID(id)
	assert.NoError(t, err)
	assert.Equal(t, "Alice", order.Name)
	assert.Equal(t, "extra hot", order.Notes)

	types, _ := reopened.ListAvailable()
	assert.Len(t, types, 1)

	token, err := reopened.Get("spotifyRefreshToken")
	assert.NoError(t, err)
	assert.Equal(t, "tok", token)

	// ids keep counting from where the old process stopped
	next, _ := reopened.Create("Bob", nil, "")
	assert.Equal(t, id+1, next)
}

func TestFileStoreToggleAndSoftDelete(t *testing.T) {
	s := openTestStore(t)

	first, err := s.ToggleBoolean(models.SettingOrderTaking)
	assert.NoError(t, err)
	assert.Equal(t, "0", first)
	second, _ := s.ToggleBoolean(models.SettingOrderTaking)
	assert.Equal(t, "1", second)

	id, _ := s.Add("V", "Vegemite")
	assert.NoError(t, s.Remove(id))
	assert.NoError(t, s.Remove(id)) // idempotent
	types, _ := s.ListAvailable()
	assert.Empty(t, types)

	assert.ErrorIs(t, s.Remove(99), stores.ErrNotFound)
}

func TestFileStoreAverageServeDuration(t *testing.T) {
	s := openTestStore(t)

	avg, err := s.AverageServeDuration(5 * time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, float64(0), avg)

	id, _ := s.Create("Alice", nil, "")
	assert.NoError(t, s.Serve(id))

	avg, err = s.AverageServeDuration(5 * time.Minute)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, avg, float64(0))
}
