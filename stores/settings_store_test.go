package stores

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qahs/toast-board/models"
)

func TestSettingsStoreGetMissing(t *testing.T) {
	store := NewGormSettingsStore(setupTestDB(t))

	_, err := store.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettingsStoreSetUpserts(t *testing.T) {
	store := NewGormSettingsStore(setupTestDB(t))

	assert.NoError(t, store.Set(models.SettingOrderReadyTime, "300"))

	value, err := store.Get(models.SettingOrderReadyTime)
	assert.NoError(t, err)
	assert.Equal(t, "300", value)

	// overwrite, no second row
	assert.NoError(t, store.Set(models.SettingOrderReadyTime, "600"))
	value, _ = store.Get(models.SettingOrderReadyTime)
	assert.Equal(t, "600", value)

	var count int64
	store.DB.Model(&models.Setting{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSettingsStoreToggleInvolutive(t *testing.T) {
	store := NewGormSettingsStore(setupTestDB(t))
	assert.NoError(t, store.Set(models.SettingOrderTaking, "1"))

	first, err := store.ToggleBoolean(models.SettingOrderTaking)
	assert.NoError(t, err)
	assert.Equal(t, "0", first)

	second, err := store.ToggleBoolean(models.SettingOrderTaking)
	assert.NoError(t, err)
	assert.Equal(t, "1", second)

	value, _ := store.Get(models.SettingOrderTaking)
	assert.Equal(t, "1", value)
}

func TestSettingsStoreToggleMissing(t *testing.T) {
	store := NewGormSettingsStore(setupTestDB(t))

	_, err := store.ToggleBoolean("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
