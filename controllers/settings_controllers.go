package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qahs/toast-board/board"
	"github.com/qahs/toast-board/models"
	"github.com/qahs/toast-board/services"
	"github.com/qahs/toast-board/stores"
	"github.com/qahs/toast-board/utils"
)

type SettingsController struct {
	Service  *services.OrderService
	Settings stores.SettingsStore
}

func NewSettingsController(service *services.OrderService, settings stores.SettingsStore) *SettingsController {
	return &SettingsController{Service: service, Settings: settings}
}

// GetOrderTakingState -> current value of the order-taking flag
func (sc *SettingsController) GetOrderTakingState(c *gin.Context) {
	value, err := sc.Settings.Get(models.SettingOrderTaking)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("order taking setting not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": value})
}

// ToggleOrderTaking -> flips the flag and reports the new value
func (sc *SettingsController) ToggleOrderTaking(c *gin.Context) {
	newValue, err := sc.Service.ToggleOrderTaking()
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("order taking setting not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastOrderTakingToggled(newValue)

	utils.RespondJSON(c, http.StatusOK, "Order taking toggled", gin.H{"newValue": newValue})
}

// GetOrderReadyTime -> the configured ready time, as stored
func (sc *SettingsController) GetOrderReadyTime(c *gin.Context) {
	value, err := sc.Service.ReadyTime()
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("order ready time setting not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderReadyTime": value})
}

// UpdateOrderReadyTime stores whatever was sent, number or string. The board
// has never bounds-checked this value and callers rely on that.
func (sc *SettingsController) UpdateOrderReadyTime(c *gin.Context) {
	var body struct {
		NewTime interface{} `json:"newTime" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	value := settingValueString(body.NewTime)
	if err := sc.Service.UpdateReadyTime(value); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastReadyTimeUpdated(value)

	utils.RespondJSON(c, http.StatusOK, "Order ready time updated", nil)
}

func settingValueString(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return ""
	}
}
