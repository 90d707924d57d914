package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qahs/toast-board/stores"
	"github.com/qahs/toast-board/utils"
)

type ToastTypeController struct {
	Types stores.ToastTypeStore
}

func NewToastTypeController(types stores.ToastTypeStore) *ToastTypeController {
	return &ToastTypeController{Types: types}
}

// GetToastTypes -> all currently available toast types
func (tc *ToastTypeController) GetToastTypes(c *gin.Context) {
	types, err := tc.Types.ListAvailable()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available toast types", types)
}

// AddToastType -> register a new menu code
func (tc *ToastTypeController) AddToastType(c *gin.Context) {
	var body struct {
		Code string `json:"code"`
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	id, err := tc.Types.Add(body.Code, body.Type)
	if err != nil {
		if errors.Is(err, stores.ErrValidation) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Toast type added", gin.H{"id": id})
}

// RemoveToastType -> soft delete; the row stays so old orders keep their codes
func (tc *ToastTypeController) RemoveToastType(c *gin.Context) {
	var body struct {
		ID uint `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := tc.Types.Remove(body.ID); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, fmt.Errorf("toast type %d not found", body.ID))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Toast type removed", gin.H{"id": body.ID})
}
