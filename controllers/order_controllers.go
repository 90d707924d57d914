package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qahs/toast-board/board"
	"github.com/qahs/toast-board/services"
	"github.com/qahs/toast-board/stores"
	"github.com/qahs/toast-board/utils"
)

type OrderController struct {
	Service *services.OrderService
	Orders  stores.OrderStore
}

func NewOrderController(service *services.OrderService, orders stores.OrderStore) *OrderController {
	return &OrderController{Service: service, Orders: orders}
}

// CreateOrder -> place a new order from the kiosk form. The body is a flat
// bag: name, notes, optional trackId, plus the toastTypeN/quantityN pairs.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	enabled, err := oc.Service.OrderTakingEnabled()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !enabled {
		utils.RespondError(c, http.StatusForbidden, errors.New("order taking is currently disabled"))
		return
	}

	name, _ := body["name"].(string)
	notes, _ := body["notes"].(string)
	trackID, _ := body["trackId"].(string)

	id, err := oc.Service.PlaceOrder(name, notes, body, trackID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if order, err := oc.Orders.GetByID(id); err == nil {
		board.BroadcastOrderPlaced(order)
	}

	utils.RespondJSON(c, http.StatusCreated, "Order placed", gin.H{"order_id": id})
}

// GetAllOrders -> every order still on the board
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.ListActive()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> detail of one active order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	idStr := c.Param("orderId")
	id, _ := strconv.Atoi(idStr)

	order, err := oc.Orders.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, fmt.Errorf("order %d not found", id))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// ServeOrder -> moves one order from the board into the served archive
func (oc *OrderController) ServeOrder(c *gin.Context) {
	var body struct {
		OrderID uint `json:"orderId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.Service.ServeOrder(body.OrderID); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, fmt.Errorf("order %d not found", body.OrderID))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastOrderServed(body.OrderID)

	utils.RespondJSON(c, http.StatusOK, "Order served", gin.H{"order_id": body.OrderID})
}

// GetAverageServeTime -> mean serve duration over the trailing five minutes
func (oc *OrderController) GetAverageServeTime(c *gin.Context) {
	average, err := oc.Service.AverageServeTime(services.DefaultAverageWindow)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"averageServeTime": average})
}
