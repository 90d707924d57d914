package services

import (
	"time"

	"github.com/qahs/toast-board/models"
	"github.com/qahs/toast-board/stores"
	"github.com/qahs/toast-board/utils"
)

// Order form field schema. The kiosk posts one pair of fields per line item:
// toastType1/quantity1, toastType2/quantity2, and so on. Anything outside
// these two prefixes is not part of an order and gets dropped.
const (
	ToastTypeFieldPrefix = "toastType"
	QuantityFieldPrefix  = "quantity"
)

// DefaultAverageWindow matches the /5min-average board widget.
const DefaultAverageWindow = 5 * time.Minute

// OrderService applies the board's business rules on top of the stores.
type OrderService struct {
	Orders   stores.OrderStore
	Settings stores.SettingsStore
	Spotify  *SpotifyService // optional, may be nil
}

func NewOrderService(orders stores.OrderStore, settings stores.SettingsStore, spotify *SpotifyService) *OrderService {
	return &OrderService{
		Orders:   orders,
		Settings: settings,
		Spotify:  spotify,
	}
}

// ExtractOrderDetails builds the details bag from a raw form field bag,
// keeping only entries under the documented prefixes with string values.
// An empty result is fine; an order with no line items is still an order.
func ExtractOrderDetails(rawFields map[string]interface{}) models.OrderDetails {
	details := models.OrderDetails{}
	for key, value := range rawFields {
		if !hasOrderFieldPrefix(key) {
			continue
		}
		str, ok := value.(string)
		if !ok {
			continue
		}
		details[key] = str
	}
	return details
}

func hasOrderFieldPrefix(key string) bool {
	for _, prefix := range []string{ToastTypeFieldPrefix, QuantityFieldPrefix} {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// PlaceOrder creates an active order from a kiosk submission. When the
// submission carries a Spotify track id, the track is queued best effort in
// the background; a queue failure never affects the placed order.
func (svc *OrderService) PlaceOrder(name, notes string, rawFields map[string]interface{}, trackID string) (uint, error) {
	details := ExtractOrderDetails(rawFields)

	id, err := svc.Orders.Create(name, details, notes)
	if err != nil {
		return 0, err
	}

	if trackID != "" && svc.Spotify != nil {
		go func() {
			if err := svc.Spotify.QueueTrack(trackID); err != nil {
				utils.ErrorLogger.Printf("queue track %s for order %d: %v", trackID, id, err)
			}
		}()
	}

	return id, nil
}

func (svc *OrderService) ServeOrder(id uint) error {
	return svc.Orders.Serve(id)
}

// OrderTakingEnabled reports whether the stand currently accepts orders.
// A missing setting counts as enabled so a fresh store does not lock the
// stand closed.
func (svc *OrderService) OrderTakingEnabled() (bool, error) {
	value, err := svc.Settings.Get(models.SettingOrderTaking)
	if err == stores.ErrNotFound {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return value == "1", nil
}

func (svc *OrderService) ToggleOrderTaking() (string, error) {
	return svc.Settings.ToggleBoolean(models.SettingOrderTaking)
}

func (svc *OrderService) ReadyTime() (string, error) {
	return svc.Settings.Get(models.SettingOrderReadyTime)
}

// UpdateReadyTime stores the value as given. The board has never validated
// this number; keeping it permissive is deliberate.
func (svc *OrderService) UpdateReadyTime(value string) error {
	return svc.Settings.Set(models.SettingOrderReadyTime, value)
}

func (svc *OrderService) AverageServeTime(window time.Duration) (float64, error) {
	if window <= 0 {
		window = DefaultAverageWindow
	}
	return svc.Orders.AverageServeDuration(window)
}
