package models

// Setting keys used by the board.
const (
	SettingOrderTaking         = "orderTakingEnabled"
	SettingOrderReadyTime      = "orderReadyTime"
	SettingSpotifyRefreshToken = "spotifyRefreshToken"
)

type Setting struct {
	Key   string `gorm:"primaryKey;type:varchar(100)" json:"key"`
	Value string `gorm:"type:varchar(255);not null" json:"value"`
}
