package model

import "time"

// DeviceRegistration links an account to a push-notification endpoint.
//
// Invariant: at most one registration exists per PlayerID system-wide.
// Registering a PlayerID that already belongs to another account transfers
// it to the new owner (the push provider hands out one player ID per device,
// so the device follows whoever logs in on it).
type DeviceRegistration struct {
	AccountID string    `json:"accountId"`
	PlayerID  string    `json:"playerId"`
	CreatedAt time.Time `json:"createdAt"`
}
