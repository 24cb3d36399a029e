// Package update defines the device-facing update check payload. Field names
// are part of the client plugin contract and must not change.
package update

import (
	"github.com/updrift/updrift/internal/engine"
	"github.com/updrift/updrift/internal/store"
)

// CheckRequest is the body of POST /updates and POST /updates_lite.
type CheckRequest struct {
	AppID          string `json:"app_id" binding:"required,appid"`
	DeviceID       string `json:"device_id" binding:"required,deviceid"`
	VersionName    string `json:"version_name"`
	VersionBuild   string `json:"version_build"`
	VersionOS      string `json:"version_os"`
	PluginVersion  string `json:"plugin_version"`
	Platform       string `json:"platform" binding:"required,platform"`
	IsEmulator     bool   `json:"is_emulator"`
	IsProd         bool   `json:"is_prod"`
	CustomID       string `json:"custom_id"`
	DefaultChannel string `json:"defaultChannel"`
}

// ToEngine maps the wire payload onto the engine's request type.
func (r *CheckRequest) ToEngine() engine.Request {
	return engine.Request{
		AppID:          r.AppID,
		DeviceID:       r.DeviceID,
		VersionName:    r.VersionName,
		VersionBuild:   r.VersionBuild,
		VersionOS:      r.VersionOS,
		PluginVersion:  r.PluginVersion,
		Platform:       store.Platform(r.Platform),
		IsEmulator:     r.IsEmulator,
		IsProd:         r.IsProd,
		CustomID:       r.CustomID,
		DefaultChannel: r.DefaultChannel,
	}
}
