// Package channel defines the device self-assignment payloads.
package channel

import (
	"github.com/updrift/updrift/internal/engine"
	"github.com/updrift/updrift/internal/store"
)

// SelfRequest is the body of PUT /channel_self and DELETE /channel_self.
// GET uses the same fields as query parameters.
type SelfRequest struct {
	AppID    string `json:"app_id" form:"app_id" binding:"required,appid"`
	DeviceID string `json:"device_id" form:"device_id" binding:"required,deviceid"`
	Channel  string `json:"channel" form:"channel"`
}

// ToEngine maps the wire payload onto the engine's request type. The
// requested channel travels in DefaultChannel, same as on the update path.
func (r *SelfRequest) ToEngine() engine.Request {
	return engine.Request{
		AppID:          r.AppID,
		DeviceID:       r.DeviceID,
		Platform:       store.Platform(""),
		DefaultChannel: r.Channel,
	}
}
