package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/updrift/updrift/internal/store"
)

// Self-assignment wire codes.
const (
	CodeChannelNotFound   Code = "channel_not_found"
	CodeSelfSetNotAllowed Code = "channel_set_not_allowed"
	CodeNoOverride        Code = "no_override"
)

// SelfAssignBody is the success body of the channel_self endpoints.
type SelfAssignBody struct {
	Status  string `json:"status"`
	Channel string `json:"channel,omitempty"`
}

// GetSelfChannel returns the channel a device is currently pinned to, or
// the public default when no override exists. Overrides are created and
// deleted only through these endpoints; the resolution path just reads them.
func (e *Engine) GetSelfChannel(ctx context.Context, req Request) Result {
	req.DeviceID = strings.ToLower(store.CanonicalField(req.DeviceID))
	backend := e.selector.Primary()

	channel, err := backend.GetChannelOverride(ctx, req.AppID, req.DeviceID)
	if errors.Is(err, store.ErrNotFound) {
		return ok(SelfAssignBody{Status: "default"})
	}
	if err != nil {
		return e.infraFault("channel override lookup", err)
	}
	return ok(SelfAssignBody{Status: "override", Channel: channel.Name})
}

// SetSelfChannel pins a device to the named channel, provided the channel
// permits device self-assignment.
func (e *Engine) SetSelfChannel(ctx context.Context, req Request) Result {
	req.DeviceID = strings.ToLower(store.CanonicalField(req.DeviceID))
	backend := e.selector.Primary()

	channel, err := backend.GetChannelByName(ctx, req.AppID, req.DefaultChannel)
	if errors.Is(err, store.ErrNotFound) {
		return ok(RejectBody{Message: "Channel not found", Error: CodeChannelNotFound})
	}
	if err != nil {
		return e.infraFault("channel lookup", err)
	}

	if !channel.AllowDeviceSelfSet {
		return ok(RejectBody{
			Message: "Channel does not permit device self association",
			Error:   CodeSelfSetNotAllowed,
		})
	}

	if err := backend.SetChannelOverride(ctx, req.AppID, req.DeviceID, channel.ID); err != nil {
		return e.infraFault("set channel override", err)
	}

	e.sink.RecordStats(req.AppID, req.DeviceID, "setChannel", 0)
	return ok(SelfAssignBody{Status: "ok", Channel: channel.Name})
}

// DeleteSelfChannel removes a device's channel override.
func (e *Engine) DeleteSelfChannel(ctx context.Context, req Request) Result {
	req.DeviceID = strings.ToLower(store.CanonicalField(req.DeviceID))
	backend := e.selector.Primary()

	if _, err := backend.GetChannelOverride(ctx, req.AppID, req.DeviceID); errors.Is(err, store.ErrNotFound) {
		return ok(RejectBody{Message: "No override found", Error: CodeNoOverride})
	} else if err != nil {
		return e.infraFault("channel override lookup", err)
	}

	if err := backend.DeleteChannelOverride(ctx, req.AppID, req.DeviceID); err != nil {
		return e.infraFault("delete channel override", err)
	}

	e.sink.RecordStats(req.AppID, req.DeviceID, "deleteChannel", 0)
	return ok(SelfAssignBody{Status: "ok"})
}
