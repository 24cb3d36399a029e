// Package engine is the update resolution engine: it turns (device identity,
// installed version, requested channel) into either "no update" or a
// policy-approved bundle reference.
package engine

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/updrift/updrift/internal/bucket"
	"github.com/updrift/updrift/internal/logging"
	"github.com/updrift/updrift/internal/notify"
	"github.com/updrift/updrift/internal/semver"
	"github.com/updrift/updrift/internal/store"
	"github.com/updrift/updrift/internal/telemetry"
)

// Engine resolves update checks. It holds no per-request mutable state;
// every call is an independent sequence of reads plus detached telemetry.
type Engine struct {
	selector *store.Selector
	signer   bucket.Signer
	sink     telemetry.Sink
	notifier notify.Notifier
	sched    telemetry.Scheduler
	logger   *logging.Logger
	signTTL  time.Duration
}

// New wires the engine.
func New(selector *store.Selector, signer bucket.Signer, sink telemetry.Sink, notifier notify.Notifier, sched telemetry.Scheduler, logger *logging.Logger, signTTL time.Duration) *Engine {
	return &Engine{
		selector: selector,
		signer:   signer,
		sink:     sink,
		notifier: notifier,
		sched:    sched,
		logger:   logger,
		signTTL:  signTTL,
	}
}

// CheckUpdate resolves one update check on a probabilistically selected
// backend (the live-migration traffic split).
func (e *Engine) CheckUpdate(ctx context.Context, req Request) Result {
	return e.checkUpdate(ctx, req, e.selector.Pick())
}

// CheckUpdateLite is the lite-generation endpoint: it pins the read replica
// when one is wired, falling back to the primary otherwise. The response
// contract is identical.
func (e *Engine) CheckUpdateLite(ctx context.Context, req Request) Result {
	backend := e.selector.Replica()
	if backend == nil {
		backend = e.selector.Primary()
	}
	return e.checkUpdate(ctx, req, backend)
}

func (e *Engine) checkUpdate(ctx context.Context, req Request, backend store.Backend) Result {
	req.DeviceID = strings.ToLower(store.CanonicalField(req.DeviceID))

	versionBuild, err := semver.Normalize(req.VersionBuild)
	if err != nil {
		e.warnOwnerSemver(req, "version_build", req.VersionBuild)
		return ok(RejectBody{
			Message: "Native version identifier is not semver",
			Error:   CodeSemverError,
		})
	}
	req.VersionBuild = versionBuild

	pluginVersion, err := semver.Normalize(req.PluginVersion)
	if err != nil {
		e.warnOwnerSemver(req, "plugin_version", req.PluginVersion)
		return ok(RejectBody{
			Message: "Plugin version is not semver",
			Error:   CodeSemverError,
		})
	}
	req.PluginVersion = pluginVersion

	owner, err := backend.GetAppOwner(ctx, req.AppID)
	if errors.Is(err, store.ErrNotFound) {
		return ok(RejectBody{Message: "App not found", Error: CodeAppNotFound})
	}
	if err != nil {
		return e.infraFault("app owner lookup", err)
	}

	// Quota short-circuits before any version/channel work.
	plan, err := backend.GetOrgPlan(ctx, owner.OrgID)
	if errors.Is(err, store.ErrNotFound) {
		return ok(RejectBody{Message: "App not found", Error: CodeAppNotFound})
	}
	if err != nil {
		return e.infraFault("org plan lookup", err)
	}
	if !planAllowed(plan, ActionMAU, ActionBandwidth) {
		e.sink.RecordStats(req.AppID, req.DeviceID, actionNeedPlanUpgrade, 0)
		return ok(RejectBody{
			Message: "Cannot update, upgrade plan to continue to update",
			Error:   CodeNeedPlanUpgrade,
		})
	}

	res, err := backend.ResolveRequest(ctx, store.ResolveQuery{
		AppID:          req.AppID,
		DeviceID:       req.DeviceID,
		Platform:       req.Platform,
		VersionName:    req.VersionName,
		DefaultChannel: req.DefaultChannel,
	})
	if err != nil {
		return e.infraFault("request resolution", err)
	}

	// The direct device version pin is read but deliberately not honored
	// on this path; only the channel override routes updates.
	if res.VersionOverride != nil {
		e.logger.Debug("device %s/%s has version override %s (ignored)",
			req.AppID, req.DeviceID, res.VersionOverride.Name)
	}

	if res.RequestedVersion == nil {
		return e.finish(req, ok(RejectBody{
			Message: "Couldn't find version data",
			Error:   CodeNoVersionData,
		}), string(CodeNoVersionData), 0)
	}

	target := res.Override
	if target == nil {
		target = res.Channel
	}
	if target == nil {
		return e.finish(req, ok(RejectBody{
			Message: "No channel or override found",
			Error:   CodeNoChannel,
		}), actionNoChannel, 0)
	}

	version := pickTarget(target, req.DeviceID)

	reject := evaluatePolicy(PolicyInput{
		Channel:       target.Channel,
		Target:        version,
		Platform:      req.Platform,
		VersionName:   req.VersionName,
		VersionBuild:  req.VersionBuild,
		PluginVersion: req.PluginVersion,
		IsProd:        req.IsProd,
		IsEmulator:    req.IsEmulator,
	})
	if reject != nil {
		if reject.Code == CodeRevertPluginTooOld {
			e.warnOwnerPluginTooOld(req)
		}
		return e.finish(req, ok(reject.Body()), reject.ActionName(), version.ID)
	}

	if version.Name == store.BuiltinVersion {
		// Minimal revert instruction, no artifact to hand out.
		return e.finish(req, ok(&UpdateResponse{Version: store.BuiltinVersion}), actionGet, version.ID)
	}

	response, reject, err := e.buildBundleResponse(ctx, req, version)
	if err != nil {
		return e.infraFault("bundle resolution", err)
	}
	if reject != nil {
		return e.finish(req, ok(reject.Body()), reject.ActionName(), version.ID)
	}

	return e.finish(req, ok(response), actionGet, version.ID)
}

// finish fires the per-request telemetry once the response payload exists,
// then hands the result back. Nothing here blocks the response path.
func (e *Engine) finish(req Request, result Result, action string, versionID int64) Result {
	device := &store.Device{
		AppID:         req.AppID,
		DeviceID:      req.DeviceID,
		Platform:      req.Platform,
		OSVersion:     req.VersionOS,
		PluginVersion: req.PluginVersion,
		VersionBuild:  req.VersionBuild,
		VersionName:   req.VersionName,
		CustomID:      req.CustomID,
		IsProd:        req.IsProd,
		IsEmulator:    req.IsEmulator,
	}
	store.Canonicalize(device)

	e.sink.RecordDevice(device)
	e.sink.RecordMAU(req.AppID, req.DeviceID)
	if action != "" {
		e.sink.RecordStats(req.AppID, req.DeviceID, action, versionID)
	}
	return result
}

// warnOwnerSemver tells the app owner, at most once a week, that their
// devices send versions the engine cannot parse. Runs off the request path.
func (e *Engine) warnOwnerSemver(req Request, field, value string) {
	e.warnOwner(req, notify.EventSemverError, map[string]any{
		"app_id": req.AppID,
		"field":  field,
		"value":  value,
	})
}

// warnOwnerPluginTooOld tells the app owner that devices run a plugin too
// old to understand the revert-to-builtin instruction.
func (e *Engine) warnOwnerPluginTooOld(req Request) {
	e.warnOwner(req, notify.EventPluginTooOld, map[string]any{
		"app_id":         req.AppID,
		"plugin_version": req.PluginVersion,
	})
}

func (e *Engine) warnOwner(req Request, eventKey string, payload map[string]any) {
	e.sched.Schedule(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		owner, err := e.selector.Primary().GetAppOwner(ctx, req.AppID)
		if err != nil {
			e.logger.Warn("%s warning owner lookup failed for %s: %v", eventKey, req.AppID, err)
			return
		}
		if err := e.notifier.NotifyOrgOncePerInterval(ctx, eventKey, owner.OrgID, notify.WeeklyInterval, payload); err != nil {
			e.logger.Warn("%s warning notify failed for %s: %v", eventKey, req.AppID, err)
		}
	})
}

func (e *Engine) infraFault(what string, err error) Result {
	e.logger.Error("%s failed: %v", what, err)
	return Result{
		Status: http.StatusInternalServerError,
		Body: RejectBody{
			Message: "Something went wrong",
			Error:   CodeUnknownError,
		},
	}
}

func ok(body any) Result {
	return Result{Status: http.StatusOK, Body: body}
}
