package engine

// Code is a stable wire error code. Policy outcomes travel in HTTP 200
// bodies; polling clients must be able to tell "nothing to do" from a broken
// transport, so only infrastructure faults become HTTP 5xx.
type Code string

const (
	// Client input errors (HTTP 400).
	CodeInvalidJSONBody Code = "invalid_json_body"
	CodeMissingAppID    Code = "missing_app_id"
	CodeMissingDeviceID Code = "missing_device_id"
	CodeInvalidAppID    Code = "invalid_app_id"
	CodeInvalidDeviceID Code = "invalid_device_id"
	CodeInvalidPlatform Code = "invalid_platform"

	// Policy outcomes (HTTP 200).
	CodeSemverError          Code = "semver_error"
	CodeNeedPlanUpgrade      Code = "need_plan_upgrade"
	CodeAppNotFound          Code = "app_not_found"
	CodeNoVersionData        Code = "no-version_data"
	CodeNoChannel            Code = "no_channel"
	CodeNoNewVersion         Code = "no_new_version_available"
	CodeNoBundle             Code = "no_bundle"
	CodeDisabledPlatformIos  Code = "disabled_platform_ios"
	CodeDisabledPlatformAnd  Code = "disabled_platform_android"
	CodePrivateChannel       Code = "cannot_update_via_private_channel"
	CodeDisableToMajor       Code = "disable_auto_update_to_major"
	CodeDisableToMinor       Code = "disable_auto_update_to_minor"
	CodeDisableToPatch       Code = "disable_auto_update_to_patch"
	CodeMisconfiguredChannel Code = "misconfigured_channel"
	CodeDisableToMetadata    Code = "disable_auto_update_to_metadata"
	CodeDisableUnderNative   Code = "disable_auto_update_under_native"
	CodeDisableDevBuild      Code = "disable_dev_build"
	CodeDisableEmulator      Code = "disable_emulator"
	CodeRevertPluginTooOld   Code = "revert_to_builtin_plugin_version_too_old"
	CodeNoBundleURL          Code = "no_bundle_url"

	// Infrastructure faults (HTTP 500). Legacy spelling is part of the
	// contract; ten generations of client libraries match on it.
	CodeUnknownError Code = "unknow_error"
)

// Telemetry action names that differ from their wire code.
const (
	actionNoChannel       = "NoChannelOrOverride"
	actionNeedPlanUpgrade = "needPlanUpgrade"
	actionMissingBundle   = "missingBundle"
	actionGet             = "get"
)

// Reject is a policy outcome terminating a resolution. It is not a Go error:
// expected outcomes flow through return values, not exception-style control
// flow.
type Reject struct {
	Code    Code
	Message string
	// Action overrides the telemetry action name when it differs from Code.
	Action string
	// Gating failures carry the blocked target and the device's current
	// version so clients can render "update available but held back".
	Major   bool
	Version string
	Old     string
}

// ActionName returns the telemetry action recorded for this outcome.
func (r *Reject) ActionName() string {
	if r.Action != "" {
		return r.Action
	}
	return string(r.Code)
}

// RejectBody is the HTTP 200 soft-failure body.
type RejectBody struct {
	Message string `json:"message"`
	Error   Code   `json:"error"`
	Major   bool   `json:"major,omitempty"`
	Version string `json:"version,omitempty"`
	Old     string `json:"old,omitempty"`
}

// Body converts the outcome to its wire shape.
func (r *Reject) Body() RejectBody {
	return RejectBody{
		Message: r.Message,
		Error:   r.Code,
		Major:   r.Major,
		Version: r.Version,
		Old:     r.Old,
	}
}
