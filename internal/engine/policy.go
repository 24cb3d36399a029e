package engine

import (
	"github.com/updrift/updrift/internal/semver"
	"github.com/updrift/updrift/internal/store"
)

// PolicyInput is the resolved (channel, target, device) triple the gate
// sequence runs over. VersionBuild and PluginVersion are already normalized.
type PolicyInput struct {
	Channel       store.Channel
	Target        store.Version
	Platform      store.Platform
	VersionName   string
	VersionBuild  string
	PluginVersion string
	IsProd        bool
	IsEmulator    bool
}

// minBuiltinPlugin is the first client generation that understands the
// revert-to-builtin instruction.
const minBuiltinPlugin = "6.2.0"

// evaluatePolicy runs the gating state machine in strict order; the first
// failing state terminates with its distinct outcome. A nil return means the
// target is approved (including the builtin sentinel, which the caller turns
// into a minimal revert instruction).
func evaluatePolicy(in PolicyInput) *Reject {
	targetIsBuiltin := in.Target.Name == store.BuiltinVersion

	// 1. Most common outcome: the device already runs the target.
	if in.VersionName == in.Target.Name {
		return &Reject{
			Code:    CodeNoNewVersion,
			Message: "No new version available",
		}
	}

	// 2. Target has no retrievable artifact.
	if !targetIsBuiltin && !hasArtifact(in.Target) {
		return &Reject{
			Code:    CodeNoBundle,
			Message: "Cannot get bundle",
			Action:  actionMissingBundle,
		}
	}

	// 3. Channel platform applicability.
	if in.Platform == store.PlatformIOS && !in.Channel.IOS {
		return &Reject{
			Code:    CodeDisabledPlatformIos,
			Message: "Cannot update, ios is disabled for this channel",
		}
	}
	if in.Platform == store.PlatformAndroid && !in.Channel.Android {
		return &Reject{
			Code:    CodeDisabledPlatformAnd,
			Message: "Cannot update, android is disabled for this channel",
		}
	}

	// 4. Private channels require self-assignment consent.
	if !in.Channel.Public && !in.Channel.AllowDeviceSelfSet {
		return &Reject{
			Code:    CodePrivateChannel,
			Message: "Cannot update via private channel",
		}
	}

	// 5-9. Semver gates. The builtin sentinel has no semver to gate on.
	if !targetIsBuiltin {
		if reject := evaluateSemverGates(in); reject != nil {
			return reject
		}
	}

	// 10. Dev builds.
	if !in.Channel.AllowDev && !in.IsProd {
		return &Reject{
			Code:    CodeDisableDevBuild,
			Message: "Cannot update dev build is disabled",
		}
	}

	// 11. Emulators.
	if !in.Channel.AllowEmulator && in.IsEmulator {
		return &Reject{
			Code:    CodeDisableEmulator,
			Message: "Cannot update emulator is disabled",
		}
	}

	// 12. The revert-to-builtin instruction needs a plugin new enough to
	// understand it.
	if targetIsBuiltin && !semver.GreaterOrEqual(in.PluginVersion, minBuiltinPlugin) {
		return &Reject{
			Code:    CodeRevertPluginTooOld,
			Message: "revert to builtin bundle is only available since plugin version 6.2.0",
		}
	}

	return nil
}

// evaluateSemverGates applies the channel's gating mode plus the
// under-native floor, comparing the target against the device's native
// build. Gating failures carry both versions for the client UI.
func evaluateSemverGates(in PolicyInput) *Reject {
	tMajor, tMinor, tPatch, err := semver.Parts(in.Target.Name)
	if err != nil {
		// A non-semver bundle name cannot be gated; treat the channel
		// as misconfigured rather than guessing.
		return &Reject{
			Code:    CodeMisconfiguredChannel,
			Message: "Channel target version is not semver",
		}
	}
	cMajor, cMinor, cPatch, err := semver.Parts(in.VersionBuild)
	if err != nil {
		return &Reject{
			Code:    CodeSemverError,
			Message: "Native version identifier is not semver",
		}
	}

	gated := func(code Code, message string) *Reject {
		return &Reject{
			Code:    code,
			Message: message,
			Major:   code == CodeDisableToMajor,
			Version: in.Target.Name,
			Old:     in.VersionBuild,
		}
	}

	switch in.Channel.DisableAutoUpdate {
	case store.GateMajor:
		// 5. Major bumps never auto-apply.
		if tMajor > cMajor {
			return gated(CodeDisableToMajor, "Cannot upgrade major version")
		}
	case store.GateMinor:
		// 6. Minor bumps never auto-apply (majors assumed equal).
		if tMinor > cMinor {
			return gated(CodeDisableToMinor, "Cannot upgrade minor version")
		}
	case store.GatePatch:
		// 7. Only a strict same-major-same-minor patch increase applies.
		if !(tMajor == cMajor && tMinor == cMinor && tPatch > cPatch) {
			return gated(CodeDisableToPatch, "Cannot upgrade patch version")
		}
	case store.GateVersionNumber:
		// 8. Metadata gating needs the bundle's floor to be set.
		if in.Target.MinUpdateVersion == nil || !semver.IsValid(*in.Target.MinUpdateVersion) {
			return &Reject{
				Code:    CodeMisconfiguredChannel,
				Message: "Channel is misconfigured",
				Version: in.Target.Name,
				Old:     in.VersionBuild,
			}
		}
		if semver.GreaterThan(*in.Target.MinUpdateVersion, in.VersionBuild) {
			return gated(CodeDisableToMetadata, "Cannot upgrade, metadata min_update_version requirement not met")
		}
	}

	// 9. Never silently revert below what shipped in the store binary.
	if in.Channel.DisableAutoUpdateUnderNative && semver.LessThan(in.Target.Name, in.VersionBuild) {
		return gated(CodeDisableUnderNative, "Cannot revert under native version")
	}

	return nil
}

func hasArtifact(v store.Version) bool {
	if v.ExternalURL != nil && *v.ExternalURL != "" {
		return true
	}
	if v.R2Path != nil && *v.R2Path != "" {
		return true
	}
	return len(v.Manifest) > 0
}
