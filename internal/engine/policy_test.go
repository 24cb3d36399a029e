package engine

import (
	"testing"

	"github.com/updrift/updrift/internal/store"
)

func strPtr(s string) *string { return &s }

func policyInput(mutate func(*PolicyInput)) PolicyInput {
	in := PolicyInput{
		Channel: store.Channel{
			ID:                1,
			AppID:             "com.demo.app",
			Name:              "production",
			Public:            true,
			IOS:               true,
			Android:           true,
			DisableAutoUpdate: store.GateNone,
			AllowDev:          true,
			AllowEmulator:     true,
		},
		Target: store.Version{
			ID:     2,
			Name:   "1.1.0",
			R2Path: strPtr("org/app/1.1.0.zip"),
		},
		Platform:      store.PlatformIOS,
		VersionName:   "1.0.0",
		VersionBuild:  "1.0.0",
		PluginVersion: "6.2.0",
		IsProd:        true,
	}
	if mutate != nil {
		mutate(&in)
	}
	return in
}

func TestPolicyApproves(t *testing.T) {
	if reject := evaluatePolicy(policyInput(nil)); reject != nil {
		t.Fatalf("expected approval, got %+v", reject)
	}
}

func TestPolicyNoNewVersion(t *testing.T) {
	in := policyInput(func(in *PolicyInput) {
		in.VersionName = "1.1.0"
	})
	reject := evaluatePolicy(in)
	if reject == nil || reject.Code != CodeNoNewVersion {
		t.Fatalf("expected no_new_version_available, got %+v", reject)
	}
}

func TestPolicyMissingBundle(t *testing.T) {
	in := policyInput(func(in *PolicyInput) {
		in.Target.R2Path = nil
	})
	reject := evaluatePolicy(in)
	if reject == nil || reject.Code != CodeNoBundle {
		t.Fatalf("expected no_bundle, got %+v", reject)
	}
	if reject.ActionName() != "missingBundle" {
		t.Errorf("telemetry action = %s; want missingBundle", reject.ActionName())
	}
}

func TestPolicyDisabledPlatform(t *testing.T) {
	in := policyInput(func(in *PolicyInput) {
		in.Channel.IOS = false
	})
	reject := evaluatePolicy(in)
	if reject == nil || reject.Code != CodeDisabledPlatformIos {
		t.Fatalf("expected disabled_platform_ios, got %+v", reject)
	}

	in = policyInput(func(in *PolicyInput) {
		in.Platform = store.PlatformAndroid
		in.Channel.Android = false
	})
	reject = evaluatePolicy(in)
	if reject == nil || reject.Code != CodeDisabledPlatformAnd {
		t.Fatalf("expected disabled_platform_android, got %+v", reject)
	}
}

func TestPolicyPrivateChannel(t *testing.T) {
	in := policyInput(func(in *PolicyInput) {
		in.Channel.Public = false
		in.Channel.AllowDeviceSelfSet = false
	})
	reject := evaluatePolicy(in)
	if reject == nil || reject.Code != CodePrivateChannel {
		t.Fatalf("expected cannot_update_via_private_channel, got %+v", reject)
	}
}

func TestPolicyGateOrdering(t *testing.T) {
	// A major bump under "major" gating must report the major rejection
	// even though the minor also increased.
	in := policyInput(func(in *PolicyInput) {
		in.Channel.DisableAutoUpdate = store.GateMajor
		in.Target.Name = "2.1.0"
	})
	reject := evaluatePolicy(in)
	if reject == nil || reject.Code != CodeDisableToMajor {
		t.Fatalf("expected disable_auto_update_to_major, got %+v", reject)
	}
	if !reject.Major || reject.Version != "2.1.0" || reject.Old != "1.0.0" {
		t.Errorf("gating body wrong: %+v", reject)
	}
}

func TestPolicyMinorGate(t *testing.T) {
	in := policyInput(func(in *PolicyInput) {
		in.Channel.DisableAutoUpdate = store.GateMinor
		in.Target.Name = "1.2.0"
	})
	reject := evaluatePolicy(in)
	if reject == nil || reject.Code != CodeDisableToMinor {
		t.Fatalf("expected disable_auto_update_to_minor, got %+v", reject)
	}
	if reject.Major {
		t.Error("minor gating must not set the major flag")
	}
}

func TestPolicyPatchGate(t *testing.T) {
	tests := []struct {
		target string
		code   Code
	}{
		{"1.0.1", ""},                  // strict patch increase passes
		{"1.1.0", CodeDisableToPatch},  // minor bump blocked
		{"2.0.0", CodeDisableToPatch},  // major bump blocked
		{"0.9.9", CodeDisableToPatch},  // downgrade blocked
	}

	for _, tt := range tests {
		in := policyInput(func(in *PolicyInput) {
			in.Channel.DisableAutoUpdate = store.GatePatch
			in.Channel.DisableAutoUpdateUnderNative = false
			in.Target.Name = tt.target
		})
		reject := evaluatePolicy(in)
		if tt.code == "" {
			if reject != nil {
				t.Errorf("target %s: expected approval, got %+v", tt.target, reject)
			}
			continue
		}
		if reject == nil || reject.Code != tt.code {
			t.Errorf("target %s: expected %s, got %+v", tt.target, tt.code, reject)
		}
	}
}

func TestPolicyVersionNumberGate(t *testing.T) {
	// Missing min_update_version means the channel is misconfigured.
	in := policyInput(func(in *PolicyInput) {
		in.Channel.DisableAutoUpdate = store.GateVersionNumber
		in.Target.MinUpdateVersion = nil
	})
	reject := evaluatePolicy(in)
	if reject == nil || reject.Code != CodeMisconfiguredChannel {
		t.Fatalf("expected misconfigured_channel, got %+v", reject)
	}

	in = policyInput(func(in *PolicyInput) {
		in.Channel.DisableAutoUpdate = store.GateVersionNumber
		in.Target.MinUpdateVersion = strPtr("1.0.5")
	})
	reject = evaluatePolicy(in)
	if reject == nil || reject.Code != CodeDisableToMetadata {
		t.Fatalf("expected disable_auto_update_to_metadata, got %+v", reject)
	}

	in = policyInput(func(in *PolicyInput) {
		in.Channel.DisableAutoUpdate = store.GateVersionNumber
		in.Target.MinUpdateVersion = strPtr("1.0.0")
	})
	if reject := evaluatePolicy(in); reject != nil {
		t.Fatalf("met metadata floor must pass, got %+v", reject)
	}
}

func TestPolicyUnderNative(t *testing.T) {
	in := policyInput(func(in *PolicyInput) {
		in.Channel.DisableAutoUpdateUnderNative = true
		in.Target.Name = "0.9.0"
	})
	reject := evaluatePolicy(in)
	if reject == nil || reject.Code != CodeDisableUnderNative {
		t.Fatalf("expected disable_auto_update_under_native, got %+v", reject)
	}
}

func TestPolicyDevAndEmulator(t *testing.T) {
	in := policyInput(func(in *PolicyInput) {
		in.Channel.AllowDev = false
		in.IsProd = false
	})
	reject := evaluatePolicy(in)
	if reject == nil || reject.Code != CodeDisableDevBuild {
		t.Fatalf("expected disable_dev_build, got %+v", reject)
	}

	in = policyInput(func(in *PolicyInput) {
		in.Channel.AllowEmulator = false
		in.IsEmulator = true
	})
	reject = evaluatePolicy(in)
	if reject == nil || reject.Code != CodeDisableEmulator {
		t.Fatalf("expected disable_emulator, got %+v", reject)
	}
}

func TestPolicyBuiltinRevert(t *testing.T) {
	// Old plugins cannot understand the revert instruction.
	in := policyInput(func(in *PolicyInput) {
		in.Target = store.Version{ID: 9, Name: store.BuiltinVersion}
		in.PluginVersion = "6.1.0"
	})
	reject := evaluatePolicy(in)
	if reject == nil || reject.Code != CodeRevertPluginTooOld {
		t.Fatalf("expected revert_to_builtin_plugin_version_too_old, got %+v", reject)
	}

	in = policyInput(func(in *PolicyInput) {
		in.Target = store.Version{ID: 9, Name: store.BuiltinVersion}
		in.PluginVersion = "6.2.0"
	})
	if reject := evaluatePolicy(in); reject != nil {
		t.Fatalf("plugin 6.2.0 must accept builtin revert, got %+v", reject)
	}

	// A device already on builtin gets the no-op outcome first.
	in = policyInput(func(in *PolicyInput) {
		in.Target = store.Version{ID: 9, Name: store.BuiltinVersion}
		in.VersionName = store.BuiltinVersion
		in.PluginVersion = "6.1.0"
	})
	reject = evaluatePolicy(in)
	if reject == nil || reject.Code != CodeNoNewVersion {
		t.Fatalf("expected no_new_version_available, got %+v", reject)
	}
}

func TestPolicyIdempotence(t *testing.T) {
	in := policyInput(func(in *PolicyInput) {
		in.VersionName = "1.1.0"
	})
	first := evaluatePolicy(in)
	second := evaluatePolicy(in)
	if first == nil || second == nil || first.Code != second.Code {
		t.Fatalf("same input must yield same outcome: %+v vs %+v", first, second)
	}
}
