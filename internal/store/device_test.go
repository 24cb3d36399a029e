package store

import (
	"testing"
)

func TestCanonicalField(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"  ", ""},
		{"null", ""},
		{"NULL", ""},
		{"undefined", ""},
		{" 1.2.3 ", "1.2.3"},
		{"hello", "hello"},
	}

	for _, tt := range tests {
		if got := CanonicalField(tt.in); got != tt.expected {
			t.Errorf("CanonicalField(%q) = %q; want %q", tt.in, got, tt.expected)
		}
	}
}

func TestDeviceChanged(t *testing.T) {
	base := func() *Device {
		return &Device{
			AppID:         "com.demo.app",
			DeviceID:      "abc",
			Platform:      PlatformIOS,
			OSVersion:     "17.4",
			PluginVersion: "6.2.0",
			VersionBuild:  "1.0.0",
			VersionName:   "1.0.0",
			IsProd:        true,
		}
	}

	if DeviceChanged(nil, base()) != true {
		t.Error("nil stored record must count as changed")
	}

	same := base()
	if DeviceChanged(base(), same) {
		t.Error("identical records must not count as changed")
	}

	// Null-vs-empty must compare equal across stores.
	stored := base()
	stored.CustomID = "null"
	incoming := base()
	incoming.CustomID = ""
	if DeviceChanged(stored, incoming) {
		t.Error("null and empty custom_id must compare equal")
	}

	bumped := base()
	bumped.VersionName = "1.1.0"
	if !DeviceChanged(base(), bumped) {
		t.Error("version_name bump must count as changed")
	}
}
