package validation

import "testing"

func TestValidAppID(t *testing.T) {
	tests := []struct {
		appID string
		want  bool
	}{
		{"com.example.app", true},
		{"ee.forgr.capacitor_go", true},
		{"io.app", true},
		{"app", false},
		{"", false},
		{".com.example", false},
		{"com.example.", false},
		{"com.exa mple.app", false},
		{"1com.example.app", false},
	}
	for _, tt := range tests {
		if got := ValidAppID(tt.appID); got != tt.want {
			t.Errorf("ValidAppID(%q) = %v, want %v", tt.appID, got, tt.want)
		}
	}
}

func TestValidDeviceID(t *testing.T) {
	tests := []struct {
		deviceID string
		want     bool
	}{
		{"9929bb77-2a8f-4b4f-a893-2129a2cf0b1e", true},
		{"ABC123", true},
		{"dev_01", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
	}
	for _, tt := range tests {
		if got := ValidDeviceID(tt.deviceID); got != tt.want {
			t.Errorf("ValidDeviceID(%q) = %v, want %v", tt.deviceID, got, tt.want)
		}
	}
}

func TestValidPlatform(t *testing.T) {
	if !ValidPlatform("ios") || !ValidPlatform("android") {
		t.Error("expected ios and android to validate")
	}
	if ValidPlatform("windows") || ValidPlatform("") {
		t.Error("expected unknown platforms to fail")
	}
}
