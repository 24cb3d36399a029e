package store

import (
	"strings"
)

// CanonicalField collapses the empty-string/null/whitespace variants the two
// stores produce for unset text columns into one canonical representation.
// Both the write path and the changed-field comparison go through it.
func CanonicalField(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, "null") || strings.EqualFold(trimmed, "undefined") {
		return ""
	}
	return trimmed
}

// Canonicalize normalizes a device record in place: identity lowercased,
// text attributes canonicalized.
func Canonicalize(d *Device) {
	d.DeviceID = strings.ToLower(CanonicalField(d.DeviceID))
	d.AppID = CanonicalField(d.AppID)
	d.OSVersion = CanonicalField(d.OSVersion)
	d.PluginVersion = CanonicalField(d.PluginVersion)
	d.VersionBuild = CanonicalField(d.VersionBuild)
	d.VersionName = CanonicalField(d.VersionName)
	d.CustomID = CanonicalField(d.CustomID)
}

// DeviceChanged reports whether any comparable field differs between the
// stored record and the incoming one. UpdatedAt is not comparable.
func DeviceChanged(stored, incoming *Device) bool {
	if stored == nil {
		return true
	}
	return stored.Platform != incoming.Platform ||
		CanonicalField(stored.OSVersion) != CanonicalField(incoming.OSVersion) ||
		CanonicalField(stored.PluginVersion) != CanonicalField(incoming.PluginVersion) ||
		CanonicalField(stored.VersionBuild) != CanonicalField(incoming.VersionBuild) ||
		CanonicalField(stored.VersionName) != CanonicalField(incoming.VersionName) ||
		CanonicalField(stored.CustomID) != CanonicalField(incoming.CustomID) ||
		stored.IsProd != incoming.IsProd ||
		stored.IsEmulator != incoming.IsEmulator
}
