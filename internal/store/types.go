package store

import (
	"time"
)

// Platform identifies the device operating system family.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// UpdateGate is the channel setting controlling which semver bumps
// auto-apply without explicit channel reassignment.
type UpdateGate string

const (
	GateNone          UpdateGate = "none"
	GatePatch         UpdateGate = "patch"
	GateMinor         UpdateGate = "minor"
	GateMajor         UpdateGate = "major"
	GateVersionNumber UpdateGate = "version_number"
)

// BuiltinVersion is the sentinel bundle name meaning "the bundle shipped
// inside the native binary".
const BuiltinVersion = "builtin"

// Device is an app installation identified by (app_id, device_id).
// DeviceID is case-folded to lowercase before every lookup and write.
type Device struct {
	AppID         string
	DeviceID      string
	Platform      Platform
	OSVersion     string
	PluginVersion string
	VersionBuild  string
	VersionName   string
	CustomID      string
	IsProd        bool
	IsEmulator    bool
	UpdatedAt     time.Time
}

// ManifestEntry is one file of a per-file delta bundle.
type ManifestEntry struct {
	FileName    string
	FileHash    string
	StoragePath string
}

// Version is an OTA bundle. Exactly one of ExternalURL, R2Path or a
// non-empty Manifest locates the artifact; pointers are nil when unset.
type Version struct {
	ID               int64
	AppID            string
	Name             string
	Checksum         *string
	SessionKey       *string
	ExternalURL      *string
	R2Path           *string
	MinUpdateVersion *string
	Manifest         []ManifestEntry
	Deleted          bool
}

// Channel maps devices to a bundle version with platform and policy gates.
type Channel struct {
	ID                           int64
	AppID                        string
	Name                         string
	Public                       bool
	IOS                          bool
	Android                      bool
	DisableAutoUpdate            UpdateGate
	DisableAutoUpdateUnderNative bool
	AllowDev                     bool
	AllowEmulator                bool
	AllowDeviceSelfSet           bool
	OwnerOrg                     string
}

// ChannelTarget is a channel joined with its resolved target version(s).
// When SplitPercent is non-zero and Secondary is set the channel carries a
// progressive rollout and the effective target is picked per device.
type ChannelTarget struct {
	Channel      Channel
	Primary      Version
	Secondary    *Version
	SplitPercent float64
}

// ResolveQuery is the input of the batched per-request read.
type ResolveQuery struct {
	AppID          string
	DeviceID       string
	Platform       Platform
	VersionName    string
	DefaultChannel string
}

// RequestResolution is everything the engine needs from one backend round
// trip: the version the client claims to run, the device's channel override
// (if any), and the named/public channel (only fetched when no override
// exists).
type RequestResolution struct {
	RequestedVersion *Version
	Override         *ChannelTarget
	Channel          *ChannelTarget
	// VersionOverride is the device's direct version pin. It is read in
	// the same round trip but the primary update path does not act on it;
	// only the channel override is honored.
	VersionOverride *Version
}

// AppOwner ties an app to its owning organization.
type AppOwner struct {
	AppID   string
	OrgID   string
	OrgName string
}

// OrgPlan is the subscription state consulted by the plan gate.
type OrgPlan struct {
	OrgID             string
	TrialUntil        time.Time
	Status            string
	IsGoodPlan        bool
	MauExceeded       bool
	StorageExceeded   bool
	BandwidthExceeded bool
}

// StatsEvent is one telemetry action row.
type StatsEvent struct {
	AppID     string
	DeviceID  string
	Action    string
	VersionID int64
	CreatedAt time.Time
}
