package engine

import (
	"github.com/updrift/updrift/internal/store"
)

// Request is one update-check call after transport validation.
type Request struct {
	AppID          string
	DeviceID       string
	VersionName    string
	VersionBuild   string
	VersionOS      string
	PluginVersion  string
	Platform       store.Platform
	IsEmulator     bool
	IsProd         bool
	CustomID       string
	DefaultChannel string
}

// ManifestFile is one per-file download of a delta bundle.
type ManifestFile struct {
	FileName    string `json:"file_name"`
	FileHash    string `json:"file_hash"`
	DownloadURL string `json:"download_url"`
}

// UpdateResponse is the success body. Field presence is negotiated per
// plugin version; the shape is byte-stable across client generations.
type UpdateResponse struct {
	Version    string         `json:"version"`
	URL        string         `json:"url,omitempty"`
	SessionKey *string        `json:"session_key,omitempty"`
	Checksum   *string        `json:"checksum,omitempty"`
	Manifest   []ManifestFile `json:"manifest,omitempty"`
}

// Result is what a resolution hands back to the HTTP layer: a status code
// and a ready-to-serialize body.
type Result struct {
	Status int
	Body   any
}
