package engine

import (
	"context"
	"fmt"

	"github.com/updrift/updrift/internal/semver"
	"github.com/updrift/updrift/internal/store"
)

// Plugin generations that widened the response contract. Older clients
// choke on unknown fields, so each one is gated on the requesting version.
const (
	pluginChecksumSince   = "4.4.0"
	pluginSessionKeySince = "4.13.0"
	pluginManifestSince   = "6.8.0"
)

// buildBundleResponse turns a policy-approved target into a retrievable
// artifact: an external URL verbatim, a presigned archive, and/or a per-file
// manifest for delta-capable plugins. Bandwidth is recorded for presigned
// archives with a known size.
func (e *Engine) buildBundleResponse(ctx context.Context, req Request, target store.Version) (*UpdateResponse, *Reject, error) {
	res := &UpdateResponse{Version: target.Name}

	switch {
	case target.ExternalURL != nil && *target.ExternalURL != "":
		// Self-hosted bundle, use the URL verbatim.
		res.URL = *target.ExternalURL

	case target.R2Path != nil && *target.R2Path != "":
		signed, err := e.signer.SignGet(ctx, *target.R2Path, e.signTTL)
		if err != nil {
			return nil, nil, fmt.Errorf("sign bundle %s: %w", *target.R2Path, err)
		}
		res.URL = signed.URL
		if signed.Size > 0 {
			e.sink.RecordBandwidth(req.AppID, req.DeviceID, signed.Size)
		}
	}

	if len(target.Manifest) > 0 && semver.GreaterOrEqual(req.PluginVersion, pluginManifestSince) {
		manifest, err := e.buildManifest(ctx, target.Manifest)
		if err != nil {
			return nil, nil, err
		}
		res.Manifest = manifest
	}

	if res.URL == "" && len(res.Manifest) == 0 {
		return nil, &Reject{
			Code:    CodeNoBundleURL,
			Message: "Cannot get bundle url",
		}, nil
	}

	if semver.GreaterThan(req.PluginVersion, pluginSessionKeySince) {
		res.SessionKey = target.SessionKey
	}
	if semver.GreaterThan(req.PluginVersion, pluginChecksumSince) {
		res.Checksum = target.Checksum
	}

	return res, nil, nil
}

func (e *Engine) buildManifest(ctx context.Context, entries []store.ManifestEntry) ([]ManifestFile, error) {
	manifest := make([]ManifestFile, 0, len(entries))
	for _, entry := range entries {
		signed, err := e.signer.SignGet(ctx, entry.StoragePath, e.signTTL)
		if err != nil {
			return nil, fmt.Errorf("sign manifest file %s: %w", entry.StoragePath, err)
		}
		manifest = append(manifest, ManifestFile{
			FileName:    entry.FileName,
			FileHash:    entry.FileHash,
			DownloadURL: signed.URL,
		})
	}
	return manifest, nil
}
