package models

import (
	"encoding/json"
	"strconv"
)

// ReleaseType is one of the firmware release channels Wahoo publishes.
type ReleaseType string

const (
	ReleaseStandard ReleaseType = "standard"
	ReleaseBeta     ReleaseType = "beta"
	ReleaseAlpha    ReleaseType = "alpha"
)

// ReleaseTypes lists all release channels in the order they are checked.
var ReleaseTypes = []ReleaseType{ReleaseStandard, ReleaseBeta, ReleaseAlpha}

// ManifestPrefix returns the key prefix used for this channel in version
// manifests, e.g. "std" for the keys "std-version" and "std-url".
func (rt ReleaseType) ManifestPrefix() string {
	if rt == ReleaseStandard {
		return "std"
	}
	return string(rt)
}

// Valid reports whether rt is one of the known release channels.
func (rt ReleaseType) Valid() bool {
	switch rt {
	case ReleaseStandard, ReleaseBeta, ReleaseAlpha:
		return true
	}
	return false
}

// Version model with key fields from a stored firmware observation
type Version struct {
	Id          int64       `json:"id"`
	Device      string      `json:"device"`
	Version     string      `json:"version"`
	Url         string      `json:"url"`
	ReleaseType ReleaseType `json:"releaseType"`
	FirstSeen   int64       `json:"firstSeen"`
}

// Manifest is the version document published at a device's check URL. The
// shape is not guaranteed, so it is kept as a raw mapping and interpreted
// per release channel.
type Manifest map[string]any

// Release returns the version and download url the manifest advertises for
// the given channel. ok is false when either key is missing or holds an
// unusable value, which just means the channel is skipped for this run.
func (m Manifest) Release(rt ReleaseType) (version string, url string, ok bool) {
	prefix := rt.ManifestPrefix()

	rawUrl, hasUrl := m[prefix+"-url"]
	rawVersion, hasVersion := m[prefix+"-version"]
	if !hasUrl || !hasVersion {
		return "", "", false
	}

	url, ok = rawUrl.(string)
	if !ok || url == "" {
		return "", "", false
	}

	// Manifests usually carry versions as bare numbers, but treat them as
	// opaque strings either way
	switch value := rawVersion.(type) {
	case string:
		version = value
	case json.Number:
		version = value.String()
	case float64:
		version = strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return "", "", false
	}

	if version == "" {
		return "", "", false
	}

	return version, url, true
}
