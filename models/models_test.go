package models_test

import (
	"encoding/json"
	"testing"

	"wahoowatch/models"

	"github.com/stretchr/testify/assert"
)

func TestReleaseTypesOrder(t *testing.T) {
	assert.Equal(t, []models.ReleaseType{
		models.ReleaseStandard,
		models.ReleaseBeta,
		models.ReleaseAlpha,
	}, models.ReleaseTypes)
}

func TestManifestPrefix(t *testing.T) {
	tests := []struct {
		name        string
		releaseType models.ReleaseType
		expected    string
	}{
		{
			name:        "standard is shortened to std",
			releaseType: models.ReleaseStandard,
			expected:    "std",
		},
		{
			name:        "beta keeps its name",
			releaseType: models.ReleaseBeta,
			expected:    "beta",
		},
		{
			name:        "alpha keeps its name",
			releaseType: models.ReleaseAlpha,
			expected:    "alpha",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.releaseType.ManifestPrefix())
		})
	}
}

func TestReleaseTypeValid(t *testing.T) {
	tests := []struct {
		name        string
		releaseType models.ReleaseType
		expected    bool
	}{
		{
			name:        "standard",
			releaseType: models.ReleaseStandard,
			expected:    true,
		},
		{
			name:        "beta",
			releaseType: models.ReleaseBeta,
			expected:    true,
		},
		{
			name:        "alpha",
			releaseType: models.ReleaseAlpha,
			expected:    true,
		},
		{
			name:        "empty string",
			releaseType: models.ReleaseType(""),
			expected:    false,
		},
		{
			name:        "unknown channel",
			releaseType: models.ReleaseType("nightly"),
			expected:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.releaseType.Valid())
		})
	}
}

func TestManifestRelease(t *testing.T) {
	tests := []struct {
		name            string
		manifest        models.Manifest
		releaseType     models.ReleaseType
		expectedVersion string
		expectedUrl     string
		expectedOk      bool
	}{
		{
			name: "standard release with string version",
			manifest: models.Manifest{
				"std-version": "14613",
				"std-url":     "https://example.com/firmware/14613.tgz",
			},
			releaseType:     models.ReleaseStandard,
			expectedVersion: "14613",
			expectedUrl:     "https://example.com/firmware/14613.tgz",
			expectedOk:      true,
		},
		{
			name: "version decoded as json number",
			manifest: models.Manifest{
				"beta-version": json.Number("14700"),
				"beta-url":     "https://example.com/firmware/14700-beta.tgz",
			},
			releaseType:     models.ReleaseBeta,
			expectedVersion: "14700",
			expectedUrl:     "https://example.com/firmware/14700-beta.tgz",
			expectedOk:      true,
		},
		{
			name: "version decoded as float",
			manifest: models.Manifest{
				"alpha-version": 2.5,
				"alpha-url":     "https://example.com/firmware/2.5-alpha.tgz",
			},
			releaseType:     models.ReleaseAlpha,
			expectedVersion: "2.5",
			expectedUrl:     "https://example.com/firmware/2.5-alpha.tgz",
			expectedOk:      true,
		},
		{
			name: "missing url key",
			manifest: models.Manifest{
				"std-version": "14613",
			},
			releaseType: models.ReleaseStandard,
			expectedOk:  false,
		},
		{
			name: "missing version key",
			manifest: models.Manifest{
				"std-url": "https://example.com/firmware/14613.tgz",
			},
			releaseType: models.ReleaseStandard,
			expectedOk:  false,
		},
		{
			name: "empty url",
			manifest: models.Manifest{
				"std-version": "14613",
				"std-url":     "",
			},
			releaseType: models.ReleaseStandard,
			expectedOk:  false,
		},
		{
			name: "url is not a string",
			manifest: models.Manifest{
				"std-version": "14613",
				"std-url":     42,
			},
			releaseType: models.ReleaseStandard,
			expectedOk:  false,
		},
		{
			name: "empty version",
			manifest: models.Manifest{
				"std-version": "",
				"std-url":     "https://example.com/firmware/14613.tgz",
			},
			releaseType: models.ReleaseStandard,
			expectedOk:  false,
		},
		{
			name: "version has an unusable type",
			manifest: models.Manifest{
				"std-version": true,
				"std-url":     "https://example.com/firmware/14613.tgz",
			},
			releaseType: models.ReleaseStandard,
			expectedOk:  false,
		},
		{
			name: "beta only manifest does not advertise standard",
			manifest: models.Manifest{
				"beta-version": "14700",
				"beta-url":     "https://example.com/firmware/14700-beta.tgz",
			},
			releaseType: models.ReleaseStandard,
			expectedOk:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, url, ok := tt.manifest.Release(tt.releaseType)
			assert.Equal(t, tt.expectedOk, ok)
			assert.Equal(t, tt.expectedVersion, version)
			assert.Equal(t, tt.expectedUrl, url)
		})
	}
}
