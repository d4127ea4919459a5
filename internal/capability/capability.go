// Package capability maps model identifiers to the input modalities the
// underlying model can consume directly.
package capability

import "strings"

// Profile describes which attachment modalities a model ingests without
// pre-processing. It is derived per request and never stored.
type Profile struct {
	// SupportsVision is true when the model accepts inline images.
	SupportsVision bool
	// SupportsNativeAudioDocument is true when the model additionally
	// accepts inline audio and PDF payloads.
	SupportsNativeAudioDocument bool
}

// Identifier families, matched as case-insensitive substrings. The native
// multimodal family is checked first so an identifier carrying both markers
// resolves to the broader profile.
var (
	nativeMultimodalMarkers = []string{"gemini"}
	visionOnlyMarkers       = []string{"gpt-4o", "vision"}
)

// Classify resolves a model identifier to its capability profile. Every
// identifier resolves to exactly one profile; unknown identifiers get the
// most restrictive (text-only) one.
func Classify(model string) Profile {
	id := strings.ToLower(model)

	for _, marker := range nativeMultimodalMarkers {
		if strings.Contains(id, marker) {
			return Profile{SupportsVision: true, SupportsNativeAudioDocument: true}
		}
	}

	for _, marker := range visionOnlyMarkers {
		if strings.Contains(id, marker) {
			return Profile{SupportsVision: true}
		}
	}

	return Profile{}
}
