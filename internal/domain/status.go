package domain

import "strings"

// Verification statuses assigned by the backend.
const (
	StatusVerified       = "VERIFIED"
	StatusVerifiedByData = "VERIFIED_BY_DATA"
	StatusFailed         = "FAILED"
	StatusCorruptedHash  = "CORRUPTED_HASH"
	StatusNoHash         = "NO_HASH"
	StatusError          = "ERROR"
)

// Tier groups statuses into a presentation class: both hash-based and
// data-based success are presented identically to the end user.
type Tier string

const (
	TierSuccess Tier = "success"
	TierFailure Tier = "failure"
	TierUnknown Tier = "unknown"
)

// Presentation carries everything a consumer needs to render a
// verification status: a tier, color/icon hints and user-facing text.
type Presentation struct {
	Tier         Tier   `json:"tier"`
	ColorClass   string `json:"color_class"`
	Icon         string `json:"icon"`
	DisplayLabel string `json:"display_label"`
	HelpText     string `json:"help_text"`
}

var presentations = map[string]Presentation{
	StatusVerified: {
		Tier:         TierSuccess,
		ColorClass:   "green",
		Icon:         "check-circle",
		DisplayLabel: "Verified",
		HelpText:     "The certificate was verified against its embedded hash.",
	},
	StatusVerifiedByData: {
		Tier:         TierSuccess,
		ColorClass:   "green",
		Icon:         "check-circle",
		DisplayLabel: "Verified",
		HelpText:     "The certificate was verified through data matching.",
	},
	StatusFailed: {
		Tier:         TierFailure,
		ColorClass:   "red",
		Icon:         "x-circle",
		DisplayLabel: "Verification Failed",
		HelpText:     "The certificate could not be verified. It may have been altered or is not registered.",
	},
	StatusCorruptedHash: {
		Tier:         TierFailure,
		ColorClass:   "red",
		Icon:         "alert-triangle",
		DisplayLabel: "Corrupted Hash",
		HelpText:     "An embedded hash was found but is corrupted. The file may have been recompressed or tampered with.",
	},
	StatusNoHash: {
		Tier:         TierFailure,
		ColorClass:   "orange",
		Icon:         "alert-circle",
		DisplayLabel: "No Hash Found",
		HelpText:     "No embedded hash was found in this file. Upload the original processed certificate.",
	},
	StatusError: {
		Tier:         TierFailure,
		ColorClass:   "red",
		Icon:         "x-octagon",
		DisplayLabel: "Error",
		HelpText:     "An error occurred while processing the certificate. Try again or contact support.",
	},
}

var unknownPresentation = Presentation{
	Tier:         TierUnknown,
	ColorClass:   "gray",
	Icon:         "help-circle",
	DisplayLabel: "Unknown",
	HelpText:     "The verification outcome is not recognized.",
}

// Classify maps a raw backend status to its presentation. It is total:
// any unrecognized value, including the empty string, falls back to the
// neutral unknown presentation.
func Classify(status string) Presentation {
	if p, ok := presentations[strings.ToUpper(strings.TrimSpace(status))]; ok {
		return p
	}
	return unknownPresentation
}
