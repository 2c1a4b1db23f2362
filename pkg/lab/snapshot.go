package lab

import (
	"github.com/teslashibe/lenslab/pkg/narration"
	"github.com/teslashibe/lenslab/pkg/optics"
)

// Snapshot is everything a renderer needs to draw one frame.
type Snapshot struct {
	Version uint64 `json:"version"`

	Lens   optics.Lens   `json:"lens"`
	Object optics.Object `json:"object"`
	Image  optics.Image  `json:"image"`

	// Zone is the current classification, whether or not a run is active.
	Zone    optics.Zone `json:"zone"`
	Summary string      `json:"summary"`

	// Narration is the subtitle of the active run, empty when stopped.
	Narration string `json:"narration"`

	Playback  string `json:"playback"`
	Playing   bool   `json:"playing"`
	Narrating bool   `json:"narrating"`
	SessionID string `json:"session_id,omitempty"`

	AudioEnabled bool               `json:"audio_enabled"`
	Language     narration.Language `json:"language"`
}
