package monitor

import (
	"encoding/json"
	"net/http"

	"go-resonate/patch"
)

// Status is the JSON body of /api/status
type Status struct {
	Mode      string                 `json:"mode"`
	Polyphony string                 `json:"polyphony"`
	Voices    int                    `json:"voices"`
	Model     string                 `json:"model"`
	Fx        string                 `json:"fx"`
	Knobs     [patch.NumKnobs]string `json:"knobs"`
	ExciterIn bool                   `json:"exciterIn"`
	StrumIn   bool                   `json:"strumIn"`
	NoteIn    bool                   `json:"noteIn"`

	Port      string `json:"port,omitempty"`
	Blocks    uint64 `json:"blocks"`
	Listeners int    `json:"listeners"`
	Peers     int    `json:"webrtcPeers"`
	Dropped   uint64 `json:"droppedFrames"`
	Skipped   uint64 `json:"skippedFrames"`
}

// StatusFromSnapshot fills the settings part of a Status
func StatusFromSnapshot(snap patch.Snapshot) Status {
	poly := patch.ClampPolyphonyIndex(snap.PolyphonyIndex)
	st := Status{
		Mode:      snap.Mode.String(),
		Polyphony: patch.PolyphonyNames[poly],
		Voices:    patch.Voices(poly),
		Model:     patch.ClampModel(snap.Model).String(),
		Fx:        patch.ClampFx(snap.Fx).String(),
		ExciterIn: snap.ExciterIn,
		StrumIn:   snap.StrumIn,
		NoteIn:    snap.NoteIn,
	}
	for i, p := range snap.ChannelMap {
		st.Knobs[i] = p.String()
	}
	return st
}

// StatusHandler serves the current Status as JSON. fill adds the runtime
// counters the monitor does not own; it may be nil.
type StatusHandler struct {
	settings *patch.Settings
	fill     func(*Status)
}

// NewStatusHandler creates a status endpoint over settings
func NewStatusHandler(s *patch.Settings, fill func(*Status)) *StatusHandler {
	return &StatusHandler{settings: s, fill: fill}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	st := StatusFromSnapshot(h.settings.Snapshot())
	if h.fill != nil {
		h.fill(&st)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(st)
}
