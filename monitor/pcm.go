package monitor

import (
	"encoding/binary"
	"net/http"
	"strconv"

	"go-resonate/debug"
)

// PCMHandler streams the raw output as s16le interleaved stereo over HTTP.
// Play it with: curl -s host/stream | ffplay -f s16le -ar 48000 -ac 2 -
type PCMHandler struct {
	broadcaster *Broadcaster
	sampleRate  int
}

// NewPCMHandler creates a raw PCM stream handler
func NewPCMHandler(b *Broadcaster, sampleRate int) *PCMHandler {
	return &PCMHandler{broadcaster: b, sampleRate: sampleRate}
}

func (h *PCMHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Cache-Control", "no-cache, no-store")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Sample-Rate", strconv.Itoa(h.sampleRate))
	w.Header().Set("X-Channels", strconv.Itoa(Channels))

	listener := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(listener)

	debug.Log("monitor", "pcm listener connected (total: %d)", h.broadcaster.ListenerCount())
	defer debug.Log("monitor", "pcm listener disconnected")

	// Send headers now so clients can start before the first frame
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	var buf []byte
	for {
		select {
		case <-r.Context().Done():
			return
		case <-listener.Done():
			return
		case frame, ok := <-listener.C:
			if !ok {
				return
			}
			buf = samplesToBytes(buf[:0], frame)
			if _, err := w.Write(buf); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// samplesToBytes appends samples to dst as little-endian int16
func samplesToBytes(dst []byte, samples []int16) []byte {
	for _, s := range samples {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(s))
	}
	return dst
}
