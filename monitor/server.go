package monitor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-resonate/debug"
	"go-resonate/patch"
)

// Server wires the tap, the stream handlers and the status endpoint
type Server struct {
	tap         *Tap
	broadcaster *Broadcaster
	webrtc      *WebRTCHandler
	http        *http.Server
}

// NewServer creates a monitor listening on addr. extra adds runtime
// counters to the status body and may be nil.
func NewServer(addr string, sampleRate int, s *patch.Settings, extra func(*Status)) (*Server, error) {
	if err := CheckSampleRate(sampleRate); err != nil {
		return nil, err
	}
	tap := NewTap(sampleRate)
	srv := &Server{
		tap:         tap,
		broadcaster: NewBroadcaster(tap),
	}
	srv.webrtc = NewWebRTCHandler(srv.broadcaster, sampleRate)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(indexHTML))
	})
	mux.Handle("/stream", NewPCMHandler(srv.broadcaster, sampleRate))
	mux.Handle("/offer", srv.webrtc)
	mux.Handle("/api/status", NewStatusHandler(s, func(st *Status) {
		st.Listeners = srv.broadcaster.ListenerCount()
		st.Peers = srv.webrtc.PeerCount()
		st.Dropped = srv.tap.Dropped()
		st.Skipped = srv.broadcaster.Skipped()
		if extra != nil {
			extra(st)
		}
	}))

	srv.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv, nil
}

// Tap returns the block tap to install on the renderer
func (s *Server) Tap() *Tap { return s.tap }

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Run serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	go s.broadcaster.Run(ctx)

	go func() {
		<-ctx.Done()
		s.webrtc.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.http.Shutdown(shutdownCtx)
	}()

	debug.Log("monitor", "listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("monitor server: %w", err)
	}
	return nil
}

const indexHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>go-resonate monitor</title></head>
<body style="font-family: monospace; background: #111; color: #ddd">
<h3>go-resonate</h3>
<button id="listen">Listen</button>
<pre id="status"></pre>
<audio id="out" autoplay></audio>
<script>
document.getElementById('listen').onclick = async () => {
  const pc = new RTCPeerConnection();
  pc.addTransceiver('audio', {direction: 'recvonly'});
  pc.ontrack = (e) => { document.getElementById('out').srcObject = e.streams[0]; };
  await pc.setLocalDescription(await pc.createOffer());
  const res = await fetch('/offer', {method: 'POST', body: JSON.stringify(pc.localDescription)});
  await pc.setRemoteDescription(await res.json());
};
setInterval(async () => {
  const res = await fetch('/api/status');
  document.getElementById('status').textContent = JSON.stringify(await res.json(), null, 2);
}, 1000);
</script>
</body>
</html>
`
