package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"go-resonate/audio"
	"go-resonate/config"
	"go-resonate/cv"
	"go-resonate/debug"
	"go-resonate/midi"
	"go-resonate/monitor"
	"go-resonate/patch"
	"go-resonate/resonate"
	"go-resonate/synth"
	"go-resonate/theme"
	"go-resonate/tui"
	"go-resonate/ui"
)

// strumRiseTime is the inhibit window after each derived strum, in seconds
const strumRiseTime = 0.01

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file (default ~/.config/go-resonate/config.json)")
	debugLog := flag.Bool("debug", false, "write a debug log to ~/.config/go-resonate/debug.log")
	headless := flag.Bool("headless", false, "no TUI; drive the menu from the encoder only")
	monitorAddr := flag.String("monitor", "", "serve the remote monitor on this address")
	palettePath := flag.String("palette", "", "GIMP .gpl palette for the TUI")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *debugLog || cfg.Debug {
		if err := debug.Enable(""); err != nil {
			return err
		}
		defer debug.Disable()
	}
	if *monitorAddr != "" {
		cfg.Monitor.Enabled = true
		cfg.Monitor.Addr = *monitorAddr
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sr := cfg.Audio.SampleRate
	block := cfg.Audio.BlockSize

	settings := patch.NewSettings()
	surface := midi.NewSurface(cfg.Surface)
	deviceMgr := midi.NewDeviceManager(surface)
	go deviceMgr.Run(ctx)

	part := synth.NewPart(float32(sr))
	if err := part.Init(make([]float32, synth.ReverbBufferSize)); err != nil {
		return err
	}
	ensemble := synth.NewStringSynth(float32(sr))
	if err := ensemble.Init(make([]float32, synth.ReverbBufferSize)); err != nil {
		return err
	}
	strummer := &synth.Strummer{}
	strummer.Init(strumRiseTime, float32(sr)/float32(block))

	events := ui.NewEventQueue()
	sched := resonate.NewScheduler(resonate.Config{
		Settings:  settings,
		Controls:  surface,
		Events:    events,
		CV:        cv.NewScaler(surface),
		Strummer:  strummer,
		Resonator: part,
		Ensemble:  ensemble,
		DroneSeed: uint64(time.Now().UnixNano()),
		MaxBlock:  block,
	})
	renderer := audio.NewRenderer(sched, block, nil)

	if cfg.Monitor.Enabled {
		srv, err := monitor.NewServer(cfg.Monitor.Addr, sr, settings, func(st *monitor.Status) {
			st.Port = deviceMgr.Port()
			st.Blocks = renderer.Blocks()
		})
		if err != nil {
			return err
		}
		renderer.SetTap(srv.Tap())
		go func() {
			if err := srv.Run(ctx); err != nil {
				debug.Log("monitor", "%v", err)
			}
		}()
	}

	if err := startAudio(ctx, cfg.Audio, renderer); err != nil {
		return err
	}

	menu := ui.NewMenu(settings)
	if *headless || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runHeadless(ctx, menu, events, deviceMgr)
	}

	palette, err := theme.Load(*palettePath)
	if err != nil {
		return err
	}
	m := tui.NewModel(menu, events, settings, surface, deviceMgr, theme.New(palette))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// startAudio opens the device, or runs the block clock when there is none
func startAudio(ctx context.Context, cfg config.AudioConfig, r *audio.Renderer) error {
	if cfg.Backend == config.BackendNone {
		go audio.RunClock(ctx, r, cfg.SampleRate)
		return nil
	}

	player, err := audio.NewOtoPlayer(cfg.SampleRate)
	if err != nil {
		return fmt.Errorf("audio: %w (set audio.backend to %q to run without a device)", err, config.BackendNone)
	}
	player.SetupPlayer(r)
	player.Start()
	go func() {
		<-ctx.Done()
		player.Close()
	}()
	return nil
}

// runHeadless drains the encoder events without a TUI and logs menu moves
func runHeadless(ctx context.Context, menu *ui.Menu, events *ui.EventQueue, deviceMgr *midi.DeviceManager) error {
	fmt.Println("go-resonate (headless)")
	fmt.Println("Connect the control surface any time; it is detected automatically. Ctrl+C to exit.")

	ticker := time.NewTicker(tui.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-deviceMgr.Events():
			if !ok {
				return nil
			}
			if ev.Err != nil {
				fmt.Printf("surface %s: %s (%v)\n", ev.Type, ev.Port, ev.Err)
			} else {
				fmt.Printf("surface %s: %s\n", ev.Type, ev.Port)
			}
		case <-ticker.C:
			if menu.Drain(events) {
				debug.Log("menu", "%s %+v", menu.Title(), menu.Items())
			}
		}
	}
}
