package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-resonate/config"
	"go-resonate/midi"
	"go-resonate/patch"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch os.Args[1] {
	case "list":
		listPorts()
	case "learn":
		match := ""
		if len(os.Args) > 2 {
			match = os.Args[2]
		}
		learn(ctx, match)
	case "poll":
		pollDevices(ctx)
	case "surface":
		watchSurface(ctx)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list          - List MIDI input ports")
	fmt.Println("  learn [port]  - Print incoming notes/CCs (to fill in the surface mapping)")
	fmt.Println("  poll          - Poll for device changes")
	fmt.Println("  surface       - Attach the configured surface and show its controls")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ins, err := midi.InPorts()
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, p := range ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func learn(ctx context.Context, match string) {
	ins, err := midi.InPorts()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	var names []string
	for _, p := range ins {
		names = append(names, p.String())
	}
	idx := -1
	for i, n := range names {
		if strings.Contains(strings.ToLower(n), strings.ToLower(match)) {
			idx = i
			break
		}
	}
	if idx < 0 {
		fmt.Printf("No input port matching %q (have %v)\n", match, names)
		return
	}

	fmt.Printf("Listening on %s. Move knobs, press keys. Ctrl+C to exit.\n", names[idx])
	stopListen, err := gomidi.ListenTo(ins[idx], func(msg gomidi.Message, timestampms int32) {
		ev, ok := midi.Parse(msg)
		if !ok {
			return
		}
		switch ev.Type {
		case midi.NoteOn:
			fmt.Printf("ch%-2d note on   %3d vel %3d\n", ev.Channel+1, ev.Number, ev.Value)
		case midi.NoteOff:
			fmt.Printf("ch%-2d note off  %3d\n", ev.Channel+1, ev.Number)
		case midi.CC:
			fmt.Printf("ch%-2d cc        %3d val %3d\n", ev.Channel+1, ev.Number, ev.Value)
		}
	})
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}
	defer stopListen()

	<-ctx.Done()
}

func pollDevices(ctx context.Context) {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect a controller to test. Ctrl+C to exit.")

	lastIn := ""
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		ins, err := midi.InPorts()
		if err == nil {
			var inNames []string
			for _, p := range ins {
				inNames = append(inNames, p.String())
			}
			currentIn := strings.Join(inNames, ",")
			if currentIn != lastIn {
				fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
				fmt.Printf("  Inputs: %v\n", inNames)
				lastIn = currentIn
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func watchSurface(ctx context.Context) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	surface := midi.NewSurface(cfg.Surface)
	dm := midi.NewDeviceManager(surface)
	go dm.Run(ctx)
	go func() {
		for ev := range dm.Events() {
			fmt.Printf("\n%s: %s\n", ev.Type, ev.Port)
		}
	}()

	fmt.Printf("Waiting for a port matching %q. Ctrl+C to exit.\n", cfg.Surface.PortName)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case <-ticker.C:
			surface.ProcessAllControls()
			enc := surface.Encoder()
			var knobs strings.Builder
			for i := 0; i < patch.NumKnobs; i++ {
				fmt.Fprintf(&knobs, " %.2f", surface.Knob(i))
			}
			fmt.Printf("\rknobs%s  note %.2f  gate %-5v  enc %+d btn %v/%v   ",
				knobs.String(), surface.NoteCV(), surface.GateTrig(),
				enc.Increment(), enc.RisingEdge(), enc.FallingEdge())
		}
	}
}
