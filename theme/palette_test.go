package theme

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.gpl")
	data := "GIMP Palette\nName: two\nColumns: 2\n# comment\n0 0 0 black\n255 255 255 white\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadGPL(path)
	if err != nil {
		t.Fatalf("LoadGPL = %v", err)
	}
	if p.Name != "two" || len(p.Colors) != 2 {
		t.Fatalf("palette = %q with %d colors, want two with 2", p.Name, len(p.Colors))
	}
	if got := p.Lookup(0.5); got != (RGB{127, 127, 127}) {
		t.Errorf("Lookup(0.5) = %v, want {127 127 127}", got)
	}
}

func TestLoadGPLEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gpl")
	if err := os.WriteFile(path, []byte("GIMP Palette\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGPL(path); err == nil {
		t.Error("LoadGPL on an empty palette returned nil error")
	}
}

func TestLoadFallsBackToPlasma(t *testing.T) {
	p, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "plasma" {
		t.Errorf("Name = %q, want plasma", p.Name)
	}
	if p.Lookup(-1) != p.Colors[0] || p.Lookup(2) != p.Colors[len(p.Colors)-1] {
		t.Error("Lookup does not clamp to the palette ends")
	}
}
