package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/bubbleclock/internal/sim"
)

func TestSnapshot(t *testing.T) {
	vp := NewSVG(800, 600, colorful.Color{})
	cfg := sim.DefaultConfig()
	cfg.Seed = 2
	s, err := sim.New(cfg, fixedClock{time.Date(2024, 1, 1, 13, 2, 3, 0, time.UTC)}, vp)
	if err != nil {
		t.Fatal(err)
	}
	s.Init()

	data := Snapshot(s, vp, []float64{6, 6})
	if data.Width != 800 || data.Height != 600 {
		t.Errorf("size = %vx%v", data.Width, data.Height)
	}
	if data.Counts["hours"] != 1 || data.Counts["minutes"] != 2 || data.Counts["seconds"] != 3 {
		t.Errorf("counts = %v", data.Counts)
	}
	if len(data.Bubbles) != 6 {
		t.Fatalf("bubbles = %d, want 6", len(data.Bubbles))
	}
	for i := 1; i < len(data.Bubbles); i++ {
		if data.Bubbles[i].ID <= data.Bubbles[i-1].ID {
			t.Fatal("bubbles not ordered by ID")
		}
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatal(err)
	}
	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Bubbles[0].Phase != "steady" {
		t.Errorf("phase = %q, want steady", decoded.Bubbles[0].Phase)
	}

	path := filepath.Join(t.TempDir(), "snap.json")
	if err := ExportJSON(path, data); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}
