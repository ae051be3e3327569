package export

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"time"

	"github.com/san-kum/bubbleclock/internal/sim"
)

type BubbleData struct {
	ID       uint64  `json:"id"`
	Category string  `json:"category"`
	Phase    string  `json:"phase"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
	Target   float64 `json:"target"`
}

type ExportData struct {
	Time     time.Time      `json:"time"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Scale    float64        `json:"scale"`
	Frames   uint64         `json:"frames"`
	Counts   map[string]int `json:"counts"`
	Retiring int            `json:"retiring"`
	Bubbles  []BubbleData   `json:"bubbles"`
	History  []float64      `json:"history,omitempty"`
}

// Snapshot captures the simulator state, bubbles ordered by ID.
func Snapshot(s *sim.Simulator, vp sim.Viewport, history []float64) ExportData {
	w, h := vp.Size()
	data := ExportData{
		Time:     s.Now(),
		Width:    w,
		Height:   h,
		Scale:    s.Scale(),
		Frames:   s.Frames(),
		Counts:   make(map[string]int, 3),
		Retiring: s.Retiring(),
		History:  history,
	}
	for _, cat := range sim.Categories() {
		data.Counts[cat.String()] = s.Count(cat)
	}

	bubbles := s.Bubbles()
	sort.Slice(bubbles, func(i, j int) bool { return bubbles[i].ID < bubbles[j].ID })
	data.Bubbles = make([]BubbleData, 0, len(bubbles))
	for _, b := range bubbles {
		data.Bubbles = append(data.Bubbles, BubbleData{
			ID:       b.ID,
			Category: b.Category.String(),
			Phase:    b.Phase.String(),
			X:        b.X,
			Y:        b.Y,
			Radius:   b.Radius,
			Target:   b.Target,
		})
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}
