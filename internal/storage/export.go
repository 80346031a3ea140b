package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/dpsim/internal/sim"
)

type ExportFrame struct {
	Time   float64 `json:"time"`
	Theta1 float64 `json:"theta1"`
	Theta2 float64 `json:"theta2"`
	Omega1 float64 `json:"omega1"`
	Omega2 float64 `json:"omega2"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []ExportFrame `json:"frames"`
}

func ExportJSON(w io.Writer, meta RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		Run:    meta,
		Frames: make([]ExportFrame, len(frames)),
	}

	for i, f := range frames {
		ef := ExportFrame{
			Time: f.Time,
			X1:   f.Joint1.X, Y1: f.Joint1.Y,
			X2: f.Joint2.X, Y2: f.Joint2.Y,
		}
		if len(f.State) == 4 {
			ef.Theta1, ef.Theta2 = f.State[0], f.State[1]
			ef.Omega1, ef.Omega2 = f.State[2], f.State[3]
		}
		data.Frames[i] = ef
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
