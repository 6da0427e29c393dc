// Writes a synthetic wavefield for cmd/wave: the standing wave u(x, t) = sin(k·x)·cos(k·√c·t),
// which satisfies c·u_xx - u_tt = 0 with a constant c.

package main

import (
	"github.com/sevenysw/waveNN/dataset"

	"fmt"
	"math"
	"os"
	"path/filepath"
)

const (
	path string = "data/wave.zip"

	coefficient float64 = 1
	wavenumber  float64 = 2 * math.Pi

	xMin, xMax float64 = 0, 1
	tMin, tMax float64 = 0, 1
	positions  int     = 201
	times      int     = 101
)

func main() {
	wave := dataset.StandingWave{C: coefficient, K: wavenumber}

	fmt.Println("Generating...")
	grid, err := wave.Grid(xMin, xMax, positions, tMin, tMax, times)
	if err != nil {
		panic(err.Error())
	}

	if err = os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		panic(err.Error())
	}

	if err = grid.Save(path, dataset.DefaultField); err != nil {
		panic(err.Error())
	}
	fmt.Printf("Done! Wrote %dx%d grid to %s\n", times, positions, path)
}
