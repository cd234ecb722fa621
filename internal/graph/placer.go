package graph

import (
	"math/rand/v2"
	"sync"
	"time"

	"blockchart/internal/model"
)

const (
	DefaultSpawnWidth  = 1000
	DefaultSpawnHeight = 500
)

// Placer chooses where a freshly added child appears.
type Placer interface {
	Place(parentID int) model.Point
}

type PlacerFunc func(parentID int) model.Point

func (f PlacerFunc) Place(parentID int) model.Point { return f(parentID) }

// RandomPlacer draws x in [0, Width) and y in [0, Height) independently and uniformly.
type RandomPlacer struct {
	Width  float64
	Height float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomPlacer returns a placer over width x height. A zero seed draws from the clock,
// any other seed yields a reproducible sequence.
func NewRandomPlacer(width, height float64, seed uint64) *RandomPlacer {
	if width <= 0 {
		width = DefaultSpawnWidth
	}
	if height <= 0 {
		height = DefaultSpawnHeight
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomPlacer{
		Width:  width,
		Height: height,
		rnd:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (p *RandomPlacer) Place(int) model.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return model.Point{
		X: p.rnd.Float64() * p.Width,
		Y: p.rnd.Float64() * p.Height,
	}
}

// FixedPlacer hands out Points in order and wraps around. An empty list places at the origin.
type FixedPlacer struct {
	Points []model.Point

	mu   sync.Mutex
	next int
}

func NewFixedPlacer(points ...model.Point) *FixedPlacer {
	return &FixedPlacer{Points: points}
}

func (p *FixedPlacer) Place(int) model.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Points) == 0 {
		return model.Point{}
	}
	pt := p.Points[p.next%len(p.Points)]
	p.next++
	return pt
}
