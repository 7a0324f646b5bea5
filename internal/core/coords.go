package core

import "math"

// ChunkSize is the edge length D of a square chunk, in cells.
const ChunkSize = 100

// ChunkArea is the number of cell slots held by one chunk.
const ChunkArea = ChunkSize * ChunkSize

// Pos is a global cell coordinate. +Y points up, so "below" is Y-1.
type Pos struct {
	X, Y int32
}

// ChunkPos addresses a chunk: a global coordinate floor-divided by ChunkSize.
type ChunkPos struct {
	X, Y int32
}

// Local is a cell coordinate inside a chunk, valid when both axes lie in [0, ChunkSize).
type Local struct {
	X, Y int
}

// Offset is a relative step between two global coordinates.
type Offset struct {
	DX, DY int32
}

// Neighbor offsets consulted by the movement rules.
var (
	Below      = Offset{0, -1}
	BelowLeft  = Offset{-1, -1}
	BelowRight = Offset{1, -1}
	Left       = Offset{-1, 0}
	Right      = Offset{1, 0}
)

// FloorDiv divides rounding toward negative infinity. b must be positive.
func FloorDiv(a, b int32) int32 {
	q := a / b
	if r := a % b; r < 0 {
		q--
	}
	return q
}

// Mod returns a modulo b in [0, b). b must be positive.
func Mod(a, b int32) int32 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// Add returns p shifted by (dx, dy).
func (p Pos) Add(dx, dy int32) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Step returns p shifted by o.
func (p Pos) Step(o Offset) Pos {
	return p.Add(o.DX, o.DY)
}

// StepChecked returns p shifted by o, or false when the result would leave
// the int32 plane.
func (p Pos) StepChecked(o Offset) (Pos, bool) {
	x := int64(p.X) + int64(o.DX)
	y := int64(p.Y) + int64(o.DY)
	if x < math.MinInt32 || x > math.MaxInt32 || y < math.MinInt32 || y > math.MaxInt32 {
		return Pos{}, false
	}
	return Pos{X: int32(x), Y: int32(y)}, true
}

// Sub returns the offset that moves b onto p.
func (p Pos) Sub(b Pos) Offset {
	return Offset{DX: p.X - b.X, DY: p.Y - b.Y}
}

// ChunkOf returns the chunk containing p.
func ChunkOf(p Pos) ChunkPos {
	return ChunkPos{X: FloorDiv(p.X, ChunkSize), Y: FloorDiv(p.Y, ChunkSize)}
}

// LocalOf returns the position of p inside its chunk.
func LocalOf(p Pos) Local {
	return Local{X: int(Mod(p.X, ChunkSize)), Y: int(Mod(p.Y, ChunkSize))}
}

// Recombine rebuilds the global coordinate from a chunk and a local coordinate.
func Recombine(c ChunkPos, l Local) Pos {
	return Pos{X: c.X*ChunkSize + int32(l.X), Y: c.Y*ChunkSize + int32(l.Y)}
}

// Origin returns the global coordinate of the chunk's (0,0) slot.
func (c ChunkPos) Origin() Pos {
	return Recombine(c, Local{})
}

// Less orders chunks by X, then Y.
func (c ChunkPos) Less(o ChunkPos) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Y < o.Y
}

// InRange reports whether l addresses a slot inside a chunk.
func (l Local) InRange() bool {
	return l.X >= 0 && l.X < ChunkSize && l.Y >= 0 && l.Y < ChunkSize
}

// Index returns the row-major slot index for l, or -1 when l is out of range.
func Index(l Local) int {
	if !l.InRange() {
		return -1
	}
	return l.Y*ChunkSize + l.X
}

// IndexToLocal is the inverse of Index.
func IndexToLocal(i int) Local {
	return Local{X: i % ChunkSize, Y: i / ChunkSize}
}
