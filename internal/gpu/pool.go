package gpu

import "fmt"

// Role identifies what a buffer pair holds within a frame.
type Role int

const (
	RoleGrid Role = iota
	RoleAxis
	RolePolygon
)

func (r Role) String() string {
	switch r {
	case RoleGrid:
		return "grid"
	case RoleAxis:
		return "axis"
	case RolePolygon:
		return "polygon"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Pair is a vertex buffer and its matching color buffer.
type Pair struct {
	Vertex Buffer
	Color  Buffer
}

// Pool keeps one Pair per Role alive across frames. Contents are
// replaced by the next upload; nothing is cleared in between.
type Pool struct {
	dev   Device
	pairs map[Role]Pair
}

func NewPool(dev Device) *Pool {
	return &Pool{dev: dev, pairs: map[Role]Pair{}}
}

func (p *Pool) Acquire(r Role) (Pair, error) {
	if pair, ok := p.pairs[r]; ok {
		return pair, nil
	}
	bs, err := p.dev.GenBuffers(2)
	if err != nil {
		return Pair{}, fmt.Errorf("allocate %s buffers: %w", r, err)
	}
	pair := Pair{Vertex: bs[0], Color: bs[1]}
	p.pairs[r] = pair
	return pair, nil
}

func (p *Pool) Len() int { return len(p.pairs) }

// Release deletes every pooled buffer.
func (p *Pool) Release() {
	if len(p.pairs) == 0 {
		return
	}
	bs := make([]Buffer, 0, len(p.pairs)*2)
	for _, r := range []Role{RoleGrid, RoleAxis, RolePolygon} {
		if pair, ok := p.pairs[r]; ok {
			bs = append(bs, pair.Vertex, pair.Color)
		}
	}
	p.dev.DeleteBuffers(bs)
	p.pairs = map[Role]Pair{}
}
