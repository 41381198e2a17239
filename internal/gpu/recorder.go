package gpu

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded Device invocation.
type Call struct {
	Op     string
	Prim   Primitive
	VB, CB Buffer
	First  []int
	Count  []int
	Blend  bool // blend state when a draw was issued
	N      int  // buffers generated/deleted or elements uploaded
}

// Recorder is a Device that remembers every call instead of drawing.
// Fail injects an error for the named operation (e.g. "DrawArrays").
// It also satisfies the viewport surface contract through Size and
// Initialized.
type Recorder struct {
	W, H     int
	NotReady bool
	Fail     map[string]error

	Calls      []Call
	Projection mgl32.Mat4
	ClearColor mgl32.Vec4
	LineSmooth bool
	Blending   bool
	Swaps      int
	Flushes    int

	store *Store
}

func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h, Fail: map[string]error{}, store: NewStore()}
}

func (r *Recorder) Size() (int, int)  { return r.W, r.H }
func (r *Recorder) Initialized() bool { return !r.NotReady }

// Live reports buffers allocated and not yet deleted.
func (r *Recorder) Live() int { return r.store.Live() }

// Vec3 returns the current contents of a position buffer.
func (r *Recorder) Vec3(b Buffer) []mgl32.Vec3 { return r.store.vec3[b] }

// Vec4 returns the current contents of a color buffer.
func (r *Recorder) Vec4(b Buffer) []mgl32.Vec4 { return r.store.vec4[b] }

// Ops lists recorded operation names in order.
func (r *Recorder) Ops() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Op
	}
	return out
}

// Draws returns only the draw calls.
func (r *Recorder) Draws() []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == "DrawArrays" || c.Op == "MultiDrawArrays" {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls but keeps allocated buffers.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
	r.Swaps, r.Flushes = 0, 0
}

func (r *Recorder) record(c Call) error {
	r.Calls = append(r.Calls, c)
	return r.Fail[c.Op]
}

func (r *Recorder) MakeCurrent() error {
	return r.record(Call{Op: "MakeCurrent"})
}

func (r *Recorder) LoadProjection(m mgl32.Mat4) error {
	r.Projection = m
	return r.record(Call{Op: "LoadProjection"})
}

func (r *Recorder) SetLineSmooth(on bool) {
	r.LineSmooth = on
	_ = r.record(Call{Op: "SetLineSmooth"})
}

func (r *Recorder) SetBlend(on bool) {
	r.Blending = on
	_ = r.record(Call{Op: "SetBlend", Blend: on})
}

func (r *Recorder) Clear(c mgl32.Vec4) {
	r.ClearColor = c
	_ = r.record(Call{Op: "Clear"})
}

func (r *Recorder) GenBuffers(n int) ([]Buffer, error) {
	if err := r.record(Call{Op: "GenBuffers", N: n}); err != nil {
		return nil, err
	}
	return r.store.Gen(n), nil
}

func (r *Recorder) BufferVec3(b Buffer, data []mgl32.Vec3) error {
	if err := r.record(Call{Op: "BufferVec3", VB: b, N: len(data)}); err != nil {
		return err
	}
	return r.store.SetVec3(b, data)
}

func (r *Recorder) BufferVec4(b Buffer, data []mgl32.Vec4) error {
	if err := r.record(Call{Op: "BufferVec4", CB: b, N: len(data)}); err != nil {
		return err
	}
	return r.store.SetVec4(b, data)
}

func (r *Recorder) DeleteBuffers(bs []Buffer) {
	_ = r.record(Call{Op: "DeleteBuffers", N: len(bs)})
	r.store.Delete(bs)
}

func (r *Recorder) DrawArrays(p Primitive, vb, cb Buffer, first, count int) error {
	if err := r.record(Call{Op: "DrawArrays", Prim: p, VB: vb, CB: cb, First: []int{first}, Count: []int{count}, Blend: r.Blending}); err != nil {
		return err
	}
	_, _, err := r.store.Range(vb, cb, first, count)
	return err
}

func (r *Recorder) MultiDrawArrays(p Primitive, vb, cb Buffer, first, count []int) error {
	c := Call{Op: "MultiDrawArrays", Prim: p, VB: vb, CB: cb, Blend: r.Blending}
	c.First = append([]int(nil), first...)
	c.Count = append([]int(nil), count...)
	if err := r.record(c); err != nil {
		return err
	}
	if err := CheckRanges(first, count); err != nil {
		return err
	}
	for i := range first {
		if _, _, err := r.store.Range(vb, cb, first[i], count[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) SwapBuffers() error {
	r.Swaps++
	return r.record(Call{Op: "SwapBuffers"})
}

func (r *Recorder) Flush() {
	r.Flushes++
	_ = r.record(Call{Op: "Flush"})
}
