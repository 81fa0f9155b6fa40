package render

import (
	"errors"
	"fmt"
)

// Primitive is the topology of a draw call.
type Primitive int

const (
	TriangleStrip Primitive = iota
	Triangle
)

func (p Primitive) String() string {
	switch p {
	case TriangleStrip:
		return "triangle-strip"
	case Triangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// Vertex is a clip-space position with a flat RGBA color.
type Vertex struct {
	X, Y       float32
	R, G, B, A float32
}

// QuadVertices is the static quad drawn every frame, ordered for a triangle strip.
var QuadVertices = [4]Vertex{
	{X: -0.5, Y: -0.5, R: 0.15, G: 0.39, B: 0.92, A: 1},
	{X: 0.5, Y: -0.5, R: 0.15, G: 0.39, B: 0.92, A: 1},
	{X: -0.5, Y: 0.5, R: 0.06, G: 0.73, B: 0.51, A: 1},
	{X: 0.5, Y: 0.5, R: 0.06, G: 0.73, B: 0.51, A: 1},
}

// PipelineState is the single fixed pipeline used for the quad.
type PipelineState struct {
	Name      string
	Primitive Primitive
}

// Resources holds the vertex buffer and pipeline. Built once, never mutated.
type Resources struct {
	vertices []Vertex
	pipeline *PipelineState
}

// NewResources builds the quad vertex buffer and pipeline state.
func NewResources() (*Resources, error) {
	verts := make([]Vertex, len(QuadVertices))
	copy(verts, QuadVertices[:])
	if len(verts) != 4 {
		return nil, fmt.Errorf("render: quad needs 4 vertices, got %d", len(verts))
	}
	return &Resources{
		vertices: verts,
		pipeline: &PipelineState{Name: "quad", Primitive: TriangleStrip},
	}, nil
}

// Pipeline returns the pipeline state, nil on a zero Resources.
func (r *Resources) Pipeline() *PipelineState {
	if r == nil {
		return nil
	}
	return r.pipeline
}

// Vertices returns a copy of the vertex buffer.
func (r *Resources) Vertices() []Vertex {
	if r == nil {
		return nil
	}
	out := make([]Vertex, len(r.vertices))
	copy(out, r.vertices)
	return out
}

// RenderPassDescriptor describes the render target of an acquired drawable.
type RenderPassDescriptor struct {
	Width, Height int
	ClearColor    [4]float32
}

var (
	ErrNoRenderTarget = errors.New("render: no render pass descriptor")
	ErrNoPipeline     = errors.New("render: pipeline state missing")
	ErrEncoderEnded   = errors.New("render: encoder already ended")
)

// CommandKind enumerates recorded commands.
type CommandKind int

const (
	CmdSetPipeline CommandKind = iota
	CmdSetVertexBuffer
	CmdDraw
)

// Command is one recorded encoder call.
type Command struct {
	Kind        CommandKind
	Pipeline    *PipelineState
	Vertices    []Vertex
	Primitive   Primitive
	VertexStart int
	VertexCount int
}

// CommandSequence is a finished, immutable list of commands for one frame.
type CommandSequence struct {
	Target   RenderPassDescriptor
	Commands []Command
}

// DrawCalls returns the draw commands in the sequence.
func (c *CommandSequence) DrawCalls() []Command {
	if c == nil {
		return nil
	}
	var out []Command
	for _, cmd := range c.Commands {
		if cmd.Kind == CmdDraw {
			out = append(out, cmd)
		}
	}
	return out
}

// Encoder records commands against one render pass.
type Encoder struct {
	seq   *CommandSequence
	ended bool
}

// NewEncoder starts encoding into desc.
func NewEncoder(desc *RenderPassDescriptor) (*Encoder, error) {
	if desc == nil {
		return nil, ErrNoRenderTarget
	}
	return &Encoder{seq: &CommandSequence{Target: *desc}}, nil
}

func (e *Encoder) SetPipeline(p *PipelineState) error {
	if e.ended {
		return ErrEncoderEnded
	}
	if p == nil {
		return ErrNoPipeline
	}
	e.seq.Commands = append(e.seq.Commands, Command{Kind: CmdSetPipeline, Pipeline: p})
	return nil
}

func (e *Encoder) SetVertexBuffer(v []Vertex) error {
	if e.ended {
		return ErrEncoderEnded
	}
	e.seq.Commands = append(e.seq.Commands, Command{Kind: CmdSetVertexBuffer, Vertices: v})
	return nil
}

func (e *Encoder) Draw(p Primitive, start, count int) error {
	if e.ended {
		return ErrEncoderEnded
	}
	e.seq.Commands = append(e.seq.Commands, Command{Kind: CmdDraw, Primitive: p, VertexStart: start, VertexCount: count})
	return nil
}

// EndEncoding finishes the sequence. The encoder cannot be reused.
func (e *Encoder) EndEncoding() (*CommandSequence, error) {
	if e.ended {
		return nil, ErrEncoderEnded
	}
	e.ended = true
	return e.seq, nil
}

// EncodeQuad records the fixed frame: pipeline, vertex buffer, one 4-vertex strip.
func EncodeQuad(res *Resources, desc *RenderPassDescriptor) (*CommandSequence, error) {
	enc, err := NewEncoder(desc)
	if err != nil {
		return nil, err
	}
	if err := enc.SetPipeline(res.Pipeline()); err != nil {
		return nil, err
	}
	if err := enc.SetVertexBuffer(res.vertices); err != nil {
		return nil, err
	}
	if err := enc.Draw(TriangleStrip, 0, 4); err != nil {
		return nil, err
	}
	return enc.EndEncoding()
}

// PixelBounds maps the clip-space bounding box of verts onto a width x height
// target with Y pointing down. Rasterizers without triangle support fill this
// rectangle instead of the strip.
func PixelBounds(verts []Vertex, width, height int) (x, y, w, h int) {
	if len(verts) == 0 || width <= 0 || height <= 0 {
		return 0, 0, 0, 0
	}
	minX, maxX := verts[0].X, verts[0].X
	minY, maxY := verts[0].Y, verts[0].Y
	for _, v := range verts[1:] {
		minX, maxX = min(minX, v.X), max(maxX, v.X)
		minY, maxY = min(minY, v.Y), max(maxY, v.Y)
	}
	toPx := func(c float32, size int) int { return int((c + 1) / 2 * float32(size)) }
	x0, x1 := toPx(minX, width), toPx(maxX, width)
	// Clip-space Y grows upward.
	y0, y1 := toPx(-maxY, height), toPx(-minY, height)
	return x0, y0, x1 - x0, y1 - y0
}
