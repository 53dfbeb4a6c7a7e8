package render

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/my3d/internal/debug"
)

const lineVertexShader = `#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aColor;
uniform mat4 uViewProj;
out vec3 vColor;
void main() {
    vColor = aColor;
    gl_Position = uViewProj * vec4(aPos, 1.0);
}
`

const lineFragmentShader = `#version 410 core
in vec3 vColor;
out vec4 FragColor;
void main() {
    FragColor = vec4(vColor, 1.0);
}
`

// LineRenderer draws debug.Lines batches. The vertex buffer grows to the
// largest batch seen and is reused.
type LineRenderer struct {
	program  uint32
	vao      uint32
	vbo      uint32
	capacity int
	count    int32
	viewProj int32
}

// NewLineRenderer compiles the line program and allocates its buffers.
// Requires a current GL context.
func NewLineRenderer() (*LineRenderer, error) {
	program, err := CompileProgram(lineVertexShader, lineFragmentShader)
	if err != nil {
		return nil, err
	}
	loc, err := Uniform(program, "uViewProj")
	if err != nil {
		gl.DeleteProgram(program)
		return nil, err
	}

	r := &LineRenderer{program: program, viewProj: loc}
	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	stride := int32(debug.FloatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)
	return r, nil
}

// Upload replaces the buffer contents with lines.
func (r *LineRenderer) Upload(lines *debug.Lines) {
	data := lines.Data()
	r.count = int32(lines.VertexCount())
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	if len(data) > r.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
		r.capacity = len(data)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, gl.Ptr(data))
	}
}

// Draw renders the last uploaded batch.
func (r *LineRenderer) Draw(viewProj mgl32.Mat4) {
	if r.count == 0 {
		return
	}
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.viewProj, 1, false, &viewProj[0])
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.LINES, 0, r.count)
	gl.BindVertexArray(0)
}

// Close releases GL objects.
func (r *LineRenderer) Close() {
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.program)
}

// Clear prepares a frame.
func Clear(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0.08, 0.09, 0.11, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Init loads GL function pointers and sets fixed state.
func Init() error {
	if err := gl.Init(); err != nil {
		return err
	}
	gl.Enable(gl.DEPTH_TEST)
	return nil
}

// ReadPixels returns the RGBA framebuffer, bottom row first.
func ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
