package pixels

import (
	"embed"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed shaders/*.wgsl
var shaderFS embed.FS

func shaderSource(name string) string {
	b, err := shaderFS.ReadFile("shaders/" + name)
	if err != nil {
		// Embedded file; only reachable through a broken build.
		panic(err)
	}
	return string(b)
}

// Unit quad spanning [0,1]^2, drawn as two triangles.
var (
	quadVertices = [8]float32{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
	}
	quadIndices = [6]uint16{0, 1, 2, 2, 1, 3}
)

// localsData packs the Locals uniform block: a column-major 4x4
// transform followed by (w, h, 1/w, 1/h) of the sampled buffer.
func localsData(transform [16]float32, width, height uint32) [20]float32 {
	var d [20]float32
	copy(d[:16], transform[:])
	d[16] = float32(width)
	d[17] = float32(height)
	d[18] = 1 / float32(width)
	d[19] = 1 / float32(height)
	return d
}

const localsSize = 20 * 4

// newPassBindGroupLayout creates the binding layout shared by every
// pass: 0 = sampled texture, 1 = sampler, 2 = uniform Locals. The
// uniform is visible to both stages so a pass can consume it from
// either side.
func newPassBindGroupLayout(device *wgpu.Device, label string) (*wgpu.BindGroupLayout, error) {
	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
					Multisampled:  false,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: false,
					MinBindingSize:   0,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: bind group layout %s: %v", ErrAllocation, label, err)
	}
	return layout, nil
}

// newPassSampler creates a clamp-to-edge sampler with the given filter.
func newPassSampler(device *wgpu.Device, filter wgpu.FilterMode, label string) (*wgpu.Sampler, error) {
	s, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     filter,
		MinFilter:     filter,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   1,
		Compare:       wgpu.CompareFunctionUndefined,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: sampler %s: %v", ErrAllocation, label, err)
	}
	return s, nil
}

// newPassBindGroup binds a texture view, sampler and Locals buffer to
// the shared layout.
func newPassBindGroup(device *wgpu.Device, layout *wgpu.BindGroupLayout,
	view *wgpu.TextureView, sampler *wgpu.Sampler, locals *wgpu.Buffer, label string) (*wgpu.BindGroup, error) {

	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label,
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: sampler},
			{Binding: 2, Buffer: locals, Offset: 0, Size: localsSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: bind group %s: %v", ErrAllocation, label, err)
	}
	return bg, nil
}

// newPassPipeline compiles a shader and builds the quad render pipeline
// for one pass.
func newPassPipeline(device *wgpu.Device, layout *wgpu.BindGroupLayout,
	source, fsEntry string, format wgpu.TextureFormat, label string) (*wgpu.RenderPipeline, error) {

	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrShaderCompile, label, err)
	}
	defer shader.Release()

	plLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: pipeline layout %s: %v", ErrAllocation, label, err)
	}
	defer plLayout.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: plLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: 2 * 4,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{{
					Format:         wgpu.VertexFormatFloat32x2,
					Offset:         0,
					ShaderLocation: 0,
				}},
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: fsEntry,
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				Blend:     &wgpu.BlendStateReplace,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: pipeline %s: %v", ErrShaderCompile, label, err)
	}
	return pipeline, nil
}

// newQuadBuffers uploads the unit quad vertex and index buffers.
func newQuadBuffers(device *wgpu.Device) (verts, indices *wgpu.Buffer, err error) {
	verts, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "pixels.quad.vertices",
		Contents: wgpu.ToBytes(quadVertices[:]),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: vertex buffer: %v", ErrAllocation, err)
	}
	indices, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "pixels.quad.indices",
		Contents: wgpu.ToBytes(quadIndices[:]),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		verts.Release()
		return nil, nil, fmt.Errorf("%w: index buffer: %v", ErrAllocation, err)
	}
	return verts, indices, nil
}

// scalingRenderer is the default scaling pass. It owns two pipelines
// over the same shader and binding layout: a nearest-neighbor one used
// at whole-number magnification and a texel-clamped bilinear one used
// everywhere else.
type scalingRenderer struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	layout      *wgpu.BindGroupLayout
	nearest     *wgpu.Sampler
	linear      *wgpu.Sampler
	locals      *wgpu.Buffer
	vertices    *wgpu.Buffer
	indices     *wgpu.Buffer
	nearestPipe *wgpu.RenderPipeline
	smoothPipe  *wgpu.RenderPipeline
	nearestBind *wgpu.BindGroup
	smoothBind  *wgpu.BindGroup

	bufW, bufH uint32
	matrix     ScalingMatrix
	smooth     bool
}

func newScalingRenderer(device *wgpu.Device, queue *wgpu.Queue, source *wgpu.TextureView,
	bufW, bufH uint32, format wgpu.TextureFormat, matrix ScalingMatrix) (*scalingRenderer, error) {

	r := &scalingRenderer{
		device: device,
		queue:  queue,
		bufW:   bufW,
		bufH:   bufH,
	}

	var err error
	if r.layout, err = newPassBindGroupLayout(device, "pixels.scale.layout"); err != nil {
		r.release()
		return nil, err
	}
	if r.nearest, err = newPassSampler(device, wgpu.FilterModeNearest, "pixels.scale.nearest"); err != nil {
		r.release()
		return nil, err
	}
	if r.linear, err = newPassSampler(device, wgpu.FilterModeLinear, "pixels.scale.linear"); err != nil {
		r.release()
		return nil, err
	}

	data := localsData(matrix.Transform, bufW, bufH)
	if r.locals, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "pixels.scale.locals",
		Contents: wgpu.ToBytes(data[:]),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	}); err != nil {
		r.release()
		return nil, fmt.Errorf("%w: locals buffer: %v", ErrAllocation, err)
	}

	if r.vertices, r.indices, err = newQuadBuffers(device); err != nil {
		r.release()
		return nil, err
	}

	src := shaderSource("scale.wgsl")
	if r.nearestPipe, err = newPassPipeline(device, r.layout, src, "fs_nearest", format, "pixels.scale.nearest"); err != nil {
		r.release()
		return nil, err
	}
	if r.smoothPipe, err = newPassPipeline(device, r.layout, src, "fs_smooth", format, "pixels.scale.smooth"); err != nil {
		r.release()
		return nil, err
	}

	if err = r.bindSource(source); err != nil {
		r.release()
		return nil, err
	}

	r.setMatrix(matrix)
	return r, nil
}

// bindSource (re)creates the bind groups for a new backing texture
// view. Called at construction and after a buffer resize.
func (r *scalingRenderer) bindSource(source *wgpu.TextureView) error {
	if r.nearestBind != nil {
		r.nearestBind.Release()
		r.nearestBind = nil
	}
	if r.smoothBind != nil {
		r.smoothBind.Release()
		r.smoothBind = nil
	}

	var err error
	if r.nearestBind, err = newPassBindGroup(r.device, r.layout, source, r.nearest,
		r.locals, "pixels.scale.nearest"); err != nil {
		return err
	}
	if r.smoothBind, err = newPassBindGroup(r.device, r.layout, source, r.linear,
		r.locals, "pixels.scale.smooth"); err != nil {
		return err
	}
	return nil
}

// setBufferSize records a new backing buffer size. The caller follows
// up with bindSource and setMatrix.
func (r *scalingRenderer) setBufferSize(w, h uint32) {
	r.bufW = w
	r.bufH = h
}

// setMatrix installs a freshly computed scaling matrix, rewriting the
// Locals uniform and reselecting the sampling policy.
func (r *scalingRenderer) setMatrix(m ScalingMatrix) {
	r.matrix = m
	r.smooth = !m.wholeScale(r.bufW, r.bufH)
	data := localsData(m.Transform, r.bufW, r.bufH)
	if err := r.queue.WriteBuffer(r.locals, 0, wgpu.ToBytes(data[:])); err != nil {
		Logger().Warn("pixels: locals upload failed", "err", err)
	}
	Logger().Debug("pixels: scaling matrix updated",
		"bufferWidth", r.bufW, "bufferHeight", r.bufH, "smooth", r.smooth)
}

// render encodes the scaling pass, clearing the target and drawing the
// buffer quad scissored to its clip rect.
func (r *scalingRenderer) render(encoder *wgpu.CommandEncoder, target *wgpu.TextureView) {
	rp := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "pixels.scale",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})

	pipe, bind := r.smoothPipe, r.smoothBind
	if !r.smooth {
		pipe, bind = r.nearestPipe, r.nearestBind
	}

	rp.SetPipeline(pipe)
	rp.SetBindGroup(0, bind, nil)
	rp.SetVertexBuffer(0, r.vertices, 0, wgpu.WholeSize)
	rp.SetIndexBuffer(r.indices, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	x, y, w, h := r.matrix.ClipRect()
	rp.SetScissorRect(x, y, w, h)
	rp.DrawIndexed(uint32(len(quadIndices)), 1, 0, 0, 0)
	rp.End()
	rp.Release()
}

func (r *scalingRenderer) release() {
	if r.smoothBind != nil {
		r.smoothBind.Release()
		r.smoothBind = nil
	}
	if r.nearestBind != nil {
		r.nearestBind.Release()
		r.nearestBind = nil
	}
	if r.smoothPipe != nil {
		r.smoothPipe.Release()
		r.smoothPipe = nil
	}
	if r.nearestPipe != nil {
		r.nearestPipe.Release()
		r.nearestPipe = nil
	}
	if r.indices != nil {
		r.indices.Release()
		r.indices = nil
	}
	if r.vertices != nil {
		r.vertices.Release()
		r.vertices = nil
	}
	if r.locals != nil {
		r.locals.Release()
		r.locals = nil
	}
	if r.linear != nil {
		r.linear.Release()
		r.linear = nil
	}
	if r.nearest != nil {
		r.nearest.Release()
		r.nearest = nil
	}
	if r.layout != nil {
		r.layout.Release()
		r.layout = nil
	}
}
