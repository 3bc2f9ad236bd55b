package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/cubesketch/rt/core"
	"github.com/gekko3d/cubesketch/rt/shaders"
)

// LatticePass draws every lattice instance of the base box in one indexed,
// instanced draw call.
type LatticePass struct {
	Pipeline       *wgpu.RenderPipeline
	BindGroup      *wgpu.BindGroup
	UniformBuffer  *wgpu.Buffer
	VertexBuffer   *wgpu.Buffer
	IndexBuffer    *wgpu.Buffer
	InstanceBuffer *wgpu.Buffer
	IndexCount     uint32
	InstanceCount  uint32
	Device         *wgpu.Device
}

// NewLatticePass builds the pipeline and the frame uniform binding. On
// failure everything created so far is released.
func NewLatticePass(device *wgpu.Device, format wgpu.TextureFormat, sampleCount uint32) (_ *LatticePass, err error) {
	p := &LatticePass{Device: device}
	defer func() {
		if err != nil {
			p.Release()
		}
	}()

	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "LatticeShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.LatticeWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("lattice shader: %w", err)
	}
	defer shaderModule.Release()

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "LatticeFrameBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					MinBindingSize:   core.FrameUniformsSize,
					HasDynamicOffset: false,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("lattice bind group layout: %w", err)
	}
	defer bgl.Release()

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "LatticePipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, fmt.Errorf("lattice pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	p.Pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "LatticePipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: core.BoxVertexStride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
					},
				},
				{
					ArrayStride: core.LatticeInstanceStride,
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 2},
						{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 3},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: depthState(true, wgpu.CompareFunctionLess),
		Multisample: wgpu.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("lattice pipeline: %w", err)
	}

	p.UniformBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "LatticeFrameUniforms",
		Size:  core.FrameUniformsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("lattice uniform buffer: %w", err)
	}

	p.BindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "LatticeFrameBG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  p.UniformBuffer,
				Size:    core.FrameUniformsSize,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("lattice bind group: %w", err)
	}

	return p, nil
}

// Upload creates the static geometry and instance buffers. It runs once.
func (p *LatticePass) Upload(geom *core.BoxGeometry, instances []core.LatticeInstance) error {
	if len(geom.Vertices) == 0 || len(geom.Indices) == 0 {
		return fmt.Errorf("lattice upload: empty geometry")
	}
	if len(instances) == 0 {
		return fmt.Errorf("lattice upload: no instances")
	}
	p.releaseGeometry()

	var err error
	p.VertexBuffer, err = p.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "LatticeBoxVertices",
		Contents: wgpu.ToBytes(geom.Vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return fmt.Errorf("lattice vertex buffer: %w", err)
	}

	// Index buffer sizes must be 4-byte aligned; 36 uint16 indices are.
	p.IndexBuffer, err = p.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "LatticeBoxIndices",
		Contents: wgpu.ToBytes(geom.Indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		return fmt.Errorf("lattice index buffer: %w", err)
	}

	p.InstanceBuffer, err = p.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "LatticeInstances",
		Contents: wgpu.ToBytes(instances),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return fmt.Errorf("lattice instance buffer: %w", err)
	}

	p.IndexCount = geom.IndexCount()
	p.InstanceCount = uint32(len(instances))
	return nil
}

func (p *LatticePass) Update(queue *wgpu.Queue, frame *core.FrameUniforms) error {
	return queue.WriteBuffer(p.UniformBuffer, 0, frame.Bytes())
}

func (p *LatticePass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.InstanceBuffer == nil {
		return
	}

	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, p.VertexBuffer.GetSize())
	pass.SetVertexBuffer(1, p.InstanceBuffer, 0, p.InstanceBuffer.GetSize())
	pass.SetIndexBuffer(p.IndexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	pass.DrawIndexed(p.IndexCount, p.InstanceCount, 0, 0, 0)
}

func (p *LatticePass) releaseGeometry() {
	for _, b := range []*wgpu.Buffer{p.VertexBuffer, p.IndexBuffer, p.InstanceBuffer} {
		if b != nil {
			b.Release()
		}
	}
	p.VertexBuffer, p.IndexBuffer, p.InstanceBuffer = nil, nil, nil
}

func (p *LatticePass) Release() {
	if p == nil {
		return
	}
	p.releaseGeometry()
	if p.BindGroup != nil {
		p.BindGroup.Release()
		p.BindGroup = nil
	}
	if p.UniformBuffer != nil {
		p.UniformBuffer.Release()
		p.UniformBuffer = nil
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
}

func depthState(write bool, compare wgpu.CompareFunction) *wgpu.DepthStencilState {
	return &wgpu.DepthStencilState{
		Format:            depthFormat,
		DepthWriteEnabled: write,
		DepthCompare:      compare,
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilReadMask:   0xFFFFFFFF,
		StencilWriteMask:  0xFFFFFFFF,
	}
}
