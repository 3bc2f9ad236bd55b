package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/cubesketch/rt/core"
	"github.com/gekko3d/cubesketch/rt/shaders"
)

// TextPass draws the debug overlay on top of the lattice in the same render
// pass. It never writes depth.
type TextPass struct {
	Glyphs       *core.GlyphAtlas
	Pipeline     *wgpu.RenderPipeline
	BindGroup    *wgpu.BindGroup
	Atlas        *wgpu.Texture
	AtlasView    *wgpu.TextureView
	Sampler      *wgpu.Sampler
	VertexBuffer *wgpu.Buffer
	VertexCount  uint32
	Device       *wgpu.Device
}

// NewTextPass rasterises the atlas and uploads it. On failure everything
// created so far is released.
func NewTextPass(device *wgpu.Device, queue *wgpu.Queue, format wgpu.TextureFormat, sampleCount uint32, fontSize float64) (_ *TextPass, err error) {
	glyphs, err := core.NewGlyphAtlas(fontSize)
	if err != nil {
		return nil, err
	}
	p := &TextPass{Glyphs: glyphs, Device: device}
	defer func() {
		if err != nil {
			p.Release()
		}
	}()

	w, h := glyphs.Image.Bounds().Dx(), glyphs.Image.Bounds().Dy()
	extent := wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}
	p.Atlas, err = device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "TextAtlas",
		Size:          extent,
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("text atlas: %w", err)
	}
	err = queue.WriteTexture(p.Atlas.AsImageCopy(), glyphs.Image.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(w),
		RowsPerImage: uint32(h),
	}, &extent)
	if err != nil {
		return nil, fmt.Errorf("text atlas upload: %w", err)
	}

	p.AtlasView, err = p.Atlas.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("text atlas view: %w", err)
	}

	p.Sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("text sampler: %w", err)
	}

	textMod, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "TextShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.TextWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("text shader: %w", err)
	}
	defer textMod.Release()

	p.Pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "TextPipeline",
		Vertex: wgpu.VertexState{
			Module:     textMod,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: textVertexStride,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     textMod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		DepthStencil: depthState(false, wgpu.CompareFunctionAlways),
		Multisample: wgpu.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("text pipeline: %w", err)
	}

	bgl := p.Pipeline.GetBindGroupLayout(0)
	defer bgl.Release()
	p.BindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "TextBG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: p.AtlasView},
			{Binding: 1, Sampler: p.Sampler},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("text bind group: %w", err)
	}

	return p, nil
}

// Update rebuilds the overlay vertices; the buffer only ever grows.
func (p *TextPass) Update(queue *wgpu.Queue, items []core.TextItem, screenW, screenH int) error {
	p.VertexCount = 0
	if len(items) == 0 {
		return nil
	}

	vertices := p.Glyphs.Layout(items, screenW, screenH)
	if len(vertices) == 0 {
		return nil
	}

	vSize := uint64(len(vertices)) * textVertexStride
	if p.VertexBuffer == nil || p.VertexBuffer.GetSize() < vSize {
		if p.VertexBuffer != nil {
			p.VertexBuffer.Release()
		}
		var err error
		p.VertexBuffer, err = p.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "TextVertices",
			Size:  vSize,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			p.VertexBuffer = nil
			return fmt.Errorf("text vertex buffer: %w", err)
		}
	}

	if err := queue.WriteBuffer(p.VertexBuffer, 0, wgpu.ToBytes(vertices)); err != nil {
		return err
	}
	p.VertexCount = uint32(len(vertices))
	return nil
}

func (p *TextPass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.VertexCount == 0 || p.VertexBuffer == nil {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, p.VertexBuffer.GetSize())
	pass.Draw(p.VertexCount, 1, 0, 0)
}

func (p *TextPass) Release() {
	if p == nil {
		return
	}
	if p.VertexBuffer != nil {
		p.VertexBuffer.Release()
		p.VertexBuffer = nil
	}
	if p.BindGroup != nil {
		p.BindGroup.Release()
		p.BindGroup = nil
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
	if p.Sampler != nil {
		p.Sampler.Release()
		p.Sampler = nil
	}
	if p.AtlasView != nil {
		p.AtlasView.Release()
		p.AtlasView = nil
	}
	if p.Atlas != nil {
		p.Atlas.Release()
		p.Atlas = nil
	}
}
