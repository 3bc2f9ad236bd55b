package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/cubesketch/rt/shaders"
)

// BlitPass stretches the offscreen scene over the whole surface. It is used
// when the render size is capped below the framebuffer size.
type BlitPass struct {
	Pipeline  *wgpu.RenderPipeline
	Sampler   *wgpu.Sampler
	BindGroup *wgpu.BindGroup
	Device    *wgpu.Device
}

func NewBlitPass(device *wgpu.Device, format wgpu.TextureFormat) (_ *BlitPass, err error) {
	p := &BlitPass{Device: device}
	defer func() {
		if err != nil {
			p.Release()
		}
	}()

	mod, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "BlitShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.BlitWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("blit shader: %w", err)
	}
	defer mod.Release()

	p.Sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("blit sampler: %w", err)
	}

	p.Pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "BlitPipeline",
		Vertex: wgpu.VertexState{
			Module:     mod,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     mod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("blit pipeline: %w", err)
	}
	return p, nil
}

// SetSource rebinds the scene texture. Call it whenever the offscreen
// target is recreated.
func (p *BlitPass) SetSource(view *wgpu.TextureView) error {
	bgl := p.Pipeline.GetBindGroupLayout(0)
	defer bgl.Release()

	bg, err := p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "BlitBG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: p.Sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("blit bind group: %w", err)
	}
	if p.BindGroup != nil {
		p.BindGroup.Release()
	}
	p.BindGroup = bg
	return nil
}

func (p *BlitPass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.BindGroup == nil {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.Draw(3, 1, 0, 0)
}

func (p *BlitPass) Release() {
	if p == nil {
		return
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
}
