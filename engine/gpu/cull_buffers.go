package gpu

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-cull/engine/cull"
	"github.com/Carmen-Shannon/oxy-cull/engine/light"
	"github.com/cogentcore/webgpu/wgpu"
)

// Binding indices of the culling buffer set, matching the storage bindings a
// shading pass declares.
const (
	BindingLightData = iota
	BindingLightBounds
	BindingDirectionalLights
	BindingTileLists
	BindingVoxelOffsets
	BindingVoxelLists
	BindingLogBases
	BindingUniforms
	NumBindings
)

// CullBuffers owns the GPU copies of a LightCuller's output. Buffers are sized
// from a FrameResourceContext and recreated only when its resolution changes.
type CullBuffers struct {
	buffers       map[int]*wgpu.Buffer
	width, height int
	packedVoxels  []uint32
}

// NewCullBuffers creates an empty buffer set.
func NewCullBuffers() *CullBuffers {
	return &CullBuffers{buffers: make(map[int]*wgpu.Buffer)}
}

// BufferSizes returns the byte size of every binding needed for res. Bindings
// a configuration does not use are absent.
//
// Parameters:
//   - res: the culler's frame resources, already allocated
//
// Returns:
//   - map[int]uint64: size in bytes per binding
func BufferSizes(res *cull.FrameResourceContext) map[int]uint64 {
	var data light.GPULightData
	var bound light.GPULightBound
	var dir light.GPUDirectionalLight
	var uniforms light.GPULightCullUniforms

	sizes := map[int]uint64{
		BindingLightData:         uint64(light.MaxNumLights * data.Size()),
		BindingLightBounds:       uint64(light.MaxNumLights * bound.Size()),
		BindingDirectionalLights: uint64(light.MaxNumDirLights * dir.Size()),
		BindingTileLists:         uint64(len(res.TileListWords()) * 4),
		BindingUniforms:          uint64(uniforms.Size()),
	}
	if res.Clustered() {
		sizes[BindingVoxelOffsets] = uint64(len(res.VoxelEntries()) * 4)
		sizes[BindingVoxelLists] = uint64(len(res.VoxelListWords()) * 4)
		if n := len(res.LogBases()); n > 0 {
			sizes[BindingLogBases] = uint64(n * 4)
		}
	}
	return sizes
}

// Allocate (re)creates every buffer for the resolution of res.
//
// Parameters:
//   - device: the WebGPU device
//   - res: the culler's frame resources, already allocated
//
// Returns:
//   - error: the first buffer creation error
func (b *CullBuffers) Allocate(device *wgpu.Device, res *cull.FrameResourceContext) error {
	b.Release()
	for binding, size := range BufferSizes(res) {
		usage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
		if binding == BindingUniforms {
			usage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
		}
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            fmt.Sprintf("Light Cull Buffer %d", binding),
			Size:             size,
			Usage:            usage,
			MappedAtCreation: false,
		})
		if err != nil {
			b.Release()
			return err
		}
		b.buffers[binding] = buf
	}
	b.width, b.height = res.Size()
	return nil
}

// ResizeIfNecessary reallocates when res has a different resolution than the
// current buffers.
//
// Parameters:
//   - device: the WebGPU device
//   - res: the culler's frame resources
//
// Returns:
//   - bool: true if buffers were recreated
//   - error: any Allocate error
func (b *CullBuffers) ResizeIfNecessary(device *wgpu.Device, res *cull.FrameResourceContext) (bool, error) {
	w, h := res.Size()
	if len(b.buffers) > 0 && w == b.width && h == b.height {
		return false, nil
	}
	if err := b.Allocate(device, res); err != nil {
		return false, err
	}
	return true, nil
}

// Buffer returns the buffer of a binding, or nil.
func (b *CullBuffers) Buffer(binding int) *wgpu.Buffer {
	return b.buffers[binding]
}

// Writes returns the buffer writes that upload one frame's output. Empty
// sections produce no write.
//
// Parameters:
//   - out: the frame output
//
// Returns:
//   - []BufferWrite: writes in binding order
func (b *CullBuffers) Writes(out *cull.FrameOutput) []BufferWrite {
	res := out.Resources
	writes := make([]BufferWrite, 0, NumBindings)
	add := func(binding int, data []byte) {
		if len(data) > 0 {
			writes = append(writes, BufferWrite{Binding: binding, Data: data})
		}
	}

	add(BindingLightData, light.MarshalLightData(out.Proxies.Data))
	add(BindingLightBounds, light.MarshalLightBounds(out.Proxies.Bounds))
	add(BindingDirectionalLights, light.MarshalDirectionalLights(out.DirectionalLights))
	add(BindingTileLists, light.MarshalUint32s(res.TileListWords()))
	if res.Clustered() {
		entries := res.VoxelEntries()
		if cap(b.packedVoxels) < len(entries) {
			b.packedVoxels = make([]uint32, len(entries))
		}
		packed := b.packedVoxels[:len(entries)]
		for i, e := range entries {
			packed[i] = light.PackVoxelEntry(e.Offset, e.Count)
		}
		add(BindingVoxelOffsets, light.MarshalUint32s(packed))

		used := min(int(out.ClusterStats.IndicesUsed), len(res.VoxelListWords()))
		add(BindingVoxelLists, light.MarshalUint32s(res.VoxelListWords()[:used]))
		add(BindingLogBases, light.MarshalFloat32s(res.LogBases()))
	}
	add(BindingUniforms, out.Uniforms.Marshal())
	return writes
}

// Upload writes one frame's output into the buffers.
//
// Parameters:
//   - queue: the device queue
//   - out: the frame output
func (b *CullBuffers) Upload(queue *wgpu.Queue, out *cull.FrameOutput) {
	for _, w := range b.Writes(out) {
		buf := b.buffers[w.Binding]
		if buf == nil {
			continue
		}
		queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

// Release releases every buffer.
func (b *CullBuffers) Release() {
	for binding, buf := range b.buffers {
		buf.Release()
		delete(b.buffers, binding)
	}
	b.width, b.height = 0, 0
}
