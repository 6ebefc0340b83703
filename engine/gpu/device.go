package gpu

import (
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Device bundles the WebGPU objects needed to own and fill buffers.
// No surface is created; presentation is left to the caller.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

// NewDevice requests an adapter and device.
//
// Parameters:
//   - forceFallbackAdapter: if true, requests the software fallback adapter
//
// Returns:
//   - *Device: the device bundle
//   - error: any adapter or device request error
func NewDevice(forceFallbackAdapter bool) (*Device, error) {
	runtime.LockOSThread()
	d := &Device{instance: wgpu.CreateInstance(nil)}

	a, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
	})
	if err != nil {
		d.instance.Release()
		return nil, err
	}
	d.adapter = a

	dev, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Cull Device",
	})
	if err != nil {
		d.adapter.Release()
		d.instance.Release()
		return nil, err
	}
	d.device = dev
	d.queue = dev.GetQueue()
	return d, nil
}

// WGPUDevice returns the underlying device.
func (d *Device) WGPUDevice() *wgpu.Device {
	return d.device
}

// Queue returns the device queue.
func (d *Device) Queue() *wgpu.Queue {
	return d.queue
}

// Release releases the queue, device, adapter and instance.
func (d *Device) Release() {
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}
