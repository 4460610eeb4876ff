package pixels

import "github.com/cogentcore/webgpu/wgpu"

// theInstance is the process-wide WebGPU instance. Surfaces and
// adapters must come from the same instance, so both the caller's
// window surface and Builder.Build share this one.
var theInstance *wgpu.Instance

// Instance returns the process-wide WebGPU instance, creating it on
// first use. Create the window surface from it, for example:
//
//	surface := pixels.Instance().CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))
//
// Instance is not safe for concurrent first use; call it from the main
// thread before spawning anything that renders.
func Instance() *wgpu.Instance {
	if theInstance == nil {
		theInstance = wgpu.CreateInstance(nil)
	}
	return theInstance
}

// Terminate releases the process-wide instance. Call at program exit,
// after every renderer has been released and every surface dropped.
func Terminate() {
	if theInstance != nil {
		theInstance.Release()
		theInstance = nil
	}
}
