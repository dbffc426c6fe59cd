package lottie

// UploadFunc is the host-supplied collaborator for
// Registry.UploadReadyFramesToSysTex (spec §4's "J. Host upload hook"):
// given a promoted frame's premultiplied BGRA pixels, it creates or
// updates a GPU texture on the host's device/command context and returns
// an opaque handle to publish into the registry descriptor. This package
// has no GPU binding of its own — J is a contract the host implements,
// not a concrete texture type.
//
// Pixel format handed in: premultiplied BGRA, 4 bytes per pixel, row
// pitch == width*4 (RenderSync never writes a surface with padding).
type UploadFunc = func(pid uint32, data []byte, width, height int) any
