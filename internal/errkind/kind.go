// Package errkind enumerates the error categories the pipeline can hit, so
// logs and tests can assert on which one fired without string matching.
package errkind

// Kind classifies a runtime condition the library logs instead of failing
// the caller's hot path with, per the error-handling design.
type Kind int

const (
	// ParseError is malformed or unexpected JSON while loading a document.
	ParseError Kind = iota
	// LoadError is a structurally valid document the loader still rejects
	// (unsupported version, zero-sized composition, missing root layer).
	LoadError
	// UnsupportedFeature is a recognized-but-unimplemented JSON feature;
	// the affected shape/layer is skipped, not fatal.
	UnsupportedFeature
	// ConcurrentRender is a RenderSync call overlapping another render on
	// the same animation.
	ConcurrentRender
	// AssetMissing is an image/precomp asset a layer references that
	// cannot be resolved.
	AssetMissing
	// Terminated is a normal shutdown-in-progress condition (commands
	// submitted after Close, or a render aborted by Close).
	Terminated
)

// String returns the kind's name, used in log fields.
func (k Kind) String() string {
	switch k {
	case ParseError:
		return "parse_error"
	case LoadError:
		return "load_error"
	case UnsupportedFeature:
		return "unsupported_feature"
	case ConcurrentRender:
		return "concurrent_render"
	case AssetMissing:
		return "asset_missing"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}
