package script

import "fmt"

// NoImage is the legacy marker some hosts still write into image fields to
// hide a layer. ParseLayer translates it to LayerClear.
const NoImage = "NO_IMAGE"

// LayerOp says what a beat does to an image layer.
type LayerOp uint8

const (
	// LayerKeep leaves the previous beat's layer untouched.
	LayerKeep LayerOp = iota
	// LayerClear hides the layer.
	LayerClear
	// LayerSet replaces the layer with a new image.
	LayerSet
)

// String returns the op name.
func (op LayerOp) String() string {
	switch op {
	case LayerKeep:
		return "Keep"
	case LayerClear:
		return "Clear"
	case LayerSet:
		return "Set"
	default:
		return fmt.Sprintf("LayerOp(%d)", op)
	}
}

// Layer is a per-beat delta for an image layer. The zero value is Keep.
type Layer struct {
	Op   LayerOp
	Path string
}

// Keep returns a Layer that leaves the previous image in place.
func Keep() Layer { return Layer{} }

// Clear returns a Layer that hides the image.
func Clear() Layer { return Layer{Op: LayerClear} }

// Set returns a Layer that shows the image at path.
func Set(path string) Layer { return Layer{Op: LayerSet, Path: path} }

// Changes reports whether the layer replaces whatever was shown before.
func (l Layer) Changes() bool { return l.Op != LayerKeep }

// String implements fmt.Stringer.
func (l Layer) String() string {
	if l.Op == LayerSet {
		return "Set(" + l.Path + ")"
	}
	return l.Op.String()
}

// ParseLayer converts an optional path field carrying the legacy NoImage
// marker into a Layer.
func ParseLayer(raw string, present bool) Layer {
	switch {
	case !present:
		return Keep()
	case raw == NoImage:
		return Clear()
	case raw == "":
		return Keep()
	default:
		return Set(raw)
	}
}
