package model

import "github.com/dalerank/imlottie-sub000/internal/imageasset"

// Asset is a document-level resource referenced by id from layers: either
// an embedded/linked image (Image != nil) or a nested composition made of
// its own layer list (Layers != nil).
type Asset struct {
	ID     string
	Image  *ImageAsset
	Layers []*Layer // precomp asset content, paint-order (back to front)
}

// ImageAsset resolves a layer's image source, deferring decode to
// internal/imageasset (spec: the decoder itself is an external
// collaborator, not part of the scene model).
type ImageAsset struct {
	Source imageasset.Source
	Width, Height int
}

// Marker is a named point on the document timeline ("markers").
type Marker struct {
	Name    string
	Frame   float64
	Duration float64
}
