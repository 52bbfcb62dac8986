package shop

// Shape is implemented by every parcel shape.
type Shape interface {
	Volume() float64
}

type Box struct {
	W, H, D float64
}

func (b Box) Volume() float64 { return b.W * b.H * b.D }

type Tube struct {
	R, L float64
}

func (t *Tube) Volume() float64 { return 3.14159 * t.R * t.R * t.L }

// Note carries free text.
type Note struct {
	Base
	Text string `json:"text"`
}

// Base is embedded by annotated records.
type Base struct {
	Author string `json:"author"`
}

// Label is listed explicitly and never scanned for.
//
//model:subtypes
type Label interface {
	Volume() float64
}
