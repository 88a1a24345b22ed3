package graphics

import "strings"

// Attribute is a per-vertex input a fragment shader may ask for
type Attribute uint8

const (
	Position Attribute = 1 << iota
	Normal
	UV
	Color
)

// AttributeSet is a set of Attributes
type AttributeSet = Attribute

var attributeOrder = []Attribute{Position, Normal, UV, Color}

// Name returns the vertex shader input name of a single attribute.
func (a Attribute) Name() string {
	switch a {
	case Position:
		return "position"
	case Normal:
		return "normal"
	case UV:
		return "uv"
	case Color:
		return "color"
	}
	return ""
}

// Components returns the number of floats per vertex of a single attribute.
func (a Attribute) Components() int32 {
	switch a {
	case UV:
		return 2
	case Color:
		return 4
	}
	return 3
}

// Has reports whether every attribute of o is in a.
func (a Attribute) Has(o Attribute) bool { return a&o == o }

// Missing returns the attributes of want that are not in a.
func (a Attribute) Missing(want Attribute) Attribute { return want &^ a }

// Each calls fn for every single attribute in the set in a fixed order.
func (a Attribute) Each(fn func(Attribute)) {
	for _, x := range attributeOrder {
		if a&x != 0 {
			fn(x)
		}
	}
}

func (a Attribute) String() string {
	if a == 0 {
		return "none"
	}
	var names []string
	a.Each(func(x Attribute) { names = append(names, x.Name()) })
	return strings.Join(names, "|")
}
