package graphics

import "strings"

// GLSLVersion is the first line of every shader
const GLSLVersion = "#version 410 core\n"

// ShaderSource prefixes body with the GLSL version line and one
// USE_<ATTRIBUTE> define per attribute in attrs. Vertex and fragment
// stages built for the same attribute set agree on which varyings exist:
// pos (world position), nor, uvs and col.
func ShaderSource(attrs AttributeSet, body string) string {
	var b strings.Builder
	b.WriteString(GLSLVersion)
	attrs.Each(func(a Attribute) {
		b.WriteString("#define USE_")
		b.WriteString(strings.ToUpper(a.Name()))
		b.WriteString("\n")
	})
	b.WriteString(body)
	return b.String()
}
