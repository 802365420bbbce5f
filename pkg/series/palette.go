package series

// Palette is a fixed list of line colours assigned by category index.
type Palette []string

//nolint:gochecknoglobals
var DefaultPalette = Palette{"#8884d8", "#82ca9d", "#ffc658", "#ff7300", "#0088FE"}

// Color cycles through the palette, so the Nth category always gets entry N mod len.
func (p Palette) Color(index int) string {
	if len(p) == 0 {
		return ""
	}

	index %= len(p)
	if index < 0 {
		index += len(p)
	}

	return p[index]
}
