package brief

import "strings"

// Palette is the set of colors a category renders with.
type Palette struct {
	Primary string
	Light   string
	Hover   string
}

var categoryPalettes = map[string]Palette{
	"governance":    {Primary: "#007AFF", Light: "#E6F3FF", Hover: "#0056CC"},
	"economic":      {Primary: "#34C759", Light: "#E8F7EC", Hover: "#28A745"},
	"international": {Primary: "#FF9500", Light: "#FFF4E6", Hover: "#E6850E"},
	"science":       {Primary: "#AF52DE", Light: "#F3E8FF", Hover: "#9A3EC4"},
	"social":        {Primary: "#5AC8FA", Light: "#E8F7FF", Hover: "#32ADE6"},
	"environment":   {Primary: "#32D74B", Light: "#E8F7EC", Hover: "#28A745"},
}

// CategoryColor returns the palette for a category or section id.
// Unknown categories use the governance palette.
func CategoryColor(category string) Palette {
	if p, ok := categoryPalettes[strings.ToLower(strings.TrimSpace(category))]; ok {
		return p
	}
	return categoryPalettes["governance"]
}
