package rfp

import "strings"

const (
	MaterialCopper    = "Copper"
	MaterialAluminium = "Aluminium"
)

var materialAliases = map[string]string{
	"cu":        MaterialCopper,
	"copper":    MaterialCopper,
	"al":        MaterialAluminium,
	"aluminium": MaterialAluminium,
	"aluminum":  MaterialAluminium,
}

// NormalizeMaterial maps common spellings and chemical symbols onto the
// canonical material names. Unknown values are returned trimmed.
func NormalizeMaterial(m string) string {
	key := strings.ToLower(strings.TrimSpace(m))
	if canonical, ok := materialAliases[key]; ok {
		return canonical
	}
	return strings.TrimSpace(m)
}

// NormalizeInsulation upper-cases insulation class names ("xlpe" → "XLPE").
func NormalizeInsulation(i string) string {
	return strings.ToUpper(strings.TrimSpace(i))
}
