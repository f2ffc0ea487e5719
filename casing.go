package safedecoding

import (
	"strings"

	"github.com/ettle/strcase"
)

// applyCasing transforms a rename literal with the requested casing strategy.
// CasingNone returns the literal untouched.
func applyCasing(lit string, c Casing) string {
	switch c {
	case CasingCamel:
		return strcase.ToCamel(lit)
	case CasingSnake:
		return strcase.ToSnake(lit)
	case CasingSnakeUpper:
		return strcase.ToSNAKE(lit)
	case CasingKebab:
		return strcase.ToKebab(lit)
	case CasingKebabUpper:
		return strcase.ToKEBAB(lit)
	case CasingFlat:
		// lowercase with every separator stripped
		return strings.ReplaceAll(strcase.ToSnake(lit), "_", "")
	default:
		return lit
	}
}
