package service

import (
	"fmt"
	"strings"

	"golang.org/x/image/colornames"
)

// hexToColorName maps "#rrggbb" to a CSS color name. Built once from the
// sorted name list so aliases (aqua/cyan) resolve deterministically.
var hexToColorName = func() map[string]string {
	m := make(map[string]string, len(colornames.Names))
	for _, name := range colornames.Names {
		c := colornames.Map[name]
		hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
		if _, ok := m[hex]; !ok {
			m[hex] = name
		}
	}
	return m
}()

// TranslateHexColor converts a "#rrggbb" value to its color name. Values
// that already are known color names pass through unchanged. Anything else
// is a validation error, matching write-time tag validation.
func TranslateHexColor(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if !strings.HasPrefix(v, "#") {
		if _, ok := colornames.Map[v]; ok {
			return v, nil
		}
		return "", NewValidationError("no name exists for this color")
	}
	if name, ok := hexToColorName[v]; ok {
		return name, nil
	}
	return "", NewValidationError("no name exists for this color")
}
