package theme

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed themes/*.css
var embedded embed.FS

// DefaultThemeName is the name of the built-in default theme.
const DefaultThemeName = "default"

// Embedded returns a bundled theme by name, without resolving its imports.
func Embedded(name string) (string, bool) {
	data, err := embedded.ReadFile("themes/" + name + ".css")
	if err != nil {
		return "", false
	}
	return string(data), true
}

// embeddedPartial returns a bundled partial. The leading underscore and
// the .css extension are optional.
func embeddedPartial(name string) (string, bool) {
	name = strings.TrimSuffix(strings.TrimPrefix(name, "_"), ".css")
	data, err := embedded.ReadFile("themes/_" + name + ".css")
	if err != nil {
		return "", false
	}
	return string(data), true
}

// ListEmbedded returns the names of the bundled themes, excluding partials.
func ListEmbedded() []string {
	entries, err := fs.ReadDir(embedded, "themes")
	if err != nil {
		return []string{DefaultThemeName}
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || path.Ext(name) != ".css" {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".css"))
	}
	return names
}
