package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jmylchreest/hud/internal/config"
)

// importRegex matches @import "file.css"; @import 'file.css'; and @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is a resolved theme with its imports inlined.
type Theme struct {
	Name    string
	Path    string // Empty for bundled themes
	CSS     string
	Bundled bool
}

// ThemesDir returns the user's themes directory.
func ThemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "hud", "themes"), nil
}

// Resolve finds a theme by name. A file in dir overrides a bundled theme of
// the same name. Unknown names fall back to the default theme; the returned
// bool reports whether the requested theme was found.
func Resolve(name, dir string) (*Theme, bool, error) {
	if name == "" {
		name = DefaultThemeName
	}

	if dir != "" {
		themePath := filepath.Join(dir, name+".css")
		data, err := os.ReadFile(themePath)
		switch {
		case err == nil:
			return &Theme{
				Name: name,
				Path: themePath,
				CSS:  ProcessImports(string(data), dir, nil),
			}, true, nil
		case !os.IsNotExist(err):
			return nil, false, fmt.Errorf("failed to read theme %q: %w", name, err)
		}
	}

	if css, ok := Embedded(name); ok {
		return &Theme{Name: name, CSS: ProcessImports(css, "", nil), Bundled: true}, true, nil
	}

	css, _ := Embedded(DefaultThemeName)
	return &Theme{Name: DefaultThemeName, CSS: ProcessImports(css, "", nil), Bundled: true}, false, nil
}

// ProcessImports inlines @import statements, resolving paths relative to
// baseDir and falling back to bundled partials and themes. The seen map
// breaks import cycles.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		sub := importRegex.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		importPath := sub[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}
		if seen[fullPath] {
			return "/* circular import skipped: " + importPath + " */"
		}
		seen[fullPath] = true

		data, err := os.ReadFile(fullPath)
		if err == nil {
			return "/* imported: " + importPath + " */\n" + ProcessImports(string(data), filepath.Dir(fullPath), seen)
		}

		base := filepath.Base(importPath)
		if strings.HasPrefix(base, "_") {
			if partial, ok := embeddedPartial(base); ok {
				return "/* imported (bundled): " + importPath + " */\n" + partial
			}
		}
		if bundled, ok := Embedded(strings.TrimSuffix(base, ".css")); ok {
			return "/* imported (bundled): " + importPath + " */\n" + ProcessImports(bundled, "", seen)
		}
		return "/* import failed: " + importPath + " */"
	})
}

// DisplayCSS renders the rules derived from the display config. They are
// appended after the theme so the config wins.
func DisplayCSS(cfg config.DisplayConfig) string {
	var b strings.Builder

	if cfg.FontSize > 0 {
		fmt.Fprintf(&b, "label.hud-text { font-size: %dpt; }\n", cfg.FontSize)
	}
	if cfg.Opacity > 0 {
		fmt.Fprintf(&b, ".hud-box { background-color: rgba(0, 0, 0, %.2f); }\n", cfg.Opacity)
	}
	if cfg.Width > 0 || cfg.Height > 0 {
		b.WriteString(".hud-box {")
		if cfg.Width > 0 {
			fmt.Fprintf(&b, " min-width: %dpx;", cfg.Width)
		}
		if cfg.Height > 0 {
			fmt.Fprintf(&b, " min-height: %dpx;", cfg.Height)
		}
		b.WriteString(" }\n")
	}

	return b.String()
}

// Compose joins theme CSS with the display rules.
func Compose(t *Theme, cfg config.DisplayConfig) string {
	css := ""
	if t != nil {
		css = t.CSS
	}
	extra := DisplayCSS(cfg)
	if extra == "" {
		return css
	}
	return css + "\n/* display config */\n" + extra
}

// List returns bundled theme names followed by user themes in dir that do
// not shadow a bundled name.
func List(dir string) []string {
	seen := make(map[string]bool)
	var names []string

	for _, name := range ListEmbedded() {
		seen[name] = true
		names = append(names, name)
	}

	if dir == "" {
		return names
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return names
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || filepath.Ext(name) != ".css" {
			continue
		}
		name = strings.TrimSuffix(name, ".css")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
