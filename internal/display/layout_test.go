package display

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/hud/internal/config"
	"github.com/jmylchreest/hud/internal/model"
)

func TestAnchorsFor(t *testing.T) {
	tests := []struct {
		position config.Position
		want     edges
	}{
		{config.PositionTopLeft, edges{top: true, left: true}},
		{config.PositionTopRight, edges{top: true, right: true}},
		{config.PositionTopCenter, edges{top: true}},
		{config.PositionBottomLeft, edges{bottom: true, left: true}},
		{config.PositionBottomRight, edges{bottom: true, right: true}},
		{config.PositionBottomCenter, edges{bottom: true}},
		{config.PositionCenter, edges{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.position), func(t *testing.T) {
			assert.Equal(t, tt.want, anchorsFor(tt.position))
		})
	}
}

func TestAnchorsFor_CoversValidPositions(t *testing.T) {
	seen := make(map[edges]config.Position)
	for _, pos := range config.ValidPositions() {
		e := anchorsFor(pos)
		if other, dup := seen[e]; dup {
			t.Errorf("%s and %s anchor identically", pos, other)
		}
		seen[e] = pos
	}
}

func TestMarkup(t *testing.T) {
	assert.Equal(t,
		`<span foreground="#ff0000">Build &lt;ok&gt; &amp; done</span>`,
		markup("Build <ok> & done", model.Red),
	)
	assert.Equal(t,
		"<span foreground=\"#0000ff\">A\nB</span>",
		markup("A\nB", model.Blue),
	)
}

func TestSchemeClass_Explicit(t *testing.T) {
	assert.Equal(t, "light", schemeClass(config.ColorSchemeLight))
	assert.Equal(t, "dark", schemeClass(config.ColorSchemeDark))
}

func TestResolveMonitor(t *testing.T) {
	tests := []struct {
		name       string
		monitorNum int
		available  uint
		want       int
	}{
		{"compositor default", 0, 2, noMonitor},
		{"no monitors", 1, 0, noMonitor},
		{"first", 1, 2, 0},
		{"second", 2, 2, 1},
		{"unplugged falls back to first", 2, 1, 0},
		{"replugged returns to configured", 2, 3, 1},
		{"negative treated as default", -1, 2, noMonitor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveMonitor(tt.monitorNum, tt.available))
		})
	}
}
