package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestRenderStatusPlain(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	assert.Equal(t, "ok", RenderStatus("success", "ok"))
	assert.Equal(t, "boom", RenderStatus("error", "boom"))
	assert.Equal(t, "as-is", RenderStatus("unknown", "as-is"))
}

func TestInitializeColorNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	InitializeColor()
	assert.Equal(t, termenv.Ascii, lipgloss.ColorProfile())
}

func TestRenderBoxContainsContent(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	assert.Contains(t, RenderBox("queued: 3"), "queued: 3")
}
