package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToTelegramHTML_Emphasis(t *testing.T) {
	out := ToTelegramHTML("**bold** and *italic*")
	assert.Contains(t, out, "<b>bold</b>")
	assert.Contains(t, out, "<i>italic</i>")
	assert.NotContains(t, out, "<strong>")
	assert.NotContains(t, out, "<em>")
}

func TestToTelegramHTML_Lists(t *testing.T) {
	out := ToTelegramHTML("- first point\n- second point")
	assert.Contains(t, out, "• first point")
	assert.Contains(t, out, "• second point")
	assert.NotContains(t, out, "<ul>")
	assert.NotContains(t, out, "<li>")
}

func TestToTelegramHTML_StripsUnsupportedTags(t *testing.T) {
	out := ToTelegramHTML("## Market Status\n\nGold is up.")
	assert.NotContains(t, out, "<h2>")
	assert.NotContains(t, out, "<p>")
	assert.Contains(t, out, "Market Status")
	assert.Contains(t, out, "Gold is up.")
}

func TestToTelegramHTML_KeepsLinksAndCode(t *testing.T) {
	out := ToTelegramHTML("see [prices](https://example.com) or `GLD`")
	assert.Contains(t, out, `<a href="https://example.com">prices</a>`)
	assert.Contains(t, out, "<code>GLD</code>")
}

func TestToTelegramHTML_CollapsesBlankLines(t *testing.T) {
	out := ToTelegramHTML("one\n\n\n\ntwo")
	assert.NotContains(t, out, "\n\n\n")
}

func TestToTelegramHTML_Empty(t *testing.T) {
	assert.Equal(t, "", ToTelegramHTML(""))
}
