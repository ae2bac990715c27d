package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextStripsAllTags(t *testing.T) {
	require.Equal(t, "Board Game Night", Text("<b>Board Game</b> Night"))
	require.Equal(t, "Community Hall", Text(`<a href="https://evil.example">Community Hall</a>`))
	require.Equal(t, "plain", Text("plain"))
}

func TestTextRemovesScript(t *testing.T) {
	require.Equal(t, "Title", Text(`Title<script>alert("xss")</script>`))
}

func TestHTMLKeepsBasicFormatting(t *testing.T) {
	out := HTML("<p>Bring <strong>snacks</strong></p>")
	require.Contains(t, out, "<strong>snacks</strong>")
}

func TestHTMLRemovesScriptAndHandlers(t *testing.T) {
	out := HTML(`<p onclick="steal()">hi</p><script>alert(1)</script>`)
	require.NotContains(t, out, "script")
	require.NotContains(t, out, "onclick")
	require.Contains(t, out, "hi")
}
