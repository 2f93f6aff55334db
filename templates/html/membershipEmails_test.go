package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinDecisionEmailAccepted(t *testing.T) {
	subject, html, plain := JoinDecisionEmail("Dave", "Acme <Labs>", true, "https://sparkup.app/startups/1")

	assert.Equal(t, "Welcome to Acme <Labs>", subject)
	assert.Contains(t, html, "Acme &lt;Labs&gt;")
	assert.NotContains(t, html, "<Labs>")
	assert.Contains(t, html, `href="https://sparkup.app/startups/1"`)
	assert.Contains(t, plain, "accepted")
}

func TestJoinDecisionEmailRejectedHasNoLink(t *testing.T) {
	_, html, plain := JoinDecisionEmail("Bob", "Acme", false, "https://sparkup.app/startups/1")

	assert.NotContains(t, html, "href=")
	assert.Contains(t, plain, "not accepted")
}

func TestRenderGenericEmailConvertsNewlines(t *testing.T) {
	html := RenderGenericEmail("Hello", "line one\nline two", "", "")
	assert.Contains(t, html, "line one<br>line two")
}
