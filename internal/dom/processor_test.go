package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimplifiedDOM(t *testing.T) {
	page := `<!DOCTYPE html>
<html><head><title>Accounts</title><script>var x = 1;</script><style>.a{}</style></head>
<body>
  <!-- shell -->
  <div id="areaSwitcherContainer" class="pa-bc" style="color:red">Sales</div>
  <nav><ul role="group" aria-label="Customers">
    <li role="treeitem" data-text="Accounts" data-id="sitemap-entity-accounts">Accounts</li>
  </ul></nav>
  <section data-id="quickCreateRoot">
    <input data-id="name.fieldControl-text-box-text" value="Contoso" onclick="x()">
    <svg><path d="M0"/></svg>
  </section>
</body></html>`

	out, err := GetSimplifiedDOM(page)
	require.NoError(t, err)

	assert.Contains(t, out, `<title>Accounts </title>`)
	assert.Contains(t, out, `<div id="areaSwitcherContainer">Sales </div>`)
	assert.Contains(t, out, `<ul role="group" aria-label="Customers">`)
	assert.Contains(t, out, `<li role="treeitem" data-text="Accounts" data-id="sitemap-entity-accounts">Accounts </li>`)
	assert.Contains(t, out, `<input data-id="name.fieldControl-text-box-text" value="Contoso">`)
	assert.NotContains(t, out, "</input>")

	for _, dropped := range []string{"<script", "var x", "<style", "shell", "class=", "style=", "onclick", "<svg", "<nav"} {
		assert.NotContains(t, out, dropped)
	}
}

func TestGetSimplifiedDOM_Empty(t *testing.T) {
	out, err := GetSimplifiedDOM("")
	require.NoError(t, err)
	assert.Equal(t, "<html><head></head><body></body></html>", strings.TrimSpace(out))
}

func TestJSHelpers(t *testing.T) {
	assert.Equal(t, `"//div[@data-id='x']"`, jsString("//div[@data-id='x']"))
	assert.Equal(t, `"say \"hi\""`, jsString(`say "hi"`))
	assert.Contains(t, jsNode("//select"), `document.evaluate("//select", document`)
}

func TestActionsBuild(t *testing.T) {
	var s string
	var ok bool
	assert.NotNil(t, ClickAction("//button"))
	assert.NotNil(t, TypeAction("//input", "x"))
	assert.NotNil(t, AttributeAction("//button", "aria-expanded", &s, &ok))
	assert.NotNil(t, SelectOptionByTextAction("//select", "Hot"))
	assert.NotNil(t, SelectedOptionTextAction("//select", &s))
	assert.NotNil(t, ReadyStateAction())
	assert.NotNil(t, AppIdleAction())
}
