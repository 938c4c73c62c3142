package dom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"golang.org/x/net/html"
)

const pollInterval = 250 * time.Millisecond

func GetFullHTMLAction(res *string) chromedp.Action {
	return chromedp.Evaluate(`document.documentElement.outerHTML`, res)
}

// GetSimplifiedDOM strips scripts, styles and presentational markup, keeping
// the tags and attributes that identify controls in the app shell.
func GetSimplifiedDOM(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = simplifyNode(&buf, doc)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

var allowedTags = map[string]bool{
	"html": true, "head": true, "body": true, "title": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "div": true, "span": true, "section": true, "ul": true, "li": true,
	"a": true, "button": true, "input": true, "textarea": true, "select": true, "option": true, "label": true,
	"img": true,
}

// Void elements get no closing tag.
var voidTags = map[string]bool{"input": true, "img": true}

var allowedAttrs = map[string]bool{
	"id": true, "title": true, "role": true, "type": true, "value": true, "name": true,
	"data-id": true, "data-text": true, "data-lp-id": true,
	"aria-label": true, "aria-expanded": true, "aria-checked": true, "aria-hidden": true,
	"selected": true, "checked": true, "disabled": true, "readonly": true,
}

func simplifyNode(w io.Writer, n *html.Node) error {
	switch n.Type {
	case html.ErrorNode, html.CommentNode, html.DoctypeNode:
		return nil
	case html.DocumentNode:
		// Process children
	case html.TextNode:
		trimmed := strings.TrimSpace(n.Data)
		if trimmed != "" {
			if _, err := io.WriteString(w, html.EscapeString(trimmed)+" "); err != nil {
				return err
			}
		}
		return nil
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" || n.Data == "noscript" || n.Data == "meta" || n.Data == "link" || n.Data == "svg" {
			return nil
		}

		if !allowedTags[n.Data] {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if err := simplifyNode(w, c); err != nil {
					return err
				}
			}
			return nil
		}

		if _, err := io.WriteString(w, "<"+n.Data); err != nil {
			return err
		}
		for _, a := range n.Attr {
			if !allowedAttrs[a.Key] {
				continue
			}
			val := strings.TrimSpace(a.Val)
			if _, err := io.WriteString(w, " "+a.Key+"=\""+html.EscapeString(val)+"\""); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := simplifyNode(w, c); err != nil {
			return err
		}
	}

	if n.Type == html.ElementNode && !voidTags[n.Data] {
		if _, err := io.WriteString(w, "</"+n.Data+">"); err != nil {
			return err
		}
	}

	return nil
}

// All element actions below take XPath selectors.

func ClickAction(xpath string) chromedp.Action {
	return chromedp.Tasks{
		chromedp.WaitVisible(xpath, chromedp.BySearch),
		chromedp.Click(xpath, chromedp.BySearch),
	}
}

func TypeAction(xpath string, text string) chromedp.Action {
	return chromedp.SendKeys(xpath, text, chromedp.BySearch)
}

func ClearAction(xpath string) chromedp.Action {
	return chromedp.Clear(xpath, chromedp.BySearch)
}

func WaitVisibleAction(xpath string) chromedp.Action {
	return chromedp.WaitVisible(xpath, chromedp.BySearch)
}

func WaitHiddenAction(xpath string) chromedp.Action {
	return chromedp.WaitNotPresent(xpath, chromedp.BySearch)
}

func ValueAction(xpath string, res *string) chromedp.Action {
	return chromedp.Value(xpath, res, chromedp.BySearch)
}

func TextAction(xpath string, res *string) chromedp.Action {
	return chromedp.Text(xpath, res, chromedp.BySearch)
}

func AttributeAction(xpath, name string, res *string, ok *bool) chromedp.Action {
	return chromedp.AttributeValue(xpath, name, res, ok, chromedp.BySearch)
}

func ScrollIntoViewAction(xpath string) chromedp.Action {
	return chromedp.ScrollIntoView(xpath, chromedp.BySearch)
}

// NodesAction waits for at least one match and returns every matching node.
func NodesAction(xpath string, nodes *[]*cdp.Node) chromedp.Action {
	return chromedp.Nodes(xpath, nodes, chromedp.BySearch)
}

// IsElementPresentAction checks if an element exists without waiting for it.
func IsElementPresentAction(xpath string, isPresent *bool) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var nodes []*cdp.Node
		err := chromedp.Nodes(xpath, &nodes, chromedp.BySearch, chromedp.AtLeast(0)).Do(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			*isPresent = false
			return nil
		}
		*isPresent = len(nodes) > 0
		return nil
	})
}

// ReadyStateAction waits until the document has finished loading.
func ReadyStateAction() chromedp.Action {
	var done bool
	return chromedp.Poll(`document.readyState === 'complete'`, &done, chromedp.WithPollingInterval(pollInterval))
}

// AppIdleAction waits until the app shell reports no outstanding work.
// Pages without the tracker count as idle.
func AppIdleAction() chromedp.Action {
	var idle bool
	return chromedp.Poll(
		`typeof window.UCWorkBlockTracker === 'undefined' || window.UCWorkBlockTracker.isAppIdle()`,
		&idle,
		chromedp.WithPollingInterval(pollInterval),
	)
}

// SelectOptionByTextAction picks the option of a <select> whose label matches
// text and fires the change event the form listens for.
func SelectOptionByTextAction(xpath, text string) chromedp.Action {
	script := fmt.Sprintf(`(function() {
	const sel = %s;
	if (!sel) { return 'missing'; }
	const opt = Array.from(sel.options).find(o => o.text.trim() === %s);
	if (!opt) { return 'no-option'; }
	sel.value = opt.value;
	sel.dispatchEvent(new Event('change', { bubbles: true }));
	return 'ok';
})()`, jsNode(xpath), jsString(text))

	return chromedp.ActionFunc(func(ctx context.Context) error {
		var result string
		if err := chromedp.Evaluate(script, &result).Do(ctx); err != nil {
			return err
		}
		switch result {
		case "missing":
			return fmt.Errorf("no select element matches %s", xpath)
		case "no-option":
			return fmt.Errorf("option '%s' does not exist in %s", text, xpath)
		}
		return nil
	})
}

// SelectedOptionTextAction reads the label of the selected option.
func SelectedOptionTextAction(xpath string, res *string) chromedp.Action {
	script := fmt.Sprintf(`(function() {
	const sel = %s;
	if (!sel || sel.selectedIndex < 0) { return ''; }
	return sel.options[sel.selectedIndex].text.trim();
})()`, jsNode(xpath))
	return chromedp.Evaluate(script, res)
}

func jsNode(xpath string) string {
	return fmt.Sprintf(`document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`, jsString(xpath))
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
