package webfetch

import (
	"strings"

	"golang.org/x/net/html"
)

// Bundle name fragments that identify client-side rendered apps.
var frameworkHints = []string{
	"react", "vue", "angular", "svelte", "next", "nuxt",
	"webpack", "bundle.js", "chunk", "app.js", "main.js", "runtime",
}

var mountIDs = map[string]bool{"root": true, "app": true, "main": true}

// DetectSPA reports whether a page is a client-rendered shell with no
// server-delivered content: visible text under 200 chars, an empty
// mount container (#root/#app/#main) and a framework bundle script ref.
func DetectSPA(rawHTML, visibleText string) bool {
	if len(visibleText) >= 200 {
		return false
	}

	node, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return false
	}

	var emptyMount, frameworkScript bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "div":
				if mountIDs[attr(n, "id")] && strings.TrimSpace(nodeText(n)) == "" {
					emptyMount = true
				}
			case "script":
				src := strings.ToLower(attr(n, "src"))
				for _, hint := range frameworkHints {
					if src != "" && strings.Contains(src, hint) {
						frameworkScript = true
						break
					}
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)

	return emptyMount && frameworkScript
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}
