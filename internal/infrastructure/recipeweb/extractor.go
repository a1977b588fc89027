package recipeweb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/sanpixel/ratio.ai/internal/domain"
)

const (
	untitledRecipe = "Untitled Recipe"
	minLineLength  = 3
)

// Extract pulls the recipe title and ingredient sections out of an HTML page.
// JSON-LD Recipe data wins; otherwise elements with an "ingredient" class are scanned.
func Extract(page []byte, pageURL string) (*domain.RawRecipe, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoRecipeData, err)
	}

	var (
		scripts   []string
		heading   string
		pageTitle string
	)
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.DataAtom {
		case atom.Script:
			if strings.EqualFold(strings.TrimSpace(attr(n, "type")), "application/ld+json") {
				scripts = append(scripts, rawText(n))
			}
			return false
		case atom.H1:
			if heading == "" {
				heading = textOf(n)
			}
		case atom.Title:
			if pageTitle == "" {
				pageTitle = textOf(n)
			}
		}
		return true
	})

	recipe := &domain.RawRecipe{URL: pageURL}

	var ldName string
	for _, script := range scripts {
		node := findRecipeNode(decodeLD(script))
		if node == nil {
			continue
		}
		if name, ok := node["name"].(string); ok && ldName == "" {
			ldName = cleanText(name)
		}
		if sections := sectionsFromLD(node["recipeIngredient"]); len(sections) > 0 {
			recipe.Sections = sections
			break
		}
	}

	if len(recipe.Sections) == 0 {
		recipe.Sections = sectionsFromHTML(doc)
	}
	if len(recipe.Sections) == 0 {
		return nil, domain.ErrNoRecipeData
	}

	recipe.Title = firstNonEmpty(ldName, heading, pageTitle, untitledRecipe)
	return recipe, nil
}

// decodeLD tolerates invalid JSON-LD blocks by returning nil
func decodeLD(script string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(script)), &v); err != nil {
		return nil
	}
	return v
}

// findRecipeNode searches objects, arrays and @graph containers for a Recipe
func findRecipeNode(v interface{}) map[string]interface{} {
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			if found := findRecipeNode(item); found != nil {
				return found
			}
		}
	case map[string]interface{}:
		if isRecipeType(t["@type"]) {
			return t
		}
		if graph, ok := t["@graph"]; ok {
			return findRecipeNode(graph)
		}
	}
	return nil
}

func isRecipeType(v interface{}) bool {
	switch t := v.(type) {
	case string:
		return strings.EqualFold(t, "Recipe")
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.EqualFold(s, "Recipe") {
				return true
			}
		}
	}
	return false
}

func sectionsFromLD(v interface{}) []domain.IngredientSection {
	var entries []string
	switch t := v.(type) {
	case string:
		entries = append(entries, t)
	case []interface{}:
		for _, item := range t {
			switch e := item.(type) {
			case string:
				entries = append(entries, e)
			case map[string]interface{}:
				if text, ok := e["text"].(string); ok {
					entries = append(entries, text)
				}
			}
		}
	}

	var b sectionBuilder
	for _, entry := range entries {
		line := cleanText(entry)
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, ":") {
			b.open(line)
			continue
		}
		b.add(line)
	}
	return b.result()
}

func sectionsFromHTML(doc *html.Node) []domain.IngredientSection {
	var b sectionBuilder
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return false
		}
		if !strings.Contains(strings.ToLower(attr(n, "class")), "ingredient") {
			return true
		}
		collectIngredients(n, &b)
		return false
	})
	return b.result()
}

func collectIngredients(container *html.Node, b *sectionBuilder) {
	walk(container, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Button:
			return false
		case atom.H2, atom.H3, atom.H4, atom.H5, atom.Strong, atom.B:
			if text := textOf(n); text != "" {
				b.open(text)
			}
			return false
		case atom.Li, atom.P:
			text := textOf(n)
			if strings.HasSuffix(text, ":") {
				b.open(text)
			} else if utf8.RuneCountInString(text) >= minLineLength {
				b.add(text)
			}
			return false
		}
		return true
	})
}

// sectionBuilder groups lines under the most recent header
type sectionBuilder struct {
	sections []domain.IngredientSection
}

func (b *sectionBuilder) open(title string) {
	title = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(title), ":"))
	if n := len(b.sections); n > 0 && len(b.sections[n-1].Lines) == 0 {
		b.sections[n-1].Title = title
		return
	}
	b.sections = append(b.sections, domain.IngredientSection{Title: title})
}

func (b *sectionBuilder) add(line string) {
	if len(b.sections) == 0 {
		b.sections = append(b.sections, domain.IngredientSection{})
	}
	last := &b.sections[len(b.sections)-1]
	last.Lines = append(last.Lines, line)
}

// result drops headers that never received a line
func (b *sectionBuilder) result() []domain.IngredientSection {
	var out []domain.IngredientSection
	for _, s := range b.sections {
		if len(s.Lines) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// walk visits n and its descendants depth first; returning false skips children
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// rawText returns the unprocessed text content of a script-like element
func rawText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// textOf returns the visible text of n with whitespace collapsed
func textOf(n *html.Node) string {
	var parts []string
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Script || c.DataAtom == atom.Style) {
			return false
		}
		if c.Type == html.TextNode {
			parts = append(parts, c.Data)
		}
		return true
	})
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// cleanText unescapes entities left in JSON-LD strings and strips stray tags
func cleanText(s string) string {
	s = html.UnescapeString(s)
	if strings.ContainsRune(s, '<') {
		if nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}); err == nil {
			var parts []string
			for _, n := range nodes {
				parts = append(parts, textOf(n))
			}
			s = strings.Join(parts, " ")
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
