package recipepage

import (
	"fmt"
	"recipecart/internal/recipe"
	"recipecart/lib/htmlutil"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/titanous/json5"
)

const (
	report_client_parse_json_ld = "client.parse-json-ld"
)

// parseJsonLd returns the first schema.org Recipe found in the
// page's ld+json blocks.
func (c Client) parseJsonLd(doc *goquery.Document) recipe.Page {
	var page recipe.Page
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := strings.TrimSpace(script.Text())
		if text == "" {
			return true
		}

		var data any
		err := json5.Unmarshal([]byte(text), &data)
		if err != nil {
			c.tel.ReportWarning(
				report_client_parse_json_ld,
				fmt.Errorf("unmarshal: %w", err),
			)
			return true
		}

		node, ok := findRecipeNode(data)
		if !ok {
			return true
		}
		page = recipe.Page{
			Title:       htmlutil.NormalizeText(stringValue(node["name"])),
			Ingredients: ingredientList(node),
		}
		return len(page.Ingredients) == 0
	})
	return page
}

// findRecipeNode searches top level objects, arrays, @graph and mainEntity
// for an object with a @type of Recipe.
func findRecipeNode(data any) (map[string]any, bool) {
	switch value := data.(type) {
	case []any:
		for _, item := range value {
			node, ok := findRecipeNode(item)
			if ok {
				return node, true
			}
		}
	case map[string]any:
		if isRecipeType(value["@type"]) {
			return value, true
		}
		for _, key := range []string{"@graph", "mainEntity"} {
			nested, ok := value[key]
			if !ok {
				continue
			}
			node, ok := findRecipeNode(nested)
			if ok {
				return node, true
			}
		}
	}
	return nil, false
}

func isRecipeType(t any) bool {
	switch value := t.(type) {
	case string:
		return isRecipeTypeName(value)
	case []any:
		for _, item := range value {
			name, ok := item.(string)
			if ok && isRecipeTypeName(name) {
				return true
			}
		}
	}
	return false
}

func isRecipeTypeName(name string) bool {
	name = strings.TrimPrefix(name, "http://schema.org/")
	name = strings.TrimPrefix(name, "https://schema.org/")
	return name == "Recipe"
}

func ingredientList(node map[string]any) []string {
	raw, ok := node["recipeIngredient"]
	if !ok {
		raw = node["ingredients"]
	}

	var values []string
	switch value := raw.(type) {
	case string:
		values = []string{value}
	case []any:
		for _, item := range value {
			values = append(values, stringValue(item))
		}
	}
	return cleanIngredients(values)
}

// stringValue accepts either a plain string or an object carrying it
// under "text" or "name".
func stringValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case map[string]any:
		for _, key := range []string{"text", "name"} {
			s, ok := value[key].(string)
			if ok {
				return s
			}
		}
	case []any:
		if len(value) > 0 {
			return stringValue(value[0])
		}
	}
	return ""
}

func cleanIngredients(values []string) []string {
	var out []string
	for _, v := range values {
		v = htmlutil.NormalizeText(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
