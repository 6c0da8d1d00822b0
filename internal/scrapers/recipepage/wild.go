package recipepage

import (
	"recipecart/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var wildIngredientSelectors = []string{
	`[itemprop="recipeIngredient"]`,
	`[itemprop="ingredients"]`,
	`li[class*="ingredient"]`,
	`[class*="ingredient"] li`,
}

// wildIngredients tries increasingly loose selectors, the first one that
// matches anything wins.
func wildIngredients(doc *goquery.Document) []string {
	for _, selector := range wildIngredientSelectors {
		var values []string
		for _, node := range doc.Find(selector).Nodes {
			values = append(values, nodeText(node))
		}
		ingredients := cleanIngredients(values)
		if len(ingredients) > 0 {
			return ingredients
		}
	}
	return nil
}

// nodeText prefers a microdata content attribute, ex.
// <meta itemprop="recipeIngredient" content="1 egg">, over the element's text.
func nodeText(node *html.Node) string {
	for _, attr := range node.Attr {
		if attr.Key == "content" && attr.Val != "" {
			return attr.Val
		}
	}
	return htmlutil.GetText(node)
}

func fallbackTitle(doc *goquery.Document) string {
	candidates := []string{
		doc.Find(`[itemtype*="schema.org/Recipe"] [itemprop="name"]`).First().Text(),
		doc.Find(`meta[property="og:title"]`).AttrOr("content", ""),
		doc.Find("title").First().Text(),
		doc.Find("h1").First().Text(),
	}
	for _, title := range candidates {
		title = htmlutil.NormalizeText(title)
		if title != "" {
			return title
		}
	}
	return ""
}
