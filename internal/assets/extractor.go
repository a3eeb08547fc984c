// Package assets discovers the asset URLs a page depends on by scanning
// HTML documents and CSS text.
package assets

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// assetSelectors lists the tag/attribute pairs that reference assets.
var assetSelectors = []struct {
	tag  string
	attr string
}{
	{tag: "link", attr: "href"},
	{tag: "script", attr: "src"},
	{tag: "img", attr: "src"},
}

var (
	// cssURLRe matches url(...) references, quoted or not.
	cssURLRe = regexp.MustCompile(`url\(([^)]+)\)`)
	// cssImportRe matches @import "x" and @import url("x") forms.
	cssImportRe = regexp.MustCompile(`@import\s+(?:url\()?['"]([^'"]+)['"]\)?`)
)

// dataURIPrefix identifies inline data URIs, which never need downloading.
const dataURIPrefix = "data:"

// ExtractFromHTML parses an HTML document and returns the absolute URLs of
// every asset it references: link[href], script[src], img[src], plus
// anything found inside inline <style> blocks. Relative references are
// resolved against baseURL. The result is deduplicated and sorted.
func ExtractFromHTML(baseURL, htmlText string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	found := make(map[string]struct{})

	for _, sel := range assetSelectors {
		doc.Find(sel.tag).Each(func(_ int, el *goquery.Selection) {
			ref, exists := el.Attr(sel.attr)
			if !exists || ref == "" {
				return
			}
			addResolved(found, base, ref)
		})
	}

	doc.Find("style").Each(func(_ int, el *goquery.Selection) {
		for _, u := range ExtractFromCSS(baseURL, el.Text()) {
			found[u] = struct{}{}
		}
	})

	return sorted(found)
}

// ExtractFromCSS scans CSS text for url(...) and @import references and
// returns them resolved against baseURL, deduplicated and sorted. Data URIs
// are excluded. Malformed fragments yield no URLs rather than an error.
func ExtractFromCSS(baseURL, cssText string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	found := make(map[string]struct{})

	for _, match := range cssURLRe.FindAllStringSubmatch(cssText, -1) {
		raw := strings.Trim(strings.TrimSpace(match[1]), `"'`)
		addResolved(found, base, raw)
	}

	for _, match := range cssImportRe.FindAllStringSubmatch(cssText, -1) {
		addResolved(found, base, match[1])
	}

	return sorted(found)
}

// addResolved resolves ref against base and records it, skipping data URIs
// and references that fail to parse.
func addResolved(found map[string]struct{}, base *url.URL, ref string) {
	if ref == "" || strings.HasPrefix(ref, dataURIPrefix) {
		return
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return
	}

	found[base.ResolveReference(refURL).String()] = struct{}{}
}

// sorted returns the set's members in lexicographic order so extraction
// output is reproducible.
func sorted(found map[string]struct{}) []string {
	urls := make([]string, 0, len(found))
	for u := range found {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}
