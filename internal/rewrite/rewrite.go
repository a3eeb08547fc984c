// Package rewrite turns a fetched HTML document into one whose asset
// references point at the local cache, so it can be served and browsed
// entirely offline.
package rewrite

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/webmirror/internal/cachepath"
)

// rewriteTargets lists the tag/attribute pairs whose values get rewritten.
// Kept in sync with the extractor's scan set.
var rewriteTargets = []struct {
	tag  string
	attr string
}{
	{tag: "link", attr: "href"},
	{tag: "script", attr: "src"},
	{tag: "img", attr: "src"},
}

// Document rewrites asset references in htmlText to absolute-from-root
// cache paths and ensures a <base href="/"> element exists so unrewritten
// relative links resolve against the local server instead of the origin.
// It is a pure text transformation: nothing is downloaded or written.
func Document(htmlText, baseURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}

	for _, target := range rewriteTargets {
		doc.Find(target.tag).Each(func(_ int, el *goquery.Selection) {
			ref, exists := el.Attr(target.attr)
			if !exists || ref == "" {
				return
			}

			localPath, ok := localURLPath(base, ref)
			if !ok {
				return
			}
			el.SetAttr(target.attr, localPath)
		})
	}

	ensureBase(doc)

	rewritten, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}

	return rewritten, nil
}

// localURLPath resolves ref against base and maps it to the path the local
// server serves it at. References that cannot be resolved or mapped are
// left alone.
func localURLPath(base *url.URL, ref string) (string, bool) {
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", false
	}

	urlPath, err := cachepath.URLPath(base.ResolveReference(refURL).String())
	if err != nil {
		return "", false
	}

	return urlPath, true
}

// ensureBase inserts <base href="/"> as the first child of <head> when the
// document has no base element. goquery's parser always materializes a
// head, so there is no separate document-root case.
func ensureBase(doc *goquery.Document) {
	if doc.Find("base").Length() > 0 {
		return
	}

	doc.Find("head").First().PrependHtml(`<base href="/"/>`)
}
