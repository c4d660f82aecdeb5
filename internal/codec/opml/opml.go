// Package opml parses OPML subscription lists into the flat feed collection
// and serializes collections back into nested OPML documents.
//
// The outline tree is effectively two levels deep for this domain: top-level
// outlines are categories, their children are feeds. Decode additionally
// flattens one extra nesting level, attributing those leaves to the top-level
// category; deeper category structure is collapsed, not preserved.
package opml

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"

	"opml-gardener/internal/domain/entity"
)

// Uncategorized is the pseudo-category assigned to top-level outlines that
// are themselves feeds.
const Uncategorized = "Uncategorized"

// exportTitle is written into the head block of every encoded document.
const exportTitle = "OPML Gardener Export"

// rfc1123GMT matches the wire form of HTTP dates ("GMT" suffix, not "UTC").
const rfc1123GMT = "Mon, 02 Jan 2006 15:04:05 GMT"

type document struct {
	XMLName xml.Name `xml:"opml"`
	Body    *body    `xml:"body"`
}

type body struct {
	Outlines []outline `xml:"outline"`
}

type outline struct {
	Text     string     `xml:"text,attr"`
	Title    string     `xml:"title,attr"`
	Type     string     `xml:"type,attr"`
	XMLURL   string     `xml:"xmlUrl,attr"`
	HTMLURL  string     `xml:"htmlUrl,attr"`
	Extra    []xml.Attr `xml:",any,attr"`
	Children []outline  `xml:"outline"`
}

// Decode parses OPML content into a flat feed collection.
// A missing opml root or body element is fatal and yields no partial result;
// individual outline nodes without a feed URL are silently skipped.
func Decode(content string) ([]*entity.Feed, error) {
	var doc document
	if err := xml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)
	}
	if doc.Body == nil {
		return nil, fmt.Errorf("%w: missing body element", entity.ErrInvalidFormat)
	}

	feeds := []*entity.Feed{}
	for _, top := range doc.Body.Outlines {
		if len(top.Children) == 0 {
			// A top-level outline with a feed URL is a standalone feed.
			if top.XMLURL != "" {
				feeds = append(feeds, newFeed(top, Uncategorized))
			}
			continue
		}

		category := firstNonEmpty(top.Text, top.Title, Uncategorized)
		for _, child := range top.Children {
			if child.XMLURL != "" {
				feeds = append(feeds, newFeed(child, category))
				continue
			}
			// One extra nesting level, still attributed to the
			// top-level category. Anything deeper is dropped.
			for _, deep := range child.Children {
				if deep.XMLURL != "" {
					feeds = append(feeds, newFeed(deep, category))
				}
			}
		}
	}
	return feeds, nil
}

func newFeed(o outline, category string) *entity.Feed {
	f := &entity.Feed{
		ID:       entity.NewID(),
		Title:    firstNonEmpty(o.Title, o.Text, "Untitled"),
		FeedURL:  o.XMLURL,
		SiteURL:  o.HTMLURL,
		Category: category,
		Validity: entity.ValidityUnknown,
		Selected: false,
	}
	if len(o.Extra) > 0 {
		f.Preserved = make(map[string]string, len(o.Extra))
		for _, a := range o.Extra {
			f.Preserved[a.Name.Local] = a.Value
		}
	}
	return f
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Encode serializes the collection as an OPML 2.0 document with the current
// time as the creation stamp.
func Encode(feeds []*entity.Feed) string {
	return EncodeAt(feeds, time.Now())
}

// EncodeAt serializes the collection as an OPML 2.0 document.
//
// Records are grouped by category exactly as stored, categories emitted in
// lexicographic order and records within a category in encounter order, so
// output is deterministic for a fixed input. Attribute values are escaped
// with the five XML named entities.
func EncodeAt(feeds []*entity.Feed, now time.Time) string {
	byCategory := make(map[string][]*entity.Feed)
	names := make([]string, 0)
	for _, f := range feeds {
		category := f.Category
		if category == "" {
			category = Uncategorized
		}
		if _, ok := byCategory[category]; !ok {
			names = append(names, category)
		}
		byCategory[category] = append(byCategory[category], f)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<opml version="2.0">` + "\n")
	b.WriteString("  <head>\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", EscapeText(exportTitle))
	fmt.Fprintf(&b, "    <dateCreated>%s</dateCreated>\n", now.UTC().Format(rfc1123GMT))
	b.WriteString("  </head>\n")
	b.WriteString("  <body>\n")

	for _, name := range names {
		fmt.Fprintf(&b, `    <outline text="%s">`+"\n", EscapeText(name))
		for _, f := range byCategory[name] {
			fmt.Fprintf(&b,
				`      <outline text="%s" title="%s" type="rss" xmlUrl="%s" htmlUrl="%s"/>`+"\n",
				EscapeText(f.Title), EscapeText(f.Title), EscapeText(f.FeedURL), EscapeText(f.SiteURL))
		}
		b.WriteString("    </outline>\n")
	}

	b.WriteString("  </body>\n")
	b.WriteString("</opml>\n")
	return b.String()
}
