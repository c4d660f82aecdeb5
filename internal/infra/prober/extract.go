package prober

import (
	"bytes"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
)

// extractLastUpdated scans a feed document for its last-modified date.
// Checked in priority order: the channel-level build date (or Atom feed
// updated), the first item's publish date, the channel publish date, and
// finally a Dublin Core date. Unparseable dates are discarded, not fatal.
func extractLastUpdated(body []byte) *time.Time {
	fp := gofeed.NewParser()
	feed, err := fp.ParseString(string(body))
	if err != nil || feed == nil {
		return nil
	}

	if feed.UpdatedParsed != nil {
		return feed.UpdatedParsed
	}
	if len(feed.Items) > 0 && feed.Items[0].PublishedParsed != nil {
		return feed.Items[0].PublishedParsed
	}
	if feed.PublishedParsed != nil {
		return feed.PublishedParsed
	}
	if feed.DublinCoreExt != nil && len(feed.DublinCoreExt.Date) > 0 {
		if t, perr := dateparse.ParseAny(feed.DublinCoreExt.Date[0]); perr == nil {
			return &t
		}
	}
	return nil
}

// feedLinkTypes are the alternate-link MIME types that advertise a feed.
var feedLinkTypes = map[string]bool{
	"application/rss+xml":  true,
	"application/atom+xml": true,
}

// discoverFeedLink scans an HTML page for an advertised feed URL
// (<link rel="alternate" type="application/rss+xml" href=...>).
// Relative hrefs are resolved against the probed URL. Returns "" when
// the page advertises nothing usable.
func discoverFeedLink(body []byte, base *url.URL) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var href string
	doc.Find(`link[rel="alternate"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		linkType, _ := s.Attr("type")
		if !feedLinkTypes[linkType] {
			return true
		}
		if h, ok := s.Attr("href"); ok && h != "" {
			href = h
			return false
		}
		return true
	})
	if href == "" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}
