package catalog

import (
	"io"
	"strings"
	"time"

	"github.com/promonitor/storefront/pkg/promonitor"
	"golang.org/x/net/html"
)

const (
	// SyncPlaceholderImage stands in for mirrored products without images.
	SyncPlaceholderImage = "/images/mission-patch.svg"
	// CollectionPlaceholderImage stands in for collection items without images.
	CollectionPlaceholderImage = "/images/monitor-placeholder.svg"
)

// Listing is the local projection of one feed product.
type Listing struct {
	ExternalID  int64
	Name        string
	Slug        string
	Description string
	PriceCents  int64
	ImagePath   string
	IsFeatured  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Project maps a feed product onto the local product shape.
func Project(item promonitor.Product, featured map[string]struct{}, baseURL string, now time.Time) Listing {
	description := StripHTML(item.BodyHTML)
	if description == "" {
		description = item.Title
	}
	image := item.FirstImage()
	if image == "" {
		image = SyncPlaceholderImage
	}
	_, isFeatured := featured[item.Handle]

	return Listing{
		ExternalID:  item.ID,
		Name:        item.Title,
		Slug:        item.Handle,
		Description: description,
		PriceCents:  PriceCents(item.FirstPrice()),
		ImagePath:   ToAbsoluteURL(baseURL, image),
		IsFeatured:  isFeatured,
		CreatedAt:   parseFeedTime(item.CreatedAt, now),
		UpdatedAt:   parseFeedTime(item.UpdatedAt, now),
	}
}

// StripHTML drops markup, decodes entities and collapses whitespace.
func StripHTML(value string) string {
	if value == "" {
		return ""
	}
	tokenizer := html.NewTokenizer(strings.NewReader(value))
	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if tokenizer.Err() != io.EOF {
				return strings.Join(strings.Fields(html.UnescapeString(value)), " ")
			}
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(tokenizer.Text())
		default:
			b.WriteByte(' ')
		}
	}
}

// ToAbsoluteURL resolves protocol-relative and root-relative references.
func ToAbsoluteURL(baseURL, raw string) string {
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "/"):
		return strings.TrimRight(baseURL, "/") + raw
	}
	return raw
}

func parseFeedTime(raw string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fallback
	}
	return parsed.UTC()
}

func featuredHandles(items []promonitor.Product) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.Handle != "" {
			out[item.Handle] = struct{}{}
		}
	}
	return out
}
