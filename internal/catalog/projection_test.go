package catalog

import (
	"testing"
	"time"

	"github.com/promonitor/storefront/pkg/promonitor"
	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Hei & velkommen til oss", StripHTML("<p>Hei &amp; velkommen</p>\n<p>til&nbsp;oss</p>"))
	assert.Equal(t, "A'B", StripHTML("A&#39;B"))
	assert.Equal(t, "é", StripHTML("&#xe9;"))
	assert.Equal(t, "", StripHTML("<br/>  <div></div>"))
	assert.Equal(t, "", StripHTML(""))
}

func TestToAbsoluteURL(t *testing.T) {
	base := "https://promonitor.no/"
	assert.Equal(t, "https://cdn.test/a.jpg", ToAbsoluteURL(base, "//cdn.test/a.jpg"))
	assert.Equal(t, "https://promonitor.no/images/x.svg", ToAbsoluteURL(base, "/images/x.svg"))
	assert.Equal(t, "http://other/a.png", ToAbsoluteURL(base, "http://other/a.png"))
	assert.Equal(t, "", ToAbsoluteURL(base, ""))
}

func TestProjectFallbacks(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	item := promonitor.Product{ID: 9, Title: "Dokk", Handle: "dokk", BodyHTML: "<p> </p>", UpdatedAt: "2025-05-02T10:00:00+02:00"}
	listing := Project(item, map[string]struct{}{"dokk": {}}, "https://promonitor.no", now)

	assert.Equal(t, "Dokk", listing.Description)
	assert.Equal(t, "https://promonitor.no"+SyncPlaceholderImage, listing.ImagePath)
	assert.Zero(t, listing.PriceCents)
	assert.True(t, listing.IsFeatured)
	assert.Equal(t, now, listing.CreatedAt)
	assert.Equal(t, time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC), listing.UpdatedAt)
}

func TestProjectPrefersImagesList(t *testing.T) {
	item := promonitor.Product{
		ID:     1,
		Handle: "a",
		Images: []promonitor.Image{{Src: "//cdn.test/1.jpg"}},
		Image:  &promonitor.Image{Src: "//cdn.test/2.jpg"},
	}
	assert.Equal(t, "https://cdn.test/1.jpg", Project(item, nil, "https://promonitor.no", time.Now()).ImagePath)

	item.Images = nil
	assert.Equal(t, "https://cdn.test/2.jpg", Project(item, nil, "https://promonitor.no", time.Now()).ImagePath)
}
