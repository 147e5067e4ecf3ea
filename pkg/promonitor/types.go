package promonitor

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Listing is the envelope of every products.json endpoint.
type Listing struct {
	Products []Product `json:"products"`
}

// Product is the subset of a storefront product the mirror reads.
type Product struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Handle    string    `json:"handle"`
	BodyHTML  string    `json:"body_html"`
	Images    []Image   `json:"images"`
	Image     *Image    `json:"image"`
	Variants  []Variant `json:"variants"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

type Image struct {
	Src string `json:"src"`
}

type Variant struct {
	Price Price `json:"price"`
}

// Price keeps the raw text of a variant price, which the feed sends as a string
// but which older payloads carry as a bare number.
type Price struct {
	Raw   string
	Valid bool
}

func (p *Price) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = Price{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*p = Price{Raw: s, Valid: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*p = Price{Raw: n.String(), Valid: true}
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Raw)
}

// FirstImage returns images[0].src, falling back to image.src.
func (p Product) FirstImage() string {
	if len(p.Images) > 0 && strings.TrimSpace(p.Images[0].Src) != "" {
		return p.Images[0].Src
	}
	if p.Image != nil {
		return p.Image.Src
	}
	return ""
}

// FirstPrice returns the first variant's price.
func (p Product) FirstPrice() Price {
	if len(p.Variants) == 0 {
		return Price{}
	}
	return p.Variants[0].Price
}
