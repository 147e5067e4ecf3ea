package promonitor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/promonitor/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestClientProductsRequest(t *testing.T) {
	var captured string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		captured = req.URL.String()
		return jsonResponse(http.StatusOK, `{"products":[{"id":7,"title":"Skjerm","handle":"skjerm","body_html":"<p>Hei</p>","images":[{"src":"//cdn.test/a.jpg"}],"variants":[{"price":"4490.00"}]}]}`), nil
	})

	client, err := NewClient("http://feed.test/", WithHTTPClient(&http.Client{Transport: rt}))
	require.NoError(t, err)

	products, err := client.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://feed.test/products.json?limit=250", captured)
	require.Len(t, products, 1)
	assert.EqualValues(t, 7, products[0].ID)
	assert.Equal(t, "//cdn.test/a.jpg", products[0].FirstImage())
	assert.Equal(t, Price{Raw: "4490.00", Valid: true}, products[0].FirstPrice())
}

func TestClientFeaturedAndCollectionPaths(t *testing.T) {
	var urls []string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		urls = append(urls, req.URL.String())
		return jsonResponse(http.StatusOK, `{}`), nil
	})
	client, err := NewClient("http://feed.test", WithHTTPClient(&http.Client{Transport: rt}))
	require.NoError(t, err)

	featured, err := client.Featured(context.Background())
	require.NoError(t, err)
	assert.Empty(t, featured)
	assert.NotNil(t, featured)

	_, err = client.CollectionProducts(context.Background(), "dual-monitor")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"http://feed.test/collections/frontpage/products.json?limit=50",
		"http://feed.test/collections/dual-monitor/products.json?limit=250",
	}, urls)
}

func TestClientNon2xxIsDependencyError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `upstream down`), nil
	})
	client, err := NewClient("http://feed.test", WithHTTPClient(&http.Client{Transport: rt}))
	require.NoError(t, err)

	_, err = client.Products(context.Background())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), "status 502")
}

func TestClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ")
	require.Error(t, err)
}

func TestClientCollectionRequiresHandle(t *testing.T) {
	client, err := NewClient("http://feed.test")
	require.NoError(t, err)
	_, err = client.CollectionProducts(context.Background(), " ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestPriceAcceptsStringNumberAndNull(t *testing.T) {
	var p struct {
		A Price `json:"a"`
		B Price `json:"b"`
		C Price `json:"c"`
	}
	require.NoError(t, jsonUnmarshal(`{"a":"12,50","b":99.5,"c":null}`, &p))
	assert.Equal(t, Price{Raw: "12,50", Valid: true}, p.A)
	assert.Equal(t, Price{Raw: "99.5", Valid: true}, p.B)
	assert.False(t, p.C.Valid)
}

func jsonUnmarshal(raw string, dest any) error {
	return json.Unmarshal([]byte(raw), dest)
}
