package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promonitor/storefront/internal/catalog"
	"github.com/promonitor/storefront/internal/content"
)

type stubSyncer struct{ result catalog.Result }

func (s stubSyncer) Sync(context.Context) catalog.Result { return s.result }

type stubContent struct {
	changed bool
	err     error
}

func (s stubContent) Get(context.Context) (content.Value, error) {
	return content.Object("brand", content.String("ProMonitor")), s.err
}

func (s stubContent) Migrate(context.Context) (bool, error) { return s.changed, s.err }

type stubProducts struct {
	ids     []uint
	applied bool
}

func (s *stubProducts) Reorder(_ context.Context, ids []uint) (bool, error) {
	s.ids = ids
	return s.applied, nil
}

type fixture struct {
	services *Services
	opened   int
	closed   int
}

func newFixture() *fixture {
	f := &fixture{}
	f.services = &Services{
		Catalog:  stubSyncer{result: catalog.Result{OK: true, Count: 4}},
		Content:  stubContent{changed: true},
		Products: &stubProducts{applied: true},
		Close: func() error {
			f.closed++
			return nil
		},
	}
	return f
}

func (f *fixture) open(context.Context) (*Services, error) {
	f.opened++
	return f.services, nil
}

func execute(t *testing.T, f *fixture, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(f.open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(nil)
	for _, path := range [][]string{{"sync"}, {"content", "show"}, {"content", "migrate"}, {"products", "reorder"}} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}
}

func TestSyncCommand(t *testing.T) {
	f := newFixture()
	out, err := execute(t, f, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "synced 4 products")
	assert.Equal(t, 1, f.opened)
	assert.Equal(t, 1, f.closed)
}

func TestSyncCommandFailureExitCode(t *testing.T) {
	f := newFixture()
	f.services.Catalog = stubSyncer{}
	out, err := execute(t, f, "sync", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
}

func TestContentShowPrintsDocument(t *testing.T) {
	out, err := execute(t, newFixture(), "content", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `"brand": "ProMonitor"`)
}

func TestContentMigrateReportsChange(t *testing.T) {
	f := newFixture()
	out, err := execute(t, f, "content", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "content rewritten")

	f.services.Content = stubContent{err: errors.New("locked")}
	_, err = execute(t, f, "content", "migrate")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestProductsReorder(t *testing.T) {
	f := newFixture()
	out, err := execute(t, f, "products", "reorder", "2,3", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "reordered 3 products")
	assert.Equal(t, []uint{2, 3, 1}, f.services.Products.(*stubProducts).ids)
}

func TestProductsReorderRejectsEmptyList(t *testing.T) {
	f := newFixture()
	_, err := execute(t, f, "products", "reorder", "x,y")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Zero(t, f.opened)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, newFixture(), "sync", "--format", "yaml")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOpenFailureIsCommandError(t *testing.T) {
	cmd := NewRootCommand(func(context.Context) (*Services, error) { return nil, errors.New("no database") })
	cmd.SetArgs([]string{"sync"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
