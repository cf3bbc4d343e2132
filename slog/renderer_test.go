package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/kbcrawl"
	"github.com/fwojciec/kbcrawl/mock"
	kbslog "github.com/fwojciec/kbcrawl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingPage_Render(t *testing.T) {
	t.Parallel()

	t.Run("logs render with bytes, links and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Page{
			RenderFn: func(ctx context.Context, url string, opts kbcrawl.RenderOptions) (*kbcrawl.Snapshot, error) {
				return &kbcrawl.Snapshot{URL: url, HTML: "<html>content</html>", Links: []string{"a", "b"}}, nil
			},
		}

		page := kbslog.NewLoggingPage(inner, logger)
		snap, err := page.Render(context.Background(), "https://example.com/blog", kbcrawl.RenderOptions{})

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", snap.HTML)
		output := buf.String()
		assert.Contains(t, output, "render")
		assert.Contains(t, output, "url=https://example.com/blog")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "links=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Page{
			RenderFn: func(ctx context.Context, url string, opts kbcrawl.RenderOptions) (*kbcrawl.Snapshot, error) {
				return nil, errors.New("network error")
			},
		}

		page := kbslog.NewLoggingPage(inner, logger)
		_, err := page.Render(context.Background(), "https://example.com/blog", kbcrawl.RenderOptions{})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "bytes=0")
		assert.Contains(t, output, "err=\"network error\"")
	})
}

func TestLoggingRenderer_NewPage(t *testing.T) {
	t.Parallel()

	t.Run("wraps opened pages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Renderer{
			NewPageFn: func(ctx context.Context) (kbcrawl.Page, error) {
				return &mock.Page{
					RenderFn: func(ctx context.Context, url string, opts kbcrawl.RenderOptions) (*kbcrawl.Snapshot, error) {
						return &kbcrawl.Snapshot{URL: url}, nil
					},
				}, nil
			},
		}

		page, err := kbslog.NewLoggingRenderer(inner, logger).NewPage(context.Background())
		require.NoError(t, err)

		_, err = page.Render(context.Background(), "https://example.com/x", kbcrawl.RenderOptions{})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "url=https://example.com/x")
	})

	t.Run("logs open failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Renderer{
			NewPageFn: func(ctx context.Context) (kbcrawl.Page, error) {
				return nil, kbcrawl.Errorf(kbcrawl.ESESSION, "browser gone")
			},
		}

		_, err := kbslog.NewLoggingRenderer(inner, logger).NewPage(context.Background())
		assert.Equal(t, kbcrawl.ESESSION, kbcrawl.ErrorCode(err))
		assert.Contains(t, buf.String(), "open page")
	})
}

func TestLoggingRenderer_Close(t *testing.T) {
	t.Parallel()

	closeCalled := false
	inner := &mock.Renderer{
		CloseFn: func() error {
			closeCalled = true
			return nil
		},
	}

	err := kbslog.NewLoggingRenderer(inner, slog.New(slog.DiscardHandler)).Close()
	require.NoError(t, err)
	assert.True(t, closeCalled)
}
