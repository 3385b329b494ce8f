package extract_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/arena-tracklist-ocr/pkg/extract"
	"github.com/shouni/arena-tracklist-ocr/pkg/httpclient"
	"github.com/shouni/arena-tracklist-ocr/pkg/ocr"
	"github.com/shouni/arena-tracklist-ocr/pkg/types"
)

// ======================================================================
// モック (Mock) の定義
// ======================================================================

// MockDownloader はテスト用の extract.Downloader インターフェースの実装です。
type MockDownloader struct {
	content []byte
	dlError error
	calls   int
	lastURL string
}

func (m *MockDownloader) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	m.calls++
	m.lastURL = url
	if m.dlError != nil {
		return 0, m.dlError
	}
	n, err := w.Write(m.content)
	return int64(n), err
}

// MockEngine は、呼び出し時に一時ファイルの状態を記録するOCRエンジンです。
type MockEngine struct {
	text        string
	err         error
	calls       int
	seenPath    string
	seenContent []byte
	filesInDir  int
}

func (m *MockEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	m.calls++
	m.seenPath = imagePath
	m.seenContent, _ = os.ReadFile(imagePath)
	entries, _ := os.ReadDir(filepath.Dir(imagePath))
	m.filesInDir = len(entries)
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func imageBytes() []byte {
	return bytes.Repeat([]byte("IMG"), 64) // 192 バイト
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "一時ファイルが残っています")
}

var task = types.ImageTask{Identifier: "Mix 01", Index: 2, URL: "http://images.example.com/a.png"}

// ======================================================================
// テスト関数
// ======================================================================

func TestNewExtractor(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		e, err := extract.NewExtractor(&MockDownloader{}, &MockEngine{})
		assert.NoError(t, err)
		assert.NotNil(t, e)
	})
	t.Run("nil downloader", func(t *testing.T) {
		e, err := extract.NewExtractor(nil, &MockEngine{})
		assert.Error(t, err)
		assert.Nil(t, e)
		assert.Contains(t, err.Error(), "Downloader cannot be nil")
	})
	t.Run("nil engine", func(t *testing.T) {
		e, err := extract.NewExtractor(&MockDownloader{}, nil)
		assert.Error(t, err)
		assert.Nil(t, e)
		assert.Contains(t, err.Error(), "Engine cannot be nil")
	})
}

func TestExtract_Success(t *testing.T) {
	dir := t.TempDir()
	dl := &MockDownloader{content: imageBytes()}
	engine := &MockEngine{text: "  Artist - Track  \r\n\n\n\nOther - Song\n"}

	e, err := extract.NewExtractor(dl, engine, extract.WithTempDir(dir), extract.WithPreprocess(nil))
	require.NoError(t, err)

	res := e.Extract(context.Background(), task)

	assert.False(t, res.Failed())
	assert.NoError(t, res.Err)
	assert.Equal(t, "Mix 01", res.Identifier)
	assert.Equal(t, 2, res.Index)
	assert.Equal(t, task.URL, res.URL)
	assert.Equal(t, "Artist - Track\n\nOther - Song", res.Text)

	assert.Equal(t, task.URL, dl.lastURL)
	assert.Equal(t, imageBytes(), engine.seenContent, "OCRには保存された画像が渡されること")
	assert.Equal(t, 1, engine.filesInDir, "一時ファイルは同時に1つだけ")
	assert.Equal(t, dir, filepath.Dir(engine.seenPath))
	assertDirEmpty(t, dir)
}

func TestExtract_FailureIsolation(t *testing.T) {
	testCases := []struct {
		name            string
		downloader      *MockDownloader
		engine          *MockEngine
		expectDownload  bool
		expectOCR       bool
		expectEngineRun bool
		expectCause     error
	}{
		{
			name:           "download_error",
			downloader:     &MockDownloader{dlError: errors.New("dial tcp: no such host")},
			engine:         &MockEngine{text: "never"},
			expectDownload: true,
		},
		{
			name:           "too_small_body",
			downloader:     &MockDownloader{content: []byte("tiny")},
			engine:         &MockEngine{text: "never"},
			expectDownload: true,
		},
		{
			name:            "ocr_engine_error",
			downloader:      &MockDownloader{content: imageBytes()},
			engine:          &MockEngine{err: errors.New("tesseract crashed")},
			expectOCR:       true,
			expectEngineRun: true,
		},
		{
			name:            "ocr_empty_text",
			downloader:      &MockDownloader{content: imageBytes()},
			engine:          &MockEngine{text: " \n\t\n "},
			expectOCR:       true,
			expectEngineRun: true,
			expectCause:     extract.ErrNoText,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			e, err := extract.NewExtractor(tc.downloader, tc.engine, extract.WithTempDir(dir), extract.WithPreprocess(nil))
			require.NoError(t, err)

			res := e.Extract(context.Background(), task)

			require.True(t, res.Failed())
			assert.Empty(t, res.Text)
			assert.Equal(t, task.Identifier, res.Identifier)

			var dlErr *extract.ItemDownloadError
			var ocrErr *extract.ItemOCRError
			assert.Equal(t, tc.expectDownload, errors.As(res.Err, &dlErr))
			assert.Equal(t, tc.expectOCR, errors.As(res.Err, &ocrErr))
			if tc.expectCause != nil {
				assert.ErrorIs(t, res.Err, tc.expectCause)
			}
			if tc.expectEngineRun {
				assert.Equal(t, 1, tc.engine.calls)
			} else {
				assert.Zero(t, tc.engine.calls)
			}
			assertDirEmpty(t, dir)
		})
	}
}

func TestExtract_PreprocessFailureFallsBackToRawBytes(t *testing.T) {
	dir := t.TempDir()
	engine := &MockEngine{text: "text"}
	preprocessCalls := 0
	e, err := extract.NewExtractor(
		&MockDownloader{content: imageBytes()},
		engine,
		extract.WithTempDir(dir),
		extract.WithPreprocess(func(path string) (string, error) {
			preprocessCalls++
			return "", ocr.ErrUndecodable
		}),
	)
	require.NoError(t, err)

	res := e.Extract(context.Background(), task)

	assert.False(t, res.Failed())
	assert.Equal(t, 1, preprocessCalls)
	assert.Equal(t, imageBytes(), engine.seenContent)
	assertDirEmpty(t, dir)
}

func TestExtract_WithHTTPDownloader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok.png" {
			_, _ = w.Write(imageBytes())
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := t.TempDir()
	engine := &MockEngine{text: "Side A"}
	e, err := extract.NewExtractor(httpclient.New(), engine, extract.WithTempDir(dir), extract.WithMinImageBytes(1))
	require.NoError(t, err)

	ok := e.Extract(context.Background(), types.ImageTask{Identifier: "ok", URL: srv.URL + "/ok.png"})
	assert.False(t, ok.Failed())
	assert.Equal(t, "Side A", ok.Text)

	missing := e.Extract(context.Background(), types.ImageTask{Identifier: "missing", URL: srv.URL + "/missing.png"})
	require.True(t, missing.Failed())
	var dlErr *extract.ItemDownloadError
	assert.True(t, errors.As(missing.Err, &dlErr))
	code, hasCode := httpclient.StatusCodeOf(missing.Err)
	assert.True(t, hasCode)
	assert.Equal(t, http.StatusNotFound, code)

	assert.Equal(t, 1, engine.calls)
	assertDirEmpty(t, dir)
}
