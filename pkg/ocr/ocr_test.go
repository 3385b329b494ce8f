package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"crlf and padding", "  Artist - Track  \r\nOther  Artist - Song\r\n", "Artist - Track\nOther Artist - Song"},
		{"collapses blank runs", "A\n\n\n\n\nB", "A\n\nB"},
		{"keeps single blank line", "A\n\nB", "A\n\nB"},
		{"tabs inside a line", "1.\tFoo\t-\tBar", "1. Foo - Bar"},
		{"whitespace only", " \n \t \n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestEngineFunc(t *testing.T) {
	var e Engine = EngineFunc(func(ctx context.Context, path string) (string, error) {
		return "read " + path, nil
	})
	text, err := e.Recognize(context.Background(), "/tmp/a.png")
	require.NoError(t, err)
	assert.Equal(t, "read /tmp/a.png", text)
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestPreprocessFile(t *testing.T) {
	t.Run("flattens transparency onto white and grayscales", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
		src.Set(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 0}) // 完全に透過
		src.Set(1, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
		path := writePNG(t, src)

		format, err := PreprocessFile(path)
		require.NoError(t, err)
		assert.Equal(t, "png", format)

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		out, err := png.Decode(f)
		require.NoError(t, err)

		gray, ok := out.(*image.Gray)
		require.True(t, ok, "グレースケール画像が期待されます: %T", out)
		assert.Equal(t, uint8(255), gray.GrayAt(0, 0).Y)
		assert.Equal(t, uint8(0), gray.GrayAt(1, 0).Y)
	})

	t.Run("undecodable bytes are left untouched", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "junk.bin")
		original := []byte("this is definitely not an image")
		require.NoError(t, os.WriteFile(path, original, 0o600))

		_, err := PreprocessFile(path)
		assert.True(t, errors.Is(err, ErrUndecodable))

		after, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, original, after)
	})

	t.Run("write failure keeps the original bytes", func(t *testing.T) {
		src := image.NewGray(image.Rect(0, 0, 2, 2))
		path := writePNG(t, src)
		original, err := os.ReadFile(path)
		require.NoError(t, err)

		// 読み取り専用にして上書きを失敗させる
		require.NoError(t, os.Chmod(path, 0o400))
		t.Cleanup(func() { _ = os.Chmod(path, 0o600) })
		if f, err := os.OpenFile(path, os.O_WRONLY, 0); err == nil {
			f.Close()
			t.Skip("root 権限では読み取り専用ファイルにも書き込めるためスキップします")
		}

		_, err = PreprocessFile(path)
		assert.Error(t, err)

		after, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, original, after)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := PreprocessFile(filepath.Join(t.TempDir(), "missing.png"))
		assert.Error(t, err)
		assert.False(t, errors.Is(err, ErrUndecodable))
	})
}

func TestPreprocess_StretchesContrastAndSharpens(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 1))
	src.Pix = []uint8{100, 120, 140}

	out := Preprocess(src)

	require.Equal(t, src.Bounds(), out.Bounds())
	assert.Less(t, out.GrayAt(0, 0).Y, uint8(100), "暗い画素はより暗くなること")
	assert.Greater(t, out.GrayAt(2, 0).Y, uint8(140), "明るい画素はより明るくなること")
}

func TestPreprocess_UniformImageStaysUniform(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 255
	}

	out := Preprocess(src)
	for _, p := range out.Pix {
		assert.Equal(t, uint8(255), p)
	}
}
