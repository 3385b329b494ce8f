package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ContrastPercentage は、グレースケール化した画像に適用するコントラスト強調量です。
// 中間輝度を中心に 1.5 倍へ引き伸ばします。
const ContrastPercentage = 50

// sharpenKernel は、輪郭を強調する3x3の畳み込みカーネルです (合計で正規化されます)。
var sharpenKernel = [9]float64{
	-2, -2, -2,
	-2, 32, -2,
	-2, -2, -2,
}

// ErrUndecodable は、画像としてデコードできなかったことを示します。
var ErrUndecodable = errors.New("画像としてデコードできません")

// PreprocessFile は、path の画像をOCR向けに前処理し、同じパスへPNGとして上書きします。
// デコードできない場合は ErrUndecodable を返し、ファイルには手を加えません。
// エンコードはメモリ上で完了させてから書き込むため、失敗時も元のバイト列が残ります。
func PreprocessFile(path string) (format string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("画像ファイルを開けません: %w", err)
	}
	img, format, decodeErr := image.Decode(f)
	f.Close()
	if decodeErr != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecodable, decodeErr)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, Preprocess(img), imaging.PNG); err != nil {
		return format, fmt.Errorf("PNGエンコードに失敗しました: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return format, fmt.Errorf("前処理結果の書き込みに失敗しました: %w", err)
	}
	return format, nil
}

// Preprocess は、OCR向けに画像を整えたグレースケール画像を返します。
func Preprocess(img image.Image) *image.Gray {
	b := img.Bounds()

	// 1. 透過部分を白背景に合成
	flat := imaging.Overlay(imaging.New(b.Dx(), b.Dy(), color.White), img, image.Point{}, 1.0)

	// 2. グレースケール化とコントラスト強調
	enhanced := imaging.AdjustContrast(imaging.Grayscale(flat), ContrastPercentage)

	// 3. シャープ化
	sharpened := imaging.Convolve3x3(enhanced, sharpenKernel, &imaging.ConvolveOptions{Normalize: true})

	gray := image.NewGray(sharpened.Bounds())
	draw.Draw(gray, gray.Bounds(), sharpened, sharpened.Bounds().Min, draw.Src)
	return gray
}
