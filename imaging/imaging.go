// Package imaging provides the small amount of image introspection and
// processing the persistence path needs: dimension strings for the records
// and downscaled JPEG previews for the gallery.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/gift"
)

const (
	MaxPreviewWidth    = 800
	PreviewJPEGQuality = 85
)

// Dimensions reports "WxH" for the encoded image, or "" when the format
// cannot be decoded. Records tolerate missing dimensions.
func Dimensions(data []byte) string {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
}

// Preview re-encodes the image as a JPEG no wider than MaxPreviewWidth.
func Preview(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	g := gift.New()
	if src.Bounds().Dx() > MaxPreviewWidth {
		g.Add(gift.Resize(MaxPreviewWidth, 0, gift.LanczosResampling))
	}

	dst := image.NewRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: PreviewJPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
