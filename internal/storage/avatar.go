package storage

import (
	"bytes"
	"image"

	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
)

const (
	avatarMaxSide     = 512
	avatarQuality     = 80
	AvatarContentType = "image/webp"
)

// NormalizeAvatar decodifica jpeg/png, limita o lado maior a 512px e
// reencoda em webp. Entrada ilegível vira erro de negócio, não 500.
func NormalizeAvatar(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, httperr.ErrBusinessMsg("invalid_request", "image must be JPEG or PNG")
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > avatarMaxSide || h > avatarMaxSide {
		scale := float64(avatarMaxSide) / float64(max(w, h))
		nw := int(float64(w) * scale)
		nh := int(float64(h) * scale)

		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var out bytes.Buffer
	if err := webp.Encode(&out, src, &webp.Options{Quality: avatarQuality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
