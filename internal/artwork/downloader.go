// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package artwork downloads provider images into media directories and
// derives the grid thumbnails. The full image is stored byte-for-byte as
// delivered; only the thumbnail is re-encoded, center-cropped to the kind's
// aspect ratio so the library grid stays uniform.
package artwork

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/image/draw"

	"github.com/anthonysnyder/backgroundarr/internal/buildinfo"
	"github.com/anthonysnyder/backgroundarr/internal/domain"
)

const (
	downloadTimeout = 30 * time.Second
	jpegQuality     = 90
)

// staleExts covers every extension a previous download may have used.
var staleExts = []string{"jpg", "jpeg", "png"}

// DownloadResult reports what a successful download wrote.
type DownloadResult struct {
	FullName    string // file name of the full image, e.g. "backdrop.jpg"
	FullPath    string
	FullWidth   int
	FullHeight  int
	ThumbName   string // file name of the thumbnail, e.g. "backdrop-thumb.jpg"
	ThumbPath   string
	ThumbWidth  int
	ThumbHeight int
}

// Downloader fetches images and writes the full + thumbnail pair.
type Downloader struct {
	client *resty.Client
	logger zerolog.Logger
}

// NewDownloader creates a downloader with its own HTTP client.
func NewDownloader(logger zerolog.Logger) *Downloader {
	return &Downloader{
		client: resty.New().SetTimeout(downloadTimeout).SetHeader("User-Agent", buildinfo.UserAgent),
		logger: logger.With().Str("component", "artwork").Logger(),
	}
}

// Download fetches imageURL and replaces the artwork of the given kind in
// dir. Any previous variant of the full image or thumbnail is removed first,
// so a directory never holds both "backdrop.jpg" and "backdrop.png". The
// fetch is not retried: a failed download surfaces immediately and the user
// simply picks again.
func (d *Downloader) Download(ctx context.Context, imageURL, dir string, kind domain.ArtworkKind) (*DownloadResult, error) {
	resp, err := d.client.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch image: unexpected status %s", resp.Status())
	}

	body := resp.Body()
	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}

	spec := domain.SpecFor(kind)
	removeStale(dir, spec)

	srcBounds := img.Bounds()
	res := &DownloadResult{
		FullName:   spec.FileName(ext),
		FullWidth:  srcBounds.Dx(),
		FullHeight: srcBounds.Dy(),
		ThumbName:  spec.ThumbFileName(),
	}
	res.FullPath = filepath.Join(dir, res.FullName)
	res.ThumbPath = filepath.Join(dir, res.ThumbName)

	if err := os.WriteFile(res.FullPath, body, 0o644); err != nil {
		return nil, fmt.Errorf("write full image: %w", err)
	}

	thumb := makeThumbnail(img, spec)
	bounds := thumb.Bounds()
	res.ThumbWidth, res.ThumbHeight = bounds.Dx(), bounds.Dy()

	if err := writeThumbnail(res.ThumbPath, thumb, spec); err != nil {
		return nil, err
	}

	d.logger.Info().
		Str("dir", dir).
		Str("kind", string(kind)).
		Str("file", res.FullName).
		Int("thumbWidth", res.ThumbWidth).
		Int("thumbHeight", res.ThumbHeight).
		Msg("artwork downloaded")
	return res, nil
}

// removeStale deletes every extension variant of the kind's full image and
// thumbnail. Missing files are fine.
func removeStale(dir string, spec domain.ArtworkSpec) {
	for _, ext := range staleExts {
		os.Remove(filepath.Join(dir, spec.FileName(ext)))
		os.Remove(filepath.Join(dir, fmt.Sprintf("%s-thumb.%s", spec.Kind, ext)))
	}
}

// makeThumbnail center-crops img to the spec's aspect ratio and scales it to
// the thumbnail size. A zero AspectH skips cropping, a zero ThumbHeight keeps
// the source aspect ratio (logos).
func makeThumbnail(img image.Image, spec domain.ArtworkSpec) *image.RGBA {
	src := img.Bounds()

	crop := src
	if spec.AspectH > 0 {
		crop = centerCrop(src, spec.AspectW, spec.AspectH)
	}

	w := spec.ThumbWidth
	h := spec.ThumbHeight
	if h == 0 {
		h = w * crop.Dy() / crop.Dx()
		if h < 1 {
			h = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)
	return dst
}

// centerCrop returns the largest centered sub-rectangle of r with the given
// aspect ratio.
func centerCrop(r image.Rectangle, aspectW, aspectH int) image.Rectangle {
	w, h := r.Dx(), r.Dy()
	if w*aspectH > h*aspectW {
		// Too wide, trim the sides.
		cropW := h * aspectW / aspectH
		x := r.Min.X + (w-cropW)/2
		return image.Rect(x, r.Min.Y, x+cropW, r.Max.Y)
	}
	// Too tall, trim top and bottom.
	cropH := w * aspectH / aspectW
	y := r.Min.Y + (h-cropH)/2
	return image.Rect(r.Min.X, y, r.Max.X, y+cropH)
}

func writeThumbnail(path string, thumb image.Image, spec domain.ArtworkSpec) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write thumbnail: %w", err)
	}
	defer f.Close()

	if spec.ThumbExt == "png" {
		err = png.Encode(f, thumb)
	} else {
		err = jpeg.Encode(f, thumb, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return nil
}
