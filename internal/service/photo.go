package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"rishta/internal/config"
	"rishta/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	photoMaxSize    = 2048
	photoQuality    = 70
	maxProfileShots = 4
)

// PhotoUpload is one multipart file handed to the photo pipeline.
type PhotoUpload struct {
	Filename string
	Content  []byte
}

// PhotoService validates uploaded profile photos and payment screenshots,
// bounds them to a sane resolution, re-encodes to WebP and stores them on
// disk under content-hash names.
type PhotoService struct {
	uploadDir     string
	publicBaseURL string
	maxBytes      int64
}

// NewPhotoService creates a PhotoService from configuration.
func NewPhotoService(cfg *config.Config) *PhotoService {
	return &PhotoService{
		uploadDir:     cfg.UploadDir,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxBytes:      int64(cfg.MaxUploadSizeMB) * 1024 * 1024,
	}
}

// Store processes a single upload and returns the public URL of the stored
// asset.
func (s *PhotoService) Store(in PhotoUpload) (string, error) {
	if len(in.Content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxBytes/(1024*1024)))
	}

	detected := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detected) {
		return "", models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}
	if !isSupportedImageFormat(format) {
		return "", models.NewValidationError("Unsupported image format")
	}

	bounded := resizeToFit(decoded, photoMaxSize, photoMaxSize)

	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, bounded, &webp.Options{Quality: photoQuality}); err != nil {
		return "", models.NewInternalError(err)
	}
	encoded := buf.Bytes()

	name := photoHash(encoded) + ".webp"
	if err := writePhotoFile(filepath.Join(s.uploadDir, name), encoded); err != nil {
		return "", models.NewInternalError(err)
	}

	return s.publicBaseURL + "/uploads/" + name, nil
}

// StoreAll processes a bounded batch of profile photos.
func (s *PhotoService) StoreAll(uploads []PhotoUpload) ([]string, error) {
	if len(uploads) > maxProfileShots {
		return nil, models.NewValidationError(fmt.Sprintf("At most %d profile photos allowed", maxProfileShots))
	}
	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		url, err := s.Store(u)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func isAllowedImageMIME(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func isSupportedImageFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func photoHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}

func writePhotoFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
