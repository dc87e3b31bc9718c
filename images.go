package flowpress

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
)

// processImage decodes an image from src, resizes it down to maxImageWidth
// when wider, and encodes it as JPEG under a slugified, timestamped name.
func processImage(src io.Reader, originalName string) (string, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", nil, fmt.Errorf("encode jpeg: %w", err)
	}

	filename := fmt.Sprintf("%d-%s.jpg", time.Now().UnixMilli(), slugifyFilename(originalName))
	return filename, buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if s := Slugify(base); s != "" {
		return s
	}
	return "image"
}

// handleImageUpload accepts a cover-image upload, processes it, and stores
// it in the configured bucket through the Gateway. Responds with the public
// URL as JSON for the editor to embed.
func (a *App) handleImageUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No image file provided"})
	}
	if file.Size > maxUploadSize {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "File too large (max 10MB)"})
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	filename, data, err := processImage(src, file.Filename)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid image: " + err.Error()})
	}

	publicURL, err := a.Gateway.UploadFile(a.Config.UploadBucket, filename, data)
	if err != nil {
		switch CodeOf(err) {
		case CodePermissionDenied:
			return c.JSON(http.StatusForbidden, map[string]string{
				"error": "Permission denied by the storage bucket. Check the bucket's access policy.",
			})
		case CodeBucketNotFound:
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": fmt.Sprintf("Bucket %q not found. Create it before uploading.", a.Config.UploadBucket),
			})
		default:
			c.Logger().Errorf("upload: %v", err)
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "Upload failed, try again."})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"url": publicURL})
}
