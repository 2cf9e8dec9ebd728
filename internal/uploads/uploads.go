// Package uploads turns a local answer image into a reference that can be sent
// with a response.
package uploads

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxImageSize is the largest accepted answer image.
const MaxImageSize = 5 << 20

// ErrUnsupportedImage is returned for files that are not png, jpeg or gif images.
var ErrUnsupportedImage = errors.New("only .png, .jpg, .jpeg and .gif images are accepted")

// ErrImageTooLarge is returned for images over MaxImageSize.
var ErrImageTooLarge = fmt.Errorf("image is larger than %d MB", MaxImageSize>>20)

// Uploader converts an image file into a reference string.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// Image is a validated answer image read from disk.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReadImage loads and checks an answer image.
func ReadImage(path string) (*Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif":
	default:
		return nil, ErrUnsupportedImage
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	data, err := readLimited(f)
	if err != nil {
		return nil, err
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return nil, ErrUnsupportedImage
	}
	return &Image{Name: filepath.Base(path), ContentType: ct, Data: data}, nil
}

// readLimited reads r and fails once it yields more than MaxImageSize bytes.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	return data, nil
}

// Reader returns the image bytes as a reader.
func (img *Image) Reader() *bytes.Reader {
	return bytes.NewReader(img.Data)
}

// DataURL embeds the image in a data: URL. It needs no external service.
type DataURL struct{}

// Upload implements Uploader.
func (DataURL) Upload(_ context.Context, path string) (string, error) {
	img, err := ReadImage(path)
	if err != nil {
		return "", err
	}
	return "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data), nil
}
