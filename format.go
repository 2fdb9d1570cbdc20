package dotdirectory

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type ImageFormat int

const (
	ImageFormatUnknown ImageFormat = iota
	ImageFormatJPEG
	ImageFormatPNG
	ImageFormatGIF
	ImageFormatBMP
	ImageFormatWebP
	ImageFormatTIFF
	ImageFormatSVG
	ImageFormatICO
)

var imageFormatNames = [...]string{
	ImageFormatUnknown: "unknown",
	ImageFormatJPEG:    "jpeg",
	ImageFormatPNG:     "png",
	ImageFormatGIF:     "gif",
	ImageFormatBMP:     "bmp",
	ImageFormatWebP:    "webp",
	ImageFormatTIFF:    "tiff",
	ImageFormatSVG:     "svg",
	ImageFormatICO:     "ico",
}

func (f ImageFormat) String() string {
	if f < 0 || int(f) >= len(imageFormatNames) {
		return imageFormatNames[ImageFormatUnknown]
	}
	return imageFormatNames[f]
}

var extensionFormats = map[string]ImageFormat{
	".jpg":  ImageFormatJPEG,
	".jpeg": ImageFormatJPEG,
	".jpe":  ImageFormatJPEG,
	".png":  ImageFormatPNG,
	".gif":  ImageFormatGIF,
	".bmp":  ImageFormatBMP,
	".webp": ImageFormatWebP,
	".tif":  ImageFormatTIFF,
	".tiff": ImageFormatTIFF,
	".svg":  ImageFormatSVG,
	".ico":  ImageFormatICO,
}

// names image.DecodeConfig reports for the registered decoders
var decoderFormats = map[string]ImageFormat{
	"jpeg": ImageFormatJPEG,
	"png":  ImageFormatPNG,
	"gif":  ImageFormatGIF,
	"bmp":  ImageFormatBMP,
	"webp": ImageFormatWebP,
	"tiff": ImageFormatTIFF,
}

var icoMagic = []byte{0x00, 0x00, 0x01, 0x00}

// DetectImageFormat classifies the image at path. The extension wins when it
// is recognised; otherwise the content is sniffed. Desktop entries commonly
// reference extension-less icon names, so the fallback matters.
func DetectImageFormat(path string) ImageFormat {
	if format, ok := extensionFormats[strings.ToLower(filepath.Ext(path))]; ok {
		return format
	}

	f, err := os.Open(path)
	if err != nil {
		return ImageFormatUnknown
	}
	defer f.Close()

	return sniffImageFormat(f)
}

func sniffImageFormat(r io.ReadSeeker) ImageFormat {
	head := make([]byte, len(icoMagic))
	if _, err := io.ReadFull(r, head); err == nil && bytes.Equal(head, icoMagic) {
		return ImageFormatICO
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return ImageFormatUnknown
	}
	if _, name, err := image.DecodeConfig(r); err == nil {
		if format, ok := decoderFormats[name]; ok {
			return format
		}
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return ImageFormatUnknown
	}
	if icon, err := oksvg.ReadIconStream(r, oksvg.IgnoreErrorMode); err == nil && icon.ViewBox.W > 0 {
		return ImageFormatSVG
	}

	return ImageFormatUnknown
}
