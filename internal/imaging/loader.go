package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// SampleSource is the source name of the built-in demo image.
const SampleSource = "sample"

// ErrNoSource is returned when Load is called with an empty source.
var ErrNoSource = errors.New("no image source")

// SourceKind describes how a source string is acquired.
type SourceKind string

// Source kinds recognised by Loader.
const (
	SourceFile    SourceKind = "file"
	SourceURL     SourceKind = "url"
	SourceDataURI SourceKind = "data"
	SourceSample  SourceKind = "sample"
)

// KindOf classifies a source string.
func KindOf(source string) SourceKind {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return SourceURL
	case strings.HasPrefix(source, "data:"):
		return SourceDataURI
	case source == SampleSource:
		return SourceSample
	default:
		return SourceFile
	}
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// Cache holds decoded images. If nil, a new cache is created.
	Cache *ImageCache

	// Fetch configures remote downloads.
	Fetch FetchOptions

	// Client is the HTTP client used for remote downloads.
	// If nil, a client with no global timeout is used; the per-request
	// timeout comes from Fetch.Timeout.
	Client *http.Client

	// Logger receives debug output. If nil, logging is discarded.
	Logger hclog.Logger
}

// Loader acquires decoded images from files, URLs, data URIs or the
// built-in sample.
type Loader struct {
	cache  *ImageCache
	fetch  FetchOptions
	client *http.Client
	logger hclog.Logger
}

// NewLoader creates a Loader with the given options.
func NewLoader(opts LoaderOptions) *Loader {
	if opts.Cache == nil {
		opts.Cache = NewImageCache()
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	return &Loader{
		cache:  opts.Cache,
		fetch:  opts.Fetch,
		client: opts.Client,
		logger: opts.Logger,
	}
}

// Cache returns the loader's image cache.
func (l *Loader) Cache() *ImageCache {
	return l.cache
}

// Load retrieves an image from the cache or acquires it from its source.
//
// Parameters:
//   - ctx: Bounds a URL fetch together with the loader's timeout. Other
//     sources ignore it.
//   - source: An http(s) URL, a data:image/...;base64 URI, "sample" for the
//     built-in demo image, or a file path. PNG, JPEG, GIF and WebP decode.
//
// Returns:
//   - image.Image: The decoded image, shared with the cache. Callers must not
//     modify it.
//   - error: Non-nil on an acquisition failure.
//
// Successful loads are cached under the exact source string, so the same
// file named by two different paths is cached twice.
//
// # Errors
//
//   - Returns ErrNoSource for an empty source
//   - Returns error if a file is missing, is a directory or cannot be read
//   - Returns error if a URL answers with a non-200 status, times out or
//     exceeds the size cap
//   - Returns error if the bytes are not a supported image format
//
// Load never retries.
//
// # Example Usage
//
//	loader := imaging.NewLoader(imaging.LoaderOptions{})
//	img, err := loader.Load(ctx, "https://example.com/photo.jpg")
//	if err != nil {
//	    return err
//	}
func (l *Loader) Load(ctx context.Context, source string) (image.Image, error) {
	entry, err := l.load(ctx, source)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

func (l *Loader) load(ctx context.Context, source string) (cachedImage, error) {
	if source == "" {
		return cachedImage{}, ErrNoSource
	}
	if entry, ok := l.cache.get(source); ok {
		return entry, nil
	}

	kind := KindOf(source)
	l.logger.Debug("acquiring image", "kind", kind, "source", abbreviate(source))

	var entry cachedImage
	switch kind {
	case SourceSample:
		entry = cachedImage{img: SampleImage(), format: "generated"}
	case SourceURL:
		data, err := fetch(ctx, l.client, source, l.fetch)
		if err != nil {
			return cachedImage{}, fmt.Errorf("failed to fetch image: %w", err)
		}
		entry, err = decode(data)
		if err != nil {
			return cachedImage{}, err
		}
	case SourceDataURI:
		data, err := decodeDataURI(source)
		if err != nil {
			return cachedImage{}, err
		}
		entry, err = decode(data)
		if err != nil {
			return cachedImage{}, err
		}
	default:
		data, err := readFile(source)
		if err != nil {
			return cachedImage{}, err
		}
		entry, err = decode(data)
		if err != nil {
			return cachedImage{}, err
		}
	}

	l.cache.put(source, entry)
	return entry, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path) // #nosec G304 - user-specified image path
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return data, nil
}

func decode(data []byte) (cachedImage, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return cachedImage{img: img, format: format, size: int64(len(data))}, nil
}

// decodeDataURI extracts the payload of a "data:" URI.
func decodeDataURI(uri string) ([]byte, error) {
	meta, payload, found := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !found {
		return nil, fmt.Errorf("malformed data URI: missing ','")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("malformed data URI: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed data URI: %w", err)
	}
	return []byte(data), nil
}

// abbreviate shortens long sources (data URIs) for logging.
func abbreviate(source string) string {
	const maxLen = 64
	if len(source) <= maxLen {
		return source
	}
	return source[:maxLen] + "..."
}

// ImageInfo contains metadata about a loaded image.
type ImageInfo struct {
	// Source is the source string the image was loaded from.
	Source string `json:"source"`

	// Kind is how the source was acquired: "file", "url", "data" or "sample".
	Kind SourceKind `json:"kind"`

	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder that recognised the data: "png", "jpeg", "gif",
	// "webp", or "generated" for the built-in sample.
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`

	// SizeBytes is the size of the encoded image data in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// LoadImageInfo loads an image and returns metadata about it.
//
// # Color Depth Detection
//
// Color depth is determined by the Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - All other types -> "8-bit"
func (l *Loader) LoadImageInfo(ctx context.Context, source string) (*ImageInfo, error) {
	entry, err := l.load(ctx, source)
	if err != nil {
		return nil, err
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch entry.img.(type) {
	case *image.RGBA, *image.NRGBA, *image.Paletted:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	bounds := entry.img.Bounds()
	return &ImageInfo{
		Source:     abbreviate(source),
		Kind:       KindOf(source),
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Format:     entry.format,
		ColorDepth: colorDepth,
		HasAlpha:   hasAlpha,
		SizeBytes:  entry.size,
	}, nil
}
