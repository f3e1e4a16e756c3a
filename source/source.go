// seehuhn.de/go/engrave - turn raster images into jewelry blank outlines
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package source reads the input raster of the engraving pipeline, either
// from the local file system or from a URL.
//
// Load performs exactly one read.  There are no retries; callers which
// want to retry must call Load again.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"
	"time"

	// decoders for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/net/context/ctxhttp"

	"seehuhn.de/go/engrave/gray"
)

// ErrSourceUnavailable is returned when the input image cannot be read
// or decoded.
var ErrSourceUnavailable = errors.New("image source unavailable")

// Source describes where the input image comes from.
// Exactly one of the fields must be set.
type Source struct {
	Path string // local file name
	URL  string // http or https URL
}

func (s Source) String() string {
	if s.URL != "" {
		return s.URL
	}
	return s.Path
}

// Options controls how remote images are fetched.
type Options struct {
	// Client is used for remote requests.  If nil, a client with the
	// given Timeout is used.
	Client *http.Client

	// Timeout bounds remote requests when Client is nil.
	// The zero value selects DefaultTimeout.
	Timeout time.Duration

	// MaxBytes limits the size of the downloaded image.
	// The zero value selects DefaultMaxBytes.
	MaxBytes int64
}

// Default values for [Options].
const (
	DefaultTimeout        = 30 * time.Second
	DefaultMaxBytes int64 = 50 << 20
)

func (o *Options) client() *http.Client {
	if o != nil && o.Client != nil {
		return o.Client
	}
	timeout := DefaultTimeout
	if o != nil && o.Timeout > 0 {
		timeout = o.Timeout
	}
	return &http.Client{Timeout: timeout}
}

func (o *Options) maxBytes() int64 {
	if o != nil && o.MaxBytes > 0 {
		return o.MaxBytes
	}
	return DefaultMaxBytes
}

// Load reads and decodes the image described by src and converts it to
// intensity values.  All failures wrap [ErrSourceUnavailable].
func Load(ctx context.Context, src Source, opts *Options) (*gray.Image, error) {
	var data []byte
	var err error
	switch {
	case src.Path != "" && src.URL != "":
		return nil, fmt.Errorf("%w: both path and URL given", ErrSourceUnavailable)
	case src.URL != "":
		data, err = fetch(ctx, src.URL, opts)
	case src.Path != "":
		data, err = os.ReadFile(src.Path)
	default:
		return nil, fmt.Errorf("%w: no path or URL given", ErrSourceUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, src, err)
	}

	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return img, nil
}

// Decode converts encoded image data (PNG, JPEG, GIF, BMP, TIFF or WebP)
// to intensity values.
func Decode(data []byte) (*gray.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrSourceUnavailable, err)
	}
	res := gray.FromImage(img)
	if res.Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", ErrSourceUnavailable)
	}
	return res, nil
}

func fetch(ctx context.Context, url string, opts *Options) ([]byte, error) {
	resp, err := ctxhttp.Get(ctx, opts.client(), url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	limit := opts.maxBytes()
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image larger than %d bytes", limit)
	}
	return data, nil
}

// Probe checks whether url refers to an image, using a single HEAD request.
// The result is based on the Content-Type header of the response;
// redirects are not followed.
func Probe(ctx context.Context, url string, opts *Options) (bool, error) {
	client := *opts.client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	resp, err := ctxhttp.Head(ctx, &client, url)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, url, err)
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, nil
	}
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return false, nil
	}
	return strings.HasPrefix(mediaType, "image/"), nil
}
