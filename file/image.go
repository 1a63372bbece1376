package file

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ImageResult is the outcome of an asynchronous image read.
type ImageResult struct {
	Path    string
	DataURI string
	Err     error
}

// ReadImage reads path in the background and delivers the encoded data URI on
// the returned channel, which receives exactly one result and is then closed.
// A read that has started is not cancelled; ctx is only checked before it
// begins.
func ReadImage(ctx context.Context, path string) <-chan ImageResult {
	out := make(chan ImageResult, 1)
	go func() {
		defer close(out)
		if err := ctx.Err(); err != nil {
			out <- ImageResult{Path: path, Err: err}
			return
		}
		uri, err := EncodeDataURIFile(path)
		out <- ImageResult{Path: path, DataURI: uri, Err: err}
	}()
	return out
}

// EncodeDataURIFile reads a file into a data URI.
func EncodeDataURIFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image %s: %w", path, err)
	}
	return EncodeDataURI(data), nil
}

// EncodeDataURI builds "data:<mime>;base64,<payload>" with the MIME type
// sniffed from the content. Size and type are not checked.
func EncodeDataURI(data []byte) string {
	mime := strings.ReplaceAll(mimetype.Detect(data).String(), " ", "")
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
