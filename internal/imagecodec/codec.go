// Package imagecodec converts captured screen images between data URIs,
// raw bytes and the base64 payload embedded in provider requests.
package imagecodec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DefaultMIMEType is assumed when a data URI does not declare a media type.
const DefaultMIMEType = "image/png"

// ErrMalformedDataURI is returned for data URIs without a comma separator
// or with an undecodable base64 payload.
var ErrMalformedDataURI = errors.New("malformed data uri")

// Image is a decoded capture.
type Image struct {
	MIMEType string
	Data     []byte
}

// Encode returns the base64 payload for data.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode reverses Encode.
func Decode(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDataURI, err)
	}
	return data, nil
}

// DecodeDataURI parses "data:<mime>;base64,<payload>". Only the part after
// the first comma is decoded; the header contributes the media type.
func DecodeDataURI(uri string) (Image, error) {
	head, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing comma separator", ErrMalformedDataURI)
	}
	data, err := Decode(payload)
	if err != nil {
		return Image{}, err
	}
	return Image{MIMEType: mediaType(head), Data: data}, nil
}

// EncodeDataURI renders img as a base64 data URI.
func EncodeDataURI(img Image) string {
	mime := img.MIMEType
	if mime == "" {
		mime = DefaultMIMEType
	}
	return "data:" + mime + ";base64," + Encode(img.Data)
}

// FromBytes wraps raw file contents, sniffing the media type.
func FromBytes(data []byte) Image {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		mime = DefaultMIMEType
	}
	return Image{MIMEType: mime, Data: data}
}

func mediaType(head string) string {
	head = strings.TrimSpace(head)
	if !strings.HasPrefix(head, "data:") {
		return DefaultMIMEType
	}
	mime, _, _ := strings.Cut(strings.TrimPrefix(head, "data:"), ";")
	if mime == "" {
		return DefaultMIMEType
	}
	return mime
}
