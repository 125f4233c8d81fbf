package regtext

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/joshuapare/regkit/pkg/types"
)

// Canonical names reported by htmlindex.Name.
const (
	utf8Name    = "utf-8"
	utf16LEName = "utf-16le"
)

// lookupEncoding resolves an encoding label such as "UTF-16LE" or
// "windows-1252". An empty label means UTF-8.
func lookupEncoding(label string) (encoding.Encoding, string, error) {
	if label == "" {
		label = EncodingUTF8
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, "", &types.Error{Kind: types.ErrKindEncoding, Msg: types.ErrEncoding.Msg, Text: label, Err: err}
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return nil, "", &types.Error{Kind: types.ErrKindEncoding, Msg: types.ErrEncoding.Msg, Text: label, Err: err}
	}
	return enc, name, nil
}

// DecodeInput converts raw file bytes to text.
//
// A UTF-16LE or UTF-8 byte order mark wins over label; otherwise label
// names the encoding (empty means UTF-8).
func DecodeInput(data []byte, label string) (string, error) {
	switch {
	case bytes.HasPrefix(data, UTF16LEBOM):
		label, data = EncodingUTF16LE, data[len(UTF16LEBOM):]
	case bytes.HasPrefix(data, UTF8BOM):
		label, data = EncodingUTF8, data[len(UTF8BOM):]
	}

	enc, name, err := lookupEncoding(label)
	if err != nil {
		return "", err
	}
	if name == utf8Name {
		return string(data), nil
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", &types.Error{Kind: types.ErrKindEncoding, Msg: types.ErrEncoding.Msg, Text: label, Err: err}
	}
	return string(out), nil
}

// EncodeOutput converts text to bytes in the labeled encoding, optionally
// preceded by a byte order mark (UTF-8 and UTF-16LE only).
func EncodeOutput(text, label string, withBOM bool) ([]byte, error) {
	enc, name, err := lookupEncoding(label)
	if err != nil {
		return nil, err
	}

	var bom []byte
	if withBOM {
		switch name {
		case utf8Name:
			bom = UTF8BOM
		case utf16LEName:
			bom = UTF16LEBOM
		}
	}

	var body []byte
	if name == utf8Name {
		body = []byte(text)
	} else {
		body, err = enc.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, &types.Error{Kind: types.ErrKindEncoding, Msg: types.ErrEncoding.Msg, Text: label, Err: err}
		}
	}
	return append(append(make([]byte, 0, len(bom)+len(body)), bom...), body...), nil
}
