package repository

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Source encodings accepted by source.encoding.
const (
	EncodingAuto  = "auto"
	EncodingUTF8  = "utf-8"
	EncodingEUCKR = "euc-kr"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeEncoding maps the accepted aliases onto one of the Encoding constants.
func normalizeEncoding(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncodingAuto:
		return EncodingAuto, nil
	case EncodingUTF8, "utf8", "utf-8-sig":
		return EncodingUTF8, nil
	case EncodingEUCKR, "euckr", "cp949":
		return EncodingEUCKR, nil
	default:
		return "", fmt.Errorf("unsupported source encoding %q", name)
	}
}

// decodeSource converts raw file content to UTF-8. A leading UTF-8 BOM is
// stripped. utf-8 rejects invalid byte sequences instead of replacing them;
// auto keeps valid UTF-8 as is and decodes anything else as EUC-KR.
func decodeSource(encodingName string, data []byte) ([]byte, error) {
	enc, err := normalizeEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	if bytes.HasPrefix(data, utf8BOM) {
		data = data[len(utf8BOM):]
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("content after UTF-8 byte order mark is not valid UTF-8")
		}
		return data, nil
	}

	switch enc {
	case EncodingUTF8:
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("content is not valid UTF-8")
		}
		return data, nil
	case EncodingAuto:
		if utf8.Valid(data) {
			return data, nil
		}
	}

	decoded, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("content is not valid EUC-KR: %w", err)
	}
	return decoded, nil
}

// reportEncoder writes UTF-8 prefixed with a BOM so spreadsheet tools detect
// the encoding of non-Latin stock names.
func reportEncoder() transform.Transformer {
	return unicode.UTF8BOM.NewEncoder()
}
