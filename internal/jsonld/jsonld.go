package jsonld

import (
	"bytes"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// ContentType is the media type of a JSON-LD document
const ContentType = "application/ld+json"

var (
	// JSON is the encoder used for every structured-data document. HTML
	// escaping stays on so a document can be embedded in a script tag.
	JSON = jsoniter.ConfigCompatibleWithStandardLibrary

	// Unmarshal is a shorthand for JSON.Unmarshal
	Unmarshal = JSON.Unmarshal

	// NewDecoder is a shorthand for JSON.NewDecoder
	NewDecoder = JSON.NewDecoder
)

// Marshal encodes a schema document
func Marshal(doc interface{}) ([]byte, error) {
	data, err := JSON.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json-ld document: %w", err)
	}
	return data, nil
}

// MarshalIndent encodes a schema document with two-space indentation
func MarshalIndent(doc interface{}) ([]byte, error) {
	data, err := JSON.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json-ld document: %w", err)
	}
	return data, nil
}

// ScriptTag wraps an encoded document in the script element search engines
// read structured data from.
func ScriptTag(data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data) + 48)
	buf.WriteString(`<script type="application/ld+json">`)
	buf.Write(data)
	buf.WriteString(`</script>`)
	return buf.Bytes()
}

// RenderScript marshals doc and writes it as a script element
func RenderScript(w io.Writer, doc interface{}) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(ScriptTag(data)); err != nil {
		return fmt.Errorf("failed to write script tag: %w", err)
	}
	return nil
}
