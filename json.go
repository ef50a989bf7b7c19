package hashdict

import (
	"bytes"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// defaultIndent is the indentation unit applied by ToJSON and
// WriteJSON when the caller does not choose one.
const defaultIndent = "    "

type encodeConfig struct {
	prefix string
	indent string
}

// An EncodeOption configures [Dict.ToJSON] and [Dict.WriteJSON].
type EncodeOption func(*encodeConfig)

// WithIndent sets the indentation unit for encoded output.
func WithIndent(indent string) EncodeOption {
	return func(c *encodeConfig) { c.indent = indent }
}

// WithPrefix sets the prefix written at the start of each indented line.
func WithPrefix(prefix string) EncodeOption {
	return func(c *encodeConfig) { c.prefix = prefix }
}

// Compact disables indentation, producing single-line output.
func Compact() EncodeOption {
	return func(c *encodeConfig) { c.indent = "" }
}

type decodeConfig struct {
	useNumber bool
}

// A DecodeOption configures [FromJSON].
type DecodeOption func(*decodeConfig)

// UseNumber decodes JSON numbers as json.Number instead of float64.
func UseNumber() DecodeOption {
	return func(c *decodeConfig) { c.useNumber = true }
}

// MarshalJSON encodes the Dict as a compact JSON object in insertion
// order. Keys are stringified as JSON object keys: strings as-is;
// numbers, booleans and nil by their JSON spelling; any other key type
// is an error. Values are encoded by the codec, so nested Dicts encode
// as nested objects.
func (d *Dict) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for k, v := range d.All() {
		ks, err := jsonKey(k)
		if err != nil {
			return nil, err
		}
		kb, err := json.Marshal(ks)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ToJSON renders the Dict as JSON text. Output is indented with four
// spaces unless an option chooses otherwise. Codec errors are returned
// as-is.
func (d *Dict) ToJSON(opts ...EncodeOption) ([]byte, error) {
	cfg := encodeConfig{indent: defaultIndent}
	for _, o := range opts {
		o(&cfg)
	}
	data, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	if cfg.indent == "" && cfg.prefix == "" {
		return data, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, cfg.prefix, cfg.indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON renders the Dict as JSON text, as [Dict.ToJSON] does, and
// writes it to w. Codec and sink errors are returned as-is.
func (d *Dict) WriteJSON(w io.Writer, opts ...EncodeOption) error {
	data, err := d.ToJSON(opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// FromJSON parses JSON text into a new Dict. The top-level value must
// be an object; its members become the Dict's entries in document
// order, and nested objects become nested Dicts, also in document
// order. An array member is an unhashable value and is rejected by the
// insertion, failing with [ErrUnhashableValue].
//
// Malformed text fails with the codec's own error, unwrapped. A
// well-formed non-object top level fails with [ErrArguments].
func FromJSON(data []byte, opts ...DecodeOption) (*Dict, error) {
	var cfg decodeConfig
	for _, o := range opts {
		o(&cfg)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if cfg.useNumber {
		dec.UseNumber()
	}
	root, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	d, ok := root.(*Dict)
	if !ok {
		return nil, errors.Wrapf(ErrArguments, "top-level JSON value is %T, not an object", root)
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, errors.Errorf("hashdict: unexpected %v after top-level JSON value", tok)
	}
	return d, nil
}

// decodeValue reads one JSON value from dec. Objects decode to *Dict
// with members in document order; everything else decodes to the
// codec's token value (string, number, bool, nil, or []any for an
// array).
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); ok {
		switch delim {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
	}
	return tok, nil
}

// decodeObject reads members up to the closing brace, inserting each
// through Set so the Dict keeps the document's member order.
func decodeObject(dec *json.Decoder) (*Dict, error) {
	d := &Dict{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		if err := d.Set(key, v); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return d, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	var elems []any
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return elems, nil
}

// jsonKey stringifies a Dict key for use as a JSON object key.
func jsonKey(k any) (string, error) {
	switch k := k.(type) {
	case string:
		return k, nil
	case json.Number:
		return string(k), nil
	case bool:
		return strconv.FormatBool(k), nil
	case int:
		return strconv.FormatInt(int64(k), 10), nil
	case int8:
		return strconv.FormatInt(int64(k), 10), nil
	case int16:
		return strconv.FormatInt(int64(k), 10), nil
	case int32:
		return strconv.FormatInt(int64(k), 10), nil
	case int64:
		return strconv.FormatInt(k, 10), nil
	case uint:
		return strconv.FormatUint(uint64(k), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(k), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(k), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(k), 10), nil
	case uint64:
		return strconv.FormatUint(k, 10), nil
	case float32:
		return strconv.FormatFloat(float64(k), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(k, 'g', -1, 64), nil
	case nil:
		return "null", nil
	default:
		return "", errors.Errorf("hashdict: cannot encode key of type %T as a JSON object key", k)
	}
}
