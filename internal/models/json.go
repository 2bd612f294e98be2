package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeJSON renders v as compact JSON. Mapping keys are written in
// insertion order. HTML characters are left unescaped unless escapeHTML is
// set.
func EncodeJSON(v Value, escapeHTML bool) ([]byte, error) {
	var buf bytes.Buffer
	e := &jsonEncoder{buf: &buf, escapeHTML: escapeHTML}
	if err := e.encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type jsonEncoder struct {
	buf        *bytes.Buffer
	escapeHTML bool
}

func (e *jsonEncoder) encode(v Value) error {
	switch val := v.(type) {
	case nil, Null:
		e.buf.WriteString("null")
	case Bool:
		if val {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case Number:
		if _, ok := ParseNumber(string(val)); !ok {
			return fmt.Errorf("invalid number literal %q", string(val))
		}
		e.buf.WriteString(string(val))
	case String:
		return e.encodeString(string(val))
	case Sequence:
		e.buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			if err := e.encode(item); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')
	case *Mapping:
		e.buf.WriteByte('{')
		i := 0
		for k, item := range val.All() {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			i++
			if err := e.encodeString(k); err != nil {
				return err
			}
			e.buf.WriteByte(':')
			if err := e.encode(item); err != nil {
				return err
			}
		}
		e.buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}

func (e *jsonEncoder) encodeString(s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(e.escapeHTML)
	if err := enc.Encode(s); err != nil {
		return err
	}
	e.buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
