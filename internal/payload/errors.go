package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldError is one entry of a backend validation payload: a dotted path
// such as "modules.0.activities.2.title" and its messages.
type FieldError struct {
	Path     string   `json:"path"`
	Messages []string `json:"messages"`
}

// RemoteValidationError is returned by course repositories when the backend rejects a save.
// Fields keep the order in which the backend reported them.
type RemoteValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *RemoteValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("course rejected with %d field errors", len(e.Fields))
}

// ParseFieldErrors decodes a path→message(s) object, keeping key order. Both a bare object
// and the {"message": ..., "errors": {...}} envelope are accepted; values may be a string or a list.
func ParseFieldErrors(data []byte) (*RemoteValidationError, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	out := &RemoteValidationError{}
	var bare []FieldError
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		switch key {
		case "message":
			var msg string
			if err := dec.Decode(&msg); err != nil {
				return nil, fmt.Errorf("decode message: %w", err)
			}
			out.Message = msg
		case "errors":
			fields, err := readFieldObject(dec)
			if err != nil {
				return nil, err
			}
			out.Fields = append(out.Fields, fields...)
		default:
			msgs, err := readMessages(dec)
			if err != nil {
				return nil, err
			}
			bare = append(bare, FieldError{Path: key, Messages: msgs})
		}
	}
	if len(out.Fields) == 0 {
		out.Fields = bare
	}
	return out, nil
}

func readFieldObject(dec *json.Decoder) ([]FieldError, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var fields []FieldError
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		msgs, err := readMessages(dec)
		if err != nil {
			return nil, err
		}
		fields = append(fields, FieldError{Path: key, Messages: msgs})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("close errors object: %w", err)
	}
	return fields, nil
}

func readMessages(dec *json.Decoder) ([]string, error) {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var msgs []string
		if err := json.Unmarshal(raw, &msgs); err != nil {
			return nil, fmt.Errorf("decode message list: %w", err)
		}
		return msgs, nil
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		return []string{strings.Trim(string(raw), `"`)}, nil
	}
	return []string{msg}, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("read key: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("unexpected token %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
