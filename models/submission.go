package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
)

// FormType identifies which enquiry form produced a submission.
type FormType string

const (
	FormWedding FormType = "wedding"
	FormStay    FormType = "stay"
	FormEvents  FormType = "events"
	FormContact FormType = "contact"
	FormDining  FormType = "dining"
)

// FormTypes lists every accepted form type.
var FormTypes = []FormType{FormWedding, FormStay, FormEvents, FormContact, FormDining}

func (f FormType) Valid() bool {
	switch f {
	case FormWedding, FormStay, FormEvents, FormContact, FormDining:
		return true
	}
	return false
}

// Field keys with a fixed meaning across every form.
const (
	FieldFormType = "formType"
	FieldFullName = "fullName"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldMessage  = "message"
	FieldConsent  = "consent"
)

var (
	// ErrNotObject is returned when a request body is valid JSON but not an object.
	ErrNotObject = errors.New("submission must be a JSON object")
	// ErrTrailingData is returned when anything but whitespace follows the object.
	ErrTrailingData = errors.New("unexpected data after submission object")
)

type Field struct {
	Key   string
	Value string
}

// Submission is one enquiry as posted by a form. Field order follows the
// order of the incoming JSON object. It is not modified after decoding.
type Submission struct {
	fields *orderedmap.OrderedMap[string, string]
}

func NewSubmission(fields ...Field) *Submission {
	m := orderedmap.NewOrderedMap[string, string]()
	for _, f := range fields {
		m.Set(f.Key, f.Value)
	}
	return &Submission{fields: m}
}

// ParseSubmission decodes a single JSON object from r.
func ParseSubmission(r io.Reader) (*Submission, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read submission: %w", err)
	}
	s := &Submission{}
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Submission) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to decode submission: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}

	fields := orderedmap.NewOrderedMap[string, string]()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to decode submission key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return ErrNotObject
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("failed to decode field %q: %w", key, err)
		}
		value, err := stringify(raw)
		if err != nil {
			return fmt.Errorf("failed to decode field %q: %w", key, err)
		}
		fields.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to decode submission: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}

	s.fields = fields
	return nil
}

// stringify flattens a JSON value into the text shown in notices.
func stringify(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case 'n':
		return "", nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return "", err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			v, err := stringify(item)
			if err != nil {
				return "", err
			}
			if v != "" {
				parts = append(parts, v)
			}
		}
		return strings.Join(parts, ", "), nil
	case '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		// numbers and booleans keep their literal text
		return string(raw), nil
	}
}

// Get returns the value stored under key, or "" when absent.
func (s *Submission) Get(key string) string {
	if s == nil || s.fields == nil {
		return ""
	}
	v, _ := s.fields.Get(key)
	return v
}

func (s *Submission) FormType() FormType { return FormType(s.Get(FieldFormType)) }
func (s *Submission) FullName() string   { return s.Get(FieldFullName) }
func (s *Submission) Email() string      { return strings.TrimSpace(s.Get(FieldEmail)) }
func (s *Submission) Phone() string      { return s.Get(FieldPhone) }
func (s *Submission) Message() string    { return s.Get(FieldMessage) }

func (s *Submission) Len() int {
	if s == nil || s.fields == nil {
		return 0
	}
	return s.fields.Len()
}

// Fields yields every key/value pair in submission order.
func (s *Submission) Fields() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if s == nil || s.fields == nil {
			return
		}
		for k, v := range s.fields.AllFromFront() {
			if !yield(k, v) {
				return
			}
		}
	}
}
