// Package share encodes datasets into URL tokens and persists them behind a
// key-value storage port. Sharing is a best-effort cache, not a system of record.
package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/ukaji3/circlepack-go/pkg/circlepack/models"
)

// Payload is the content of a share token.
type Payload struct {
	Org    models.HierarchyNode   `json:"org"`
	People []models.AssignmentRow `json:"people"`
	Name   string                 `json:"name"`
}

// DecodeError reports a corrupted or invalid share token.
type DecodeError struct {
	Step string // "base64", "unescape", "json", "validate"
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("corrupted or invalid link (%s): %v", e.Step, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

var errMissingOrg = errors.New("missing org")

// EncodeToken serializes a payload as base64(percent-encode(JSON)).
func EncodeToken(p Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding share payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString([]byte(url.QueryEscape(string(data)))), nil
}

// DecodeToken reverses EncodeToken. It accepts standard and URL-safe base64
// and never returns a partially decoded payload.
func DecodeToken(token string) (Payload, error) {
	raw, err := decodeBase64(token)
	if err != nil {
		return Payload{}, &DecodeError{Step: "base64", Err: err}
	}

	text, err := url.QueryUnescape(string(raw))
	if err != nil {
		return Payload{}, &DecodeError{Step: "unescape", Err: err}
	}

	var probe struct {
		Org json.RawMessage `json:"org"`
	}
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return Payload{}, &DecodeError{Step: "json", Err: err}
	}
	if len(probe.Org) == 0 || bytes.Equal(probe.Org, []byte("null")) {
		return Payload{}, &DecodeError{Step: "validate", Err: errMissingOrg}
	}

	var p Payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return Payload{}, &DecodeError{Step: "json", Err: err}
	}
	return p, nil
}

func decodeBase64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.URLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawURLEncoding.DecodeString(s)
}
