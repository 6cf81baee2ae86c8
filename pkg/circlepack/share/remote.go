package share

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxPayloadSize bounds how much of a remote response is read.
const maxPayloadSize = 16 << 20

// RemoteStore is a Store backed by an HTTP key-value service:
// PUT, GET and DELETE on {baseURL}/{key}, with 404 meaning not found.
type RemoteStore struct {
	baseURL string
	client  *http.Client
}

// NewRemoteStore creates a RemoteStore. A nil client uses http.DefaultClient.
func NewRemoteStore(baseURL string, client *http.Client) *RemoteStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteStore{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *RemoteStore) keyURL(key string) string {
	return s.baseURL + "/" + url.PathEscape(key)
}

// Put implements Store.
func (s *RemoteStore) Put(ctx context.Context, key string, value []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.keyURL(key), bytes.NewReader(value))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote put %s: %w", key, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadSize))

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("remote put %s: unexpected status %s", key, resp.Status)
	}
	return nil
}

// Get implements Store.
func (s *RemoteStore) Get(ctx context.Context, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.keyURL(key), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote get %s: %w", key, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode/100 != 2:
		return nil, fmt.Errorf("remote get %s: unexpected status %s", key, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return nil, fmt.Errorf("remote get %s: %w", key, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrNotFound
	}
	return body, nil
}

// Delete implements Store.
func (s *RemoteStore) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.keyURL(key), nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote delete %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remote delete %s: unexpected status %s", key, resp.Status)
	}
	return nil
}
