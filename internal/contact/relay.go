package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// DefaultEndpoint is the Web3Forms submission URL.
const DefaultEndpoint = "https://api.web3forms.com/submit"

// Sender delivers one contact message.
type Sender interface {
	Send(ctx context.Context, sub Submission) error
}

// Relay forwards messages to a Web3Forms-compatible endpoint. One call is one
// attempt; there is no retry.
type Relay struct {
	Endpoint  string
	AccessKey string
	Client    *http.Client
}

// NewRelay returns a relay for endpoint. A nil client means http.DefaultClient.
func NewRelay(endpoint, accessKey string, client *http.Client) *Relay {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Relay{Endpoint: endpoint, AccessKey: accessKey, Client: client}
}

type relayResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// Send posts the submission as multipart form data and succeeds only when the
// service answers with {"success": true}.
func (r *Relay) Send(ctx context.Context, sub Submission) error {
	body, contentType, err := encodeSubmission(r.AccessKey, sub)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, body)
	if err != nil {
		return fmt.Errorf("building relay request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to relay: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading relay response: %w", err)
	}

	var result relayResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("decoding relay response (status %d): %w", resp.StatusCode, err)
	}
	if result.Success == nil {
		return fmt.Errorf("relay response (status %d) has no success field", resp.StatusCode)
	}
	if !*result.Success {
		msg := result.Message
		if msg == "" {
			msg = "submission rejected"
		}
		return fmt.Errorf("relay rejected submission (status %d): %w", resp.StatusCode, errors.New(msg))
	}
	return nil
}

func encodeSubmission(accessKey string, sub Submission) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := []struct{ key, value string }{
		{"access_key", accessKey},
		{"name", sub.Name},
		{"email", sub.Email},
		{"subject", sub.Subject},
		{"message", sub.Message},
	}
	for _, f := range fields {
		if err := w.WriteField(f.key, f.value); err != nil {
			return nil, "", fmt.Errorf("encoding %s: %w", f.key, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
