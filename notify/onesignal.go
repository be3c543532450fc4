package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultOneSignalURL = "https://onesignal.com/api/v1/notifications"

// OneSignal pushes to a subscriber segment through the REST API.
type OneSignal struct {
	AppID   string
	APIKey  string
	Segment string
	URL     string
	Client  *http.Client
}

func NewOneSignal(appID, apiKey, segment, url string) *OneSignal {
	if url == "" {
		url = defaultOneSignalURL
	}
	return &OneSignal{
		AppID:   appID,
		APIKey:  apiKey,
		Segment: segment,
		URL:     url,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (p *OneSignal) Name() string { return "onesignal" }

type oneSignalPayload struct {
	AppID            string            `json:"app_id"`
	Contents         map[string]string `json:"contents"`
	Headings         map[string]string `json:"headings"`
	IncludedSegments []string          `json:"included_segments"`
}

func (p *OneSignal) Send(ctx context.Context, n Notification) error {
	body, err := json.Marshal(oneSignalPayload{
		AppID:            p.AppID,
		Contents:         map[string]string{"en": n.Content},
		Headings:         map[string]string{"en": n.Heading},
		IncludedSegments: []string{p.Segment},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Basic "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("onesignal rejected request: %s", resp.Status)
	}
	return nil
}
