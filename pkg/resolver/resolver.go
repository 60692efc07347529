// Package resolver fetches a short-video page and pulls out the author's
// description together with the canonical URL reached after redirects.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

var (
	ErrInvalidURL          = errors.New("resolver: not a supported video URL")
	ErrNotAccessible       = errors.New("resolver: video page is not accessible")
	ErrDescriptionNotFound = errors.New("resolver: description not found on page")
)

const dataScriptID = "__UNIVERSAL_DATA_FOR_REHYDRATION__"

// maxPageSize bounds how much HTML is read from a single page.
const maxPageSize = 8 << 20

var allowedHosts = map[string]bool{
	"tiktok.com":     true,
	"www.tiktok.com": true,
	"m.tiktok.com":   true,
	"vm.tiktok.com":  true,
	"vt.tiktok.com":  true,
}

type Resolution struct {
	Description  string
	CanonicalURL string
}

type Resolver interface {
	Validate(rawURL string) error
	Resolve(ctx context.Context, rawURL string) (*Resolution, error)
}

type TikTokResolver struct {
	client    *http.Client
	userAgent string
}

func NewTikTokResolver(client *http.Client) *TikTokResolver {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &TikTokResolver{
		client:    client,
		userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	}
}

// Validate checks scheme and host without touching the network.
func (r *TikTokResolver) Validate(rawURL string) error {
	return ValidateURL(rawURL)
}

func ValidateURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}
	if !allowedHosts[strings.ToLower(u.Hostname())] {
		return fmt.Errorf("%w: host %q", ErrInvalidURL, u.Host)
	}
	return nil
}

func (r *TikTokResolver) Resolve(ctx context.Context, rawURL string) (*Resolution, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSpace(rawURL), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAccessible, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrNotAccessible, resp.StatusCode)
	}

	desc, err := extractDescription(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, err
	}

	return &Resolution{
		Description:  desc,
		CanonicalURL: canonical(resp.Request.URL),
	}, nil
}

// canonical drops tracking query parameters from the final URL.
func canonical(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	c.Fragment = ""
	return c.String()
}

type rehydrationData struct {
	DefaultScope map[string]json.RawMessage `json:"__DEFAULT_SCOPE__"`
}

type videoDetail struct {
	ItemInfo struct {
		ItemStruct struct {
			Desc string `json:"desc"`
		} `json:"itemStruct"`
	} `json:"itemInfo"`
}

func extractDescription(body io.Reader) (string, error) {
	script, err := findScript(body, dataScriptID)
	if err != nil {
		return "", err
	}

	var data rehydrationData
	if err := json.Unmarshal([]byte(script), &data); err != nil {
		return "", fmt.Errorf("%w: invalid page data: %v", ErrDescriptionNotFound, err)
	}
	raw, ok := data.DefaultScope["webapp.video-detail"]
	if !ok {
		return "", fmt.Errorf("%w: video details missing", ErrDescriptionNotFound)
	}

	var detail videoDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return "", fmt.Errorf("%w: invalid video details: %v", ErrDescriptionNotFound, err)
	}
	desc := strings.TrimSpace(detail.ItemInfo.ItemStruct.Desc)
	if desc == "" {
		return "", fmt.Errorf("%w: empty description", ErrDescriptionNotFound)
	}
	return desc, nil
}

// findScript returns the text content of the <script> element with the given id.
func findScript(body io.Reader, id string) (string, error) {
	z := html.NewTokenizer(body)
	inTarget := false
	var sb strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return "", fmt.Errorf("%w: data script not found", ErrDescriptionNotFound)
			}
			return "", fmt.Errorf("%w: %v", ErrNotAccessible, z.Err())
		case html.StartTagToken:
			tok := z.Token()
			if tok.Data == "script" && attr(tok, "id") == id {
				inTarget = true
			}
		case html.TextToken:
			if inTarget {
				sb.Write(z.Text())
			}
		case html.EndTagToken:
			if inTarget {
				if sb.Len() == 0 {
					return "", fmt.Errorf("%w: data script is empty", ErrDescriptionNotFound)
				}
				return sb.String(), nil
			}
		}
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
