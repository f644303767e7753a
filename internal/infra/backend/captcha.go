package backend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"telegram-storefront-bot/internal/domain/model"
	"telegram-storefront-bot/internal/domain/ports/adapter"
)

var _ adapter.ChallengeProvider = (*CaptchaClient)(nil)

const (
	captchaAnswerLen  = 6
	captchaOptionsLen = 12
)

// CaptchaClient fetches challenges from the captcha service and pads the
// correct solution with locally generated distractor answers.
type CaptchaClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewCaptchaClient(baseURL, apiKey string, timeout time.Duration) *CaptchaClient {
	return &CaptchaClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *CaptchaClient) Challenge(ctx context.Context) (model.CaptchaChallenge, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/captcha", nil)
	if err != nil {
		return model.CaptchaChallenge{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return model.CaptchaChallenge{}, fmt.Errorf("get captcha: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return model.CaptchaChallenge{}, &APIError{Status: resp.StatusCode}
	}

	var raw struct {
		Image    string `json:"image"` // base64 PNG
		Solution string `json:"solution"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return model.CaptchaChallenge{}, fmt.Errorf("decode captcha: %w", err)
	}
	img, err := base64.StdEncoding.DecodeString(raw.Image)
	if err != nil {
		return model.CaptchaChallenge{}, fmt.Errorf("decode captcha image: %w", err)
	}

	return model.CaptchaChallenge{
		Image:    img,
		Solution: raw.Solution,
		Options:  c.options(raw.Solution),
	}, nil
}

const optionAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// options returns the solution shuffled among unique random distractors.
// The dispatcher calls Challenge from concurrent workers, so only the
// lock-protected top-level rand functions are safe here.
func (c *CaptchaClient) options(solution string) []string {
	opts := []string{solution}
	seen := map[string]bool{solution: true}
	for len(opts) < captchaOptionsLen {
		b := make([]byte, captchaAnswerLen)
		for i := range b {
			b[i] = optionAlphabet[rand.Intn(len(optionAlphabet))]
		}
		opt := string(b)
		if !seen[opt] {
			seen[opt] = true
			opts = append(opts, opt)
		}
	}
	rand.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	return opts
}
