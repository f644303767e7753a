//go:build !integration

package backend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"telegram-storefront-bot/internal/config"
	"telegram-storefront-bot/internal/domain"
)

func testClient(srv *httptest.Server) *Client {
	return NewClient(config.BackendConfig{
		URL:     srv.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	})
}

func TestClient_ErrorMapping(t *testing.T) {
	ctx := context.Background()

	t.Run("404 maps to the not-found sentinel", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := testClient(srv).GetUser(ctx, 42, "shop_bot")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("401 maps to the unauthorized sentinel", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		err := testClient(srv).ConfirmCaptcha(ctx, 42)
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("other statuses surface as api errors with the body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte("amount too low"))
		}))
		defer srv.Close()

		_, err := testClient(srv).CreateInvoice(ctx, "stars", 1, 42)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %v", err)
		}
		if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Body != "amount too low" {
			t.Errorf("unexpected api error: %+v", apiErr)
		}
	})

	t.Run("api key rides every request", func(t *testing.T) {
		var gotKey string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("X-API-KEY")
			_ = json.NewEncoder(w).Encode(map[string]float64{"balance": 12})
		}))
		defer srv.Close()

		if _, err := testClient(srv).GetBalance(ctx, 42); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotKey != "test-key" {
			t.Errorf("expected the api key header, got %q", gotKey)
		}
	})
}

func TestParseSettings(t *testing.T) {
	s := parseSettings(-100123, map[string]string{
		"NEW_USER_WELCOME_MESSAGE":  "Hi {username}!",
		"REFERRAL_PROGRAM_ENABLED":  "true",
		"GATEWAY_BONUS_stars":       "7.5",
		"GATEWAY_BONUS_card":        "not-a-number",
		"GATEWAY_DISPLAY_NAME_card": "Bank card",
		"UNRELATED_KEY":             "ignored",
	})

	if s.ManagerChatID != -100123 {
		t.Errorf("manager chat id lost: %d", s.ManagerChatID)
	}
	if s.WelcomeMessage != "Hi {username}!" {
		t.Errorf("welcome message lost: %q", s.WelcomeMessage)
	}
	if !s.ReferralEnabled {
		t.Error("referral flag lost")
	}
	if s.GatewayBonuses["stars"] != 7.5 {
		t.Errorf("bonus lost: %v", s.GatewayBonuses)
	}
	if _, ok := s.GatewayBonuses["card"]; ok {
		t.Error("unparsable bonus must be dropped")
	}
	if s.GatewayLabel("card") != "Bank card" {
		t.Errorf("display name lost: %q", s.GatewayLabel("card"))
	}
	if s.GatewayLabel("stars") != "stars" {
		t.Errorf("expected the raw id fallback, got %q", s.GatewayLabel("stars"))
	}
}

func TestCaptchaClient_Challenge(t *testing.T) {
	image := []byte{0x89, 0x50, 0x4e, 0x47}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/captcha" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"image":    base64.StdEncoding.EncodeToString(image),
			"solution": "7G3K2A",
		})
	}))
	defer srv.Close()

	c := NewCaptchaClient(srv.URL, "test-key", 2*time.Second)
	ch, err := c.Challenge(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(ch.Image) != string(image) {
		t.Error("image bytes mangled")
	}
	if ch.Solution != "7G3K2A" {
		t.Errorf("unexpected solution %q", ch.Solution)
	}
	if len(ch.Options) != captchaOptionsLen {
		t.Fatalf("expected %d options, got %d", captchaOptionsLen, len(ch.Options))
	}

	seen := map[string]bool{}
	found := false
	for _, opt := range ch.Options {
		if seen[opt] {
			t.Errorf("duplicate option %q", opt)
		}
		seen[opt] = true
		if opt == ch.Solution {
			found = true
		}
	}
	if !found {
		t.Error("solution missing from the options")
	}
}

// Each dispatcher worker fetches challenges independently, so option
// generation must hold up under -race with parallel callers.
func TestCaptchaClient_ChallengeConcurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"image":    base64.StdEncoding.EncodeToString([]byte{0x89}),
			"solution": "7G3K2A",
		})
	}))
	defer srv.Close()

	c := NewCaptchaClient(srv.URL, "test-key", 2*time.Second)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ch, err := c.Challenge(context.Background())
				if err != nil {
					errs <- err
					return
				}
				if len(ch.Options) != captchaOptionsLen {
					errs <- errors.New("short option set")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent challenge failed: %v", err)
	}
}
