// Package mercadopago is a thin client for the Mercado Pago public card
// tokenization API. Raw card data goes only to the gateway; the application
// backend only ever sees the resulting one-time token.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultBaseURL = "https://api.mercadopago.com"
	maxRetries     = 3
	initialDelay   = 1 * time.Second
)

// CardData is the raw card input collected from the user.
type CardData struct {
	Number               string
	HolderName           string
	Expiry               string // MM/AA or MM/AAAA
	CVV                  string
	IdentificationType   string // CPF, CNPJ
	IdentificationNumber string
}

// Token is a one-time-use card reference issued by the gateway.
type Token struct {
	ID             string
	FirstSixDigits string
	LastFourDigits string
}

type tokenRequest struct {
	CardNumber      string     `json:"card_number"`
	SecurityCode    string     `json:"security_code"`
	ExpirationMonth int        `json:"expiration_month"`
	ExpirationYear  int        `json:"expiration_year"`
	Cardholder      cardholder `json:"cardholder"`
}

type cardholder struct {
	Name           string          `json:"name"`
	Identification *identification `json:"identification,omitempty"`
}

type identification struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type tokenResponse struct {
	ID             string `json:"id"`
	FirstSixDigits string `json:"first_six_digits"`
	LastFourDigits string `json:"last_four_digits"`
}

type apiError struct {
	Message string `json:"message"`
	Cause   []struct {
		Code        any    `json:"code"`
		Description string `json:"description"`
	} `json:"cause"`
}

// Tokenizer creates card tokens via the gateway's public endpoint. The public
// key is supplied by the application backend, never hardcoded.
type Tokenizer struct {
	baseURL string
	client  *http.Client
}

// NewTokenizer creates a tokenization client. baseURL may be empty to use the
// production gateway.
func NewTokenizer(baseURL string) *Tokenizer {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Tokenizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateCardToken exchanges raw card data for a one-time token.
func (t *Tokenizer) CreateCardToken(ctx context.Context, publicKey string, card CardData) (*Token, error) {
	if publicKey == "" {
		return nil, fmt.Errorf("mercadopago: public key not provided")
	}

	month, year, err := ParseExpiry(card.Expiry)
	if err != nil {
		return nil, err
	}

	req := tokenRequest{
		CardNumber:      strings.ReplaceAll(card.Number, " ", ""),
		SecurityCode:    card.CVV,
		ExpirationMonth: month,
		ExpirationYear:  year,
		Cardholder:      cardholder{Name: card.HolderName},
	}
	if card.IdentificationType != "" && card.IdentificationNumber != "" {
		req.Cardholder.Identification = &identification{
			Type:   card.IdentificationType,
			Number: card.IdentificationNumber,
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: failed to marshal request: %w", err)
	}

	endpoint := t.baseURL + "/v1/card_tokens?public_key=" + url.QueryEscape(publicKey)

	// Retry with exponential backoff on rate limit and server errors only.
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * initialDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("mercadopago: failed to create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("X-Idempotency-Key", "token-"+uuid.NewString())

		resp, err := t.client.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("mercadopago: request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("mercadopago: failed to read response: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			lastErr = tokenError(resp.StatusCode, respBody)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return nil, lastErr
		}

		var tokenResp tokenResponse
		if err := json.Unmarshal(respBody, &tokenResp); err != nil {
			return nil, fmt.Errorf("mercadopago: failed to decode response: %w", err)
		}
		if tokenResp.ID == "" {
			return nil, fmt.Errorf("mercadopago: empty token in response")
		}

		return &Token{
			ID:             tokenResp.ID,
			FirstSixDigits: tokenResp.FirstSixDigits,
			LastFourDigits: tokenResp.LastFourDigits,
		}, nil
	}

	return nil, fmt.Errorf("mercadopago: max retries (%d) exceeded: %w", maxRetries, lastErr)
}

func tokenError(status int, body []byte) error {
	var vendorErr apiError
	if json.Unmarshal(body, &vendorErr) == nil {
		msg := vendorErr.Message
		if len(vendorErr.Cause) > 0 && vendorErr.Cause[0].Description != "" {
			msg = vendorErr.Cause[0].Description
		}
		if msg != "" {
			return fmt.Errorf("mercadopago: tokenization failed (%d): %s", status, msg)
		}
	}
	return fmt.Errorf("mercadopago: tokenization failed (%d): %s", status, string(body))
}

// ParseExpiry parses MM/AA or MM/AAAA. Two-digit years are taken as 20xx.
func ParseExpiry(expiry string) (month, year int, err error) {
	parts := strings.Split(strings.TrimSpace(expiry), "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("mercadopago: invalid expiry %q, want MM/AA", expiry)
	}
	month, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("mercadopago: invalid expiry month %q", parts[0])
	}
	year, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("mercadopago: invalid expiry year %q", parts[1])
	}
	if year < 100 {
		year += 2000
	}
	return month, year, nil
}
