// Package license verifies purchase license keys against the Gumroad API.
package license

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAPIURL  = "https://api.gumroad.com/v2/licenses/verify"
	defaultTimeout = 15 * time.Second

	minKeyLength = 10

	purchaseURL = "https://blazestudiox.gumroad.com/l/starter"
)

// Verification is the outcome of one license check. ProductID identifies
// the tier product the key belongs to when Valid is true.
type Verification struct {
	Valid     bool
	Message   string
	ProductID string
}

// Verifier checks a license key. Implementations never return an error;
// failures surface as an invalid Verification with a caller-facing message.
type Verifier interface {
	Verify(ctx context.Context, licenseKey string) Verification
}

// Product binds a tier name to its Gumroad product ID.
type Product struct {
	Tier string
	ID   string
}

// GumroadVerifier checks a key against every configured tier product in
// order, accepting the first product that recognizes it.
type GumroadVerifier struct {
	client   *http.Client
	apiURL   string
	products []Product
}

// NewGumroadVerifier builds a verifier over the given tier products. At
// least one product is required.
func NewGumroadVerifier(products []Product, client *http.Client) (*GumroadVerifier, error) {
	if len(products) == 0 {
		return nil, errors.New("gumroad verifier: no product IDs configured")
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &GumroadVerifier{
		client:   client,
		apiURL:   defaultAPIURL,
		products: products,
	}, nil
}

type verifyResponse struct {
	Success  bool `json:"success"`
	Purchase struct {
		Refunded     bool `json:"refunded"`
		Chargebacked bool `json:"chargebacked"`
	} `json:"purchase"`
}

// Verify checks the key against each configured product. A refunded or
// chargebacked purchase is rejected even though Gumroad reports success.
func (v *GumroadVerifier) Verify(ctx context.Context, licenseKey string) Verification {
	if len(licenseKey) < minKeyLength {
		return Verification{Message: "Invalid license key format"}
	}

	for _, product := range v.products {
		resp, err := v.checkProduct(ctx, product.ID, licenseKey)
		if err != nil {
			if isTimeout(err) {
				return Verification{Message: "License verification timeout. Please try again"}
			}
			return Verification{Message: "License verification failed"}
		}
		if resp == nil {
			continue
		}
		if resp.Purchase.Refunded {
			return Verification{Message: "License key has been refunded"}
		}
		if resp.Purchase.Chargebacked {
			return Verification{Message: "License key has been chargebacked"}
		}
		return Verification{Valid: true, ProductID: product.ID}
	}

	return Verification{Message: fmt.Sprintf("Invalid license key. Purchase at %s", purchaseURL)}
}

// checkProduct returns nil with no error when the product simply does not
// recognize the key.
func (v *GumroadVerifier) checkProduct(ctx context.Context, productID, licenseKey string) (*verifyResponse, error) {
	form := url.Values{}
	form.Set("product_id", productID)
	form.Set("license_key", licenseKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gumroad request: %w", err)
	}
	defer resp.Body.Close()

	var decoded verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode gumroad response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !decoded.Success {
		return nil, nil
	}
	return &decoded, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) {
		return timeout.Timeout()
	}
	return false
}

var _ Verifier = (*GumroadVerifier)(nil)
