// Package services provides business logic services
package services

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// BreachStatus is the outcome of a breach-corpus lookup
type BreachStatus string

const (
	BreachStatusSafe     BreachStatus = "safe"
	BreachStatusBreached BreachStatus = "breached"
)

const defaultBreachAPIBase = "https://api.pwnedpasswords.com/range/"

// BreachClient queries the Have I Been Pwned range API using k-anonymity:
// only the first 5 characters of the SHA-1 hash leave the process.
type BreachClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewBreachClient returns a client with production defaults
func NewBreachClient() *BreachClient {
	return &BreachClient{
		BaseURL: defaultBreachAPIBase,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// CheckPassword reports whether the password appears in the breach corpus.
// A non-nil error means the corpus could not be consulted; the caller
// decides whether that blocks the operation.
func (b *BreachClient) CheckPassword(password string) (BreachStatus, error) {
	sum := sha1.Sum([]byte(password))
	hash := strings.ToUpper(hex.EncodeToString(sum[:]))
	prefix := hash[:5]
	suffix := hash[5:]

	resp, err := b.HTTPClient.Get(b.BaseURL + prefix)
	if err != nil {
		return BreachStatusSafe, fmt.Errorf("breach API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return BreachStatusSafe, fmt.Errorf("breach API returned status %d", resp.StatusCode)
	}

	// Response is newline-separated SUFFIX:COUNT lines
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		candidate, _, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		if strings.EqualFold(candidate, suffix) {
			return BreachStatusBreached, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return BreachStatusSafe, fmt.Errorf("failed to read breach API response: %w", err)
	}

	return BreachStatusSafe, nil
}
