// Package token implements the HMAC-signed one-click unsubscribe tokens
// carried on price-tracker alert emails.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
)

// UnsubscribeSigner signs and verifies unsubscribe links. The key must be
// long-lived: rotating it invalidates every outstanding link.
type UnsubscribeSigner struct {
	secret []byte
}

func NewUnsubscribeSigner(secret string) *UnsubscribeSigner {
	return &UnsubscribeSigner{secret: []byte(secret)}
}

// Generate produces the hex HMAC-SHA256 over "trackerID:userID:productID".
func (s *UnsubscribeSigner) Generate(trackerID, userID, productID uint) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%d:%d:%d", trackerID, userID, productID)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks the token in constant time.
func (s *UnsubscribeSigner) Verify(token string, trackerID, userID, productID uint) bool {
	expected := s.Generate(trackerID, userID, productID)
	return hmac.Equal([]byte(token), []byte(expected))
}

// BuildURL assembles the public unsubscribe link for an alert email.
func (s *UnsubscribeSigner) BuildURL(baseURL string, trackerID, userID, productID uint) string {
	params := url.Values{}
	params.Set("tracker", fmt.Sprintf("%d", trackerID))
	params.Set("user", fmt.Sprintf("%d", userID))
	params.Set("product", fmt.Sprintf("%d", productID))
	params.Set("token", s.Generate(trackerID, userID, productID))
	return fmt.Sprintf("%s/trackers/unsubscribe?%s", baseURL, params.Encode())
}
