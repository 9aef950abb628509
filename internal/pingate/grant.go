package pingate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Grant is a short-lived capability proving recent knowledge of an event's
// PIN. It carries no identity and is held client-side; expiry is enforced
// by the grant itself, not by server state.
type Grant struct {
	Token     string    `json:"grant"`
	ExpiresAt time.Time `json:"expires_at"`
}

func mintGrant(secret []byte, eventID snowflake.ID, expiresAt time.Time) Grant {
	payload := fmt.Sprintf("%s.%d", eventID.String(), expiresAt.Unix())
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(payload))
	token := base64.RawURLEncoding.EncodeToString([]byte(payload + "." + hex.EncodeToString(mac.Sum(nil))))
	return Grant{Token: token, ExpiresAt: expiresAt}
}

func verifyGrant(secret []byte, eventID snowflake.ID, token string, now time.Time) bool {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return false
	}
	parts := strings.Split(string(raw), ".")
	if len(parts) != 3 {
		return false
	}
	if parts[0] != eventID.String() {
		return false
	}
	expiry, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || now.Unix() > expiry {
		return false
	}

	payload := parts[0] + "." + parts[1]
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(parts[2]), []byte(expected))
}
