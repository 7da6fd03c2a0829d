package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/api/response"
)

// timeTokenWindow is how long a time token stays valid. The previous window is
// accepted too, so a token lives between one and two windows.
const timeTokenWindow = 5 * time.Minute

// APIKeyMiddleware protects internal endpoints. Requests need the key from
// INTERNAL_API_KEY in X-API-Key and a fresh token from GenerateTimeToken in
// X-Time-Token. Responds 500 when no key is configured.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := os.Getenv("INTERNAL_API_KEY")
		if apiKey == "" {
			response.RespondError(w, http.StatusInternalServerError, "internal server error", "Authentication not loaded")
			return
		}

		provided := r.Header.Get("X-API-Key")
		if provided == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
			return
		}
		if !hmac.Equal([]byte(provided), []byte(apiKey)) {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
			return
		}

		token := r.Header.Get("X-Time-Token")
		if token == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
			return
		}
		if !validTimeToken(apiKey, token, time.Now()) {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GenerateTimeToken returns the token for the current time window.
func GenerateTimeToken(apiKey string) string {
	return timeToken(apiKey, window(time.Now()))
}

func validTimeToken(apiKey, token string, now time.Time) bool {
	current := window(now)
	for _, w := range []int64{current, current - 1} {
		if hmac.Equal([]byte(token), []byte(timeToken(apiKey, w))) {
			return true
		}
	}
	return false
}

func window(t time.Time) int64 {
	return t.Unix() / int64(timeTokenWindow/time.Second)
}

func timeToken(apiKey string, window int64) string {
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte(strconv.FormatInt(window, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
