package pipeline

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// Sign produces the time-bound credential pair the recognition provider
// expects on every request: an MD5 content hash over appID+timestamp, then an
// HMAC-SHA1 over the hash's hex form keyed by the API secret, base64 encoded.
// Deterministic for a given wall-clock second.
func Sign(appID, secret string, at time.Time) (ts, signa string, err error) {
	if secret == "" {
		return "", "", fmt.Errorf("%w: provider api secret is empty", ErrConfiguration)
	}
	ts = strconv.FormatInt(at.Unix(), 10)

	sum := md5.Sum([]byte(appID + ts))
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(hex.EncodeToString(sum[:])))

	return ts, base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
