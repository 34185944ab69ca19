package arknights

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	u8SignKey        = "91240f70c09a08a6bc72af1a5c8d4670"
	yostarSignSecret = "886c085e4a8d30a703367b120dd8353948405ec2"

	yostarChannel  = "googleplay"
	yostarPlatform = "android"
	yostarVersion  = "4.10.0"
	deviceModel    = "KB2000"
)

// U8Sign computes the gateway signature over a flat payload: entries sorted
// by key, serialized as a form-encoded query string, HMAC-SHA1 with the fixed
// key, lowercase hex.
func U8Sign(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(values[k]))
	}

	mac := hmac.New(sha1.New, []byte(u8SignKey))
	mac.Write([]byte(b.String()))
	return hex.EncodeToString(mac.Sum(nil))
}

// yostarHead is the fixed-shape header object embedded in the client-header
// signature. Field order matters: the canonical form is the marshaled JSON
// with all commas stripped, so emission order must be stable.
type yostarHead struct {
	PID         string `json:"PID"`
	Channel     string `json:"Channel"`
	Platform    string `json:"Platform"`
	Version     string `json:"Version"`
	Lang        string `json:"Lang"`
	DeviceID    string `json:"DeviceID"`
	DeviceModel string `json:"DeviceModel"`
	UID         string `json:"UID"`
	Token       string `json:"Token"`
	Time        int64  `json:"Time"`
}

type yostarAuthorization struct {
	Head yostarHead `json:"Head"`
	Sign string     `json:"Sign"`
}

// yostarAuthHeader builds the Authorization header value for a signed request:
// MD5 over canonical-header + body + shared secret, uppercase hex, wrapped in
// a comma-stripped {Head, Sign} envelope. The signature embeds the current
// wall-clock second, so it must be generated immediately before dispatch.
func yostarAuthHeader(body string, region Region, uid, token, deviceID string, now time.Time) string {
	if deviceID == "" {
		deviceID = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	head := yostarHead{
		PID:         productID(region),
		Channel:     yostarChannel,
		Platform:    yostarPlatform,
		Version:     yostarVersion,
		Lang:        language(region),
		DeviceID:    deviceID,
		DeviceModel: deviceModel,
		UID:         uid,
		Token:       token,
		Time:        now.Unix(),
	}

	headJSON, _ := json.Marshal(head)
	canonical := strings.ReplaceAll(string(headJSON), ",", "")

	sum := md5.Sum([]byte(canonical + body + yostarSignSecret))
	sign := strings.ToUpper(hex.EncodeToString(sum[:]))

	wrapped, _ := json.Marshal(yostarAuthorization{Head: head, Sign: sign})
	return strings.ReplaceAll(string(wrapped), ",", "")
}
