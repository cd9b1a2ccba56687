package visitor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Signals are the durable client characteristics a fingerprint is
// derived from. They arrive with the request (headers plus optional
// client-reported hints); none of them require cookies or login.
type Signals struct {
	UserAgent    string
	Language     string
	Platform     string
	ScreenWidth  int
	ScreenHeight int
	ScreenDepth  int
	Timezone     string
	TouchSupport bool
	Plugins      []string
	CanvasHash   string
}

// Fingerprint reduces the signals to a fixed-length hex digest. It is
// pure: same signals, same fingerprint, and it never touches storage.
func Fingerprint(s Signals) string {
	touch := "no-touch"
	if s.TouchSupport {
		touch = "touch"
	}

	values := []string{
		s.UserAgent,
		s.Language,
		s.Platform,
		fmt.Sprintf("%dx%dx%d", s.ScreenWidth, s.ScreenHeight, s.ScreenDepth),
		s.Timezone,
		touch,
		strings.Join(s.Plugins, ","),
		s.CanvasHash,
	}

	sum := sha256.Sum256([]byte(strings.Join(values, "###")))

	return hex.EncodeToString(sum[:])
}
