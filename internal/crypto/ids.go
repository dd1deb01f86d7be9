package crypto

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

func NewUserID() string {
	return uuid.NewString()
}

// NewCode builds a human-facing code such as SV1718000000000A1B2.
func NewCode(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return prefix + strconv.FormatInt(now.UnixMilli(), 10) + suffix
}
