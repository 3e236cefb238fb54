package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateID returns a creation-time-sortable id: unix milliseconds plus a
// short random suffix, e.g. "1765379112345-9f3a1c2b". Used for tournaments and
// blog posts so listings ordered by id roughly match creation order.
func GenerateID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}
