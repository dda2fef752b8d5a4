package payments

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewReference generates a unique payment reference ("QR_1724918400000_a1b2c3d4")
func NewReference() string {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("QR_%d_%s", time.Now().UnixMilli(), suffix)
}
