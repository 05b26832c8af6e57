package order

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderNo produces ORD-YYYYMMDD-<6 random base36>. The suffix is not
// probed for uniqueness; the orders.order_no UNIQUE constraint backstops the
// (practically impossible) collision.
func GenerateOrderNo(now time.Time) string {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteByte(base36[rand.Intn(len(base36))])
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), b.String())
}

// GenerateRefCode builds the payment audit token: method plus capture time in
// unix milliseconds.
func GenerateRefCode(method string, now time.Time) string {
	return fmt.Sprintf("%s-%d", method, now.UnixMilli())
}
