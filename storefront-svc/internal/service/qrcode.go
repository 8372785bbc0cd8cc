package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID int) ([]byte, error)
}

// PickupQRGenerator encodes the pickup link restaurant staff scan at the counter.
type PickupQRGenerator struct {
	BaseURL string
	Size    int
}

func (g PickupQRGenerator) Generate(orderID int) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(g.PickupURL(orderID), qrcode.Medium, size)
}

func (g PickupQRGenerator) PickupURL(orderID int) string {
	return fmt.Sprintf("%s/orders/%d/pickup", g.BaseURL, orderID)
}
