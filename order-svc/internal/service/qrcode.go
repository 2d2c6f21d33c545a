package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(orderID int) ([]byte, error) {
	qrData := fmt.Sprintf("%s/orders/%d/rate", strings.TrimRight(g.BaseURL, "/"), orderID)
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}
