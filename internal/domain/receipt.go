package domain

import (
	"errors"
	"time"
)

// ErrUnreadableReceipt indicates that the image could not be recognized as a receipt.
var ErrUnreadableReceipt = errors.New("unreadable receipt")

// ReceiptData is the candidate transaction payload extracted from a receipt
// image. It is only ever used as input to a subsequent transaction create and
// is validated there like any other input.
type ReceiptData struct {
	Amount       string    `json:"amount"`
	Date         time.Time `json:"date"`
	Description  string    `json:"description"`
	MerchantName string    `json:"merchant_name"`
	Category     string    `json:"category"`
}
