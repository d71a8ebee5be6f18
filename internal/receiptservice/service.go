// Package receiptservice extracts candidate transaction data from receipt images.
package receiptservice

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pocket-ledger/internal/domain"
	"github.com/go-petr/pocket-ledger/pkg/categorypkg"
)

// scanPrompt asks the model for a strict JSON payload so the response can be
// decoded without any post-processing beyond fence stripping.
const scanPrompt = `
Analyze this receipt image and extract the following information in JSON format:
- Total amount (just the number)
- Date (in ISO format)
- Description or items purchased (brief summary)
- Merchant/store name
- Suggested category (one of: Housing,Transportation,Groceries,Utilities,Entertainment,Food,Shopping,Healthcare,Education,Personal,Travel,Insurance,Gifts,Bills,Other-expense)

Only respond with valid JSON in this exact format:
{
  "amount": number,
  "date": "ISO date string",
  "description": "string",
  "merchantName": "string",
  "category": "string"
}
Respond ONLY with valid JSON. Do NOT include any text, explanation, or markdown.
If it is not a receipt, return an empty object.
`

// ImageAnalyzer provides the generative model interface needed by the receipt service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package receiptservice
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, image []byte, mimeType, prompt string) (string, error)
}

// Service facilitates receipt service layer logic.
type Service struct {
	model ImageAnalyzer
}

// New returns receipt service struct to manage receipt scanning.
func New(model ImageAnalyzer) *Service {
	return &Service{model: model}
}

type scanResponse struct {
	Amount       json.Number `json:"amount"`
	Date         string      `json:"date"`
	Description  string      `json:"description"`
	MerchantName string      `json:"merchantName"`
	Category     string      `json:"category"`
}

// stripFences removes markdown code fences the model sometimes wraps the JSON in.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")

	return strings.TrimSpace(s)
}

// Scan sends the receipt image to the model and returns the extracted
// candidate transaction data. The result is never trusted beyond being input
// to a subsequent transaction create.
func (s *Service) Scan(ctx context.Context, image []byte, mimeType string) (domain.ReceiptData, error) {
	l := zerolog.Ctx(ctx)

	text, err := s.model.AnalyzeImage(ctx, image, mimeType, scanPrompt)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.ReceiptData{}, err
	}

	var res scanResponse
	if err := json.Unmarshal([]byte(stripFences(text)), &res); err != nil {
		l.Info().Err(err).Str("response", text).Send()
		return domain.ReceiptData{}, domain.ErrUnreadableReceipt
	}

	if res.Amount == "" {
		return domain.ReceiptData{}, domain.ErrUnreadableReceipt
	}

	amount, err := decimal.NewFromString(res.Amount.String())
	if err != nil || amount.IsNegative() {
		return domain.ReceiptData{}, domain.ErrUnreadableReceipt
	}

	date, err := parseDate(res.Date)
	if err != nil {
		l.Info().Err(err).Str("date", res.Date).Send()
		return domain.ReceiptData{}, domain.ErrUnreadableReceipt
	}

	// The model occasionally invents categories; map those to Other-expense.
	if !categorypkg.IsSupportedCategory(res.Category) {
		res.Category = categorypkg.OtherExpense
	}

	return domain.ReceiptData{
		Amount:       amount.String(),
		Date:         date,
		Description:  res.Description,
		MerchantName: res.MerchantName,
		Category:     res.Category,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", s)
}
