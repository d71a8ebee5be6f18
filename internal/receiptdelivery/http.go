// Package receiptdelivery manages delivery layer of receipt scanning.
package receiptdelivery

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pocket-ledger/internal/domain"
	"github.com/go-petr/pocket-ledger/pkg/errorspkg"
	"github.com/go-petr/pocket-ledger/pkg/web"
)

// maxReceiptSize bounds the accepted receipt image size.
const maxReceiptSize = 10 << 20 // 10 MiB

// Service provides service layer interface needed by receipt delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package receiptdelivery
type Service interface {
	Scan(ctx context.Context, image []byte, mimeType string) (domain.ReceiptData, error)
}

// Handler facilitates receipt delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns receipt handler.
func NewHandler(rs Service) Handler {
	return Handler{service: rs}
}

type data struct {
	Receipt domain.ReceiptData `json:"receipt"`
}
type response struct {
	Data data `json:"data,omitempty"`
}

// Scan handles http request to extract transaction data from a receipt image.
func (h *Handler) Scan(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	fileHeader, err := gctx.FormFile("receipt")
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: "receipt file is required"})

		return
	}

	if fileHeader.Size > maxReceiptSize {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: "receipt file is too large"})

		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	receipt, err := h.service.Scan(ctx, image, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if err == domain.ErrUnreadableReceipt {
			gctx.JSON(http.StatusUnprocessableEntity, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{receipt}})
}
