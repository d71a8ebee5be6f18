// Package transactiondelivery manages delivery layer of transactions.
package transactiondelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pocket-ledger/internal/domain"
	"github.com/go-petr/pocket-ledger/internal/middleware"
	"github.com/go-petr/pocket-ledger/pkg/errorspkg"
	"github.com/go-petr/pocket-ledger/pkg/tokenpkg"
	"github.com/go-petr/pocket-ledger/pkg/web"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Create(ctx context.Context, owner string, arg domain.CreateTransactionParams) (domain.Transaction, error)
	Update(ctx context.Context, owner string, id int64, arg domain.UpdateTransactionParams) (domain.Transaction, error)
	BulkDelete(ctx context.Context, owner string, ids []int64) (int64, error)
	Get(ctx context.Context, owner string, id int64) (domain.Transaction, error)
	List(ctx context.Context, owner string, accountID, pageSize, pageID int32) ([]domain.Transaction, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) Handler {
	return Handler{service: ts}
}

func bindErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return err.Error()
}

func statusFromError(err error) int {
	switch err {
	case domain.ErrAccountNotFound, domain.ErrTransactionNotFound:
		return http.StatusNotFound
	case domain.ErrInvalidAmount,
		domain.ErrNegativeAmount,
		domain.ErrUnsupportedTransactionType,
		domain.ErrUnsupportedInterval:
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

type data struct {
	Transaction domain.Transaction `json:"transaction"`
}
type response struct {
	Data data `json:"data,omitempty"`
}

type transactionFields struct {
	Type              string    `json:"type" binding:"required,transactiontype"`
	Amount            string    `json:"amount" binding:"required"`
	Category          string    `json:"category" binding:"required,category"`
	Description       string    `json:"description"`
	Date              time.Time `json:"date" binding:"required"`
	IsRecurring       bool      `json:"is_recurring"`
	RecurringInterval string    `json:"recurring_interval" binding:"required_if=IsRecurring true,omitempty,interval"`
}

type createRequest struct {
	AccountID int32 `json:"account_id" binding:"required,min=1"`
	transactionFields
}

// Create handles http request to create transaction.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	arg := domain.CreateTransactionParams{
		AccountID:         req.AccountID,
		Type:              domain.TransactionType(req.Type),
		Amount:            req.Amount,
		Category:          req.Category,
		Description:       req.Description,
		Date:              req.Date,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: domain.RecurringInterval(req.RecurringInterval),
	}

	transaction, err := h.service.Create(ctx, authPayload.Username, arg)
	if err != nil {
		status := statusFromError(err)
		if status == http.StatusInternalServerError {
			err = errorspkg.ErrInternal
		}

		gctx.JSON(status, web.Error(err))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{transaction}})
}

type idRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type updateRequest struct {
	transactionFields
}

// Update handles http request to update transaction.
func (h *Handler) Update(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var uri idRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	var req updateRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	arg := domain.UpdateTransactionParams{
		Type:              domain.TransactionType(req.Type),
		Amount:            req.Amount,
		Category:          req.Category,
		Description:       req.Description,
		Date:              req.Date,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: domain.RecurringInterval(req.RecurringInterval),
	}

	transaction, err := h.service.Update(ctx, authPayload.Username, uri.ID, arg)
	if err != nil {
		status := statusFromError(err)
		if status == http.StatusInternalServerError {
			err = errorspkg.ErrInternal
		}

		gctx.JSON(status, web.Error(err))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{transaction}})
}

// Get handles http request to get transaction.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transaction, err := h.service.Get(ctx, authPayload.Username, req.ID)
	if err != nil {
		if err == domain.ErrTransactionNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{transaction}})
}

type listRequest struct {
	AccountID int32 `form:"account_id" binding:"required,min=1"`
	PageID    int32 `form:"page_id" binding:"required,min=1"`
	PageSize  int32 `form:"page_size" binding:"required,min=1,max=100"`
}

type dataTransactions struct {
	Transactions []domain.Transaction `json:"transactions"`
}
type responseTransactions struct {
	Data dataTransactions `json:"data,omitempty"`
}

// List handles http request to list an account's transactions.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transactions, err := h.service.List(ctx, authPayload.Username, req.AccountID, req.PageSize, req.PageID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, responseTransactions{Data: dataTransactions{transactions}})
}

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1,dive,min=1"`
}

type dataDeleted struct {
	Deleted int64 `json:"deleted"`
}
type responseDeleted struct {
	Data dataDeleted `json:"data,omitempty"`
}

// BulkDelete handles http request to delete a batch of transactions.
func (h *Handler) BulkDelete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req bulkDeleteRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	deleted, err := h.service.BulkDelete(ctx, authPayload.Username, req.IDs)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, responseDeleted{Data: dataDeleted{deleted}})
}
