// Package budgetdelivery manages delivery layer of budgets.
package budgetdelivery

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

// Service provides service layer interface needed by budget delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package budgetdelivery
type Service interface {
	Get(ctx context.Context, owner string, now time.Time) (domain.BudgetUsage, error)
	Set(ctx context.Context, owner, amount string) (domain.Budget, error)
}

// Handler facilitates budget delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns budget handler.
func NewHandler(bs Service) Handler {
	return Handler{service: bs}
}

func bindErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return err.Error()
}

type usageResponse struct {
	Data domain.BudgetUsage `json:"data,omitempty"`
}

// Get handles http request to get the budget with the current month's expenses.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	usage, err := h.service.Get(ctx, authPayload.Username, time.Now().UTC())
	if err != nil {
		switch err {
		case domain.ErrBudgetNotFound, domain.ErrNoDefaultAccount:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, usageResponse{Data: usage})
}

type setRequest struct {
	Amount string `json:"amount" binding:"required"`
}

type data struct {
	Budget domain.Budget `json:"budget"`
}
type response struct {
	Data data `json:"data,omitempty"`
}

// Set handles http request to create or replace the budget.
func (h *Handler) Set(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req setRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	budget, err := h.service.Set(ctx, authPayload.Username, req.Amount)
	if err != nil {
		switch err {
		case domain.ErrInvalidAmount, domain.ErrNegativeAmount:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{budget}})
}
