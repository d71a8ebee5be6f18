package transactiondelivery

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/golang/mock/gomock"

	"github.com/go-petr/pocket-ledger/internal/domain"
	"github.com/go-petr/pocket-ledger/internal/middleware"
	"github.com/go-petr/pocket-ledger/pkg/categorypkg"
	"github.com/go-petr/pocket-ledger/pkg/errorspkg"
	"github.com/go-petr/pocket-ledger/pkg/randompkg"
	"github.com/go-petr/pocket-ledger/pkg/tokenpkg"
	"github.com/go-petr/pocket-ledger/pkg/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("transactiontype", ValidTransactionType); err != nil {
			panic(err)
		}

		if err := v.RegisterValidation("interval", ValidInterval); err != nil {
			panic(err)
		}

		if err := v.RegisterValidation("category", categorypkg.ValidCategory); err != nil {
			panic(err)
		}
	}

	os.Exit(m.Run())
}

func randomTransaction(owner string, accountID int32) domain.Transaction {
	return domain.Transaction{
		ID:          randompkg.Intn(1000) + 1,
		Owner:       owner,
		AccountID:   accountID,
		Type:        domain.TransactionTypeExpense,
		Amount:      randompkg.MoneyAmountBetween(10, 100),
		Category:    categorypkg.Groceries,
		Description: "weekly groceries",
		Date:        randompkg.Date(),
		CreatedAt:   time.Now().Truncate(time.Second).UTC(),
	}
}

type requestBody struct {
	AccountID         int32     `json:"account_id,omitempty"`
	Type              string    `json:"type"`
	Amount            string    `json:"amount"`
	Category          string    `json:"category"`
	Description       string    `json:"description"`
	Date              time.Time `json:"date"`
	IsRecurring       bool      `json:"is_recurring"`
	RecurringInterval string    `json:"recurring_interval,omitempty"`
}

func requestFromTransaction(transaction domain.Transaction) requestBody {
	return requestBody{
		AccountID:         transaction.AccountID,
		Type:              string(transaction.Type),
		Amount:            transaction.Amount,
		Category:          transaction.Category,
		Description:       transaction.Description,
		Date:              transaction.Date,
		IsRecurring:       transaction.IsRecurring,
		RecurringInterval: string(transaction.RecurringInterval),
	}
}

func TestCreate(t *testing.T) {
	username := randompkg.Owner()
	transaction := randomTransaction(username, 1)
	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	authType := middleware.AuthTypeBearer
	duration := time.Minute

	createArg := domain.CreateTransactionParams{
		AccountID:   transaction.AccountID,
		Type:        transaction.Type,
		Amount:      transaction.Amount,
		Category:    transaction.Category,
		Description: transaction.Description,
		Date:        transaction.Date,
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		setupAuth      func(t *testing.T, r *http.Request) error
		buildStubs     func(transactionService *MockService)
		wantStatusCode int
		wantError      string
		checkData      func(data any)
	}{
		{
			name:        "OK",
			requestBody: requestFromTransaction(transaction),
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Create(gomock.Any(), gomock.Eq(username), gomock.Eq(createArg)).
					Times(1).
					Return(transaction, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData: func(data any) {
				got, ok := data.(*struct {
					Transaction domain.Transaction `json:"transaction"`
				})
				if !ok {
					t.Errorf(`res.Data=%v, failed type conversion`, data)
				}

				compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
				if diff := cmp.Diff(transaction, got.Transaction, compareCreatedAt); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "OKRecurring",
			requestBody: func() requestBody {
				req := requestFromTransaction(transaction)
				req.IsRecurring = true
				req.RecurringInterval = string(domain.IntervalMonthly)

				return req
			}(),
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				arg := createArg
				arg.IsRecurring = true
				arg.RecurringInterval = domain.IntervalMonthly

				transactionService.EXPECT().
					Create(gomock.Any(), gomock.Eq(username), gomock.Eq(arg)).
					Times(1).
					Return(transaction, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData:      func(data any) {},
		},
		{
			name:        "NoAuthorization",
			requestBody: requestFromTransaction(transaction),
			setupAuth: func(t *testing.T, r *http.Request) error {
				return nil
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      middleware.ErrAuthHeaderNotFound.Error(),
		},
		{
			name: "MissingAccountID",
			requestBody: func() requestBody {
				req := requestFromTransaction(transaction)
				req.AccountID = 0

				return req
			}(),
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "AccountID field is required",
		},
		{
			name: "UnsupportedType",
			requestBody: func() requestBody {
				req := requestFromTransaction(transaction)
				req.Type = "TRANSFER"

				return req
			}(),
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Type field must be one of INCOME or EXPENSE",
		},
		{
			name: "UnsupportedCategory",
			requestBody: func() requestBody {
				req := requestFromTransaction(transaction)
				req.Category = "Lobbying"

				return req
			}(),
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Category field must be a supported category",
		},
		{
			name: "UnsupportedInterval",
			requestBody: func() requestBody {
				req := requestFromTransaction(transaction)
				req.IsRecurring = true
				req.RecurringInterval = "FORTNIGHTLY"

				return req
			}(),
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "RecurringInterval field must be one of DAILY, WEEKLY, MONTHLY or YEARLY",
		},
		{
			name:        "ErrAccountNotFound",
			requestBody: requestFromTransaction(transaction),
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Create(gomock.Any(), gomock.Eq(username), gomock.Eq(createArg)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name:        "ErrInvalidAmount",
			requestBody: requestFromTransaction(transaction),
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Create(gomock.Any(), gomock.Eq(username), gomock.Eq(createArg)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrInvalidAmount)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidAmount.Error(),
		},
		{
			name:        "InternalError",
			requestBody: requestFromTransaction(transaction),
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Create(gomock.Any(), gomock.Eq(username), gomock.Eq(createArg)).
					Times(1).
					Return(domain.Transaction{}, sql.ErrConnDone)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Initialize mocks
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			transactionService := NewMockService(ctrl)
			transactionHandler := NewHandler(transactionService)

			server := gin.New()
			server.Use(middleware.AuthMiddleware(tokenMaker))
			server.POST("/transactions", transactionHandler.Create)

			tc.buildStubs(transactionService)

			// Send request
			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err = tc.setupAuth(t, req); err != nil {
				t.Fatalf("tc.setupAuth(t, %+v) returned error: %v", req, err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			// Test response
			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{
				Data: &struct {
					Transaction domain.Transaction `json:"transaction"`
				}{},
			}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
				}
			} else {
				tc.checkData(res.Data)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	username := randompkg.Owner()
	transaction := randomTransaction(username, 1)
	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	authType := middleware.AuthTypeBearer
	duration := time.Minute

	body := requestFromTransaction(transaction)
	body.AccountID = 0

	updateArg := domain.UpdateTransactionParams{
		Type:        transaction.Type,
		Amount:      transaction.Amount,
		Category:    transaction.Category,
		Description: transaction.Description,
		Date:        transaction.Date,
	}

	testCases := []struct {
		name           string
		transactionID  int64
		requestBody    requestBody
		setupAuth      func(t *testing.T, r *http.Request) error
		buildStubs     func(transactionService *MockService)
		wantStatusCode int
		wantError      string
		checkData      func(data any)
	}{
		{
			name:          "OK",
			transactionID: transaction.ID,
			requestBody:   body,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Update(gomock.Any(), gomock.Eq(username), gomock.Eq(transaction.ID), gomock.Eq(updateArg)).
					Times(1).
					Return(transaction, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData: func(data any) {
				got, ok := data.(*struct {
					Transaction domain.Transaction `json:"transaction"`
				})
				if !ok {
					t.Errorf(`res.Data=%v, failed type conversion`, data)
				}

				compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
				if diff := cmp.Diff(transaction, got.Transaction, compareCreatedAt); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:          "NoAuthorization",
			transactionID: transaction.ID,
			requestBody:   body,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return nil
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      middleware.ErrAuthHeaderNotFound.Error(),
		},
		{
			name:          "InvalidID",
			transactionID: -1,
			requestBody:   body,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "ID field must be greater or equal to 1",
		},
		{
			name:          "MissingAmount",
			transactionID: transaction.ID,
			requestBody: func() requestBody {
				req := body
				req.Amount = ""

				return req
			}(),
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Amount field is required",
		},
		{
			name:          "ErrTransactionNotFound",
			transactionID: transaction.ID,
			requestBody:   body,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Update(gomock.Any(), gomock.Eq(username), gomock.Eq(transaction.ID), gomock.Eq(updateArg)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrTransactionNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrTransactionNotFound.Error(),
		},
		{
			name:          "InternalError",
			transactionID: transaction.ID,
			requestBody:   body,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Update(gomock.Any(), gomock.Eq(username), gomock.Eq(transaction.ID), gomock.Eq(updateArg)).
					Times(1).
					Return(domain.Transaction{}, sql.ErrConnDone)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Initialize mocks
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			transactionService := NewMockService(ctrl)
			transactionHandler := NewHandler(transactionService)

			server := gin.New()
			server.Use(middleware.AuthMiddleware(tokenMaker))
			server.PATCH("/transactions/:id", transactionHandler.Update)

			tc.buildStubs(transactionService)

			// Send request
			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			url := fmt.Sprintf("/transactions/%d", tc.transactionID)
			req, err := http.NewRequest(http.MethodPatch, url, bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err = tc.setupAuth(t, req); err != nil {
				t.Fatalf("tc.setupAuth(t, %+v) returned error: %v", req, err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			// Test response
			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{
				Data: &struct {
					Transaction domain.Transaction `json:"transaction"`
				}{},
			}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
				}
			} else {
				tc.checkData(res.Data)
			}
		})
	}
}

func TestGet(t *testing.T) {
	username := randompkg.Owner()
	transaction := randomTransaction(username, 1)
	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	authType := middleware.AuthTypeBearer
	duration := time.Minute

	testCases := []struct {
		name           string
		transactionID  int64
		setupAuth      func(t *testing.T, r *http.Request) error
		buildStubs     func(transactionService *MockService)
		wantStatusCode int
		wantError      string
		checkData      func(data any)
	}{
		{
			name:          "OK",
			transactionID: transaction.ID,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Get(gomock.Any(), gomock.Eq(username), gomock.Eq(transaction.ID)).
					Times(1).
					Return(transaction, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData: func(data any) {
				got, ok := data.(*struct {
					Transaction domain.Transaction `json:"transaction"`
				})
				if !ok {
					t.Errorf(`res.Data=%v, failed type conversion`, data)
				}

				compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
				if diff := cmp.Diff(transaction, got.Transaction, compareCreatedAt); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:          "NoAuthorization",
			transactionID: transaction.ID,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return nil
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      middleware.ErrAuthHeaderNotFound.Error(),
		},
		{
			name:          "InvalidID",
			transactionID: -1,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "ID field must be greater or equal to 1",
		},
		{
			name:          "ErrTransactionNotFound",
			transactionID: transaction.ID,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Get(gomock.Any(), gomock.Eq(username), gomock.Eq(transaction.ID)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrTransactionNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrTransactionNotFound.Error(),
		},
		{
			name:          "InternalError",
			transactionID: transaction.ID,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					Get(gomock.Any(), gomock.Eq(username), gomock.Eq(transaction.ID)).
					Times(1).
					Return(domain.Transaction{}, sql.ErrConnDone)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Initialize mocks
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			transactionService := NewMockService(ctrl)
			transactionHandler := NewHandler(transactionService)

			server := gin.New()
			server.Use(middleware.AuthMiddleware(tokenMaker))
			server.GET("/transactions/:id", transactionHandler.Get)

			tc.buildStubs(transactionService)

			// Send request
			url := fmt.Sprintf("/transactions/%d", tc.transactionID)
			req, err := http.NewRequest(http.MethodGet, url, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err = tc.setupAuth(t, req); err != nil {
				t.Fatalf("tc.setupAuth(t, %+v) returned error: %v", req, err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			// Test response
			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{
				Data: &struct {
					Transaction domain.Transaction `json:"transaction"`
				}{},
			}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
				}
			} else {
				tc.checkData(res.Data)
			}
		})
	}
}

func TestList(t *testing.T) {
	username := randompkg.Owner()
	accountID := int32(1)
	transactions := []domain.Transaction{
		randomTransaction(username, accountID),
		randomTransaction(username, accountID),
	}
	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	authType := middleware.AuthTypeBearer
	duration := time.Minute

	testCases := []struct {
		name           string
		query          string
		setupAuth      func(t *testing.T, r *http.Request) error
		buildStubs     func(transactionService *MockService)
		wantStatusCode int
		wantError      string
		checkData      func(data any)
	}{
		{
			name:  "OK",
			query: fmt.Sprintf("?account_id=%d&page_id=1&page_size=10", accountID),
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					List(gomock.Any(), gomock.Eq(username), gomock.Eq(accountID), gomock.Eq(int32(10)), gomock.Eq(int32(1))).
					Times(1).
					Return(transactions, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData: func(data any) {
				got, ok := data.(*struct {
					Transactions []domain.Transaction `json:"transactions"`
				})
				if !ok {
					t.Errorf(`res.Data=%v, failed type conversion`, data)
				}

				compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
				if diff := cmp.Diff(transactions, got.Transactions, compareCreatedAt); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:  "NoAuthorization",
			query: fmt.Sprintf("?account_id=%d&page_id=1&page_size=10", accountID),
			setupAuth: func(t *testing.T, r *http.Request) error {
				return nil
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      middleware.ErrAuthHeaderNotFound.Error(),
		},
		{
			name:  "MissingAccountID",
			query: "?page_id=1&page_size=10",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "AccountID field is required",
		},
		{
			name:  "PageSizeTooBig",
			query: fmt.Sprintf("?account_id=%d&page_id=1&page_size=500", accountID),
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "PageSize field must be less than or equal to 100",
		},
		{
			name:  "InternalError",
			query: fmt.Sprintf("?account_id=%d&page_id=1&page_size=10", accountID),
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					List(gomock.Any(), gomock.Eq(username), gomock.Eq(accountID), gomock.Eq(int32(10)), gomock.Eq(int32(1))).
					Times(1).
					Return(nil, sql.ErrConnDone)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Initialize mocks
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			transactionService := NewMockService(ctrl)
			transactionHandler := NewHandler(transactionService)

			server := gin.New()
			server.Use(middleware.AuthMiddleware(tokenMaker))
			server.GET("/transactions", transactionHandler.List)

			tc.buildStubs(transactionService)

			// Send request
			req, err := http.NewRequest(http.MethodGet, "/transactions"+tc.query, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err = tc.setupAuth(t, req); err != nil {
				t.Fatalf("tc.setupAuth(t, %+v) returned error: %v", req, err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			// Test response
			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{
				Data: &struct {
					Transactions []domain.Transaction `json:"transactions"`
				}{},
			}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
				}
			} else {
				tc.checkData(res.Data)
			}
		})
	}
}

func TestBulkDelete(t *testing.T) {
	username := randompkg.Owner()
	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	authType := middleware.AuthTypeBearer
	duration := time.Minute

	ids := []int64{1, 2, 3}

	type requestBody struct {
		IDs []int64 `json:"ids"`
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		setupAuth      func(t *testing.T, r *http.Request) error
		buildStubs     func(transactionService *MockService)
		wantStatusCode int
		wantError      string
		checkData      func(data any)
	}{
		{
			name:        "OK",
			requestBody: requestBody{IDs: ids},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					BulkDelete(gomock.Any(), gomock.Eq(username), gomock.Eq(ids)).
					Times(1).
					Return(int64(3), nil)
			},
			wantStatusCode: http.StatusOK,
			checkData: func(data any) {
				got, ok := data.(*struct {
					Deleted int64 `json:"deleted"`
				})
				if !ok {
					t.Errorf(`res.Data=%v, failed type conversion`, data)
				}

				if got.Deleted != 3 {
					t.Errorf("got.Deleted=%d, want 3", got.Deleted)
				}
			},
		},
		{
			name:        "NoAuthorization",
			requestBody: requestBody{IDs: ids},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return nil
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					BulkDelete(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      middleware.ErrAuthHeaderNotFound.Error(),
		},
		{
			name:        "EmptyIDs",
			requestBody: requestBody{IDs: []int64{}},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					BulkDelete(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "IDs field must be greater or equal to 1",
		},
		{
			name:        "InternalError",
			requestBody: requestBody{IDs: ids},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(transactionService *MockService) {
				transactionService.EXPECT().
					BulkDelete(gomock.Any(), gomock.Eq(username), gomock.Eq(ids)).
					Times(1).
					Return(int64(0), sql.ErrConnDone)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Initialize mocks
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			transactionService := NewMockService(ctrl)
			transactionHandler := NewHandler(transactionService)

			server := gin.New()
			server.Use(middleware.AuthMiddleware(tokenMaker))
			server.DELETE("/transactions", transactionHandler.BulkDelete)

			tc.buildStubs(transactionService)

			// Send request
			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodDelete, "/transactions", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err = tc.setupAuth(t, req); err != nil {
				t.Fatalf("tc.setupAuth(t, %+v) returned error: %v", req, err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			// Test response
			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{
				Data: &struct {
					Deleted int64 `json:"deleted"`
				}{},
			}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
				}
			} else {
				tc.checkData(res.Data)
			}
		})
	}
}
