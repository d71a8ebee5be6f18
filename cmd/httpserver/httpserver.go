// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pocket-ledger/internal/accountdelivery"
	"github.com/go-petr/pocket-ledger/internal/accountrepo"
	"github.com/go-petr/pocket-ledger/internal/accountservice"
	"github.com/go-petr/pocket-ledger/internal/budgetdelivery"
	"github.com/go-petr/pocket-ledger/internal/budgetrepo"
	"github.com/go-petr/pocket-ledger/internal/budgetservice"
	"github.com/go-petr/pocket-ledger/internal/middleware"
	"github.com/go-petr/pocket-ledger/internal/receiptdelivery"
	"github.com/go-petr/pocket-ledger/internal/receiptservice"
	"github.com/go-petr/pocket-ledger/internal/sessiondelivery"
	"github.com/go-petr/pocket-ledger/internal/sessionrepo"
	"github.com/go-petr/pocket-ledger/internal/sessionservice"
	"github.com/go-petr/pocket-ledger/internal/transactiondelivery"
	"github.com/go-petr/pocket-ledger/internal/transactionrepo"
	"github.com/go-petr/pocket-ledger/internal/transactionservice"
	"github.com/go-petr/pocket-ledger/internal/userdelivery"
	"github.com/go-petr/pocket-ledger/internal/userrepo"
	"github.com/go-petr/pocket-ledger/internal/userservice"
	"github.com/go-petr/pocket-ledger/pkg/categorypkg"
	"github.com/go-petr/pocket-ledger/pkg/configpkg"
	"github.com/go-petr/pocket-ledger/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config, analyzer receiptservice.ImageAnalyzer) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn)
	budgetRepo := budgetrepo.NewRepoPGS(conn)
	sessionRepo := sessionrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	userService := userservice.New(userRepo)
	accountService := accountservice.New(accountRepo)
	transactionService := transactionservice.New(transactionRepo, accountService)
	budgetService := budgetservice.New(budgetRepo, accountService)
	receiptService := receiptservice.New(analyzer)
	sessionService, err := sessionservice.New(sessionRepo, config, tokenMaker)

	if err != nil {
		return nil, errors.New("cannot initialize session service")
	}

	userHandler := userdelivery.NewHandler(userService, sessionService)
	accountHandler := accountdelivery.NewHandler(accountService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)
	budgetHandler := budgetdelivery.NewHandler(budgetService)
	receiptHandler := receiptdelivery.NewHandler(receiptService)
	sessionHandler := sessiondelivery.NewHandler(sessionService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users", userHandler.Create)
	engine.POST("/users/login", userHandler.Login)
	engine.POST("/sessions", sessionHandler.RenewAccessToken)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(sessionService.TokenMaker))

	authRoutes.POST("/accounts", accountHandler.Create)
	authRoutes.GET("/accounts/:id", accountHandler.Get)
	authRoutes.GET("/accounts", accountHandler.List)
	authRoutes.PATCH("/accounts/:id/default", accountHandler.SetDefault)

	authRoutes.POST("/transactions", transactionHandler.Create)
	authRoutes.GET("/transactions/:id", transactionHandler.Get)
	authRoutes.GET("/transactions", transactionHandler.List)
	authRoutes.PATCH("/transactions/:id", transactionHandler.Update)
	authRoutes.DELETE("/transactions", transactionHandler.BulkDelete)

	authRoutes.GET("/budget", budgetHandler.Get)
	authRoutes.PUT("/budget", budgetHandler.Set)

	authRoutes.POST("/receipts/scan", receiptHandler.Scan)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("accounttype", accountdelivery.ValidAccountType); err != nil {
			return nil, errors.New("cannot register accounttype validator")
		}

		if err := v.RegisterValidation("transactiontype", transactiondelivery.ValidTransactionType); err != nil {
			return nil, errors.New("cannot register transactiontype validator")
		}

		if err := v.RegisterValidation("interval", transactiondelivery.ValidInterval); err != nil {
			return nil, errors.New("cannot register interval validator")
		}

		if err := v.RegisterValidation("category", categorypkg.ValidCategory); err != nil {
			return nil, errors.New("cannot register category validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
