package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "lendpool-backend/internal/adapter/http"
	mw "lendpool-backend/internal/adapter/middleware"
	"lendpool-backend/internal/adapter/oraclenet"
	"lendpool-backend/internal/adapter/payout"
	"lendpool-backend/internal/adapter/repository/mysql"
	"lendpool-backend/internal/config"
	"lendpool-backend/internal/infrastructure/cache"
	"lendpool-backend/internal/infrastructure/db"
	ledgeruc "lendpool-backend/internal/usecase/ledger"
	loanuc "lendpool-backend/internal/usecase/loan"
	oracleuc "lendpool-backend/internal/usecase/oracle"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := mysql.AutoMigrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	uow := mysql.NewGormUoW(gdb)
	payoutClient := payout.NewClient(cfg.PayoutURL, log)
	oracleClient := oraclenet.NewClient(cfg.OracleURL, cfg.OracleToken, log)

	ledgerUC := ledgeruc.NewUsecase(mysql.NewLedgerRepository(gdb), uow, payoutClient, log)
	loanUC := loanuc.NewUsecase(mysql.NewLoanRepository(gdb), uow, payoutClient, cfg.OrchestratorIdentity, log)
	oracleUC := oracleuc.NewUsecase(mysql.NewOracleRepository(gdb), uow, oracleClient, cfg.BridgeIdentity, log)

	// Registration order matters: the ledger and orchestrator must reference
	// each other before any loan flow runs.
	ctx := context.Background()
	if err := ledgerUC.SetOrchestrator(ctx, cfg.OrchestratorIdentity); err != nil {
		log.Fatalf("wire ledger: %v", err)
	}
	if err := loanUC.SetLedger(ctx, ledgerUC); err != nil {
		log.Fatalf("wire orchestrator ledger: %v", err)
	}
	if err := loanUC.SetOracleBridge(ctx, cfg.BridgeIdentity, oracleUC); err != nil {
		log.Fatalf("wire orchestrator bridge: %v", err)
	}
	if err := oracleUC.SetOrchestrator(ctx, cfg.OrchestratorIdentity, loanUC); err != nil {
		log.Fatalf("wire bridge: %v", err)
	}
	if err := oracleUC.SetSource(ctx, cfg.OracleSource); err != nil {
		log.Fatalf("wire bridge source: %v", err)
	}
	if err := oracleUC.SetSubscriptionParams(ctx, cfg.OracleSubscriptionID); err != nil {
		log.Fatalf("wire bridge subscription: %v", err)
	}
	if err := oracleUC.SetGasLimit(ctx, cfg.OracleGasLimit); err != nil {
		log.Fatalf("wire bridge gas limit: %v", err)
	}

	h := httpadp.NewHandler()
	ledgerH := httpadp.NewLedgerHandler(ledgerUC)
	loanH := httpadp.NewLoanHandler(loanUC)
	oracleH := httpadp.NewOracleHandler(oracleUC, cfg.OracleToken)
	adminH := httpadp.NewAdminHandler(ledgerUC, loanUC, oracleUC, cfg.OwnerToken)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(mw.RequestID(), middleware.Logger(), middleware.Recover())

	idem := mw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log)

	// routes
	e.GET("/health", h.Health)

	e.POST("/deposits", ledgerH.Deposit, idem)
	e.POST("/withdrawals", ledgerH.Withdraw, idem)
	e.GET("/deposits/:address", ledgerH.GetDeposit)
	e.GET("/liquidity", ledgerH.GetLiquidity)

	e.POST("/loans", loanH.RequestLoan, idem)
	e.GET("/loans/:loan_id", loanH.GetLoan)
	e.GET("/loans/:loan_id/repayment", loanH.Quote)
	e.POST("/loans/:loan_id/repayments", loanH.Repay, idem)

	e.POST("/oracle/fulfillments", oracleH.Fulfill)
	e.GET("/oracle/requests/:request_id", oracleH.GetRequest)
	e.GET("/oracle/scores/:address", oracleH.GetScore)

	admin := e.Group("/admin")
	admin.PUT("/ledger/orchestrator", adminH.SetLedgerOrchestrator)
	admin.PUT("/orchestrator/ledger", adminH.SetOrchestratorLedger)
	admin.PUT("/orchestrator/oracle-bridge", adminH.SetOrchestratorBridge)
	admin.PUT("/oracle/orchestrator", adminH.SetOracleOrchestrator)
	admin.PUT("/oracle/source", adminH.SetOracleSource)
	admin.PUT("/oracle/subscription", adminH.SetOracleSubscription)
	admin.PUT("/oracle/gas-limit", adminH.SetOracleGasLimit)

	addr := ":" + cfg.AppPort
	log.Infof("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
