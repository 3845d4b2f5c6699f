package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/s-ohta/lounge-booking-api/internal/config"
	"github.com/s-ohta/lounge-booking-api/internal/gateway"
	"github.com/s-ohta/lounge-booking-api/internal/handler"
	"github.com/s-ohta/lounge-booking-api/internal/logger"
	"github.com/s-ohta/lounge-booking-api/internal/usecase"
)

func main() {
	// 設定はプロセス起動時に一度だけ読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定読み込みエラー: %v", err)
	}

	zapLogger, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("ロガー初期化エラー: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Google Calendarクライアントも起動時に一度だけ構築する
	calendarRepo, err := gateway.NewGoogleCalendarRepository(cfg)
	if err != nil {
		zapLogger.Fatal("Google Calendarクライアントの初期化に失敗しました", zap.Error(err))
	}

	availabilityUC := usecase.NewAvailabilityUseCase(calendarRepo)
	bookingUC := usecase.NewBookingUseCase(calendarRepo, cfg.Capacity)
	h := handler.New(zapLogger, availabilityUC, bookingUC)
	router := handler.NewRouter(h, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zapLogger.Info("サーバを起動します", zap.String("port", cfg.Port), zap.Int("capacity", cfg.Capacity))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("サーバの起動に失敗しました", zap.Error(err))
		}
	}()

	// SIGINT/SIGTERMでグレースフルシャットダウン
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("サーバを停止します")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("シャットダウンに失敗しました", zap.Error(err))
	}
}
