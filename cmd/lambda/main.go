package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/s-ohta/lounge-booking-api/internal/config"
	"github.com/s-ohta/lounge-booking-api/internal/domain"
	"github.com/s-ohta/lounge-booking-api/internal/gateway"
	"github.com/s-ohta/lounge-booking-api/internal/usecase"
)

// apiHandler API Gateway経由のリクエストを2つのユースケースに振り分ける
type apiHandler struct {
	availabilityUC *usecase.AvailabilityUseCase
	bookingUC      *usecase.BookingUseCase
}

// bookingInput POST /api/book のリクエストボディ
type bookingInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func main() {
	// コールドスタート時に一度だけ設定とクライアントを構築する
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定読み込みエラー: %v", err)
	}

	calendarRepo, err := gateway.NewGoogleCalendarRepository(cfg)
	if err != nil {
		log.Fatalf("Google Calendarクライアントの初期化に失敗しました: %v", err)
	}

	h := &apiHandler{
		availabilityUC: usecase.NewAvailabilityUseCase(calendarRepo),
		bookingUC:      usecase.NewBookingUseCase(calendarRepo, cfg.Capacity),
	}

	lambda.Start(h.handle)
}

// handle Lambda関数のメインハンドラー
func (h *apiHandler) handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch {
	case req.HTTPMethod == http.MethodGet && req.Path == "/api/book/availability":
		return h.getAvailability(ctx, req)
	case req.HTTPMethod == http.MethodPost && req.Path == "/api/book":
		return h.createBooking(ctx, req)
	default:
		return jsonResponse(http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

func (h *apiHandler) getAvailability(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	result, err := h.availabilityUC.Execute(ctx, req.QueryStringParameters["date"])
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return jsonResponse(http.StatusBadRequest, map[string]string{"message": "日付の形式が不正です"})
		}
		log.Printf("空き状況の取得に失敗しました: %v", err)
		return jsonResponse(http.StatusInternalServerError, map[string]string{"message": "取得エラー"})
	}
	return jsonResponse(http.StatusOK, result)
}

func (h *apiHandler) createBooking(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var input bookingInput
	if err := json.Unmarshal([]byte(req.Body), &input); err != nil {
		return jsonResponse(http.StatusBadRequest, map[string]string{"message": "リクエストボディが不正です"})
	}

	booking := domain.BookingRequest{
		Name:  input.Name,
		Email: input.Email,
	}
	if input.Start != "" {
		start, err := time.Parse(time.RFC3339, input.Start)
		if err != nil {
			return jsonResponse(http.StatusBadRequest, map[string]string{"message": "開始時刻の形式が不正です"})
		}
		booking.Start = start.In(domain.JST())
	}
	if input.End != "" {
		end, err := time.Parse(time.RFC3339, input.End)
		if err != nil {
			return jsonResponse(http.StatusBadRequest, map[string]string{"message": "終了時刻の形式が不正です"})
		}
		booking.End = end.In(domain.JST())
	}

	if err := h.bookingUC.Execute(ctx, booking); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return jsonResponse(http.StatusBadRequest, map[string]string{"message": err.Error()})
		case errors.Is(err, usecase.ErrCapacityFull):
			return jsonResponse(http.StatusConflict, map[string]string{
				"message": fmt.Sprintf("申し訳ありません。その時間は満席です。（定員%d名に達しました）", h.bookingUC.Capacity()),
			})
		default:
			log.Printf("予約処理に失敗しました: %v", err)
			return jsonResponse(http.StatusInternalServerError, map[string]string{"message": "エラーが発生しました"})
		}
	}

	return jsonResponse(http.StatusOK, map[string]string{"message": "予約完了"})
}

// jsonResponse ボディをJSONにシリアライズしてレスポンスを組み立てる
func jsonResponse(statusCode int, body any) (events.APIGatewayProxyResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}, nil
}
