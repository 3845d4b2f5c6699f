package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/s-ohta/lounge-booking-api/internal/domain"
	"github.com/s-ohta/lounge-booking-api/internal/usecase"
)

// Handler 予約APIのHTTPハンドラ
type Handler struct {
	logger         *zap.Logger
	availabilityUC *usecase.AvailabilityUseCase
	bookingUC      *usecase.BookingUseCase
}

// New ハンドラを生成
func New(logger *zap.Logger, availabilityUC *usecase.AvailabilityUseCase, bookingUC *usecase.BookingUseCase) *Handler {
	return &Handler{
		logger:         logger,
		availabilityUC: availabilityUC,
		bookingUC:      bookingUC,
	}
}

// GetAvailability GET /api/book/availability
// dateクエリが無い場合は枠リストと空の予約数を返す（400にはしない）
func (h *Handler) GetAvailability(c *gin.Context) {
	result, err := h.availabilityUC.Execute(c.Request.Context(), c.Query("date"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "日付の形式が不正です"})
			return
		}
		// 上流の失敗詳細はログにのみ残し、クライアントへは返さない
		h.logger.Error("空き状況の取得に失敗しました", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "取得エラー"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// bookingInput POST /api/book のリクエストボディ
type bookingInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// CreateBooking POST /api/book
func (h *Handler) CreateBooking(c *gin.Context) {
	var input bookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "リクエストボディが不正です"})
		return
	}

	req, err := parseBookingInput(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.bookingUC.Execute(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, usecase.ErrCapacityFull):
			c.JSON(http.StatusConflict, gin.H{
				"message": fmt.Sprintf("申し訳ありません。その時間は満席です。（定員%d名に達しました）", h.bookingUC.Capacity()),
			})
		default:
			h.logger.Error("予約処理に失敗しました", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "エラーが発生しました"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "予約完了"})
}

// parseBookingInput リクエストボディをドメインの予約リクエストに変換
func parseBookingInput(input bookingInput) (domain.BookingRequest, error) {
	req := domain.BookingRequest{
		Name:  input.Name,
		Email: input.Email,
	}

	if input.Start != "" {
		start, err := time.Parse(time.RFC3339, input.Start)
		if err != nil {
			return domain.BookingRequest{}, fmt.Errorf("開始時刻の形式が不正です")
		}
		req.Start = start.In(domain.JST())
	}
	if input.End != "" {
		end, err := time.Parse(time.RFC3339, input.End)
		if err != nil {
			return domain.BookingRequest{}, fmt.Errorf("終了時刻の形式が不正です")
		}
		req.End = end.In(domain.JST())
	}

	return req, nil
}
