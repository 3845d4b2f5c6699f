package usecase

import (
	"context"
	"errors"

	"github.com/s-ohta/lounge-booking-api/internal/domain"
)

// ErrCapacityFull 定員超過による予約拒否。技術的な失敗ではなく業務上の結果
var ErrCapacityFull = errors.New("満席です")

// BookingUseCase 予約登録ユースケース
//
// 空き確認と登録は同一プロセス内では日単位で直列化されるが、
// Google Calendar側に条件付き書き込みが無いため、複数プロセスで同時に
// 予約した場合は定員を超過しうる（既知の制限）
type BookingUseCase struct {
	calendarRepo CalendarRepository
	capacity     int
	gate         *bookingGate
}

// NewBookingUseCase ユースケースを生成
func NewBookingUseCase(calendarRepo CalendarRepository, capacity int) *BookingUseCase {
	return &BookingUseCase{
		calendarRepo: calendarRepo,
		capacity:     capacity,
		gate:         newBookingGate(),
	}
}

// Capacity 設定された定員を返す
func (uc *BookingUseCase) Capacity() int {
	return uc.capacity
}

// Execute 予約リクエストを検証し、空きがあればカレンダーに登録する
func (uc *BookingUseCase) Execute(ctx context.Context, req domain.BookingRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	// 同じ日への予約受付を直列化（同一プロセス内のチェック→登録の競合対策）
	dateKey := req.Start.In(domain.JST()).Format("2006-01-02")
	unlock := uc.gate.lock(dateKey)
	defer unlock()

	// 表示時のスナップショットではなく、要求区間 [Start, End) を改めて確認する
	events, err := uc.calendarRepo.GetEventsBetween(ctx, req.Start, req.End)
	if err != nil {
		return err
	}

	if len(events) >= uc.capacity {
		return ErrCapacityFull
	}

	return uc.calendarRepo.CreateEvent(ctx, req)
}
