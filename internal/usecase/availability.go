package usecase

import (
	"context"
	"time"

	"github.com/s-ohta/lounge-booking-api/internal/domain"
)

// CalendarRepository カレンダーの参照と予約登録を行うポート
type CalendarRepository interface {
	GetEventsBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error)
	CreateEvent(ctx context.Context, req domain.BookingRequest) error
}

// AvailabilityUseCase 空き状況取得ユースケース
type AvailabilityUseCase struct {
	calendarRepo CalendarRepository
}

// NewAvailabilityUseCase ユースケースを生成
func NewAvailabilityUseCase(calendarRepo CalendarRepository) *AvailabilityUseCase {
	return &AvailabilityUseCase{
		calendarRepo: calendarRepo,
	}
}

// Execute 指定日の予約枠ごとの予約数を集計する
// 日付が未指定の場合はエラーにせず、枠リストと空の予約数を返す（フロントエンドの初期描画用）
func (uc *AvailabilityUseCase) Execute(ctx context.Context, dateStr string) (*domain.Availability, error) {
	if dateStr == "" {
		return &domain.Availability{
			Slots:    domain.SlotLabels(),
			Bookings: map[string]int{},
		}, nil
	}

	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	// 指定日の全イベントを取得し、枠ごとに重なりを数える
	dayStart, dayEnd := domain.DayWindow(date)
	events, err := uc.calendarRepo.GetEventsBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	slots := domain.SlotsForDate(date)
	return &domain.Availability{
		Slots:    domain.SlotLabels(),
		Bookings: domain.CountOccupancy(slots, events),
	}, nil
}
