package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/s-ohta/lounge-booking-api/internal/domain"
)

func validBookingRequest() domain.BookingRequest {
	jst := time.FixedZone("JST", 9*60*60)
	return domain.BookingRequest{
		Name:  "太郎",
		Email: "t@example.com",
		Start: time.Date(2026, 1, 16, 10, 0, 0, 0, jst),
		End:   time.Date(2026, 1, 16, 11, 0, 0, 0, jst),
	}
}

// overlappingEvents 対象区間と重なるイベントをn件生成
func overlappingEvents(n int) []domain.Event {
	jst := time.FixedZone("JST", 9*60*60)
	events := make([]domain.Event, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, domain.Event{
			ID:        fmt.Sprintf("event-%d", i),
			Title:     "予約",
			StartTime: time.Date(2026, 1, 16, 10, 0, 0, 0, jst),
			EndTime:   time.Date(2026, 1, 16, 11, 0, 0, 0, jst),
		})
	}
	return events
}

// --- Execute テスト ---

func TestBookingExecute_Accepted(t *testing.T) {
	mockRepo := new(MockCalendarRepository)
	uc := NewBookingUseCase(mockRepo, 6)
	req := validBookingRequest()

	// 要求区間そのもので再確認していること
	mockRepo.On("GetEventsBetween", mock.Anything, req.Start, req.End).
		Return([]domain.Event{}, nil)
	mockRepo.On("CreateEvent", mock.Anything, req).Return(nil)

	err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestBookingExecute_AcceptedAtCapacityMinusOne(t *testing.T) {
	mockRepo := new(MockCalendarRepository)
	uc := NewBookingUseCase(mockRepo, 6)
	req := validBookingRequest()

	mockRepo.On("GetEventsBetween", mock.Anything, req.Start, req.End).
		Return(overlappingEvents(5), nil)
	mockRepo.On("CreateEvent", mock.Anything, req).Return(nil)

	err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestBookingExecute_RejectedAtCapacity(t *testing.T) {
	mockRepo := new(MockCalendarRepository)
	uc := NewBookingUseCase(mockRepo, 6)
	req := validBookingRequest()

	mockRepo.On("GetEventsBetween", mock.Anything, req.Start, req.End).
		Return(overlappingEvents(6), nil)

	err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCapacityFull)
	// 満席時はイベントを登録しない
	mockRepo.AssertNotCalled(t, "CreateEvent")
}

func TestBookingExecute_ValidationError(t *testing.T) {
	mockRepo := new(MockCalendarRepository)
	uc := NewBookingUseCase(mockRepo, 6)

	req := validBookingRequest()
	req.Name = ""

	err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "GetEventsBetween")
	mockRepo.AssertNotCalled(t, "CreateEvent")
}

func TestBookingExecute_CalendarError(t *testing.T) {
	mockRepo := new(MockCalendarRepository)
	uc := NewBookingUseCase(mockRepo, 6)
	req := validBookingRequest()

	mockRepo.On("GetEventsBetween", mock.Anything, req.Start, req.End).
		Return(nil, errors.New("calendar API error"))

	err := uc.Execute(context.Background(), req)
	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "CreateEvent")
}

func TestBookingExecute_InsertError(t *testing.T) {
	mockRepo := new(MockCalendarRepository)
	uc := NewBookingUseCase(mockRepo, 6)
	req := validBookingRequest()

	mockRepo.On("GetEventsBetween", mock.Anything, req.Start, req.End).
		Return([]domain.Event{}, nil)
	mockRepo.On("CreateEvent", mock.Anything, req).Return(errors.New("insert error"))

	err := uc.Execute(context.Background(), req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert error")
}

// --- 予約後に空き状況へ反映されるシナリオ ---

func TestBookingThenAvailability(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	mockRepo := new(MockCalendarRepository)
	bookingUC := NewBookingUseCase(mockRepo, 6)
	availabilityUC := NewAvailabilityUseCase(mockRepo)
	req := validBookingRequest()

	// 予約時点では空き
	mockRepo.On("GetEventsBetween", mock.Anything, req.Start, req.End).
		Return([]domain.Event{}, nil).Once()
	mockRepo.On("CreateEvent", mock.Anything, req).Return(nil).Once()

	require.NoError(t, bookingUC.Execute(context.Background(), req))

	// 予約後の日次照会には登録済みイベントが現れる
	booked := []domain.Event{
		{
			Title:     "予約: 太郎様",
			StartTime: time.Date(2026, 1, 16, 10, 0, 0, 0, jst),
			EndTime:   time.Date(2026, 1, 16, 11, 0, 0, 0, jst),
		},
	}
	mockRepo.On("GetEventsBetween", mock.Anything, mock.Anything, mock.Anything).
		Return(booked, nil).Once()

	result, err := availabilityUC.Execute(context.Background(), "2026-01-16")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Bookings["10:00"])
	assert.Equal(t, 1, result.Bookings["10:30"])
	mockRepo.AssertExpectations(t)
}

// --- bookingGate テスト ---

func TestBookingGate_SerializesSameKey(t *testing.T) {
	gate := newBookingGate()

	unlock := gate.lock("2026-01-16")
	acquired := make(chan struct{})
	go func() {
		u := gate.lock("2026-01-16")
		u()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("ロック保持中に同一キーのロックが取得できてしまった")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("ロック解放後も取得できない")
	}
}

func TestBookingGate_DifferentKeysIndependent(t *testing.T) {
	gate := newBookingGate()

	unlock := gate.lock("2026-01-16")
	defer unlock()

	done := make(chan struct{})
	go func() {
		u := gate.lock("2026-01-17")
		u()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("異なるキーのロックがブロックされた")
	}
}
