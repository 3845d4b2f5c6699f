package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- SlotLabels テスト ---

func TestSlotLabels(t *testing.T) {
	labels := SlotLabels()
	assert.Len(t, labels, 18)
	assert.Equal(t, "10:00", labels[0])
	assert.Equal(t, "18:30", labels[len(labels)-1])
}

func TestSlotsForDate(t *testing.T) {
	date, err := ParseDate("2026-01-16")
	require.NoError(t, err)

	slots := SlotsForDate(date)
	require.Len(t, slots, 18)

	first := slots[0]
	assert.Equal(t, "10:00", first.Label)
	assert.Equal(t, 10, first.Start.Hour())
	assert.Equal(t, 30*time.Minute, first.End.Sub(first.Start))

	last := slots[len(slots)-1]
	assert.Equal(t, "18:30", last.Label)
	assert.Equal(t, 19, last.End.Hour())
}

// --- ParseDate / DayWindow テスト ---

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("16/01/2026")
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDayWindow(t *testing.T) {
	date, err := ParseDate("2026-01-16")
	require.NoError(t, err)

	start, end := DayWindow(date)
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 24*time.Hour, end.Sub(start))
	assert.Equal(t, "2026-01-17", end.Format("2006-01-02"))
}

// --- Overlaps テスト（境界条件） ---

func TestEventOverlaps(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	slotStart := time.Date(2026, 1, 16, 10, 0, 0, 0, jst)
	slotEnd := time.Date(2026, 1, 16, 10, 30, 0, 0, jst)

	tests := []struct {
		name  string
		event Event
		want  bool
	}{
		{
			name: "枠の開始ちょうどに終わるイベントは重ならない",
			event: Event{
				StartTime: slotStart.Add(-30 * time.Minute),
				EndTime:   slotStart,
			},
			want: false,
		},
		{
			name: "枠の終了ちょうどに始まるイベントは重ならない",
			event: Event{
				StartTime: slotEnd,
				EndTime:   slotEnd.Add(30 * time.Minute),
			},
			want: false,
		},
		{
			name: "枠を完全に含むイベントは重なる",
			event: Event{
				StartTime: slotStart.Add(-1 * time.Hour),
				EndTime:   slotEnd.Add(1 * time.Hour),
			},
			want: true,
		},
		{
			name: "枠内に完全に含まれるイベントは重なる",
			event: Event{
				StartTime: slotStart.Add(10 * time.Minute),
				EndTime:   slotStart.Add(20 * time.Minute),
			},
			want: true,
		},
		{
			name: "枠の途中で始まるイベントは重なる",
			event: Event{
				StartTime: slotStart.Add(15 * time.Minute),
				EndTime:   slotEnd.Add(1 * time.Hour),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.Overlaps(slotStart, slotEnd))
		})
	}
}

// --- CountOccupancy テスト ---

func TestCountOccupancy_NoEvents(t *testing.T) {
	date, err := ParseDate("2026-01-16")
	require.NoError(t, err)

	bookings := CountOccupancy(SlotsForDate(date), []Event{})
	require.Len(t, bookings, 18)
	for label, count := range bookings {
		assert.Zero(t, count, "枠 %s は0件のはず", label)
	}
}

func TestCountOccupancy_SingleEventSpansTwoSlots(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	date, err := ParseDate("2026-01-16")
	require.NoError(t, err)

	// 10:00〜11:00 のイベントは 10:00 と 10:30 の2枠に重なる
	events := []Event{
		{
			Title:     "予約: 太郎様",
			StartTime: time.Date(2026, 1, 16, 10, 0, 0, 0, jst),
			EndTime:   time.Date(2026, 1, 16, 11, 0, 0, 0, jst),
		},
	}

	bookings := CountOccupancy(SlotsForDate(date), events)
	assert.Equal(t, 1, bookings["10:00"])
	assert.Equal(t, 1, bookings["10:30"])
	assert.Equal(t, 0, bookings["11:00"])
}

func TestCountOccupancy_AllDayEventCoversEverySlot(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	date, err := ParseDate("2026-01-16")
	require.NoError(t, err)

	events := []Event{
		{
			Title:     "終日貸切",
			IsAllDay:  true,
			StartTime: time.Date(2026, 1, 16, 0, 0, 0, 0, jst),
			EndTime:   time.Date(2026, 1, 17, 0, 0, 0, 0, jst),
		},
	}

	bookings := CountOccupancy(SlotsForDate(date), events)
	for label, count := range bookings {
		assert.Equal(t, 1, count, "枠 %s", label)
	}
}

func TestCountOccupancy_Deterministic(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	date, err := ParseDate("2026-01-16")
	require.NoError(t, err)

	events := []Event{
		{
			StartTime: time.Date(2026, 1, 16, 12, 0, 0, 0, jst),
			EndTime:   time.Date(2026, 1, 16, 13, 0, 0, 0, jst),
		},
	}

	// 同じ入力に対して常に同じ結果を返す
	first := CountOccupancy(SlotsForDate(date), events)
	second := CountOccupancy(SlotsForDate(date), events)
	assert.Equal(t, first, second)
}
