package domain

import "time"

// Event カレンダーイベントのドメインエンティティ
type Event struct {
	ID          string
	Title       string
	StartTime   time.Time
	EndTime     time.Time
	IsAllDay    bool
	Description string
}

// Overlaps イベントが半開区間 [start, end) と重なるかを判定
func (e Event) Overlaps(start, end time.Time) bool {
	return e.StartTime.Before(end) && start.Before(e.EndTime)
}
