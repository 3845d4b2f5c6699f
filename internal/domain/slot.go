package domain

import (
	"fmt"
	"time"
)

// 営業時間: 10:00 〜 19:00（最終枠 18:30 開始）、30分刻み
const (
	openHour     = 10
	lastSlotHour = 18
	lastSlotMin  = 30
	slotDuration = 30 * time.Minute
)

// JST 固定のタイムゾーン。tzdata が無い環境でも動くよう FixedZone にフォールバック
var jst = loadJST()

func loadJST() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// JST 日本標準時のタイムゾーンを返す
func JST() *time.Location {
	return jst
}

// Slot 予約枠。半開区間 [Start, End) を表す
type Slot struct {
	Label string
	Start time.Time
	End   time.Time
}

// SlotLabels 1日分の予約枠ラベル（"10:00" 〜 "18:30"）を生成
func SlotLabels() []string {
	labels := make([]string, 0, 18)
	t := time.Date(2000, 1, 1, openHour, 0, 0, 0, jst)
	last := time.Date(2000, 1, 1, lastSlotHour, lastSlotMin, 0, 0, jst)
	for !t.After(last) {
		labels = append(labels, t.Format("15:04"))
		t = t.Add(slotDuration)
	}
	return labels
}

// SlotsForDate 指定日（JST）の予約枠を生成
func SlotsForDate(date time.Time) []Slot {
	labels := SlotLabels()
	slots := make([]Slot, 0, len(labels))
	for _, label := range labels {
		t, _ := time.ParseInLocation("15:04", label, jst)
		start := time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, jst)
		slots = append(slots, Slot{
			Label: label,
			Start: start,
			End:   start.Add(slotDuration),
		})
	}
	return slots
}

// ParseDate "2006-01-02" 形式の日付文字列をJSTの日付として解析
func ParseDate(s string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", s, jst)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: 日付の形式が不正です", ErrInvalidInput)
	}
	return date, nil
}

// DayWindow 指定日の検索範囲 [00:00, 翌日00:00) をJSTで返す
func DayWindow(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, jst)
	return start, start.Add(24 * time.Hour)
}

// Availability 予約枠ごとの予約数スナップショット
type Availability struct {
	Slots    []string       `json:"slots"`
	Bookings map[string]int `json:"bookings"`
}

// CountOccupancy 各予約枠と重なるイベント数を集計
func CountOccupancy(slots []Slot, events []Event) map[string]int {
	bookings := make(map[string]int, len(slots))
	for _, slot := range slots {
		count := 0
		for _, event := range events {
			if event.Overlaps(slot.Start, slot.End) {
				count++
			}
		}
		bookings[slot.Label] = count
	}
	return bookings
}
