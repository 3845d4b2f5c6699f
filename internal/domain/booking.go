package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput 入力不備によるエラー。ハンドラ側で 400 に対応付ける
var ErrInvalidInput = errors.New("入力エラー")

// BookingRequest 予約リクエスト。予約が成立すると1件のカレンダーイベントになる
type BookingRequest struct {
	Name  string
	Email string
	Start time.Time
	End   time.Time
}

// Validate 必須項目と時刻の前後関係を検証
func (r BookingRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: 名前が入力されていません", ErrInvalidInput)
	}
	if r.Email == "" {
		return fmt.Errorf("%w: メールアドレスが入力されていません", ErrInvalidInput)
	}
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: 利用時間が指定されていません", ErrInvalidInput)
	}
	if !r.Start.Before(r.End) {
		return fmt.Errorf("%w: 開始時刻は終了時刻より前に設定してください", ErrInvalidInput)
	}
	return nil
}
