package gateway

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/s-ohta/lounge-booking-api/internal/config"
	"github.com/s-ohta/lounge-booking-api/internal/domain"
)

// EventsProvider Google Calendar APIの呼び出しを抽象化するインターフェース
type EventsProvider interface {
	ListEvents(calendarID, timeMin, timeMax string) ([]*calendar.Event, error)
	InsertEvent(calendarID string, event *calendar.Event) error
}

// googleEventsProvider calendar.Service を使った EventsProvider の実装
type googleEventsProvider struct {
	service *calendar.Service
}

func (p *googleEventsProvider) ListEvents(calendarID, timeMin, timeMax string) ([]*calendar.Event, error) {
	// 繰り返し予定は展開して取得。1日の予定上限を50件に設定
	events, err := p.service.Events.List(calendarID).
		TimeMin(timeMin).
		TimeMax(timeMax).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(50).
		Do()
	if err != nil {
		return nil, err
	}
	return events.Items, nil
}

func (p *googleEventsProvider) InsertEvent(calendarID string, event *calendar.Event) error {
	_, err := p.service.Events.Insert(calendarID, event).Do()
	return err
}

// GoogleCalendarRepository Google Calendar APIを使用したCalendarRepositoryの実装
type GoogleCalendarRepository struct {
	provider   EventsProvider
	calendarID string
	timezone   *time.Location
}

// NewGoogleCalendarRepository 設定からGoogle Calendarリポジトリを作成
func NewGoogleCalendarRepository(cfg *config.Config) (*GoogleCalendarRepository, error) {
	service, err := newCalendarService(cfg)
	if err != nil {
		return nil, err
	}
	return NewGoogleCalendarRepositoryWithProvider(
		&googleEventsProvider{service: service},
		cfg.CalendarID,
		domain.JST(),
	), nil
}

// NewGoogleCalendarRepositoryWithProvider プロバイダを指定してリポジトリを作成（テスト用の継ぎ目）
func NewGoogleCalendarRepositoryWithProvider(provider EventsProvider, calendarID string, timezone *time.Location) *GoogleCalendarRepository {
	return &GoogleCalendarRepository{
		provider:   provider,
		calendarID: calendarID,
		timezone:   timezone,
	}
}

// newCalendarService サービスアカウント認証でCalendar APIクライアントを作成
func newCalendarService(cfg *config.Config) (*calendar.Service, error) {
	ctx := context.Background()

	// サービスアカウントJSONが指定されていればそちらを優先
	if cfg.GoogleCredentials != "" {
		creds, err := google.CredentialsFromJSON(
			ctx,
			[]byte(cfg.GoogleCredentials),
			calendar.CalendarEventsScope,
		)
		if err != nil {
			return nil, fmt.Errorf("google認証情報の読み込みに失敗しました: %v", err)
		}
		service, err := calendar.NewService(ctx, option.WithCredentials(creds))
		if err != nil {
			return nil, fmt.Errorf("google Calendar APIサービスの作成に失敗しました: %v", err)
		}
		return service, nil
	}

	// クライアントメールと秘密鍵の組からJWT認証
	jwtConfig := &jwt.Config{
		Email:      cfg.GoogleClientEmail,
		PrivateKey: []byte(cfg.GooglePrivateKey),
		Scopes:     []string{calendar.CalendarEventsScope},
		TokenURL:   google.JWTTokenURL,
	}
	service, err := calendar.NewService(ctx, option.WithTokenSource(jwtConfig.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("google Calendar APIサービスの作成に失敗しました: %v", err)
	}
	return service, nil
}

// GetEventsBetween 半開区間 [from, to) と重なる予定を取得
func (r *GoogleCalendarRepository) GetEventsBetween(_ context.Context, from, to time.Time) ([]domain.Event, error) {
	// RFC3339形式に変換（タイムゾーン情報付き）
	timeMinStr := from.Format(time.RFC3339)
	timeMaxStr := to.Format(time.RFC3339)

	events, err := r.provider.ListEvents(r.calendarID, timeMinStr, timeMaxStr)
	if err != nil {
		return nil, fmt.Errorf("カレンダーイベントの取得に失敗しました: %v", err)
	}

	// イベントを変換
	domainEvents := make([]domain.Event, 0, len(events))
	for _, event := range events {
		domainEvent, err := r.convertToEvent(event)
		if err != nil {
			fmt.Printf("Warning: イベントの変換をスキップしました: %v\n", err)
			continue
		}
		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// CreateEvent 予約リクエストを1件のカレンダーイベントとして登録
// 開始・終了時刻はリクエストの値をそのまま使用する（枠境界への丸めは行わない）
func (r *GoogleCalendarRepository) CreateEvent(_ context.Context, req domain.BookingRequest) error {
	event := &calendar.Event{
		Summary:     fmt.Sprintf("予約: %s様", req.Name),
		Description: fmt.Sprintf("Email: %s\nラウンジ利用", req.Email),
		Start:       &calendar.EventDateTime{DateTime: req.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: req.End.Format(time.RFC3339)},
	}

	if err := r.provider.InsertEvent(r.calendarID, event); err != nil {
		return fmt.Errorf("カレンダーイベントの登録に失敗しました: %v", err)
	}
	return nil
}

// convertToEvent Google Calendar APIのイベントをドメインエンティティに変換
func (r *GoogleCalendarRepository) convertToEvent(event *calendar.Event) (domain.Event, error) {
	domainEvent := domain.Event{
		ID:          event.Id,
		Title:       event.Summary,
		Description: event.Description,
	}

	// タイトルが空の場合は「（無題）」に設定
	if domainEvent.Title == "" {
		domainEvent.Title = "（無題）"
	}

	// 開始時刻の処理
	if event.Start.DateTime != "" {
		// 時刻指定ありのイベント
		startTime, err := time.Parse(time.RFC3339, event.Start.DateTime)
		if err != nil {
			return domain.Event{}, fmt.Errorf("開始時刻の解析に失敗しました: %v", err)
		}
		domainEvent.StartTime = startTime.In(r.timezone)
		domainEvent.IsAllDay = false
	} else if event.Start.Date != "" {
		// 終日イベント。JSTの0時からとして扱い、その日の全枠と重なるようにする
		startTime, err := time.ParseInLocation("2006-01-02", event.Start.Date, r.timezone)
		if err != nil {
			return domain.Event{}, fmt.Errorf("開始日の解析に失敗しました: %v", err)
		}
		domainEvent.StartTime = startTime
		domainEvent.IsAllDay = true
	} else {
		return domain.Event{}, fmt.Errorf("開始時刻が設定されていません")
	}

	// 終了時刻の処理
	if event.End.DateTime != "" {
		// 時刻指定ありのイベント
		endTime, err := time.Parse(time.RFC3339, event.End.DateTime)
		if err != nil {
			return domain.Event{}, fmt.Errorf("終了時刻の解析に失敗しました: %v", err)
		}
		domainEvent.EndTime = endTime.In(r.timezone)
	} else if event.End.Date != "" {
		// 終日イベント
		endTime, err := time.ParseInLocation("2006-01-02", event.End.Date, r.timezone)
		if err != nil {
			return domain.Event{}, fmt.Errorf("終了日の解析に失敗しました: %v", err)
		}
		domainEvent.EndTime = endTime
	} else {
		return domain.Event{}, fmt.Errorf("終了時刻が設定されていません")
	}

	return domainEvent, nil
}
