package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
)

// DefaultCapacity 同一時間帯に受け付ける予約数の上限（定員）
const DefaultCapacity = 6

// SSMParameterGetter Parameter Store からパラメータを取得するインターフェース
type SSMParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Config アプリケーション設定構造体
type Config struct {
	// Google Calendar設定
	// GoogleCredentials（サービスアカウントJSON）か、
	// GoogleClientEmail + GooglePrivateKey の組のどちらかが必須
	GoogleCredentials string
	GoogleClientEmail string
	GooglePrivateKey  string
	CalendarID        string

	// 予約設定
	Capacity int

	// HTTPサーバ設定
	Port           string
	AllowedOrigins []string

	// その他設定
	AppEnv   string
	LogLevel string

	// AWS関連（Lambda環境でのみ使用）
	ssmClient SSMParameterGetter
}

// Load 環境に応じて設定を読み込み
func Load() (*Config, error) {
	// AWS Lambda環境かどうか判定
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return loadAWSConfig()
	}
	return loadLocalConfig()
}

// loadLocalConfig ローカル・サーバ環境用の設定読み込み
func loadLocalConfig() (*Config, error) {
	// .envファイルを読み込み（存在する場合のみ）
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .envファイルが見つかりません: %v\n", err)
	}

	cfg := &Config{
		GoogleCredentials: getEnvOrDefault("GOOGLE_CREDENTIALS", ""),
		GoogleClientEmail: getEnvOrDefault("GOOGLE_CLIENT_EMAIL", ""),
		GooglePrivateKey:  normalizePrivateKey(getEnvOrDefault("GOOGLE_PRIVATE_KEY", "")),
		CalendarID:        getEnvOrDefault("GOOGLE_CALENDAR_ID", ""),
		Port:              getEnvOrDefault("PORT", "8080"),
		AllowedOrigins:    splitOrigins(getEnvOrDefault("ALLOWED_ORIGINS", "*")),
		AppEnv:            getEnvOrDefault("APP_ENV", "development"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	capacity, err := parseCapacity(getEnvOrDefault("BOOKING_CAPACITY", ""))
	if err != nil {
		return nil, err
	}
	cfg.Capacity = capacity

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadAWSConfig AWS Lambda環境用の設定読み込み
func loadAWSConfig() (*Config, error) {
	awsConfig, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("AWS設定の読み込みに失敗しました: %v", err)
	}

	cfg := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		AllowedOrigins: splitOrigins(getEnvOrDefault("ALLOWED_ORIGINS", "*")),
		AppEnv:         getEnvOrDefault("APP_ENV", "production"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "INFO"),
		ssmClient:      ssm.NewFromConfig(awsConfig),
	}

	capacity, err := parseCapacity(getEnvOrDefault("BOOKING_CAPACITY", ""))
	if err != nil {
		return nil, err
	}
	cfg.Capacity = capacity

	// Parameter Storeから機密情報を取得
	if err := cfg.loadFromParameterStore(); err != nil {
		return nil, fmt.Errorf("Parameter Storeからの設定読み込みに失敗しました: %v", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromParameterStore Parameter Storeから機密情報を読み込み
func (c *Config) loadFromParameterStore() error {
	ctx := context.TODO()

	// Google認証情報（サービスアカウントJSON）を取得
	googleCredsParam := getEnvOrDefault("GOOGLE_CREDS_PARAM", "/lounge-booking-api/google-creds")
	googleCreds, err := c.getParameter(ctx, googleCredsParam, true)
	if err != nil {
		return fmt.Errorf("Google認証情報の取得に失敗しました: %v", err)
	}
	c.GoogleCredentials = googleCreds

	// カレンダーIDを取得
	calendarIDParam := getEnvOrDefault("GOOGLE_CALENDAR_ID_PARAM", "/lounge-booking-api/calendar-id")
	calendarID, err := c.getParameter(ctx, calendarIDParam, false)
	if err != nil {
		return fmt.Errorf("カレンダーIDの取得に失敗しました: %v", err)
	}
	c.CalendarID = calendarID

	return nil
}

// getParameter Parameter Storeから指定されたパラメータを取得
func (c *Config) getParameter(ctx context.Context, paramName string, withDecryption bool) (string, error) {
	input := &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(withDecryption),
	}

	result, err := c.ssmClient.GetParameter(ctx, input)
	if err != nil {
		return "", fmt.Errorf("パラメータ %s の取得に失敗しました: %v", paramName, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil || *result.Parameter.Value == "" {
		return "", fmt.Errorf("パラメータ %s が空の値です", paramName)
	}

	return *result.Parameter.Value, nil
}

// validate 必須設定項目の確認。不足はサーバ設定エラーであり、クライアント入力エラーではない
func (c *Config) validate() error {
	if c.GoogleCredentials == "" && (c.GoogleClientEmail == "" || c.GooglePrivateKey == "") {
		return fmt.Errorf("サーバー設定エラー: GOOGLE_CREDENTIALS または GOOGLE_CLIENT_EMAIL と GOOGLE_PRIVATE_KEY を設定してください")
	}
	if c.CalendarID == "" {
		return fmt.Errorf("サーバー設定エラー: GOOGLE_CALENDAR_ID が設定されていません")
	}
	return nil
}

// parseCapacity 定員設定を解析。未設定ならデフォルト値を使用
func parseCapacity(value string) (int, error) {
	if value == "" {
		return DefaultCapacity, nil
	}
	capacity, err := strconv.Atoi(value)
	if err != nil || capacity < 1 {
		return 0, fmt.Errorf("BOOKING_CAPACITY の値が不正です: %q", value)
	}
	return capacity, nil
}

// normalizePrivateKey 環境変数経由でエスケープされた改行を復元
func normalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

// splitOrigins カンマ区切りのオリジン指定を分割
func splitOrigins(value string) []string {
	parts := strings.Split(value, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// getEnvOrDefault 環境変数を取得し、存在しない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
