package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendMongo    = "mongo"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

var defaultCORSOrigins = []string{
	"https://asiasib-clean.vercel.app",
	"https://asiasib.vercel.app",
}

// StoreConfig selects and addresses the document store.
type StoreConfig struct {
	Backend          string
	MongoURI         string
	MongoDatabase    string
	ProductsTable    string
	OrdersTable      string
	IdempotencyTable string
}

// StorageConfig addresses the S3-compatible image bucket.
type StorageConfig struct {
	URL             string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

type Config struct {
	AppEnv            string
	Port              string
	JWTSecret         string
	AdminPassword     string
	CORSOrigins       []string
	SeedCatalog       bool
	StrictOrderTotals bool
	OrdersQueueURL    string
	Store             StoreConfig
	Storage           StorageConfig
}

type WorkerConfig struct {
	AppEnv           string
	Store            StoreConfig
	TelegramBotToken string
	TelegramChatID   int64
	MetricsNamespace string
}

// MissingError lists every required variable that was not set.
type MissingError struct {
	Vars []string
}

func (e *MissingError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Vars, ", ")
}

type env struct {
	missing []string
}

func (e *env) required(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		e.missing = append(e.missing, key)
	}
	return v
}

func (e *env) err() error {
	if len(e.missing) == 0 {
		return nil
	}
	return &MissingError{Vars: e.missing}
}

func optional(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func boolean(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func list(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadStore(e *env) (StoreConfig, error) {
	sc := StoreConfig{
		Backend:       strings.ToLower(optional("STORE_BACKEND", BackendMongo)),
		MongoDatabase: optional("MONGODB_DATABASE", "optbazar"),
	}
	switch sc.Backend {
	case BackendMongo:
		sc.MongoURI = e.required("MONGODB_URI")
	case BackendDynamoDB:
		sc.ProductsTable = e.required("PRODUCTS_TABLE")
		sc.OrdersTable = e.required("ORDERS_TABLE")
		sc.IdempotencyTable = e.required("IDEMPOTENCY_TABLE")
	case BackendMemory:
	default:
		return sc, fmt.Errorf("unknown STORE_BACKEND %q", sc.Backend)
	}
	return sc, nil
}

// Load reads the API configuration from the environment, after loading an
// optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	e := &env{}
	cfg := &Config{
		AppEnv:            optional("APP_ENV", "development"),
		Port:              optional("PORT", "5000"),
		JWTSecret:         e.required("JWT_SECRET"),
		AdminPassword:     e.required("ADMIN_PASSWORD"),
		CORSOrigins:       list("CORS_ORIGINS", defaultCORSOrigins),
		SeedCatalog:       boolean("SEED_CATALOG", true),
		StrictOrderTotals: boolean("STRICT_ORDER_TOTALS", false),
		OrdersQueueURL:    optional("ORDERS_QUEUE_URL", ""),
		Storage: StorageConfig{
			URL:             e.required("STORAGE_URL"),
			Region:          optional("STORAGE_REGION", ""),
			AccessKeyID:     e.required("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: e.required("STORAGE_SECRET_ACCESS_KEY"),
			Bucket:          e.required("STORAGE_BUCKET"),
			PublicURL:       e.required("STORAGE_PUBLIC_URL"),
		},
	}

	store, err := loadStore(e)
	if err != nil {
		return nil, err
	}
	cfg.Store = store

	if err := e.err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWorker reads the notification worker configuration.
func LoadWorker() (*WorkerConfig, error) {
	_ = godotenv.Load()

	e := &env{}
	cfg := &WorkerConfig{
		AppEnv:           optional("APP_ENV", "production"),
		TelegramBotToken: e.required("TELEGRAM_BOT_TOKEN"),
		MetricsNamespace: optional("METRICS_NAMESPACE", "OptBazar/Orders"),
	}
	chatID := e.required("TELEGRAM_CHAT_ID")

	store, err := loadStore(e)
	if err != nil {
		return nil, err
	}
	cfg.Store = store

	if err := e.err(); err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", chatID, err)
	}
	cfg.TelegramChatID = id
	return cfg, nil
}
