// Package config reads the engine configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"fixengine/internal/fix"
	"fixengine/internal/session"
	"fixengine/internal/store"
	"fixengine/pkg/utils"
)

var validate = validator.New()

type Config struct {
	Sessions []fix.SessionID `validate:"required,min=1"`

	HeartBtInt                time.Duration `validate:"gt=0"`
	LogonTimeout              time.Duration `validate:"gt=0"`
	LogoutTimeout             time.Duration `validate:"gt=0"`
	TestRequestGrace          time.Duration `validate:"gte=0"`
	ResendTimeout             time.Duration `validate:"gte=0"`
	MaxLatency                time.Duration `validate:"gte=0"`
	ResetOnLogon              bool
	Username                  string
	Password                  string
	EscalateViolations        []string
	SeqTooLowPolicy           string `validate:"oneof=ignore logout"`
	DisconnectOnChecksumError bool

	ListenAddr  string
	ConnectAddr string

	Store store.Config

	KafkaBrokers        []string
	KafkaOrderTopic     string `validate:"required_with=KafkaBrokers"`
	KafkaEventTopic     string `validate:"required_with=KafkaBrokers"`
	KafkaExecutionTopic string `validate:"required_with=KafkaBrokers"`

	DictionaryPath   string
	DictionaryStrict bool

	AdminJWTSecret string

	Port        string `validate:"required,numeric"`
	MetricsPort string `validate:"required,numeric"`

	RateLimiterPeriod      time.Duration `validate:"gt=0"`
	RateLimiterMaxRequests int64         `validate:"gt=0"`
}

// Load reads path with godotenv when it exists and builds the configuration
// from the environment.
func Load(path string) (*Config, error) {
	if err := loadFile(path); err != nil {
		return nil, err
	}
	return FromEnv()
}

// LoadStore reads only the store settings, for tools that do not run sessions.
func LoadStore(path string) (store.Config, error) {
	if err := loadFile(path); err != nil {
		return store.Config{}, err
	}
	cfg := storeFromEnv()
	if err := validate.Struct(cfg); err != nil {
		return store.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

func storeFromEnv() store.Config {
	return store.Config{
		Type:     lookup("STORE_TYPE", store.TypeMemory),
		MongoURL: os.Getenv("MONGO_URL"),
		MongoDB:  lookup("MONGO_DB", "fixengine"),
		RedisURL: os.Getenv("REDIS_URL"),
	}
}

func FromEnv() (*Config, error) {
	p := &parser{}
	cfg := &Config{
		Sessions: p.sessions("FIX_SESSIONS"),

		HeartBtInt:                p.seconds("FIX_HEARTBEAT_INTERVAL", session.DefaultHeartBtInt),
		LogonTimeout:              p.seconds("FIX_LOGON_TIMEOUT", session.DefaultLogonTimeout),
		LogoutTimeout:             p.seconds("FIX_LOGOUT_TIMEOUT", session.DefaultLogoutTimeout),
		TestRequestGrace:          p.seconds("FIX_TEST_REQUEST_GRACE", 0),
		ResendTimeout:             p.seconds("FIX_RESEND_TIMEOUT", session.DefaultResendTimeout),
		MaxLatency:                p.seconds("FIX_MAX_LATENCY", 0),
		ResetOnLogon:              p.flag("FIX_RESET_ON_LOGON"),
		Username:                  os.Getenv("FIX_USERNAME"),
		Password:                  os.Getenv("FIX_PASSWORD"),
		EscalateViolations:        utils.SplitList(os.Getenv("FIX_ESCALATE_VIOLATIONS")),
		SeqTooLowPolicy:           lookup("FIX_SEQ_TOO_LOW_POLICY", session.SeqTooLowIgnore),
		DisconnectOnChecksumError: p.flag("FIX_DISCONNECT_ON_CHECKSUM_ERROR"),

		ListenAddr:  lookup("FIX_LISTEN_ADDR", ":9876"),
		ConnectAddr: os.Getenv("FIX_CONNECT_ADDR"),

		Store: storeFromEnv(),

		KafkaBrokers:        utils.SplitList(os.Getenv("KAFKA_BROKER")),
		KafkaOrderTopic:     lookup("KAFKA_ORDER_TOPIC", "fix.orders"),
		KafkaEventTopic:     lookup("KAFKA_EVENT_TOPIC", "fix.session_events"),
		KafkaExecutionTopic: lookup("KAFKA_EXECUTION_TOPIC", "fix.executions"),

		DictionaryPath:   os.Getenv("DATA_DICTIONARY_PATH"),
		DictionaryStrict: p.flag("DICTIONARY_STRICT"),

		AdminJWTSecret: os.Getenv("ADMIN_JWT_SECRET"),

		Port:        lookup("PORT", "8080"),
		MetricsPort: lookup("METRICS_PORT", "2112"),

		RateLimiterPeriod:      p.seconds("RATE_LIMITER_DURATION", time.Second),
		RateLimiterMaxRequests: int64(p.integer("RATE_LIMITER_MAX_REQUESTS", 5)),
	}
	if p.err != nil {
		return nil, p.err
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// SessionSettings builds the settings of one configured session.
func (c *Config) SessionSettings(id fix.SessionID, initiator bool) session.Settings {
	return session.Settings{
		SessionID:                 id,
		Initiator:                 initiator,
		HeartBtInt:                c.HeartBtInt,
		LogonTimeout:              c.LogonTimeout,
		LogoutTimeout:             c.LogoutTimeout,
		TestRequestGrace:          c.TestRequestGrace,
		ResendTimeout:             c.ResendTimeout,
		MaxLatency:                c.MaxLatency,
		ResetOnLogon:              c.ResetOnLogon,
		Username:                  c.Username,
		Password:                  c.Password,
		EscalateViolations:        c.EscalateViolations,
		SeqTooLowPolicy:           c.SeqTooLowPolicy,
		DisconnectOnChecksumError: c.DisconnectOnChecksumError,
	}
}

func lookup(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// parser keeps the first conversion error so FromEnv reads like a list.
type parser struct {
	err error
}

func (p *parser) fail(key, v string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
}

func (p *parser) integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

// seconds reads a whole number of seconds or a Go duration such as "500ms".
func (p *parser) seconds(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}

func (p *parser) flag(key string) bool {
	v := os.Getenv(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
	}
	return b
}

func (p *parser) sessions(key string) []fix.SessionID {
	var out []fix.SessionID
	for _, v := range utils.SplitList(os.Getenv(key)) {
		id, err := fix.ParseSessionID(strings.TrimSpace(v))
		if err != nil {
			p.fail(key, v, err)
			continue
		}
		out = append(out, id)
	}
	return out
}
