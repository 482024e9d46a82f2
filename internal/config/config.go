package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Log file names, one per job stream.
const (
	HeartbeatLogFile = "crm_heartbeat_log.txt"
	LowStockLogFile  = "low_stock_updates_log.txt"
	RemindersLogFile = "order_reminders_log.txt"
	ReportLogFile    = "crm_report_log.txt"
	CleanupLogFile   = "customer_cleanup_log.txt"
)

// Config carries everything the binaries need. Nothing in this repo reads
// process-wide mutable state; mains decode a Config and hand it down.
type Config struct {
	HTTPAddr string `env:"CRM_HTTP_ADDR,default=:8000"`

	GatewayURL     string        `env:"CRM_GATEWAY_URL,default=http://localhost:8000/graphql"`
	GatewayTimeout time.Duration `env:"CRM_GATEWAY_TIMEOUT,default=5s"`

	MySQLDSN  string `env:"CRM_MYSQL_DSN,default=root:root@tcp(localhost:3306)/crm?parseTime=true"`
	RedisAddr string `env:"CRM_REDIS_ADDR,default=localhost:6379"`

	LogDir string `env:"CRM_LOG_DIR,default=/tmp"`

	LowStockThreshold int `env:"CRM_LOW_STOCK_THRESHOLD,default=10"`
	RestockAmount     int `env:"CRM_RESTOCK_AMOUNT,default=10"`

	LogRetentionDays   int `env:"CRM_LOG_RETENTION_DAYS,default=30"`
	ReminderWindowDays int `env:"CRM_REMINDER_WINDOW_DAYS,default=7"`

	HeartbeatCron string `env:"CRM_HEARTBEAT_CRON,default=*/5 * * * *"`
	LowStockCron  string `env:"CRM_LOW_STOCK_CRON,default=0 */12 * * *"`
	RemindersCron string `env:"CRM_REMINDERS_CRON,default=0 8 * * *"`
	ReportCron    string `env:"CRM_REPORT_CRON,default=0 6 * * 1"`
	CleanupCron   string `env:"CRM_CLEANUP_CRON,default=0 1 * * *"`
}

// Load reads .env if present, then decodes the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (c Config) LogPath(name string) string {
	return filepath.Join(c.LogDir, name)
}

func (c Config) Retention() time.Duration {
	return time.Duration(c.LogRetentionDays) * 24 * time.Hour
}

func (c Config) ReminderWindow() time.Duration {
	return time.Duration(c.ReminderWindowDays) * 24 * time.Hour
}
