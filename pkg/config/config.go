package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Security     SecurityConfig     `yaml:"security"`
	Logging      LoggingConfig      `yaml:"logging"`
	Notification NotificationConfig `yaml:"notification"`
}

type ServerConfig struct {
	APIPort int    `yaml:"api_port"`
	Mode    string `yaml:"mode"` // debug / release
}

type DatabaseConfig struct {
	Driver          string `yaml:"driver"` // 数据库驱动: mysql, postgres (默认: mysql)
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	// Enabled 是否启用Redis
	// - true: 启用Redis，投递重试Worker可以跨实例抢占租约
	// - false: 禁用Redis，单机模式（Worker直接处理，无租约）
	Enabled bool `yaml:"enabled"`

	// Host Redis服务器地址（仅在enabled=true时有效）
	Host string `yaml:"host"`

	// Port Redis服务器端口（仅在enabled=true时有效）
	Port int `yaml:"port"`

	// Password Redis密码（可选，如果Redis未设置密码则留空）
	Password string `yaml:"password"`

	// DB Redis数据库编号（默认0）
	DB int `yaml:"db"`

	// ConnectTimeout 连接超时时间（秒，默认5秒）
	ConnectTimeout int `yaml:"connect_timeout"`

	// ReadTimeout 读取超时时间（秒，默认3秒）
	ReadTimeout int `yaml:"read_timeout"`

	// WriteTimeout 写入超时时间（秒，默认3秒）
	WriteTimeout int `yaml:"write_timeout"`

	// PoolSize 连接池大小（默认10）
	PoolSize int `yaml:"pool_size"`

	// MinIdleConns 最小空闲连接数（默认5）
	MinIdleConns int `yaml:"min_idle_conns"`
}

// Validate 验证Redis配置
func (c *RedisConfig) Validate() error {
	if !c.Enabled {
		return nil // Redis未启用，无需验证
	}

	if c.Host == "" {
		return fmt.Errorf("redis host is required when enabled=true")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid redis port: %d", c.Port)
	}

	return nil
}

// SetDefaults 设置默认值
func (c *RedisConfig) SetDefaults() {
	if c.Port == 0 {
		c.Port = 6379
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns == 0 {
		c.MinIdleConns = 5
	}
}

type SecurityConfig struct {
	// JWTSecret JWT签名密钥（建议64字节或更长，更安全）
	JWTSecret string `yaml:"jwt_secret"`

	// TokenExpireHours Token有效期（小时，默认24）
	TokenExpireHours int `yaml:"token_expire_hours"`
}

// SetDefaults 设置安全配置的默认值
func (c *SecurityConfig) SetDefaults() {
	if c.JWTSecret == "" {
		// 默认JWT密钥（仅用于开发环境，生产环境必须修改为强随机字符串）
		c.JWTSecret = "mPq0iRzW3c8vYtK5nJhXbA2dEfG7uLoS9wT4xC6rV1yB0zN8kM5jH3gF2aD7sQe"
	}
	if c.TokenExpireHours == 0 {
		c.TokenExpireHours = 24
	}
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug / info / warn / error
	Output string `yaml:"output"` // console / file / both
	File   string `yaml:"file"`   // 日志文件路径
}

type NotificationConfig struct {
	// WorkerEnabled 是否启动投递重试Worker（默认启用）
	WorkerEnabled bool `yaml:"worker_enabled"`

	// WorkerInterval Worker轮询间隔（秒，默认30秒）
	WorkerInterval int `yaml:"worker_interval"`

	// WorkerBatchSize 每次轮询处理的最大投递任务数（默认25）
	WorkerBatchSize int `yaml:"worker_batch_size"`

	// EmailWebhookURL 邮件投递Webhook地址（未配置时邮件投递任务会重试直至失败）
	EmailWebhookURL string `yaml:"email_webhook_url"`

	// SMSWebhookURL 短信投递Webhook地址（未配置时短信投递任务会重试直至失败）
	SMSWebhookURL string `yaml:"sms_webhook_url"`

	// SendTimeout 单次外部投递调用的超时时间（秒，默认10秒）
	SendTimeout int `yaml:"send_timeout"`
}

// SetDefaults 设置通知配置的默认值
func (c *NotificationConfig) SetDefaults() {
	if c.WorkerInterval == 0 {
		c.WorkerInterval = 30
	}
	if c.WorkerBatchSize == 0 {
		c.WorkerBatchSize = 25
	}
	if c.SendTimeout == 0 {
		c.SendTimeout = 10
	}
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// worker_enabled 缺省为 true（yaml布尔缺省是false，需要探测字段是否出现）
	applyNotificationDefaults(data, &config.Notification)

	// 设置默认值（数据库默认值需要在环境变量处理之前设置）
	config.Database.SetDefaults()
	config.Redis.SetDefaults()
	config.Security.SetDefaults()
	config.Notification.SetDefaults()

	// 验证配置
	if err := config.Redis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis config: %w", err)
	}

	// 支持通过环境变量覆盖数据库配置（Docker 部署时使用）
	// 数据库驱动类型: mysql, postgres (默认: mysql)
	if dbDriver := os.Getenv("DB_DRIVER"); dbDriver != "" {
		config.Database.Driver = dbDriver
	}
	// 数据库地址
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	// 数据库端口
	if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			config.Database.Port = port
		}
	}
	// 数据库用户名
	if dbUser := os.Getenv("DB_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	// 数据库密码
	if dbPassword := os.Getenv("DB_PASSWORD"); dbPassword != "" {
		config.Database.Password = dbPassword
	}
	// 数据库名称
	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		config.Database.DBName = dbName
	}

	// 设置数据库默认值（包括 driver 的默认值）
	config.Database.SetDefaults()

	// 支持通过环境变量覆盖Redis配置
	if redisEnabled := os.Getenv("REDIS_ENABLED"); redisEnabled != "" {
		if enabled, err := strconv.ParseBool(redisEnabled); err == nil {
			config.Redis.Enabled = enabled
		}
	}
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		config.Redis.Host = redisHost
	}
	if redisPort := os.Getenv("REDIS_PORT"); redisPort != "" {
		if port, err := strconv.Atoi(redisPort); err == nil {
			config.Redis.Port = port
		}
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			config.Redis.DB = db
		}
	}

	// 重新设置Redis默认值（环境变量可能覆盖了某些值）
	config.Redis.SetDefaults()

	// 重新验证Redis配置（环境变量可能改变了配置）
	if err := config.Redis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis config: %w", err)
	}

	// 支持通过环境变量覆盖通知投递配置
	if workerEnabled := os.Getenv("NOTIFY_WORKER_ENABLED"); workerEnabled != "" {
		if enabled, err := strconv.ParseBool(workerEnabled); err == nil {
			config.Notification.WorkerEnabled = enabled
		}
	}
	if workerInterval := os.Getenv("NOTIFY_WORKER_INTERVAL"); workerInterval != "" {
		if interval, err := strconv.Atoi(workerInterval); err == nil && interval > 0 {
			config.Notification.WorkerInterval = interval
		}
	}
	if emailURL := os.Getenv("NOTIFY_EMAIL_WEBHOOK_URL"); emailURL != "" {
		config.Notification.EmailWebhookURL = emailURL
	}
	if smsURL := os.Getenv("NOTIFY_SMS_WEBHOOK_URL"); smsURL != "" {
		config.Notification.SMSWebhookURL = smsURL
	}

	GlobalConfig = &config
	return &config, nil
}

// applyNotificationDefaults 探测配置文件是否显式写了 worker_enabled，没写则默认启用
func applyNotificationDefaults(raw []byte, cfg *NotificationConfig) {
	var probe struct {
		Notification struct {
			WorkerEnabled *bool `yaml:"worker_enabled"`
		} `yaml:"notification"`
	}
	if err := yaml.Unmarshal(raw, &probe); err != nil || probe.Notification.WorkerEnabled == nil {
		cfg.WorkerEnabled = true
	}
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" || c.Driver == "postgresql" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Host, c.Port, c.User, c.Password, c.DBName)
	}
	// 默认 MySQL
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// SetDefaults 设置默认值
func (c *DatabaseConfig) SetDefaults() {
	if c.Driver == "" {
		c.Driver = "mysql"
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 10
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 100
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 3600 // 1 hour
	}
}
