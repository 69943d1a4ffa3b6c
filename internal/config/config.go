package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"4000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	// 初始管理员只有在显式开启时才会创建
	InitialAdmin struct {
		Enabled  bool   `env:"ENABLED" envDefault:"false"`
		Name     string `env:"NAME" envDefault:"管理员"`
		Email    string `env:"EMAIL"`
		Password string `env:"PASSWORD"`
	} `envPrefix:"INITIAL_ADMIN_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"8"` // 小时
		Secret     string `env:"SECRET,required"`
		CookieName string `env:"COOKIE_NAME" envDefault:"__ecnc_employee_portal_token"`
	} `envPrefix:"JWT_"`
	Seed struct {
		User struct {
			Password string `env:"PASSWORD" envDefault:"portal@test8403"`
		} `envPrefix:"USER_"`
	} `envPrefix:"SEED_"`
	Email struct {
		UserDomain string `env:"USER_DOMAIN" envDefault:"example.com"`
		SMTP       struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		Queue          string `env:"QUEUE" envDefault:"email_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	OTP struct {
		Expiration int `env:"EXPIRATION" envDefault:"900"` // 15 分钟
	} `envPrefix:"OTP_"`
	Attendance struct {
		Timezone string `env:"TIMEZONE" envDefault:"Local"`
	} `envPrefix:"ATTENDANCE_"`
	Leave struct {
		StrictTransitions bool `env:"STRICT_TRANSITIONS" envDefault:"false"`
		DefaultAllocation int  `env:"DEFAULT_ALLOCATION" envDefault:"12"`
	} `envPrefix:"LEAVE_"`
	Audit struct {
		MaxLimit int `env:"MAX_LIMIT" envDefault:"200"`
	} `envPrefix:"AUDIT_"`
}

func LoadConfig() (*Config, error) {
	// .env 文件是可选的，不存在时直接使用环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.InitialAdmin.Enabled && (c.InitialAdmin.Email == "" || c.InitialAdmin.Password == "") {
		return errors.New("开启初始管理员时必须设置 INITIAL_ADMIN_EMAIL 和 INITIAL_ADMIN_PASSWORD")
	}
	if c.Leave.DefaultAllocation < 0 {
		return errors.New("LEAVE_DEFAULT_ALLOCATION 不能为负数")
	}
	if c.Audit.MaxLimit <= 0 {
		return errors.New("AUDIT_MAX_LIMIT 必须为正数")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location 返回用于切分考勤日期的时区
func (c *Config) Location() (*time.Location, error) {
	if c.Attendance.Timezone == "" || c.Attendance.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Attendance.Timezone)
}
