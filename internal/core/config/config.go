package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
	MaxBodyMB       int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Auth struct {
	BcryptCost int
}

type DB struct {
	Driver             string // mongo / postgres / mysql / sqlite / memory
	DSN                string
	Name               string // mongo 库名，为空时取 DSN 路径
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Config struct {
	App  App
	Log  Log
	JWT  JWT
	Auth Auth
	DB   DB
}

const defaultPath = "./configs/config.local.yaml"

// Load 读取配置，失败直接退出
func Load(path string) *Config {
	c, err := load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return c
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if !explicit {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
		if path == "" {
			path = defaultPath
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 兼容原服务的环境变量
	_ = v.BindEnv("db.dsn", "APP_DB_DSN", "MONGODB_URI")

	if err := v.ReadInConfig(); err != nil {
		// 默认路径不存在时只用默认值 + 环境变量
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "restaurant-api")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 3001)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.http.maxBodyMB", 1)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.maxSizeMB", 100)
	v.SetDefault("log.file.maxBackups", 7)
	v.SetDefault("log.file.maxAgeDays", 30)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("jwt.secret", "your-jwt-secret")
	v.SetDefault("jwt.issuer", "restaurant-api")
	v.SetDefault("jwt.accessTokenTTLMin", 60)

	v.SetDefault("auth.bcryptCost", 10)

	v.SetDefault("db.driver", "mongo")
	v.SetDefault("db.dsn", "mongodb://localhost:27017/res")
	v.SetDefault("db.name", "")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")
}
