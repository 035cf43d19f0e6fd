package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Admin struct {
		Username     string `yaml:"username"`
		PasswordHash string `yaml:"password_hash"` // bcrypt
		MaxPerPage   int    `yaml:"max_per_page"`
	} `yaml:"admin"`

	Storage struct {
		Root          string `yaml:"root"`            // корень файлового хранилища
		BirthCertsDir string `yaml:"birth_certs_dir"` // поддиректория для документов детей
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // максимальный размер файла в байтах
		AllowedTypes []string `yaml:"allowed_types"` // разрешенные MIME-типы
	} `yaml:"upload"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		Enabled      bool   `yaml:"enabled"`
	} `yaml:"email"`

	CORS struct {
		Origins string `yaml:"origins"`
	} `yaml:"cors"`
}

// Load читает конфигурацию из config.yaml, либо, если задан DATABASE_URL,
// из переменных окружения (режим теста). Возвращает immutable-объект,
// который явно передается в конструкторы компонентов.
func Load() *Config {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		return &cfg
	}

	log.Println("Загрузка конфигурации из переменных окружения (режим теста)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Admin.Username = os.Getenv("ADMIN_USERNAME")
	cfg.Admin.PasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")

	cfg.Storage.Root = os.Getenv("STORAGE_ROOT")
	if cfg.Storage.Root == "" {
		cfg.Storage.Root = "./storage"
	}

	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 1440 // сутки
	}
	if cfg.Admin.MaxPerPage == 0 {
		cfg.Admin.MaxPerPage = 1000
	}
	if cfg.Storage.Root == "" {
		cfg.Storage.Root = "./storage"
	}
	if cfg.Storage.BirthCertsDir == "" {
		cfg.Storage.BirthCertsDir = "birth_certs"
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{
			"application/pdf", "image/jpeg", "image/png",
		}
	}
	if cfg.CORS.Origins == "" {
		cfg.CORS.Origins = "*"
	}
}
