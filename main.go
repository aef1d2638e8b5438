package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"govpass-enrollment/camera"
	"govpass-enrollment/logging"
	"govpass-enrollment/redis"

	"github.com/joho/godotenv"
)

type DmsConfig struct {
	BaseUrl    string `json:"base_url"`
	CsrfToken  string `json:"csrf_token,omitempty"`
	AuthHeader string `json:"auth_header,omitempty"`
}

type LlmConfig struct {
	Url    string `json:"url"`
	ApiKey string `json:"api_key,omitempty"`
}

type UserApiConfig struct {
	BaseUrl  string `json:"base_url"`
	Endpoint string `json:"endpoint"`
}

type Config struct {
	ServerConfig ServerConfig `json:"server_config"`

	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`

	JwtPrivateKeyPath string `json:"jwt_private_key_path"`

	Dms     DmsConfig     `json:"dms"`
	Llm     LlmConfig     `json:"llm"`
	UserApi UserApiConfig `json:"user_api"`

	PollMaxAttempts     int `json:"poll_max_attempts,omitempty"`
	PollIntervalSeconds int `json:"poll_interval_seconds,omitempty"`

	CameraSpoolDir string `json:"camera_spool_dir,omitempty"`

	DemoUsers []DemoUser `json:"demo_users"`

	StorageType         string                    `json:"storage_type"`
	RedisConfig         redis.RedisConfig         `json:"redis_config,omitempty"`
	RedisSentinelConfig redis.RedisSentinelConfig `json:"redis_sentinel_config,omitempty"`
}

func main() {
	configPath := flag.String("config", "", "Path for the config.json to use")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "please provide a config path using the --config flag")
		os.Exit(1)
	}

	config, err := readConfigFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read config file: %v\n", err)
		os.Exit(1)
	}

	logging.InitLogger(config.LogLevel, config.LogFormat)
	slog.Info("Using config", "path", *configPath)
	slog.Info("Hosting on", "host", config.ServerConfig.Host, "port", config.ServerConfig.Port)

	tokenCreator, err := NewRsaSessionTokenCreator(config.JwtPrivateKeyPath)
	if err != nil {
		slog.Error("failed to instantiate session token creator", "error", err)
		os.Exit(1)
	}

	storage, err := createEnrollmentStorage(&config)
	if err != nil {
		slog.Error("failed to instantiate enrollment storage", "error", err)
		os.Exit(1)
	}

	policy := DefaultPollPolicy()
	if config.PollMaxAttempts > 0 {
		policy.MaxAttempts = config.PollMaxAttempts
	}
	if config.PollIntervalSeconds > 0 {
		policy.Interval = time.Duration(config.PollIntervalSeconds) * time.Second
	}

	intake := NewDmsClient(config.Dms.BaseUrl, config.Dms.CsrfToken, config.Dms.AuthHeader)
	llm := NewLlmClient(config.Llm.Url, config.Llm.ApiKey)

	var cameraDevice camera.Device
	if config.CameraSpoolDir != "" {
		slog.Info("Using camera spool", "dir", config.CameraSpoolDir)
		cameraDevice = camera.NewSpoolDevice(config.CameraSpoolDir)
	}

	serverState := ServerState{
		storage:      storage,
		tokenCreator: tokenCreator,
		processor:    NewExtractionService(intake, llm, policy),
		issuance:     NewIssuanceClient(config.UserApi.BaseUrl, config.UserApi.Endpoint),
		cameraDevice: cameraDevice,
		demoUsers:    config.DemoUsers,
	}

	server, err := NewServer(&serverState, config.ServerConfig)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	err = server.ListenAndServe()
	if err != nil {
		slog.Error("failed to listen and serve", "error", err)
		os.Exit(1)
	}
}

func readConfigFile(path string) (Config, error) {
	// Secrets may live in a .env file next to the service instead of
	// the config file; missing .env is not an error.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	configBytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var config Config
	err = json.Unmarshal(configBytes, &config)
	if err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&config)
	return config, nil
}

// applyEnvOverrides lets the environment supply or replace the secrets
// so they never need to be committed with the config file.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("DMS_CSRF_TOKEN"); v != "" {
		config.Dms.CsrfToken = v
	}
	if v := os.Getenv("DMS_AUTH_HEADER"); v != "" {
		config.Dms.AuthHeader = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		config.Llm.ApiKey = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		config.RedisConfig.Password = v
		config.RedisSentinelConfig.Password = v
	}
}

func createEnrollmentStorage(config *Config) (EnrollmentStorage, error) {
	if config.StorageType == "redis" {
		slog.Info("Using redis enrollment storage")
		client, err := redis.NewRedisClient(&config.RedisConfig)
		if err != nil {
			return nil, err
		}
		return NewRedisEnrollmentStorage(client, config.RedisConfig.Namespace), nil
	}
	if config.StorageType == "redis_sentinel" {
		slog.Info("Using redis sentinel enrollment storage")
		client, err := redis.NewRedisSentinelClient(&config.RedisSentinelConfig)
		if err != nil {
			return nil, err
		}
		return NewRedisEnrollmentStorage(client, config.RedisSentinelConfig.Namespace), nil
	}
	if config.StorageType == "memory" {
		slog.Info("Using in memory enrollment storage")
		return NewInMemoryEnrollmentStorage(), nil
	}
	return nil, fmt.Errorf("%v is not a valid storage type", config.StorageType)
}
