package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"

	"go.uber.org/fx"
)

// Package config provides utilities for loading and managing application configuration
// from YAML and environment variables.

const moduleName = "config"

// envPrefix is the prefix for reflection-based environment variable overrides
// (e.g., SLACKCHATBOT_SERVER_PORT).
const envPrefix = "SLACKCHATBOT_"

// ConfigParams defines the dependencies for NewConfigProvider.
type ConfigParams struct {
	fx.In
	EmbeddedConfig EmbeddedConfig // EmbeddedConfig contains the raw bytes of the configuration file.
	EnvFilePath    string         `name:"envFilePath" optional:"true"` // EnvFilePath is the path to the .env file, if any.
}

// loadConfig loads configuration from the embedded YAML and environment variables.
// This function is intended to be called only once during application startup.
func loadConfig(envFilePath string, embeddedConfig EmbeddedConfig) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			logger.Debugf(".env file (%s) not found or could not be loaded: %v", envFilePath, err)
		}
	} else {
		if err := godotenv.Load(); err != nil {
			logger.Debugf(".env file not found or could not be loaded: %v", err)
		}
	}

	// 1. Load defaults from NewConfig()
	cfg := NewConfig()

	// 2. Load configuration from embedded YAML into a generic map.
	var yamlValues map[string]interface{}
	if err := yaml.Unmarshal(embeddedConfig, &yamlValues); err != nil {
		return nil, exception.NewBotError(moduleName, "failed to unmarshal embedded config", err, false)
	}

	// 3. Bind the YAML values over the defaults. Keys absent from the YAML
	// leave the corresponding default untouched.
	if err := bindConfigMap(yamlValues, cfg); err != nil {
		return nil, exception.NewBotError(moduleName, "failed to bind embedded config", err, false)
	}

	// 4. Override with SLACKCHATBOT_* environment variables.
	if err := loadStructFromEnv(reflect.ValueOf(cfg).Elem().FieldByName("Bot"), envPrefix); err != nil {
		return nil, exception.NewBotError(moduleName, "failed to load config from environment variables", err, false)
	}

	// 5. Apply the well-known deployment variable names last
	// (SLACK_BOT_TOKEN, SLACK_SIGNING_SECRET, GEMINI_API_KEY, PORT).
	applyWellKnownEnv(cfg)

	return cfg, nil
}

// applyWellKnownEnv overrides credentials and the listen port from the
// conventional environment variable names used by the deployment target.
func applyWellKnownEnv(cfg *Config) {
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		cfg.Bot.Slack.BotToken = v
	}
	if v := os.Getenv("SLACK_SIGNING_SECRET"); v != "" {
		cfg.Bot.Slack.SigningSecret = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Bot.Gemini.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Bot.Server.Port = port
		} else {
			logger.Warnf("Ignoring invalid PORT environment variable value: %q", v)
		}
	}
}

// NewConfigProvider is an Fx provider that loads and provides *Config.
// It initializes the application configuration by loading defaults,
// merging from embedded YAML, and overriding with environment variables.
// It also sets the global logger level.
func NewConfigProvider(params ConfigParams) (*Config, error) {
	cfg, err := loadConfig(params.EnvFilePath, params.EmbeddedConfig)
	if err != nil {
		return nil, exception.NewBotError(moduleName, "failed to load configuration", err, false)
	}

	logger.SetLogLevel(cfg.Bot.System.Logging.Level)
	logger.Infof("Log level set to: %s", cfg.Bot.System.Logging.Level)

	return cfg, nil
}

// LoadConfig loads configuration from the embedded YAML and environment variables.
// This function is expected to be called only once during application startup.
func LoadConfig(envFilePath string, embeddedConfig EmbeddedConfig) (*Config, error) {
	return loadConfig(envFilePath, embeddedConfig)
}

// bindConfigMap decodes a generic YAML map into the target config struct.
// mapstructure only touches keys present in the map, so defaults for absent
// keys survive. WeaklyTypedInput converts strings to numbers and bools where
// the struct expects them.
func bindConfigMap(values map[string]interface{}, target *Config) error {
	if len(values) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "yaml",
	})
	if err != nil {
		return exception.NewBotError(moduleName, "failed to create config decoder", err, false)
	}
	return decoder.Decode(values)
}

// loadStructFromEnv recursively loads configuration values into a struct from environment variables.
// It uses the "yaml" tag to determine the environment variable name.
//
// Parameters:
//   val: The reflect.Value of the struct to populate.
//   prefix: The prefix for environment variable names (e.g., "SLACKCHATBOT_SERVER_").
func loadStructFromEnv(val reflect.Value, prefix string) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)
		yamlTag := fieldType.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}
		envVarName := strings.ToUpper(prefix + yamlTag)

		if field.Kind() == reflect.Struct {
			if err := loadStructFromEnv(field, envVarName+"_"); err != nil {
				return err
			}
			continue
		}

		envValue, exists := os.LookupEnv(envVarName)
		if !exists {
			continue
		}

		if err := setField(field, envValue); err != nil {
			return exception.NewBotErrorf(moduleName, "failed to set field '%s' from env var '%s'", fieldType.Name, envVarName, err)
		}
	}
	return nil
}

// setField sets the value of a reflect.Value field based on its kind.
// It handles string, int, float, and bool types.
func setField(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(intValue)
	case reflect.Float64, reflect.Float32:
		floatValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolValue)
	}
	return nil
}
