package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lintang-b-s/osm-wrangler/pkg/cleaner"

	"github.com/spf13/viper"
)

type InputConfig struct {
	Decoder  string `mapstructure:"decoder"`
	Progress bool   `mapstructure:"progress"`
}

type OutputConfig struct {
	Pretty    bool   `mapstructure:"pretty"`
	StorePath string `mapstructure:"store_path"`
	BatchSize int    `mapstructure:"batch_size"`
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
	Workers    int    `mapstructure:"workers"`
	BatchSize  int    `mapstructure:"batch_size"`
}

type APIConfig struct {
	Port    int           `mapstructure:"port"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Config struct {
	Cleaner cleaner.Config
	Input   InputConfig
	Output  OutputConfig
	Mongo   MongoConfig
	API     APIConfig
	TopN    int
}

// New reads config.yaml from the working directory. a missing file leaves every value at its default.
func New() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	return load()
}

// NewFromFile is New with an explicit config file path.
func NewFromFile(path string) (*Config, error) {
	if path == "" {
		return New()
	}
	viper.SetConfigFile(path)
	return load()
}

func setDefaults() {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("input.decoder", "raw")
	viper.SetDefault("input.progress", true)

	viper.SetDefault("output.pretty", false)
	viper.SetDefault("output.store_path", "")
	viper.SetDefault("output.batch_size", 1000)

	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "openStreetMap")
	viper.SetDefault("mongo.collection", "shanghai")
	viper.SetDefault("mongo.workers", 4)
	viper.SetDefault("mongo.batch_size", 1000)

	viper.SetDefault("api.port", 6060)
	viper.SetDefault("api.timeout", "30s")
	viper.SetDefault("stats.top_n", 3)
}

func load() (*Config, error) {
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var typeErr viper.ConfigFileNotFoundError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Input: InputConfig{
			Decoder:  viper.GetString("input.decoder"),
			Progress: viper.GetBool("input.progress"),
		},
		Output: OutputConfig{
			Pretty:    viper.GetBool("output.pretty"),
			StorePath: viper.GetString("output.store_path"),
			BatchSize: viper.GetInt("output.batch_size"),
		},
		Mongo: MongoConfig{
			URI:        viper.GetString("mongo.uri"),
			Database:   viper.GetString("mongo.database"),
			Collection: viper.GetString("mongo.collection"),
			Workers:    viper.GetInt("mongo.workers"),
			BatchSize:  viper.GetInt("mongo.batch_size"),
		},
		API: APIConfig{
			Port:    viper.GetInt("api.port"),
			Timeout: viper.GetDuration("api.timeout"),
		},
		TopN: viper.GetInt("stats.top_n"),
	}

	var fileCleaner cleaner.Config
	if viper.IsSet("cleaner") {
		if err := viper.UnmarshalKey("cleaner", &fileCleaner); err != nil {
			return nil, fmt.Errorf("decode cleaner config: %w", err)
		}
	}
	cfg.Cleaner = MergeCleaner(cleaner.DefaultConfig(), fileCleaner)
	if err := cfg.Cleaner.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeCleaner overlays every non zero field of file onto def. lists are replaced, not merged.
func MergeCleaner(def, file cleaner.Config) cleaner.Config {
	out := def
	if file.Corrections != nil {
		out.Corrections = file.Corrections
	}
	if file.ExpectedSuffixes != nil {
		out.ExpectedSuffixes = file.ExpectedSuffixes
	}
	if file.Region.Name != "" {
		out.Region.Name = file.Region.Name
	}
	if file.Region.CityNames != nil {
		out.Region.CityNames = file.Region.CityNames
	}
	setString(&out.PhoneKey, file.PhoneKey)
	setString(&out.EnglishNameKey, file.EnglishNameKey)
	setString(&out.NameKey, file.NameKey)
	setString(&out.AddressPrefix, file.AddressPrefix)
	setString(&out.Separator, file.Separator)
	if file.CreationAttributes != nil {
		out.CreationAttributes = file.CreationAttributes
	}
	if file.BookkeepingKeys != nil {
		out.BookkeepingKeys = file.BookkeepingKeys
	}
	if file.PhoneDigits != 0 {
		out.PhoneDigits = file.PhoneDigits
	}
	if file.PostcodeDigits != 0 {
		out.PostcodeDigits = file.PostcodeDigits
	}
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
