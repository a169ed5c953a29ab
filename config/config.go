package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	App struct {
		Env      string `yaml:"env"`
		Timezone string `yaml:"timezone"`
	} `yaml:"app"`

	SMTP struct {
		// Enabled defaults to true when a host is configured. When false,
		// mail is logged instead of sent.
		Enabled   *bool         `yaml:"enabled"`
		Host      string        `yaml:"host"`
		Port      int           `yaml:"port"`
		Secure    bool          `yaml:"secure"`
		Username  string        `yaml:"username"`
		Password  string        `yaml:"password"`
		FromName  string        `yaml:"from_name"`
		FromEmail string        `yaml:"from_email"`
		PoolSize  int           `yaml:"pool_size"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"smtp"`

	Intake struct {
		OperatorEmail       string `yaml:"operator_email"`
		ConfirmationFailure string `yaml:"confirmation_failure"`
	} `yaml:"intake"`

	Branding Branding `yaml:"branding"`
}

// Branding is the fixed hotel information printed in every notice.
// SubjectName closes the operator subject lines, Name is used in the
// wording addressed to guests.
type Branding struct {
	Name        string `yaml:"name"`
	ShortName   string `yaml:"short_name"`
	SubjectName string `yaml:"subject_name"`
	Tagline     string `yaml:"tagline"`
	Address     string `yaml:"address"`
	Phone       string `yaml:"phone"`
	PhoneLink   string `yaml:"phone_link"`
	Email       string `yaml:"email"`
	Website     string `yaml:"website"`
}

const (
	DefaultOperatorEmail = "info@kingscourthotel.co.uk"
	DefaultFromName      = "Kings Court Hotel"
)

// DefaultBranding is used for every branding field left unset.
var DefaultBranding = Branding{
	Name:        "Kings Court Hotel & Estate",
	ShortName:   "Kings Court",
	SubjectName: "Kings Court Hotel",
	Tagline:     "Hotel & Estate · Est. 1642",
	Address:     "Kings Court Hotel & Estate · Welford-on-Avon · Warwickshire CV37 8EX",
	Phone:       "+44 (0)1789 123 456",
	PhoneLink:   "+441789123456",
	Email:       "info@kingscourthotel.co.uk",
	Website:     "www.kingscourthotel.co.uk",
}

// LoadConfig reads the YAML file at configPath, applies environment
// overrides and fills defaults. An empty configPath skips the file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if configPath != "" {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode %s: %w", configPath, err)
		}
	}

	config.overrideWithEnvVars()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func (c *Config) overrideWithEnvVars() {
	if port := GetEnv("PORT", ""); port != "" {
		c.Server.Port = port
	}
	if host := GetEnv("HOST", ""); host != "" {
		c.Server.Host = host
	}
	if env := GetEnv("APP_ENV", ""); env != "" {
		c.App.Env = env
	}
	if tz := GetEnv("APP_TIMEZONE", ""); tz != "" {
		c.App.Timezone = tz
	}

	if v := GetEnv("SMTP_HOST", ""); v != "" {
		c.SMTP.Host = v
	}
	c.SMTP.Port = getEnvAsInt("SMTP_PORT", c.SMTP.Port)
	c.SMTP.Secure = getEnvAsBool("SMTP_SECURE", c.SMTP.Secure)
	if v := GetEnv("SMTP_USER", ""); v != "" {
		c.SMTP.Username = v
	}
	if v := GetEnv("SMTP_PASS", ""); v != "" {
		c.SMTP.Password = v
	}
	if v := GetEnv("SMTP_FROM_NAME", ""); v != "" {
		c.SMTP.FromName = v
	}
	if v := GetEnv("SMTP_FROM_EMAIL", ""); v != "" {
		c.SMTP.FromEmail = v
	}
	if v, ok := os.LookupEnv("SMTP_ENABLED"); ok {
		enabled := parseBool(v, true)
		c.SMTP.Enabled = &enabled
	}
	c.SMTP.PoolSize = getEnvAsInt("SMTP_POOL_SIZE", c.SMTP.PoolSize)
	if v := GetEnv("SMTP_TIMEOUT", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SMTP.Timeout = d
		} else {
			log.Printf("WARNING: ignoring invalid SMTP_TIMEOUT %q: %v", v, err)
		}
	}

	if v := GetEnv("HOTEL_EMAIL", ""); v != "" {
		c.Intake.OperatorEmail = v
	}
	if v := GetEnv("CONFIRMATION_FAILURE_POLICY", ""); v != "" {
		c.Intake.ConfirmationFailure = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "3000"
	}
	if c.App.Env == "" {
		c.App.Env = "development"
	}
	if c.App.Timezone == "" {
		c.App.Timezone = "Europe/London"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.SMTP.FromName == "" {
		c.SMTP.FromName = DefaultFromName
	}
	if c.SMTP.FromEmail == "" {
		c.SMTP.FromEmail = c.SMTP.Username
	}
	if c.SMTP.Timeout <= 0 {
		c.SMTP.Timeout = 10 * time.Second
	}
	if c.Intake.OperatorEmail == "" {
		c.Intake.OperatorEmail = DefaultOperatorEmail
	}
	if c.Intake.ConfirmationFailure == "" {
		c.Intake.ConfirmationFailure = "report-failure"
	}

	b, d := &c.Branding, DefaultBranding
	setDefault(&b.Name, d.Name)
	setDefault(&b.ShortName, d.ShortName)
	setDefault(&b.SubjectName, d.SubjectName)
	setDefault(&b.Tagline, d.Tagline)
	setDefault(&b.Address, d.Address)
	setDefault(&b.Phone, d.Phone)
	setDefault(&b.PhoneLink, d.PhoneLink)
	setDefault(&b.Email, d.Email)
	setDefault(&b.Website, d.Website)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate checks settings that would make every delivery fail.
func (c *Config) Validate() error {
	if !c.SMTPEnabled() {
		return nil
	}
	var missing []string
	if c.SMTP.Host == "" {
		missing = append(missing, "smtp.host")
	}
	if c.SMTP.FromEmail == "" {
		missing = append(missing, "smtp.from_email")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SMTPEnabled reports whether mail goes through a real SMTP server.
func (c *Config) SMTPEnabled() bool {
	if c.SMTP.Enabled != nil {
		return *c.SMTP.Enabled
	}
	return c.SMTP.Host != ""
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Location resolves App.Timezone. An unknown zone yields UTC together with
// the lookup error so the caller can report it.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC, fmt.Errorf("unknown timezone %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

func (c *Config) ListenAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("WARNING: ignoring invalid %s %q", key, valueStr)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return parseBool(valueStr, defaultValue)
}

func parseBool(s string, defaultValue bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}
	return value
}
