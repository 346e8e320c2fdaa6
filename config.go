package worklog

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/worklogbot/worklog/pkg/constants"
)

// Environment variables read by LoadConfig.
const (
	EnvBaseURL      = "BASE_URL"
	EnvBaseURLV1    = "BASE_URL_V1"
	EnvSpaceID      = "SPACE_ID"
	EnvTemplateID   = "TEMPLATE_ID"
	EnvRootFolderID = "ROOT_FOLDER_ID"
	EnvUser         = "ATLASSIAN_USER"
	EnvAPIToken     = "ATLASSIAN_API_TOKEN"

	EnvHTTPTimeout = "HTTP_TIMEOUT"
	EnvPlaceholder = "TEMPLATE_PLACEHOLDER"
	EnvDate        = "WORKLOG_DATE"
	EnvTimezone    = "WORKLOG_TIMEZONE"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFile     = "LOG_FILE"
	EnvLogPretty   = "LOG_PRETTY"
)

// Config holds all configuration for one run.
// The json tags name the environment variable each field comes from, so
// validation errors point at the variable to fix.
type Config struct {
	// v2 REST root, e.g. https://acme.atlassian.net/wiki/api/v2
	BaseURL string `json:"BASE_URL"`
	// v1 REST root, used for templates
	BaseURLV1    string `json:"BASE_URL_V1"`
	SpaceID      string `json:"SPACE_ID"`
	TemplateID   string `json:"TEMPLATE_ID"`
	RootFolderID string `json:"ROOT_FOLDER_ID"`
	User         string `json:"ATLASSIAN_USER"`
	APIToken     string `json:"ATLASSIAN_API_TOKEN"`

	HTTPTimeout time.Duration `json:"HTTP_TIMEOUT"`
	// Literal text in the template body replaced by the target date
	PlaceholderDate string `json:"TEMPLATE_PLACEHOLDER"`
	// Optional YYYY-MM-DD override of today
	Date     string `json:"WORKLOG_DATE"`
	Timezone string `json:"WORKLOG_TIMEZONE"`

	LogLevel  string `json:"LOG_LEVEL"`
	LogFile   string `json:"LOG_FILE"`
	LogPretty bool   `json:"LOG_PRETTY"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		HTTPTimeout:     10 * time.Second,
		PlaceholderDate: constants.DefaultPlaceholderDate,
		Timezone:        "Local",
		LogLevel:        "info",
	}
}

// LoadConfig builds a Config from lookup on top of the defaults.
// Values that cannot be parsed are reported immediately; missing required
// values are left for Validate.
func LoadConfig(lookup LookupFunc) (*Config, error) {
	c := NewConfig()

	c.BaseURL = getOrDefault(lookup, EnvBaseURL, "")
	c.BaseURLV1 = getOrDefault(lookup, EnvBaseURLV1, "")
	c.SpaceID = getOrDefault(lookup, EnvSpaceID, "")
	c.TemplateID = getOrDefault(lookup, EnvTemplateID, "")
	c.RootFolderID = getOrDefault(lookup, EnvRootFolderID, "")
	c.User = getOrDefault(lookup, EnvUser, "")
	c.APIToken = getOrDefault(lookup, EnvAPIToken, "")

	c.PlaceholderDate = getOrDefault(lookup, EnvPlaceholder, c.PlaceholderDate)
	c.Date = getOrDefault(lookup, EnvDate, "")
	c.Timezone = getOrDefault(lookup, EnvTimezone, c.Timezone)
	c.LogLevel = getOrDefault(lookup, EnvLogLevel, c.LogLevel)
	c.LogFile = getOrDefault(lookup, EnvLogFile, "")

	if v := getOrDefault(lookup, EnvHTTPTimeout, ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a valid duration", constants.ErrInvalidConfig, EnvHTTPTimeout, v)
		}
		c.HTTPTimeout = d
	}

	if v := getOrDefault(lookup, EnvLogPretty, ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a boolean", constants.ErrInvalidConfig, EnvLogPretty, v)
		}
		c.LogPretty = b
	}

	return c, nil
}

// Validate checks if the configuration is valid.
// Missing required settings wrap constants.ErrMissingConfig, anything else
// constants.ErrInvalidConfig.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.BaseURLV1, validation.Required, validation.By(httpURL)),
		validation.Field(&c.SpaceID, validation.Required),
		validation.Field(&c.TemplateID, validation.Required),
		validation.Field(&c.RootFolderID, validation.Required),
		validation.Field(&c.User, validation.Required),
		validation.Field(&c.APIToken, validation.Required),
		validation.Field(&c.HTTPTimeout, validation.By(positiveDuration)),
		validation.Field(&c.PlaceholderDate, validation.Required),
		validation.Field(&c.Date, validation.Date(constants.DateLayout)),
		validation.Field(&c.Timezone, validation.By(knownLocation)),
	)
	if err == nil {
		return nil
	}

	if isMissing(err) {
		return fmt.Errorf("%w: %v", constants.ErrMissingConfig, err)
	}
	return fmt.Errorf("%w: %v", constants.ErrInvalidConfig, err)
}

// Location resolves Timezone, defaulting to the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Today returns the calendar day the run works for: Date when set,
// otherwise the day of now in the configured zone.
func (c *Config) Today(now time.Time) (time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", constants.ErrInvalidConfig, err)
	}

	if c.Date != "" {
		day, err := time.ParseInLocation(constants.DateLayout, c.Date, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s=%q: %v", constants.ErrInvalidConfig, EnvDate, c.Date, err)
		}
		return day, nil
	}

	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

func isMissing(err error) bool {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return false
	}
	for _, fieldErr := range errs {
		var ve validation.Error
		if errors.As(fieldErr, &ve) && ve.Code() == validation.ErrRequired.Code() {
			return true
		}
	}
	return false
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return errors.New("must be an absolute URL")
	}
	if !strings.EqualFold(u.Scheme, constants.HTTPScheme) && !strings.EqualFold(u.Scheme, constants.HTTPSecureScheme) {
		return errors.New("must use http or https")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

func positiveDuration(value interface{}) error {
	if d, _ := value.(time.Duration); d <= 0 {
		return errors.New("must be a positive duration")
	}
	return nil
}

func knownLocation(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.LoadLocation(s); err != nil {
		return fmt.Errorf("unknown time zone %q", s)
	}
	return nil
}
