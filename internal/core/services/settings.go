package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driven"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyUnknownAttributes = "parser.unknown_attributes"
	keyMissingParents    = "validation.missing_parents"
	keyLockfilePath      = "lockfile.path"
	keyLockfileFormat    = "lockfile.format"
	keySourceInclude     = "source.include"
	keySourceIgnoreFile  = "source.ignore_file"
	keySiteOutput        = "site.output"
	keySiteHTML          = "site.html"
	keyHistoryEnabled    = "history.enabled"
	keyHistoryPath       = "history.path"
	keyGitHubTokenEnv    = "github.token_env"
)

// setting binds a config key to a field of domain.Settings.
type setting struct {
	// apply parses a command-line value into s.
	apply func(s *domain.Settings, value string) error
	// value returns the field in the form stored in the config file.
	value func(s *domain.Settings) any
}

var settingsTable = map[string]setting{
	keyUnknownAttributes: {
		apply: func(s *domain.Settings, v string) error {
			s.Parser.UnknownAttributes = domain.UnknownAttributePolicy(v)
			return nil
		},
		value: func(s *domain.Settings) any { return s.Parser.UnknownAttributes.String() },
	},
	keyMissingParents: {
		apply: func(s *domain.Settings, v string) error {
			return parseBool(v, &s.Validation.MissingParents)
		},
		value: func(s *domain.Settings) any { return s.Validation.MissingParents },
	},
	keyLockfilePath: {
		apply: func(s *domain.Settings, v string) error {
			s.Lockfile.Path = v
			return nil
		},
		value: func(s *domain.Settings) any { return s.Lockfile.Path },
	},
	keyLockfileFormat: {
		apply: func(s *domain.Settings, v string) error {
			s.Lockfile.Format = domain.SnapshotFormat(v)
			return nil
		},
		value: func(s *domain.Settings) any { return s.Lockfile.Format.String() },
	},
	keySourceInclude: {
		apply: func(s *domain.Settings, v string) error {
			s.Source.Include = splitList(v)
			return nil
		},
		value: func(s *domain.Settings) any { return slices.Clone(s.Source.Include) },
	},
	keySourceIgnoreFile: {
		apply: func(s *domain.Settings, v string) error {
			s.Source.IgnoreFile = v
			return nil
		},
		value: func(s *domain.Settings) any { return s.Source.IgnoreFile },
	},
	keySiteOutput: {
		apply: func(s *domain.Settings, v string) error {
			s.Site.Output = v
			return nil
		},
		value: func(s *domain.Settings) any { return s.Site.Output },
	},
	keySiteHTML: {
		apply: func(s *domain.Settings, v string) error {
			return parseBool(v, &s.Site.HTML)
		},
		value: func(s *domain.Settings) any { return s.Site.HTML },
	},
	keyHistoryEnabled: {
		apply: func(s *domain.Settings, v string) error {
			return parseBool(v, &s.History.Enabled)
		},
		value: func(s *domain.Settings) any { return s.History.Enabled },
	},
	keyHistoryPath: {
		apply: func(s *domain.Settings, v string) error {
			s.History.Path = v
			return nil
		},
		value: func(s *domain.Settings) any { return s.History.Path },
	},
	keyGitHubTokenEnv: {
		apply: func(s *domain.Settings, v string) error {
			s.GitHub.TokenEnv = v
			return nil
		},
		value: func(s *domain.Settings) any { return s.GitHub.TokenEnv },
	},
}

// SettingsService manages the project configuration.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves the current settings. Missing or invalid values fall back
// to the defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Parser: domain.ParserSettings{
			UnknownAttributes: s.getPolicy(defaults.Parser.UnknownAttributes),
		},
		Validation: domain.ValidationSettings{
			MissingParents: s.getBool(keyMissingParents, defaults.Validation.MissingParents),
		},
		Lockfile: domain.LockfileSettings{
			Path:   s.getString(keyLockfilePath, defaults.Lockfile.Path),
			Format: s.getFormat(defaults.Lockfile.Format),
		},
		Source: domain.SourceSettings{
			Include:    s.getStringSlice(keySourceInclude, defaults.Source.Include),
			IgnoreFile: s.getString(keySourceIgnoreFile, defaults.Source.IgnoreFile),
		},
		Site: domain.SiteSettings{
			Output: s.getString(keySiteOutput, defaults.Site.Output),
			HTML:   s.getBool(keySiteHTML, defaults.Site.HTML),
		},
		History: domain.HistorySettings{
			Enabled: s.getBool(keyHistoryEnabled, defaults.History.Enabled),
			Path:    s.getString(keyHistoryPath, defaults.History.Path),
		},
		GitHub: domain.GitHubSettings{
			TokenEnv: s.getString(keyGitHubTokenEnv, defaults.GitHub.TokenEnv),
		},
	}

	return settings, nil
}

// Save validates and persists every setting.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	for _, key := range s.Keys() {
		if err := s.configStore.Set(key, settingsTable[key].value(settings)); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// Set parses value for key, validates the resulting settings and
// persists that one key. List values are comma separated.
func (s *SettingsService) Set(key, value string) error {
	entry, ok := settingsTable[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := entry.apply(settings, value); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(key, entry.value(settings)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Unset removes key from the config so the default applies again.
func (s *SettingsService) Unset(key string) error {
	if _, ok := settingsTable[key]; !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

// Keys returns every recognised setting key in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingsTable))
	for k := range settingsTable {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Lookup returns the effective value of key as text.
func (s *SettingsService) Lookup(key string) (string, error) {
	entry, ok := settingsTable[key]
	if !ok {
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	settings, err := s.Get()
	if err != nil {
		return "", err
	}
	switch v := entry.value(settings).(type) {
	case bool:
		return strconv.FormatBool(v), nil
	case []string:
		return strings.Join(v, ","), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return *domain.DefaultSettings()
}

// Path returns the config file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return slices.Clone(defaultVal)
	}
	return val
}

func (s *SettingsService) getPolicy(defaultVal domain.UnknownAttributePolicy) domain.UnknownAttributePolicy {
	policy := domain.UnknownAttributePolicy(s.configStore.GetString(keyUnknownAttributes))
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}

func (s *SettingsService) getFormat(defaultVal domain.SnapshotFormat) domain.SnapshotFormat {
	format := domain.SnapshotFormat(s.configStore.GetString(keyLockfileFormat))
	if !format.IsValid() {
		return defaultVal
	}
	return format
}

func parseBool(v string, dst *bool) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%q is not a boolean", v)
	}
	*dst = b
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
