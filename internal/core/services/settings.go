package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
	"github.com/custodia-labs/pdfren/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Setting names. Stored under the "rename." prefix and overridable with
// PDFREN_<NAME> environment variables.
const (
	SettingMaxFilenameLength  = "max_filename_length"
	SettingAddTimestamp       = "add_timestamp"
	SettingAutoBackup         = "auto_backup"
	SettingParallelProcessing = "parallel_processing"
	SettingMaxWorkers         = "max_workers"
	SettingBackupDirectory    = "backup_directory"
	SettingOutputDirectory    = "output_directory"
	SettingRecursive          = "recursive"
	SettingPDFBackend         = "pdf_backend"
	SettingExtractTimeout     = "extract_timeout"
)

const (
	keyPrefix = "rename."
	envPrefix = "PDFREN_"
)

var settingKeys = []string{
	SettingMaxFilenameLength,
	SettingAddTimestamp,
	SettingAutoBackup,
	SettingParallelProcessing,
	SettingMaxWorkers,
	SettingBackupDirectory,
	SettingOutputDirectory,
	SettingRecursive,
	SettingPDFBackend,
	SettingExtractTimeout,
}

// SettingsService manages rename settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current settings: defaults, then stored values, then
// environment overrides. Unparseable values fall back to the previous
// layer.
func (s *SettingsService) Get() (*domain.RenameSettings, error) {
	settings := domain.DefaultRenameSettings()

	for _, key := range settingKeys {
		if raw, ok := s.stored(key); ok {
			_ = applySetting(&settings, key, raw)
		}
	}
	for _, key := range settingKeys {
		if raw, ok := s.lookupEnv(envPrefix + strings.ToUpper(key)); ok {
			_ = applySetting(&settings, key, raw)
		}
	}

	return &settings, nil
}

// Save validates and persists settings.
func (s *SettingsService) Save(settings *domain.RenameSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidInput)
	}
	if err := ValidateSettings(*settings); err != nil {
		return err
	}

	values := map[string]any{
		SettingMaxFilenameLength:  settings.MaxFilenameLength,
		SettingAddTimestamp:       settings.AddTimestamp,
		SettingAutoBackup:         settings.AutoBackup,
		SettingParallelProcessing: settings.ParallelProcessing,
		SettingMaxWorkers:         settings.MaxWorkers,
		SettingBackupDirectory:    settings.BackupDirectory,
		SettingOutputDirectory:    settings.OutputDirectory,
		SettingRecursive:          settings.Recursive,
		SettingPDFBackend:         settings.PDFBackend.String(),
		SettingExtractTimeout:     settings.ExtractTimeout.String(),
	}
	for _, key := range settingKeys {
		if err := s.configStore.Set(keyPrefix+key, values[key]); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// Set updates one setting from its string form and persists it.
func (s *SettingsService) Set(key, value string) error {
	key = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(key)), keyPrefix)

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := applySetting(settings, key, value); err != nil {
		return err
	}
	return s.Save(settings)
}

// Keys returns the recognised setting names.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// Validate checks settings against their bounds.
func (s *SettingsService) Validate(settings domain.RenameSettings) error {
	return ValidateSettings(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.RenameSettings {
	return domain.DefaultRenameSettings()
}

// stored returns the persisted value of key in string form.
func (s *SettingsService) stored(key string) (string, bool) {
	v, ok := s.configStore.Get(keyPrefix + key)
	if !ok || v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		return fmt.Sprint(val), true
	}
}

// applySetting parses raw into the field named by key.
func applySetting(settings *domain.RenameSettings, key, raw string) error {
	raw = strings.TrimSpace(raw)
	invalid := func(err error) error {
		return fmt.Errorf("%w: %s=%q: %w", domain.ErrInvalidInput, key, raw, err)
	}

	switch key {
	case SettingMaxFilenameLength, SettingMaxWorkers:
		n, err := strconv.Atoi(raw)
		if err != nil {
			f, ferr := strconv.ParseFloat(raw, 64)
			if ferr != nil {
				return invalid(err)
			}
			n = int(f)
		}
		if key == SettingMaxWorkers {
			settings.MaxWorkers = n
		} else {
			settings.MaxFilenameLength = n
		}
	case SettingAddTimestamp, SettingAutoBackup, SettingParallelProcessing, SettingRecursive:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return invalid(err)
		}
		switch key {
		case SettingAddTimestamp:
			settings.AddTimestamp = b
		case SettingAutoBackup:
			settings.AutoBackup = b
		case SettingParallelProcessing:
			settings.ParallelProcessing = b
		default:
			settings.Recursive = b
		}
	case SettingBackupDirectory:
		settings.BackupDirectory = raw
	case SettingOutputDirectory:
		settings.OutputDirectory = raw
	case SettingPDFBackend:
		backend := domain.PDFBackend(strings.ToLower(raw))
		if !backend.IsValid() {
			return invalid(domain.ErrUnsupportedType)
		}
		settings.PDFBackend = backend
	case SettingExtractTimeout:
		if raw == "" || raw == "0" {
			settings.ExtractTimeout = 0
			return nil
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return invalid(err)
		}
		settings.ExtractTimeout = d
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return nil
}
