package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 50, parseNumber("50", 10, 255, 120))
	assert.Equal(t, 120, parseNumber("5", 10, 255, 120))
	assert.Equal(t, 120, parseNumber("300", 10, 255, 120))
	assert.Equal(t, 120, parseNumber("", 10, 255, 120))
	assert.Equal(t, 120, parseNumber("abc", 10, 255, 120))
}

func TestParseYesNo(t *testing.T) {
	assert.True(t, parseYesNo("y", false))
	assert.True(t, parseYesNo("YES", false))
	assert.False(t, parseYesNo("n", true))
	assert.False(t, parseYesNo("no", true))
	assert.True(t, parseYesNo("", true))
	assert.False(t, parseYesNo("maybe", false))
}

func TestSettingsCmd_Show(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.settings.OutputDirectory = "/sorted"

	out, err := execute(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Max filename length: 120")
	assert.Contains(t, out, "Backup directory: <dir>/backup")
	assert.Contains(t, out, "Output directory: /sorted")
	assert.Contains(t, out, "Extract timeout: (none)")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsCmd_DefaultsToShow(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestSettingsCmd_ShowInvalid(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.validateErr = domain.ErrInvalidConfig

	out, err := execute(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
	assert.Contains(t, out, "pdfren settings wizard")
}

func TestSettingsCmd_ShowError(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.getErr = domain.ErrInvalidConfig

	_, err := execute(t, "", "settings", "show")

	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSettingsCmd_Set(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "", "settings", "set", "max_workers", "8")

	require.NoError(t, err)
	assert.Equal(t, "8", ts.settings.sets["max_workers"])
	assert.Contains(t, out, "Set max_workers to 8")
}

func TestSettingsCmd_SetError(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "settings", "set", "bogus", "1")

	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.ErrorContains(t, err, "failed to set bogus")
}

func TestSettingsCmd_SetRequiresTwoArgs(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "settings", "set", "max_workers")

	assert.ErrorContains(t, err, "accepts 2 arg(s)")
}

func TestSettingsCmd_Wizard(t *testing.T) {
	ts := setupTestServices(t)
	// backend, length, timestamp, backup, backup dir, parallel, workers
	input := "2\n64\ny\ny\n/bak\ny\n6\n"

	out, err := execute(t, input, "settings", "wizard")

	require.NoError(t, err)
	assert.Contains(t, out, "Settings saved.")
	require.NotNil(t, ts.settings.saved)
	saved := ts.settings.saved
	assert.Equal(t, domain.PDFBackendPDFCPU, saved.PDFBackend)
	assert.Equal(t, 64, saved.MaxFilenameLength)
	assert.True(t, saved.AddTimestamp)
	assert.True(t, saved.AutoBackup)
	assert.Equal(t, "/bak", saved.BackupDirectory)
	assert.Equal(t, 6, saved.MaxWorkers)
}

func TestSettingsCmd_WizardKeepsDefaults(t *testing.T) {
	ts := setupTestServices(t)

	_, err := execute(t, "\n\n\n\n\n", "settings", "wizard")

	require.NoError(t, err)
	require.NotNil(t, ts.settings.saved)
	assert.Equal(t, domain.DefaultRenameSettings(), *ts.settings.saved)
}
