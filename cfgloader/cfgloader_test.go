package cfgloader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/caseflow/cfgloader"
)

type testConfig struct {
	Name   string `yaml:"name"   validate:"required"`
	Port   int    `yaml:"port"   env:"CFGLOADER_TEST_PORT" default:"8080"`
	Secret string `yaml:"secret" mask:"true"`
	Nested struct {
		Level string `yaml:"level" default:"info" validate:"oneof=debug info"`
	} `yaml:"nested"`
}

func writeConfig(t *testing.T, env, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, env+".yaml"), []byte(content), 0o600))
	return dir
}

func TestLoad(t *testing.T) {
	t.Setenv("CFGLOADER_TEST_NAME", "caseflow")
	dir := writeConfig(t, cfgloader.EnvTest, "name: ${CFGLOADER_TEST_NAME}\nsecret: s3cret\n")

	cfg, err := cfgloader.Load[testConfig](
		cfgloader.WithDir(dir),
		cfgloader.WithEnvironment(cfgloader.EnvTest),
		cfgloader.WithSilent(),
	)

	require.NoError(t, err)
	assert.Equal(t, "caseflow", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "s3cret", cfg.Secret)
	assert.Equal(t, "info", cfg.Nested.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CFGLOADER_TEST_PORT", "9090")
	dir := writeConfig(t, cfgloader.EnvLocal, "name: app\nport: 7000\n")

	cfg, err := cfgloader.Load[testConfig](
		cfgloader.WithDir(dir),
		cfgloader.WithEnvironment(cfgloader.EnvLocal),
		cfgloader.WithSilent(),
	)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		content string
		fileEnv string
	}{
		{name: "validation", env: cfgloader.EnvTest, fileEnv: cfgloader.EnvTest, content: "port: 1\n"},
		{name: "oneof", env: cfgloader.EnvTest, fileEnv: cfgloader.EnvTest, content: "name: a\nnested:\n  level: loud\n"},
		{name: "bad yaml", env: cfgloader.EnvTest, fileEnv: cfgloader.EnvTest, content: "name: [\n"},
		{name: "unknown environment", env: "moon", fileEnv: cfgloader.EnvTest, content: "name: a\n"},
		{name: "missing file", env: cfgloader.EnvDev, fileEnv: cfgloader.EnvTest, content: "name: a\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeConfig(t, tc.fileEnv, tc.content)

			_, err := cfgloader.Load[testConfig](
				cfgloader.WithDir(dir),
				cfgloader.WithEnvironment(tc.env),
				cfgloader.WithSilent(),
			)

			require.Error(t, err)
		})
	}
}

func TestLoadRejectsPointer(t *testing.T) {
	_, err := cfgloader.Load[*testConfig](cfgloader.WithEnvironment(cfgloader.EnvTest), cfgloader.WithSilent())

	require.Error(t, err)
}

func TestMasked(t *testing.T) {
	cfg := testConfig{Name: "app", Secret: "s3cret"}

	masked := cfgloader.Masked(cfg)

	assert.Equal(t, "******", masked.Secret)
	assert.Equal(t, "app", masked.Name)
	assert.Equal(t, "s3cret", cfg.Secret)
}
