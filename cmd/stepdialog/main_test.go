package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/stepdialog/internal/config"
	"github.com/muurk/stepdialog/internal/form"
)

// execute runs the root command once. Flag values persist on the shared
// command tree, so each test sticks to its own flags.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, env := range []string{config.EnvLogLevel, config.EnvLogFile, config.EnvSubmitMode, config.EnvSubmitURL} {
		t.Setenv(env, "")
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func missingConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "config.yaml")
}

func TestCheck_ReportsEveryInvalidField(t *testing.T) {
	path := writeFile(t, "form.yaml", "firstName: 山田\nphone: abc\n")

	out, err := execute(t, "check", "--config", missingConfig(t), "--file", path)
	require.ErrorIs(t, err, errInvalidForm)

	assert.Contains(t, out, "FORM CHECK")
	assert.Contains(t, out, "名を入力してください")
	assert.Contains(t, out, "住所を入力してください")
	assert.Contains(t, out, "正しい電話番号の形式")
	assert.Contains(t, out, "利用規約への同意が必要です")
	assert.NotContains(t, out, "姓を入力してください")
}

func TestSend_DelayMode(t *testing.T) {
	path := writeFile(t, "form.json",
		`{"firstName":"山田","lastName":"太郎","address":"東京都","phone":"090-1234-5678","agreement":true}`)

	out, err := execute(t, "send", "--config", missingConfig(t), "--submit-delay", "1ms", "--file", path)
	require.NoError(t, err)

	assert.Contains(t, out, "FORM SUBMISSION")
	assert.Contains(t, out, "Form Submission complete")
	assert.Contains(t, out, "山田 太郎")
	assert.Contains(t, out, form.AgreedMarker)
}

func TestConfig_InitShowPath(t *testing.T) {
	path := missingConfig(t)

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Config written")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	out, err = execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "mode: delay")

	out, err = execute(t, "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}

func TestConfig_InvalidFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "version: 1\nsubmit:\n  mode: carrier-pigeon\n")

	_, err := execute(t, "config", "show", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "stepdialog ")
	assert.Contains(t, out, "commit:")
}

func TestSummaryParams(t *testing.T) {
	params := summaryParams(form.FormData{FirstName: "山田", LastName: "太郎"})
	require.Len(t, params, 4)
	assert.Equal(t, "氏名", params[0].Key)
	assert.Equal(t, "山田 太郎", params[0].Value)
	assert.Equal(t, form.NotAgreedMarker, params[3].Value)
}
