package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legaldraft-analyzer/internal/kanoon"
	"legaldraft-analyzer/internal/model"
)

func setupEnv(t *testing.T, apiURL string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CONFIG_FILE", filepath.Join(dir, "missing.toml"))
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "feedback.db"))
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("RABBITMQ_ENABLED", "false")
	t.Setenv("OCR_ENABLED", "false")
	t.Setenv("IKANOON_PUBLIC_KEY", "pk")
	t.Setenv("IKANOON_PRIVATE_KEY", "sk")
	if apiURL != "" {
		t.Setenv("IKANOON_API_URL", apiURL)
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSignCmd(t *testing.T) {
	setupEnv(t, "https://search.example/")

	out, err := run(t, "sign", "q")
	require.NoError(t, err)

	params := map[string]string{"formInput": "q", "maxcites": "5", "doctypes": "supremecourt,highcourts", "publicKey": "pk"}
	assert.Contains(t, out, "canonical: doctypes=supremecourt,highcourts&formInput=q&maxcites=5&publicKey=pk")
	assert.Contains(t, out, "signature: "+kanoon.Sign(params, "sk"))
	assert.Contains(t, out, "url: https://search.example/?")
}

func TestAnalyzeCmd_JSON(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"caseName":"A v. B","citation":"(1978) 1 SCC 248"}]}`)
	}))
	defer upstream.Close()
	dir := setupEnv(t, upstream.URL)

	draft := filepath.Join(dir, "draft.txt")
	require.NoError(t, os.WriteFile(draft, []byte("The appellant was denied a hearing."), 0o600))

	out, err := run(t, "analyze", "--json", draft)
	require.NoError(t, err)

	var report model.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "The appellant was denied a hearing.", report.DraftText)
	require.Len(t, report.Cases, 3)
	assert.Equal(t, "A v. B", *report.Cases[0].Cases[0].Name)
}

func TestAnalyzeCmd_MissingFile(t *testing.T) {
	setupEnv(t, "")
	_, err := run(t, "analyze", "/does/not/exist.pdf")
	assert.ErrorContains(t, err, "read draft failed")
}

func TestFeedbackListCmd_Empty(t *testing.T) {
	setupEnv(t, "")
	out, err := run(t, "feedback", "list", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}
