package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benovitz-content-api/pkg/contentclient"
)

func newTestServer(t *testing.T) (*httptest.Server, *[]contentclient.GenerateRequest) {
	t.Helper()
	var reqs []contentclient.GenerateRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
		var req contentclient.GenerateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		reqs = append(reqs, req)
		_ = json.NewEncoder(w).Encode(contentclient.GenerateResponse{
			Content: "Text about " + req.Topic,
			Format:  string(req.Format),
			Topic:   req.Topic,
		})
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"healthy","service":"benovitz-content-api"}`))
	})
	mux.HandleFunc("/formats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"formats":[{"name":"Article","value":"article","description":"Long-form"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	args = append(args, "--url", srv.URL, "--config", t.TempDir())
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func TestParseArgs_JoinsPositionalTopic(t *testing.T) {
	opts, _, err := parseArgs([]string{"Making", "tefillah", "meaningful", "-f", "social_media", "-c", "teens", "-p"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "Making tefillah meaningful", opts.topic)
	assert.Equal(t, "social_media", opts.format)
	assert.Equal(t, "teens", opts.context)
	assert.True(t, opts.promptOnly)
}

func TestParseArgs_Help(t *testing.T) {
	var out bytes.Buffer
	_, _, err := parseArgs([]string{"--help"}, &out)
	assert.ErrorIs(t, err, pflag.ErrHelp)
	assert.Contains(t, out.String(), "--show-voice-profile")
}

func TestParseFormat(t *testing.T) {
	f, err := parseFormat("shiur_outline")
	require.NoError(t, err)
	assert.Equal(t, contentclient.FormatShiurOutline, f)

	_, err = parseFormat("poem")
	assert.ErrorContains(t, err, "invalid format 'poem'")
}

func TestRun_Generate(t *testing.T) {
	srv, reqs := newTestServer(t)

	out, err := runCLI(t, srv, "tefillah", "-f", "short_reflection", "-c", "for teens")
	require.NoError(t, err)

	assert.Equal(t, "Text about tefillah\n", out)
	require.Len(t, *reqs, 1)
	assert.Equal(t, contentclient.GenerateRequest{
		Topic:             "tefillah",
		Format:            contentclient.FormatShortReflection,
		AdditionalContext: "for teens",
	}, (*reqs)[0])
}

func TestRun_WritesOutputFile(t *testing.T) {
	srv, _ := newTestServer(t)
	path := filepath.Join(t.TempDir(), "out.md")

	out, err := runCLI(t, srv, "tefillah", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Text about tefillah", string(data))
}

func TestRun_MissingTopic(t *testing.T) {
	srv, reqs := newTestServer(t)

	out, err := runCLI(t, srv)
	assert.ErrorIs(t, err, contentclient.ErrEmptyTopic)
	assert.Contains(t, out, "Usage: content-cli")
	assert.Empty(t, *reqs)
}

func TestRun_InvalidFormatSkipsRequest(t *testing.T) {
	srv, reqs := newTestServer(t)

	_, err := runCLI(t, srv, "tefillah", "-f", "poem")
	require.Error(t, err)
	assert.Empty(t, *reqs)
}

func TestRun_HealthAndFormats(t *testing.T) {
	srv, _ := newTestServer(t)

	out, err := runCLI(t, srv, "--health")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+": healthy\n", out)

	out, err = runCLI(t, srv, "--formats")
	require.NoError(t, err)
	assert.Contains(t, out, "article")
	assert.Contains(t, out, "Article - Long-form")
}

func TestRun_TransportErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"Error: upstream down"}`))
	}))
	defer srv.Close()

	_, err := runCLI(t, srv, "tefillah")
	var te *contentclient.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Equal(t, "Error: upstream down", te.Message)
}
