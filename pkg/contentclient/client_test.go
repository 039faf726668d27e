package contentclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

// recordingServer 记录收到的请求并返回固定响应
func recordingServer(t *testing.T, status int, body string) (*httptest.Server, *[]captured) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []captured
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, captured{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone(), Body: string(b)})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func newTestClient(srv *httptest.Server, apiKey string) *Client {
	return New(ClientConfig{BaseURL: srv.URL + "/", APIKey: apiKey, HTTPClient: srv.Client()})
}

const generateOK = `{"content":"Text...","format":"article","topic":"tefillah"}`

func TestClient_Generate_AppliesDefaults(t *testing.T) {
	srv, reqs := recordingServer(t, http.StatusOK, generateOK)
	c := newTestClient(srv, "")

	resp, err := c.Generate(context.Background(), GenerateRequest{Topic: "tefillah"})
	require.NoError(t, err)
	assert.Equal(t, &GenerateResponse{Content: "Text...", Format: "article", Topic: "tefillah"}, resp)

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/generate", got.Path)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Empty(t, got.Header.Get("Authorization"))
	assert.JSONEq(t, `{"topic":"tefillah","format":"article","additional_context":"","prompt_only":false}`, got.Body)
}

func TestClient_Generate_SendsAllFields(t *testing.T) {
	srv, reqs := recordingServer(t, http.StatusOK, generateOK)
	c := newTestClient(srv, "")

	_, err := c.Generate(context.Background(), GenerateRequest{
		Topic:             "Shabbos",
		Format:            FormatShiurOutline,
		AdditionalContext: "for 11th grade",
		PromptOnly:        true,
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"topic":"Shabbos","format":"shiur_outline","additional_context":"for 11th grade","prompt_only":true}`,
		(*reqs)[0].Body)
}

func TestClient_BearerHeader(t *testing.T) {
	srv, reqs := recordingServer(t, http.StatusOK, `{"status":"healthy","service":"benovitz-content-api"}`)
	c := newTestClient(srv, "secret")

	status, err := c.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &HealthStatus{Status: "healthy", Service: "benovitz-content-api"}, status)

	got := (*reqs)[0]
	assert.Equal(t, "Bearer secret", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, http.MethodGet, got.Method)
}

func TestClient_ConvenienceMethodsMatchGenerate(t *testing.T) {
	methods := map[Format]func(*Client, context.Context, string, string) (string, error){
		FormatArticle:         (*Client).GenerateArticle,
		FormatSocialMedia:     (*Client).GenerateSocialPost,
		FormatShiurOutline:    (*Client).GenerateShiurOutline,
		FormatShortReflection: (*Client).GenerateReflection,
		FormatAdvisorTraining: (*Client).GenerateAdvisorTraining,
	}

	for format, method := range methods {
		t.Run(string(format), func(t *testing.T) {
			srv, reqs := recordingServer(t, http.StatusOK, generateOK)
			c := newTestClient(srv, "k")

			content, err := method(c, context.Background(), "topic A", "ctx")
			require.NoError(t, err)
			assert.Equal(t, "Text...", content)

			_, err = c.Generate(context.Background(), GenerateRequest{Topic: "topic A", Format: format, AdditionalContext: "ctx"})
			require.NoError(t, err)

			require.Len(t, *reqs, 2)
			a, b := (*reqs)[0], (*reqs)[1]
			assert.Equal(t, b.Method, a.Method)
			assert.Equal(t, b.Path, a.Path)
			assert.Equal(t, b.Body, a.Body)
			assert.Equal(t, b.Header.Get("Authorization"), a.Header.Get("Authorization"))
		})
	}
}

func TestClient_TransportErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "detail", status: http.StatusInternalServerError, body: `{"detail":"rate limited"}`, message: "rate limited"},
		{name: "bad request detail", status: http.StatusBadRequest, body: `{"detail":"Invalid format 'poem'."}`, message: "Invalid format 'poem'."},
		{name: "html body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, message: "HTTP 502"},
		{name: "empty body", status: http.StatusServiceUnavailable, body: ``, message: "HTTP 503"},
		{name: "json without detail", status: http.StatusNotFound, body: `{"error":"nope"}`, message: "HTTP 404"},
		{name: "non-string detail", status: http.StatusUnprocessableEntity, body: `{"detail":[{"msg":"field required"}]}`, message: "HTTP 422"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := recordingServer(t, tc.status, tc.body)
			c := newTestClient(srv, "")

			_, err := c.Generate(context.Background(), GenerateRequest{Topic: "t"})
			require.Error(t, err)
			assert.Equal(t, tc.message, err.Error())

			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tc.status, te.StatusCode)
			assert.False(t, IsNetworkError(err))
		})
	}
}

func TestClient_NetworkErrorPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(ClientConfig{BaseURL: url})
	_, err := c.GetFormats(context.Background())
	require.Error(t, err)

	assert.True(t, IsNetworkError(err))
	var te *TransportError
	assert.False(t, errors.As(err, &te))
}

func TestClient_MalformedResponses(t *testing.T) {
	cases := []struct {
		name string
		body string
		call func(*Client) error
	}{
		{name: "generate not json", body: `Text...`, call: func(c *Client) error {
			_, err := c.Generate(context.Background(), GenerateRequest{Topic: "t"})
			return err
		}},
		{name: "generate wrong type", body: `{"content":42}`, call: func(c *Client) error {
			_, err := c.GenerateArticle(context.Background(), "t", "")
			return err
		}},
		{name: "formats missing", body: `{}`, call: func(c *Client) error {
			_, err := c.GetFormats(context.Background())
			return err
		}},
		{name: "formats wrong shape", body: `{"formats":"article"}`, call: func(c *Client) error {
			_, err := c.GetFormats(context.Background())
			return err
		}},
		{name: "system prompt missing", body: `{"prompt":"x"}`, call: func(c *Client) error {
			_, err := c.GetSystemPrompt(context.Background())
			return err
		}},
		{name: "health without status", body: `{"service":"x"}`, call: func(c *Client) error {
			_, err := c.HealthCheck(context.Background())
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := recordingServer(t, http.StatusOK, tc.body)

			err := tc.call(newTestClient(srv, ""))
			var me *MalformedResponseError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, http.StatusOK, me.StatusCode)
			assert.Error(t, errors.Unwrap(err))
		})
	}
}

func TestClient_GetFormats_PreservesOrder(t *testing.T) {
	srv, reqs := recordingServer(t, http.StatusOK,
		`{"formats":[{"name":"Article","value":"article","description":"..."},{"name":"Social Media Post","value":"social_media","description":"short"}]}`)
	c := newTestClient(srv, "")

	formats, err := c.GetFormats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []FormatInfo{
		{Name: "Article", Value: "article", Description: "..."},
		{Name: "Social Media Post", Value: "social_media", Description: "short"},
	}, formats)
	assert.Equal(t, "/formats", (*reqs)[0].Path)
	assert.Empty(t, (*reqs)[0].Body)
}

func TestClient_GetSystemPromptAndVoiceProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/system-prompt", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"system_prompt": "## VOICE PROFILE"})
	})
	mux.HandleFunc("/voice-profile", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"name": "Rabbi Moshe Benovitz", "tone": "warm", "extra": "ignored"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := newTestClient(srv, "")

	prompt, err := c.GetSystemPrompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "## VOICE PROFILE", prompt)

	profile, err := c.GetVoiceProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Rabbi Moshe Benovitz", profile.Name)
	assert.Equal(t, "warm", profile.Tone)
}

func TestClient_CoalescesConcurrentGets(t *testing.T) {
	var hits atomic.Int32
	firstHit := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		once.Do(func() { close(firstHit) })
		<-release
		_, _ = io.WriteString(w, `{"formats":[{"name":"Article","value":"article","description":"..."}]}`)
	}))
	defer srv.Close()
	c := newTestClient(srv, "")

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]FormatInfo, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetFormats(context.Background())
		}(i)
	}

	<-firstHit
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "article", results[i][0].Value)
	}
	assert.Less(t, int(hits.Load()), callers)

	// 每个调用方拿到独立的切片
	results[0][0].Value = "mutated"
	assert.Equal(t, "article", results[1][0].Value)
}

func TestClient_CallerCanAbandonSharedGet(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = io.WriteString(w, `{"status":"healthy","service":"x"}`)
	}))
	defer srv.Close()
	defer close(release)
	c := newTestClient(srv, "")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.HealthCheck(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_RetryAfterTimeoutIssuesNewRequest(t *testing.T) {
	var hits atomic.Int32
	firstCancelled := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			// 第一次请求挂起，直到客户端取消
			<-r.Context().Done()
			close(firstCancelled)
			return
		}
		_, _ = io.WriteString(w, `{"status":"healthy","service":"x"}`)
	}))
	defer srv.Close()
	c := newTestClient(srv, "")

	short, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.HealthCheck(short)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case <-firstCancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("abandoned request was not cancelled")
	}

	ctx, cancel2 := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel2()
	status, err := c.HealthCheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, int32(2), hits.Load())
}

func TestNew_Defaults(t *testing.T) {
	c := New(ClientConfig{})
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c = New(ClientConfig{BaseURL: " http://localhost:8000/ "})
	assert.Equal(t, "http://localhost:8000", c.BaseURL())
}
