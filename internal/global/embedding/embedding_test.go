package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"capstone-guard/config"

	"github.com/go-resty/resty/v2"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.Embedding {
	cfg := config.Default().Embedding
	cfg.BaseURL = baseURL
	cfg.APIKey = "test-key"
	cfg.Timeout = 2 * time.Second
	return cfg
}

// vectorFor 根据文本长度生成一个确定的向量
func vectorFor(text string) []float64 {
	return []float64{float64(len(text)), 1}
}

func geminiServer(t *testing.T, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/models/gemini-embedding-001:embedContent"):
			var req embedRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "models/gemini-embedding-001", req.Model)
			require.Equal(t, "SEMANTIC_SIMILARITY", req.TaskType)
			_ = json.NewEncoder(w).Encode(embedResponse{Embedding: values{Values: vectorFor(req.Content.Parts[0].Text)}})
		case strings.HasSuffix(r.URL.Path, ":batchEmbedContents"):
			var req batchRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			var out batchResponse
			for _, item := range req.Requests {
				out.Embeddings = append(out.Embeddings, values{Values: vectorFor(item.Content.Parts[0].Text)})
			}
			_ = json.NewEncoder(w).Encode(out)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "line one line two", Normalize("  line one\nline two \r\n"))
	require.Equal(t, "", Normalize(" \n\t "))
}

func TestGeminiEmbed(t *testing.T) {
	calls := 0
	srv := geminiServer(t, &calls)
	defer srv.Close()

	g := NewGemini(resty.New(), testConfig(srv.URL))
	vec, err := g.Embed(context.Background(), "  Smart\nCampus ")
	require.NoError(t, err)
	require.Equal(t, vectorFor("Smart Campus"), vec)

	_, err = g.Embed(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyText)
	require.Equal(t, 1, calls)
}

func TestGeminiEmbedBatchChunks(t *testing.T) {
	calls := 0
	srv := geminiServer(t, &calls)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.BatchSize = 2
	g := NewGemini(resty.New(), cfg)

	texts := []string{"a", "", "ccc", "dddd", "eeeee"}
	out, err := g.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, out, 5)
	require.Nil(t, out[1])
	require.Equal(t, vectorFor("ccc"), out[2])
	require.Equal(t, vectorFor("eeeee"), out[4])
	// 4 个非空文本，每批 2 个
	require.Equal(t, 2, calls)
}

func TestGeminiEmbedBatchRejectsEmptyVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embeddings":[{"values":[0.1,0.2]},{"values":[]}]}`))
	}))
	defer srv.Close()

	g := NewGemini(resty.New(), testConfig(srv.URL))
	out, err := g.EmbedBatch(context.Background(), []string{"first", "second"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "空向量")
	require.Nil(t, out)
}

func TestGeminiAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	g := NewGemini(resty.New(), testConfig(srv.URL))
	_, err := g.Embed(context.Background(), "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "API key not valid")
}

type flaky struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *flaky) Embed(_ context.Context, text string) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if Normalize(text) == "" {
		return nil, ErrEmptyText
	}
	if f.err != nil {
		return nil, f.err
	}
	return vectorFor(text), nil
}

func (f *flaky) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		if Normalize(t) == "" {
			continue
		}
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	cfg := testConfig("")
	cfg.BreakerFailures = 2
	cfg.BreakerTimeout = time.Hour
	next := &flaky{err: errors.New("upstream down")}
	b := NewBreaker(next, cfg)

	for i := 0; i < 2; i++ {
		_, err := b.Embed(context.Background(), "text")
		require.Error(t, err)
	}
	require.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Embed(context.Background(), "text")
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.Equal(t, 2, next.calls)
}

func TestBreakerIgnoresEmptyText(t *testing.T) {
	cfg := testConfig("")
	cfg.BreakerFailures = 1
	b := NewBreaker(&flaky{}, cfg)

	_, err := b.Embed(context.Background(), " ")
	require.ErrorIs(t, err, ErrEmptyText)
	require.Equal(t, gobreaker.StateClosed, b.State())

	vec, err := b.Embed(context.Background(), "ok")
	require.NoError(t, err)
	require.Equal(t, vectorFor("ok"), vec)
}

type memCache struct {
	data map[string][]float64
	err  error
}

func (m *memCache) GetMany(_ context.Context, keys []string) ([][]float64, error) {
	out := make([][]float64, len(keys))
	if m.err != nil {
		return out, m.err
	}
	for i, k := range keys {
		out[i] = m.data[k]
	}
	return out, nil
}

func (m *memCache) SetMany(_ context.Context, keys []string, vectors [][]float64) error {
	for i, k := range keys {
		if vectors[i] != nil {
			m.data[k] = vectors[i]
		}
	}
	return nil
}

func TestCachedOnlyEmbedsMisses(t *testing.T) {
	next := &flaky{}
	cache := &memCache{data: map[string][]float64{}}
	c := NewCached(next, cache, testConfig(""))

	out, err := c.EmbedBatch(context.Background(), []string{"alpha", "", "beta"})
	require.NoError(t, err)
	require.Nil(t, out[1])
	require.Equal(t, 2, next.calls)
	require.Len(t, cache.data, 2)

	out, err = c.EmbedBatch(context.Background(), []string{"beta\n", "gamma", "alpha"})
	require.NoError(t, err)
	require.Equal(t, vectorFor("beta"), out[0])
	require.Equal(t, vectorFor("alpha"), out[2])
	// 只有 gamma 未命中
	require.Equal(t, 3, next.calls)
}

func TestCachedKey(t *testing.T) {
	c := NewCached(&flaky{}, &memCache{data: map[string][]float64{}}, testConfig(""))
	require.Equal(t, c.Key("Smart Campus"), c.Key(" Smart\nCampus "))
	require.True(t, strings.HasPrefix(c.Key("x"), "embedding:gemini-embedding-001:SEMANTIC_SIMILARITY:"))
	require.Len(t, strings.TrimPrefix(c.Key("x"), "embedding:gemini-embedding-001:SEMANTIC_SIMILARITY:"), 64)
}

func TestCachedFallsThroughOnCacheError(t *testing.T) {
	next := &flaky{}
	c := NewCached(next, &memCache{data: map[string][]float64{}, err: errors.New("redis down")}, testConfig(""))

	vec, err := c.Embed(context.Background(), "delta")
	require.NoError(t, err)
	require.Equal(t, vectorFor("delta"), vec)

	_, err = c.Embed(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyText)
}
