package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"capstone-guard/config"
	"capstone-guard/internal/global/logger"
	"capstone-guard/internal/global/metrics"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type embedRequest struct {
	Model                string  `json:"model"`
	Content              content `json:"content"`
	TaskType             string  `json:"taskType,omitempty"`
	OutputDimensionality int     `json:"outputDimensionality,omitempty"`
}

type values struct {
	Values []float64 `json:"values"`
}

type embedResponse struct {
	Embedding values `json:"embedding"`
}

type batchRequest struct {
	Requests []embedRequest `json:"requests"`
}

type batchResponse struct {
	Embeddings []values `json:"embeddings"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Gemini 调用 generativelanguage 的 embedContent / batchEmbedContents
type Gemini struct {
	http      *resty.Client
	baseURL   string
	apiKey    string
	model     string
	taskType  string
	dims      int
	batchSize int
	log       *slog.Logger
}

func NewGemini(client *resty.Client, cfg config.Embedding) *Gemini {
	if client == nil {
		client = resty.New().SetTimeout(cfg.Timeout)
	}
	model := cfg.Model
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	batch := cfg.BatchSize
	if batch <= 0 || batch > 100 {
		batch = 100
	}
	return &Gemini{
		http:      client,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		model:     model,
		taskType:  cfg.TaskType,
		dims:      cfg.Dimensionality,
		batchSize: batch,
		log:       logger.New("Embedding"),
	}
}

func (g *Gemini) request(text string) embedRequest {
	return embedRequest{
		Model:                g.model,
		Content:              content{Parts: []part{{Text: text}}},
		TaskType:             g.taskType,
		OutputDimensionality: g.dims,
	}
}

func (g *Gemini) post(ctx context.Context, method string, body, result any) error {
	var apiErr apiError
	resp, err := g.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", g.apiKey).
		SetBody(body).
		SetResult(result).
		SetError(&apiErr).
		Post(g.baseURL + "/" + g.model + ":" + method)
	if err != nil {
		return errors.Wrap(err, "embedding 请求失败")
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		return errors.Errorf("embedding API 返回 %d: %s", resp.StatusCode(), msg)
	}
	return nil
}

func (g *Gemini) Embed(ctx context.Context, text string) ([]float64, error) {
	text = Normalize(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	start := time.Now()
	var out embedResponse
	err := g.post(ctx, "embedContent", g.request(text), &out)
	if err == nil && len(out.Embedding.Values) == 0 {
		err = errors.New("embedding API 返回空向量")
	}
	metrics.RecordEmbedding("single", time.Since(start), err)
	if err != nil {
		g.log.Warn("生成 embedding 失败", "error", err)
		return nil, err
	}
	return out.Embedding.Values, nil
}

// EmbedBatch 按 batchSize 分块请求，任一块失败则整体失败
func (g *Gemini) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	result := make([][]float64, len(texts))
	idx := make([]int, 0, len(texts))
	reqs := make([]embedRequest, 0, len(texts))
	for i, t := range texts {
		if t = Normalize(t); t != "" {
			idx = append(idx, i)
			reqs = append(reqs, g.request(t))
		}
	}

	for lo := 0; lo < len(reqs); lo += g.batchSize {
		hi := min(lo+g.batchSize, len(reqs))
		start := time.Now()
		var out batchResponse
		err := g.post(ctx, "batchEmbedContents", batchRequest{Requests: reqs[lo:hi]}, &out)
		if err == nil && len(out.Embeddings) != hi-lo {
			err = fmt.Errorf("embedding API 返回 %d 个向量，期望 %d", len(out.Embeddings), hi-lo)
		}
		if err == nil && slices.ContainsFunc(out.Embeddings, func(e values) bool { return len(e.Values) == 0 }) {
			err = errors.New("embedding API 返回空向量")
		}
		metrics.RecordEmbedding("batch", time.Since(start), err)
		if err != nil {
			g.log.Warn("批量生成 embedding 失败", "error", err, "size", hi-lo)
			return nil, err
		}
		for j, e := range out.Embeddings {
			result[idx[lo+j]] = e.Values
		}
	}
	return result, nil
}
