package similarity

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"capstone-guard/config"
	"capstone-guard/internal/global/embedding"
	"capstone-guard/internal/global/metrics"
	"capstone-guard/internal/global/sentry/tracing"
)

const Algorithm = "cosine_embedding"

type Candidate struct {
	ID          uint
	Title       string
	Description string
}

// CandidateSource 提供参与比较的已通过项目
type CandidateSource interface {
	ApprovedCandidates(ctx context.Context, excludeID uint) ([]Candidate, error)
}

type Match struct {
	ProjectID             uint    `json:"project_id"`
	Title                 string  `json:"title"`
	TitleSimilarity       float64 `json:"title_similarity"`
	DescriptionSimilarity float64 `json:"description_similarity"`
	OverallSimilarity     float64 `json:"overall_similarity"`
}

type Query struct {
	Title       string
	Description string
	// Threshold 不大于 0 时使用配置的阈值
	Threshold float64
	ExcludeID uint
	// Trigger 用于指标区分 submit / update / live
	Trigger string
}

// Outcome 一次检测的结果，只有 Completed 的结果可以覆盖已保存的查重状态
type Outcome string

const (
	OutcomeMatch   Outcome = "match"
	OutcomeClean   Outcome = "clean"
	OutcomeSkipped Outcome = "skipped"
)

func (o Outcome) Completed() bool {
	return o == OutcomeMatch || o == OutcomeClean
}

type Detector struct {
	embedder  embedding.Embedder
	source    CandidateSource
	weights   Weights
	threshold float64
	log       *slog.Logger
}

func NewDetector(e embedding.Embedder, s CandidateSource, cfg config.Similarity, log *slog.Logger) *Detector {
	return &Detector{
		embedder:  e,
		source:    s,
		weights:   Weights{Title: cfg.TitleWeight, Description: cfg.DescriptionWeight},
		threshold: cfg.Threshold,
		log:       log,
	}
}

// FindSimilar 返回相似度不低于阈值的已通过项目，按 overall 降序。
// embedding 服务不可用时不阻塞提交，返回空结果和 OutcomeSkipped。
func (d *Detector) FindSimilar(ctx context.Context, q Query) ([]Match, Outcome) {
	start := time.Now()
	ctx, done := tracing.StartSpan(ctx, "similarity.detect", q.Trigger)
	matches, outcome := d.find(ctx, q)
	done(nil)
	metrics.RecordDetection(q.Trigger, string(outcome), time.Since(start))
	return matches, outcome
}

func (d *Detector) find(ctx context.Context, q Query) ([]Match, Outcome) {
	threshold := q.Threshold
	if threshold <= 0 {
		threshold = d.threshold
	}

	vecs, err := d.embedder.EmbedBatch(ctx, []string{q.Title, q.Description})
	if err != nil {
		d.log.Warn("待检测项目 embedding 失败，跳过查重", "error", err, "exclude_id", q.ExcludeID)
		return nil, OutcomeSkipped
	}
	titleVec, descVec := vecs[0], vecs[1]
	if titleVec == nil && descVec == nil {
		return nil, OutcomeSkipped
	}

	candidates, err := d.source.ApprovedCandidates(ctx, q.ExcludeID)
	if err != nil {
		d.log.Error("查询候选项目失败", "error", err)
		return nil, OutcomeSkipped
	}

	var matches []Match
	for i, cv := range d.embedCandidates(ctx, candidates) {
		if !cv.ok {
			continue
		}
		ts := Cosine(titleVec, cv.title)
		ds := Cosine(descVec, cv.description)
		overall := d.weights.Overall(ts, ds)
		if overall < threshold {
			continue
		}
		matches = append(matches, Match{
			ProjectID:             candidates[i].ID,
			Title:                 candidates[i].Title,
			TitleSimilarity:       Round(ts, 4),
			DescriptionSimilarity: Round(ds, 4),
			OverallSimilarity:     Round(overall, 4),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].OverallSimilarity > matches[j].OverallSimilarity
	})

	if len(matches) == 0 {
		return nil, OutcomeClean
	}
	return matches, OutcomeMatch
}

type vectors struct {
	title, description []float64
	ok                 bool
}

// embedCandidates 先整体批量请求，失败时逐个请求，失败的候选项目 ok 为 false
func (d *Detector) embedCandidates(ctx context.Context, candidates []Candidate) []vectors {
	out := make([]vectors, len(candidates))
	if len(candidates) == 0 {
		return out
	}
	texts := make([]string, 0, 2*len(candidates))
	for _, c := range candidates {
		texts = append(texts, c.Title, c.Description)
	}

	vecs, err := d.embedder.EmbedBatch(ctx, texts)
	if err == nil {
		for i := range candidates {
			out[i] = vectors{title: vecs[2*i], description: vecs[2*i+1], ok: true}
		}
		return out
	}
	d.log.Warn("批量 embedding 失败，改为逐个请求", "error", err, "candidates", len(candidates))

	for i, c := range candidates {
		vecs, err := d.embedder.EmbedBatch(ctx, []string{c.Title, c.Description})
		if err != nil {
			d.log.Warn("候选项目 embedding 失败，已跳过", "project_id", c.ID, "error", err)
			continue
		}
		out[i] = vectors{title: vecs[0], description: vecs[1], ok: true}
	}
	return out
}
