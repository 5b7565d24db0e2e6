package similarity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"capstone-guard/config"
	"capstone-guard/internal/global/embedding"
	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/model"
	"capstone-guard/test"

	"github.com/stretchr/testify/require"
)

// fakeEmbedder 按文本查表返回向量，fail 中的文本返回错误
type fakeEmbedder struct {
	vectors    map[string][]float64
	fail       map[string]bool
	batchCalls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	out, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	f.batchCalls++
	out := make([][]float64, len(texts))
	for i, t := range texts {
		t = embedding.Normalize(t)
		if t == "" {
			continue
		}
		if f.fail[t] {
			return nil, errors.New("quota exceeded")
		}
		out[i] = f.vectors[t]
	}
	return out, nil
}

type fakeSource struct {
	candidates []Candidate
	excluded   uint
	err        error
}

func (s *fakeSource) ApprovedCandidates(_ context.Context, excludeID uint) ([]Candidate, error) {
	s.excluded = excludeID
	if s.err != nil {
		return nil, s.err
	}
	var out []Candidate
	for _, c := range s.candidates {
		if c.ID != excludeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDetector(e embedding.Embedder, s CandidateSource) *Detector {
	return NewDetector(e, s, config.Default().Similarity, quietLog())
}

func TestCosine(t *testing.T) {
	require.InDelta(t, 1.0, Cosine([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	require.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	require.InDelta(t, -1.0, Cosine([]float64{1, 0}, []float64{-1, 0}), 1e-9)
	require.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 1}))
	require.Equal(t, 0.0, Cosine([]float64{1}, []float64{1, 1}))
	require.Equal(t, 0.0, Cosine(nil, nil))
}

func TestRoundAndPercent(t *testing.T) {
	require.Equal(t, 0.8735, Round(0.873456, 4))
	require.Equal(t, 87.3, Percent(0.87345))
	require.Equal(t, 100.0, Percent(1))
}

func TestWeightsOverall(t *testing.T) {
	w := Weights{Title: 0.4, Description: 0.6}
	require.InDelta(t, 0.4*0.9+0.6*0.8, w.Overall(0.9, 0.8), 1e-12)
}

func TestFindSimilar(t *testing.T) {
	e := &fakeEmbedder{vectors: map[string][]float64{
		"Smart Campus":           {1, 0},
		"An app for campus life": {0, 1},
		// 完全相同
		"Smart Campus Hub":      {1, 0},
		"Campus life companion": {0, 1},
		// 标题相同但描述无关
		"Campus Smart":          {1, 0},
		"A recipe sharing site": {1, 0},
		// 稍有差异
		"Smart Campus Navigator": {0.95, 0.31},
		"Navigate campus daily":  {0.1, 0.99},
	}}
	src := &fakeSource{candidates: []Candidate{
		{ID: 1, Title: "Smart Campus Hub", Description: "Campus life companion"},
		{ID: 2, Title: "Campus Smart", Description: "A recipe sharing site"},
		{ID: 3, Title: "Smart Campus Navigator", Description: "Navigate campus daily"},
	}}
	d := newTestDetector(e, src)

	matches, outcome := d.FindSimilar(context.Background(), Query{
		Title:       "Smart Campus",
		Description: "An app for campus life",
		ExcludeID:   9,
	})
	require.Equal(t, OutcomeMatch, outcome)
	require.Equal(t, uint(9), src.excluded)
	require.Len(t, matches, 2)
	require.Equal(t, uint(1), matches[0].ProjectID)
	require.Equal(t, 1.0, matches[0].OverallSimilarity)
	require.Equal(t, uint(3), matches[1].ProjectID)
	require.Greater(t, matches[0].OverallSimilarity, matches[1].OverallSimilarity)
	// 分数保留 4 位小数
	require.Equal(t, Round(matches[1].OverallSimilarity, 4), matches[1].OverallSimilarity)
	// 输入 + 候选一次批量请求
	require.Equal(t, 2, e.batchCalls)
}

func TestFindSimilarCustomThreshold(t *testing.T) {
	e := &fakeEmbedder{vectors: map[string][]float64{
		"Title A": {1, 0}, "Desc A": {1, 0},
		"Title B": {1, 1}, "Desc B": {1, 1},
	}}
	src := &fakeSource{candidates: []Candidate{{ID: 2, Title: "Title B", Description: "Desc B"}}}
	d := newTestDetector(e, src)

	// cos = 0.7071
	matches, outcome := d.FindSimilar(context.Background(), Query{Title: "Title A", Description: "Desc A"})
	require.Empty(t, matches)
	require.Equal(t, OutcomeClean, outcome)
	require.True(t, outcome.Completed())
	matches, _ = d.FindSimilar(context.Background(), Query{Title: "Title A", Description: "Desc A", Threshold: 0.7})
	require.Len(t, matches, 1)
	require.Equal(t, 0.7071, matches[0].OverallSimilarity)
}

func TestFindSimilarFailsOpen(t *testing.T) {
	e := &fakeEmbedder{fail: map[string]bool{"Broken": true}}
	src := &fakeSource{candidates: []Candidate{{ID: 1, Title: "x", Description: "y"}}}
	d := newTestDetector(e, src)
	matches, outcome := d.FindSimilar(context.Background(), Query{Title: "Broken", Description: "whatever"})
	require.Nil(t, matches)
	require.Equal(t, OutcomeSkipped, outcome)
	require.False(t, outcome.Completed())

	src.err = errors.New("db down")
	e.fail = nil
	matches, outcome = d.FindSimilar(context.Background(), Query{Title: "ok", Description: "ok"})
	require.Nil(t, matches)
	require.Equal(t, OutcomeSkipped, outcome)
}

func TestFindSimilarSkipsFailingCandidate(t *testing.T) {
	e := &fakeEmbedder{
		vectors: map[string][]float64{"T": {1, 0}, "D": {1, 0}, "T1": {1, 0}, "D1": {1, 0}},
		fail:    map[string]bool{"T2": true},
	}
	src := &fakeSource{candidates: []Candidate{
		{ID: 1, Title: "T1", Description: "D1"},
		{ID: 2, Title: "T2", Description: "D2"},
	}}
	d := newTestDetector(e, src)

	matches, _ := d.FindSimilar(context.Background(), Query{Title: "T", Description: "D"})
	require.Len(t, matches, 1)
	require.Equal(t, uint(1), matches[0].ProjectID)
	// 输入 1 次，整体批量失败 1 次，逐个 2 次
	require.Equal(t, 4, e.batchCalls)
}

func TestFindSimilarBlankText(t *testing.T) {
	e := &fakeEmbedder{vectors: map[string][]float64{"T": {1, 0}, "T1": {1, 0}, "D1": {1, 0}}}
	src := &fakeSource{candidates: []Candidate{{ID: 1, Title: "T1", Description: "D1"}}}
	d := NewDetector(e, src, config.Similarity{Threshold: 0.4, TitleWeight: 0.4, DescriptionWeight: 0.6}, quietLog())

	// 描述为空时描述相似度为 0，overall = 0.4
	matches, _ := d.FindSimilar(context.Background(), Query{Title: "T", Description: "  \n"})
	require.Len(t, matches, 1)
	require.Equal(t, 0.0, matches[0].DescriptionSimilarity)
	require.Equal(t, 0.4, matches[0].OverallSimilarity)

	matches, outcome := d.FindSimilar(context.Background(), Query{Title: " ", Description: ""})
	require.Nil(t, matches)
	require.Equal(t, OutcomeSkipped, outcome)
}

func TestMarkProjectAndRecords(t *testing.T) {
	p := &model.Project{}
	matches := []Match{
		{ProjectID: 4, OverallSimilarity: 0.95},
		{ProjectID: 7, OverallSimilarity: 0.9},
		{ProjectID: 8, OverallSimilarity: 0.85},
	}
	MarkProject(p, matches)
	require.True(t, p.IsFlaggedDuplicate)
	require.Equal(t, uint(4), *p.DuplicateOfID)
	require.Equal(t, 0.95, *p.SimilarityScore)

	now := time.Now()
	records := Records(10, matches, 2, now)
	require.Len(t, records, 2)
	require.Equal(t, uint(10), records[0].ProjectID)
	require.Equal(t, uint(7), records[1].SimilarProjectID)
	require.Equal(t, Algorithm, records[0].Algorithm)

	MarkProject(p, nil)
	require.False(t, p.IsFlaggedDuplicate)
	require.Nil(t, p.DuplicateOfID)
	require.Nil(t, p.SimilarityScore)
}

func TestLiveCheckTooShort(t *testing.T) {
	selfInit()
	e := &fakeEmbedder{}
	Default = newTestDetector(e, &fakeSource{})

	resp := test.DoRequest(t, LiveCheck, http.MethodPost, LiveCheckReq{
		Title:       "Short     ",
		Description: "This description is long enough to pass the minimum length check.",
	}, test.AsUser(jwt.Payload{UserID: 1, Role: model.RoleStudent}))
	test.NoError(t, resp)
	require.Equal(t, false, resp.Data.(map[string]any)["checked"])
	require.Equal(t, 0, e.batchCalls)
}

func TestLiveCheckReturnsTopThree(t *testing.T) {
	selfInit()
	vec := []float64{1, 0}
	e := &fakeEmbedder{vectors: map[string][]float64{}}
	var candidates []Candidate
	for i := 1; i <= 5; i++ {
		title := "Campus title " + string(rune('A'+i))
		desc := "Campus description " + string(rune('A'+i))
		e.vectors[title], e.vectors[desc] = vec, vec
		candidates = append(candidates, Candidate{ID: uint(i), Title: title, Description: desc})
	}
	title := "Smart campus assistant"
	desc := "A mobile assistant that helps students navigate every campus service."
	e.vectors[title], e.vectors[desc] = vec, vec
	Default = newTestDetector(e, &fakeSource{candidates: candidates})

	resp := test.DoRequest(t, LiveCheck, http.MethodPost, LiveCheckReq{Title: title, Description: desc},
		test.AsUser(jwt.Payload{UserID: 1, Role: model.RoleStudent}))
	test.NoError(t, resp)
	data := resp.Data.(map[string]any)
	require.Equal(t, true, data["checked"])
	require.Equal(t, float64(5), data["count"])
	require.Len(t, data["matches"], 3)
}

func TestLiveCheckBadBody(t *testing.T) {
	selfInit()
	resp := test.DoRequest(t, LiveCheck, http.MethodPost, "{not json")
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}

func TestListRecordsInvalidID(t *testing.T) {
	selfInit()
	resp := test.DoRequest(t, ListRecords, http.MethodGet, nil,
		test.AsUser(jwt.Payload{UserID: 1, Role: model.RoleStudent}), test.Param("id", "abc"))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}
