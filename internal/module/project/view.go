package project

import (
	"capstone-guard/internal/model"
	"capstone-guard/internal/module/comment"
	"capstone-guard/internal/module/similarity"
)

// View 项目及其作者、届别、审阅者
type View struct {
	model.Project
	Author            *model.UserBrief `json:"author,omitempty"`
	Stream            *model.Stream    `json:"stream,omitempty"`
	Reviewer          *model.UserBrief `json:"reviewer,omitempty"`
	SimilarityPercent *float64         `json:"similarity_percent,omitempty"`
}

func NewView(p *model.Project) View {
	v := View{
		Project:  *p,
		Author:   p.Author.Brief(),
		Stream:   p.Stream,
		Reviewer: p.Reviewer.Brief(),
	}
	if p.SimilarityScore != nil {
		pct := similarity.Percent(*p.SimilarityScore)
		v.SimilarityPercent = &pct
	}
	return v
}

func NewViews(list []model.Project) []View {
	out := make([]View, len(list))
	for i := range list {
		out[i] = NewView(&list[i])
	}
	return out
}

type CreateResp struct {
	Project View               `json:"project"`
	Matches []similarity.Match `json:"matches"`
}

type DetailResp struct {
	Project         View                    `json:"project"`
	SimilarProjects []similarity.RecordView `json:"similar_projects"`
	Comments        []comment.View          `json:"comments"`
	CanEdit         bool                    `json:"can_edit"`
}
