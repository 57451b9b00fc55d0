package rank

import (
	"context"
	"sort"

	"github.com/rushteam/filmrec/core"
	"github.com/rushteam/filmrec/pipeline"
	"github.com/rushteam/filmrec/pkg/utils"
)

// RatingNode 是评分排序 Node：把电影的平均分写进 Score，按分数
// 降序稳定排序。并列分保持召回顺序，保证同一份输入排序结果可复现。
type RatingNode struct{}

func (n *RatingNode) Name() string {
	return "rank.rating"
}

func (n *RatingNode) Kind() pipeline.Kind {
	return pipeline.KindRank
}

func (n *RatingNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		item.Score = item.AvgRating
		item.PutLabel("rank_model", utils.Label{
			Value:  "avg_rating",
			Source: n.Name(),
		})
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

var _ pipeline.Node = (*RatingNode)(nil)
