package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/filmrec/core"
	"github.com/rushteam/filmrec/pipeline"
	"github.com/rushteam/filmrec/pkg/utils"
)

// GenreTopN 是类型重排节点：在候选集里优先挑指定类型的电影，按
// 平均分降序取前 N 部；命中不足 N 部时用其余候选里分数最高的补齐。
// 所以只要候选集不少于 N 部，产出就恰好 N 部。
//
// 类型优先取节点配置的 Genre，为空时退回查询上下文里的 rctx.Genre；
// 两者都为空时退化为纯 Top-N。
type GenreTopN struct {
	// Genre 指定的电影类型，例如 "Comedy"
	Genre string

	// N 产出数量，默认 3
	N int
}

func (n *GenreTopN) Name() string {
	return "rerank.genre_topn"
}

func (n *GenreTopN) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *GenreTopN) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	topN := n.N
	if topN <= 0 {
		topN = 3
	}
	genre := n.Genre
	if genre == "" && rctx != nil {
		genre = rctx.Genre
	}

	// 按是否命中类型切成两堆，各自按平均分降序稳定排序
	matched := make([]*core.Item, 0, len(items))
	rest := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if genre != "" && it.HasGenre(genre) {
			matched = append(matched, it)
		} else {
			rest = append(rest, it)
		}
	}
	byRating := func(s []*core.Item) {
		sort.SliceStable(s, func(i, j int) bool {
			return s[i].AvgRating > s[j].AvgRating
		})
	}
	byRating(matched)
	byRating(rest)

	out := make([]*core.Item, 0, topN)
	for _, it := range matched {
		if len(out) >= topN {
			break
		}
		it.PutLabel("genre_match", utils.Label{Value: genre, Source: n.Name()})
		out = append(out, it)
	}
	// 命中不足时用其余候选里分数最高的补齐
	for _, it := range rest {
		if len(out) >= topN {
			break
		}
		out = append(out, it)
	}
	return out, nil
}

var _ pipeline.Node = (*GenreTopN)(nil)
