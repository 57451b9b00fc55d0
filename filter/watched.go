package filter

import (
	"context"

	"github.com/rushteam/filmrec/core"
)

// WatchedFilter 是已看过滤器：登录用户的推荐结果里不出现他在图上
// 已经评过分的电影。匿名查询（UserID 为 0）直接放行。
type WatchedFilter struct {
	Graph core.RatingGraph
}

func (f *WatchedFilter) Name() string {
	return "filter.watched"
}

func (f *WatchedFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil || rctx.UserID == 0 {
		return false, nil
	}
	if f.Graph == nil {
		return false, nil
	}

	watched, err := f.Graph.GetUserMovies(ctx, rctx.UserID)
	if err != nil {
		// 用户不在图上（例如刚注册还没评过分）不算错误
		if core.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	_, ok := watched[item.ID]
	return ok, nil
}

var _ Filter = (*WatchedFilter)(nil)
