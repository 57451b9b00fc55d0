package recall

import (
	"context"
	"sort"
	"strconv"

	"github.com/rushteam/filmrec/core"
	"github.com/rushteam/filmrec/pipeline"
	"github.com/rushteam/filmrec/pkg/utils"
)

// Popular 是热门召回源：按平均分取 TopN，只考虑评分人数不少于
// MinRaters 的电影。
//   - 如果配置了 KeyValueStore，优先用 ZRange 读预先发布的榜单
//     （有序集合，按平均分排序）
//   - 否则直接扫描图目录现算
//
// Popular 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Popular struct {
	Graph core.RatingGraph

	// Store 可选的榜单缓存后端（ZRange 快路径）
	Store core.KeyValueStore

	// Key 榜单在 Store 里的 key，例如 "popular:movies"
	Key string

	// Size 榜单长度，默认 50
	Size int

	// MinRaters 进入榜单所需的最少评分人数，默认 30
	MinRaters int
}

func (r *Popular) Name() string        { return "recall.popular" }
func (r *Popular) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Popular) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Popular) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if r.Graph == nil {
		return nil, nil
	}
	size := r.Size
	if size <= 0 {
		size = 50
	}

	// 快路径：榜单已发布到 Store
	if r.Store != nil && r.Key != "" {
		members, err := r.Store.ZRange(ctx, r.Key, 0, int64(size)-1)
		if err == nil && len(members) > 0 {
			out := make([]*core.Item, 0, len(members))
			for _, m := range members {
				movieID, err := strconv.ParseInt(m, 10, 64)
				if err != nil {
					continue
				}
				it, err := r.Graph.GetMovie(ctx, movieID)
				if err != nil {
					continue
				}
				it.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
				out = append(out, it)
			}
			return out, nil
		}
		// Store 不可用时退回现算
	}

	items, err := r.compute(ctx, size)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		it.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
	}
	return items, nil
}

// SyncToStore 现算榜单并用 ZAdd 发布到 Store，member 为电影顶点 id、
// score 为平均分。离线任务或加载完数据后调用一次即可。
func (r *Popular) SyncToStore(ctx context.Context) error {
	if r.Store == nil || r.Key == "" {
		return core.ErrStoreNotSupported
	}
	size := r.Size
	if size <= 0 {
		size = 50
	}
	items, err := r.compute(ctx, size)
	if err != nil {
		return err
	}
	for _, it := range items {
		member := strconv.FormatInt(it.ID, 10)
		if err := r.Store.ZAdd(ctx, r.Key, it.AvgRating, member); err != nil {
			return err
		}
	}
	return nil
}

func (r *Popular) compute(ctx context.Context, size int) ([]*core.Item, error) {
	minRaters := r.MinRaters
	if minRaters <= 0 {
		minRaters = 30
	}

	movieIDs, err := r.Graph.GetAllMovies(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*core.Item, 0, len(movieIDs))
	for _, movieID := range movieIDs {
		it, err := r.Graph.GetMovie(ctx, movieID)
		if err != nil {
			continue
		}
		if it.NumRaters < minRaters {
			continue
		}
		items = append(items, it)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AvgRating > items[j].AvgRating
	})
	if len(items) > size {
		items = items[:size]
	}
	return items, nil
}

var _ Source = (*Popular)(nil)
var _ pipeline.Node = (*Popular)(nil)
