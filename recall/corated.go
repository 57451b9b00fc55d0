package recall

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rushteam/filmrec/core"
	"github.com/rushteam/filmrec/pipeline"
	"github.com/rushteam/filmrec/pkg/utils"
)

// CoRated 是基于共评历史的召回源：三部喜欢的电影 → 相似用户 →
// 相似用户看过的电影。
//
// 算法流程：
//  1. 标题解析为电影顶点 id（恰好三部，前置条件）
//  2. 对每个用户数一遍亲和分：三部电影中有几部在他的已看集合里（0–3）
//  3. 分层并集，最相似优先：先并入 3 分用户的已看集合，
//     不足 MinCandidates 再并入 2 分，再不足并入 1 分
//  4. 仍不足时用 Fallback 采样源补齐缺口
//  5. 剔除三部种子电影本身
//
// 亲和分是查询私有的临时映射，不落在用户顶点上：同一个图上的
// 连续查询互不污染。
//
// 结果是集合语义：这里不排序，排序交给 rank / rerank 阶段。
// 只要目录里有足够多可选电影，产出不少于 MinCandidates 部；
// 目录太小则有多少给多少，不报错。
type CoRated struct {
	Graph core.RatingGraph

	// MinCandidates 候选集的最低数量，默认 50
	MinCandidates int

	// Fallback 候选不足时的补齐采样源（通常是 *Random），可为空
	Fallback Sampler
}

func (r *CoRated) Name() string        { return "recall.corated" }
func (r *CoRated) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *CoRated) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *CoRated) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Graph == nil || rctx == nil {
		return nil, nil
	}
	if len(rctx.LikedTitles) != 3 {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			fmt.Sprintf("recall: want exactly 3 liked titles, got %d", len(rctx.LikedTitles)))
	}

	// 标题 → 电影顶点 id；未知标题直接报错，不能静默少算一部
	likedIDs := make(map[int64]struct{}, 3)
	for _, title := range rctx.LikedTitles {
		id, err := r.Graph.ResolveTitle(ctx, title)
		if err != nil {
			return nil, err
		}
		likedIDs[id] = struct{}{}
	}

	minCandidates := r.MinCandidates
	if minCandidates <= 0 {
		minCandidates = 50
	}

	// 数亲和分：查询私有，按分层归档用户的已看集合
	type scoredUser struct {
		watched map[int64]struct{}
	}
	tiers := map[int][]scoredUser{}

	allUsers, err := r.Graph.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, userID := range allUsers {
		watched, err := r.Graph.GetUserMovies(ctx, userID)
		if err != nil || len(watched) == 0 {
			continue
		}
		points := 0
		for likedID := range likedIDs {
			if _, ok := watched[likedID]; ok {
				points++
			}
		}
		if points >= 1 {
			tiers[points] = append(tiers[points], scoredUser{watched: watched})
		}
	}

	// 分层并集：3 分层无条件并入，低层只在数量不足时并入。
	// candidateTier 记住每部电影进入候选集时的最高层，用于 explain。
	candidates := make(map[int64]struct{})
	candidateTier := make(map[int64]int)
	for points := 3; points >= 1; points-- {
		if points < 3 && len(candidates) >= minCandidates {
			break
		}
		for _, u := range tiers[points] {
			for movieID := range u.watched {
				if _, seed := likedIDs[movieID]; seed {
					continue
				}
				if _, ok := candidates[movieID]; !ok {
					candidates[movieID] = struct{}{}
					candidateTier[movieID] = points
				}
			}
		}
	}

	// 补齐：采样结果必须真正进入候选集
	if len(candidates) < minCandidates && r.Fallback != nil {
		exclude := make(map[int64]struct{}, len(candidates)+len(likedIDs))
		for id := range candidates {
			exclude[id] = struct{}{}
		}
		for id := range likedIDs {
			exclude[id] = struct{}{}
		}
		sampled, err := r.Fallback.Sample(ctx, minCandidates-len(candidates), exclude)
		if err != nil {
			return nil, err
		}
		for _, it := range sampled {
			if _, ok := candidates[it.ID]; !ok {
				candidates[it.ID] = struct{}{}
				candidateTier[it.ID] = 0
			}
		}
	}

	out := make([]*core.Item, 0, len(candidates))
	for movieID := range candidates {
		it, err := r.Graph.GetMovie(ctx, movieID)
		if err != nil {
			continue
		}
		it.PutLabel("recall_source", utils.Label{Value: "corated", Source: "recall"})
		if tier := candidateTier[movieID]; tier > 0 {
			it.PutLabel("affinity", utils.Label{Value: strconv.Itoa(tier), Source: "recall"})
		} else {
			it.PutLabel("recall_fallback", utils.Label{Value: "sample", Source: "recall"})
		}
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*CoRated)(nil)
var _ pipeline.Node = (*CoRated)(nil)
