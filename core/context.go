package core

import "github.com/rushteam/filmrec/pkg/utils"

// RecommendContext 承载一次推荐请求的输入，贯穿整个 Pipeline 透传。
//
// 一次查询由三部喜欢的电影和一个期望题材构成；LikedTitles 驱动相似用户
// 打分（recall 阶段），Genre 驱动题材重排（rerank 阶段）。
type RecommendContext struct {
	// UserID 发起请求的用户 id（可为 0：匿名查询不参与已看过滤）
	UserID int64

	// LikedTitles 是用户喜欢的三部电影标题，召回的前置条件是恰好三部
	LikedTitles []string

	// Genre 是期望的电影题材，用于最终 Top3 的题材重排
	Genre string

	// Labels 是请求级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级上下文参数（采样数量、实验分组等）
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
