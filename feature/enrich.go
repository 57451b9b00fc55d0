package feature

import (
	"context"

	"github.com/rushteam/filmrec/core"
	"github.com/rushteam/filmrec/feast"
	"github.com/rushteam/filmrec/pipeline"
	"github.com/rushteam/filmrec/pkg/utils"
)

// EnrichNode 是特征注入节点：从 Feast 在线特征库批量拉取电影的
// 统计特征（票房、近七日播放量等），写进 Item.Meta。图里只有评分
// 结构，展示层需要的维度从这里补。
//
// Feast 不可用时整批跳过，不影响主链路出结果。
type EnrichNode struct {
	// Client Feast 客户端，为空时节点退化为直通
	Client feast.Client

	// Features 要拉取的特征名称列表，例如 ["movie_stats:box_office"]
	Features []string

	// EntityKey 实体键名，默认 "movie_id"
	EntityKey string
}

func (n *EnrichNode) Name() string {
	return "feature.enrich"
}

func (n *EnrichNode) Kind() pipeline.Kind {
	return pipeline.KindPostProcess
}

func (n *EnrichNode) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Client == nil || len(n.Features) == 0 || len(items) == 0 {
		return items, nil
	}

	entityKey := n.EntityKey
	if entityKey == "" {
		entityKey = "movie_id"
	}

	// 一次请求批量拉取整批候选的特征
	entityRows := make([]map[string]interface{}, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		entityRows = append(entityRows, map[string]interface{}{entityKey: it.ID})
	}
	if len(entityRows) == 0 {
		return items, nil
	}

	resp, err := n.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   n.Features,
		EntityRows: entityRows,
	})
	if err != nil {
		// 特征库故障时不阻塞推荐
		return items, nil
	}

	idx := 0
	for _, it := range items {
		if it == nil {
			continue
		}
		if idx >= len(resp.FeatureVectors) {
			break
		}
		fv := resp.FeatureVectors[idx]
		idx++
		if len(fv.Values) == 0 {
			continue
		}
		if it.Meta == nil {
			it.Meta = make(map[string]any, len(fv.Values))
		}
		for name, value := range fv.Values {
			it.Meta[name] = value
		}
		it.PutLabel("feature_source", utils.Label{Value: "feast", Source: n.Name()})
	}
	return items, nil
}

var _ pipeline.Node = (*EnrichNode)(nil)
