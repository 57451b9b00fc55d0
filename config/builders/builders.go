package builders

import (
	"fmt"

	"github.com/rushteam/filmrec/config"
	"github.com/rushteam/filmrec/feature"
	"github.com/rushteam/filmrec/filter"
	"github.com/rushteam/filmrec/pipeline"
	"github.com/rushteam/filmrec/pkg/conv"
	"github.com/rushteam/filmrec/rank"
	"github.com/rushteam/filmrec/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("rank.rating", BuildRatingNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.genre_topn", BuildGenreTopNNode)
	config.Register("feature.enrich", BuildFeatureEnrichNode)
	config.Register("recall.corated", buildGraphBacked("recall.corated"))
	config.Register("recall.popular", buildGraphBacked("recall.popular"))
	config.Register("recall.random", buildGraphBacked("recall.random"))
	config.Register("recall.fanout", buildGraphBacked("recall.fanout"))
}

// buildGraphBacked 召回相关节点都依赖评分图等运行时实例，没法从
// 纯配置构建；注册一个报错 builder，让配置校验能识别类型、错误
// 信息能指路。
func buildGraphBacked(typeName string) config.NodeBuilder {
	return func(_ map[string]interface{}) (pipeline.Node, error) {
		return nil, fmt.Errorf("%s requires runtime instances (rating graph, sources), wire it in code (see service.New)", typeName)
	}
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "seed_title":
			titles := conv.SliceAnyToString(filterMap["extra_titles"])
			filters = append(filters, &filter.SeedTitleFilter{ExtraTitles: titles})
		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule filter: expr is required")
			}
			filters = append(filters, &filter.RuleFilter{Expr: expr})
		case "watched", "blocked":
			return nil, fmt.Errorf("%s filter requires a graph/store instance, wire it in code", filterType)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildRatingNode(_ map[string]interface{}) (pipeline.Node, error) {
	return &rank.RatingNode{}, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	return &rerank.TopNNode{N: int(n)}, nil
}

func BuildGenreTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.GenreTopN{
		Genre: conv.ConfigGet(cfg, "genre", ""),
		N:     int(conv.ConfigGetInt64(cfg, "n", 0)),
	}, nil
}

func BuildFeatureEnrichNode(cfg map[string]interface{}) (pipeline.Node, error) {
	// Feast 客户端运行时注入；这里只装配特征列表
	return &feature.EnrichNode{
		Features:  conv.SliceAnyToString(cfg["features"]),
		EntityKey: conv.ConfigGet(cfg, "entity_key", ""),
	}, nil
}
