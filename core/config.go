package core

import "time"

// RecommendConfig 是推荐链路相关的配置接口，用于提供默认值。
type RecommendConfig interface {
	// DefaultMinCandidates 返回候选集的最低数量（分层并集的停止阈值）
	DefaultMinCandidates() int

	// DefaultTopN 返回最终推荐的电影数
	DefaultTopN() int

	// DefaultPopularSize 返回热门榜单长度
	DefaultPopularSize() int

	// DefaultPopularMinRaters 返回进入热门榜单所需的最少评分人数
	DefaultPopularMinRaters() int

	// DefaultTimeout 返回召回源的默认超时时间
	DefaultTimeout() time.Duration
}

// DefaultRecommendConfig 是默认的推荐配置实现。
type DefaultRecommendConfig struct{}

func (c *DefaultRecommendConfig) DefaultMinCandidates() int {
	return 50
}

func (c *DefaultRecommendConfig) DefaultTopN() int {
	return 3
}

func (c *DefaultRecommendConfig) DefaultPopularSize() int {
	return 50
}

func (c *DefaultRecommendConfig) DefaultPopularMinRaters() int {
	return 30
}

func (c *DefaultRecommendConfig) DefaultTimeout() time.Duration {
	return 2 * time.Second
}
