package core

import "context"

// RatingGraph 是评分二部图的领域读接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（graph）实现
//   - 召回/过滤/重排节点只依赖此接口，不依赖具体图实现
//
// 顶点 id 约定：用户 id 为正数，电影 id 为负数（加载时取负编码），
// 两类顶点共用同一个 id 空间且互不冲突。
type RatingGraph interface {
	// Name 返回图实现名称（用于日志/监控）
	Name() string

	// ResolveTitle 按标题解析电影顶点 id；标题未知时返回 NOT_FOUND
	ResolveTitle(ctx context.Context, title string) (int64, error)

	// GetMovie 按顶点 id 获取电影承载结构；id 未知或不是电影时返回 NOT_FOUND
	GetMovie(ctx context.Context, movieID int64) (*Item, error)

	// GetUserMovies 获取用户评过分的电影顶点 id 集合
	GetUserMovies(ctx context.Context, userID int64) (map[int64]struct{}, error)

	// GetAllUsers 获取所有用户顶点 id
	GetAllUsers(ctx context.Context) ([]int64, error)

	// GetAllMovies 获取所有电影顶点 id
	GetAllMovies(ctx context.Context) ([]int64, error)
}
