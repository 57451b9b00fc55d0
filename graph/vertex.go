package graph

// VertexKind 标记顶点类型，用于在共用的顶点空间里做穷尽分派。
type VertexKind uint8

const (
	KindUser  VertexKind = iota + 1 // 用户顶点
	KindMovie                       // 电影顶点
)

func (k VertexKind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindMovie:
		return "movie"
	default:
		return "unknown"
	}
}

// Vertex 是评分二部图中的顶点：带类型标记的变体，User 与 Movie 二者只有
// 其一非空。顶点之间不持有指针，边以对端顶点 id 的集合记录在两侧，
// 所有"引用"都是到共享顶点表的 id 查找，避免循环所有权。
type Vertex struct {
	Kind  VertexKind
	User  *User
	Movie *Movie
}

// ID 返回顶点 id。
func (v *Vertex) ID() int64 {
	switch v.Kind {
	case KindUser:
		return v.User.ID
	case KindMovie:
		return v.Movie.ID
	default:
		return 0
	}
}

// User 是用户顶点的载荷。
//
// 不变式：
//   - ReviewedMovies 中的每个 id 都是图中电影顶点的 id
//   - 对每个 m ∈ ReviewedMovies，本用户的 id ∈ m.LinkedUsers（边对称）
//
// 相似度打分不落在顶点上：每次查询的亲和分是召回阶段的临时状态，
// 存在查询私有的映射里，查询结束即丢弃。
type User struct {
	ID             int64
	ReviewedMovies map[int64]struct{}
}

// Movie 是电影顶点的载荷。
//
// 不变式：
//   - AvgRating == 总分 / NumRaters，任何更新之后都成立
//   - 对每个 u ∈ LinkedUsers，本电影的 id ∈ u.ReviewedMovies（边对称）
type Movie struct {
	ID          int64
	LinkedUsers map[int64]struct{}
	Title       string
	Genres      []string
	AvgRating   float64
	NumRaters   int
}
