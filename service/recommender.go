package service

import (
	"context"
	"sort"

	"github.com/rushteam/filmrec/core"
	"github.com/rushteam/filmrec/dataset"
	"github.com/rushteam/filmrec/filter"
	"github.com/rushteam/filmrec/graph"
	"github.com/rushteam/filmrec/pipeline"
	"github.com/rushteam/filmrec/rank"
	"github.com/rushteam/filmrec/recall"
	"github.com/rushteam/filmrec/rerank"
)

// Recommendation 是对外返回的推荐结果。
type Recommendation struct {
	Title     string   `json:"title"`
	Genres    []string `json:"genres"`
	AvgRating float64  `json:"avg_rating"`
}

// Recommender 是推荐服务门面：装配好图、召回、过滤、排序的完整
// 链路，对外只暴露领域操作。
//
// 典型用法：
//
//	g := graph.NewStore()
//	rec := service.New(g, nil)
//	rec.LoadDataset("movies.csv", "ratings.csv")
//	items, _ := rec.ReturnMovies(ctx, []string{"Heat", "Casino", "Nixon"})
//	picks, _ := rec.ApplyFilters(ctx, items, "Crime")
type Recommender struct {
	graph *graph.Store
	cfg   core.RecommendConfig
	pipe  *pipeline.Pipeline
}

// New 创建推荐服务。cfg 为空时使用 DefaultRecommendConfig。
func New(g *graph.Store, cfg core.RecommendConfig) *Recommender {
	if cfg == nil {
		cfg = &core.DefaultRecommendConfig{}
	}
	corated := &recall.CoRated{
		Graph:         g,
		MinCandidates: cfg.DefaultMinCandidates(),
		Fallback:      &recall.Random{Graph: g},
	}
	pipe := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			corated,
			&filter.FilterNode{Filters: []filter.Filter{
				&filter.SeedTitleFilter{},
				&filter.WatchedFilter{Graph: g},
			}},
			&rank.RatingNode{},
		},
	}
	return &Recommender{graph: g, cfg: cfg, pipe: pipe}
}

// LoadDataset 从电影/评分 CSV 文件加载数据集并建图。
// 加载过程会清洗数据：平均分 < 5.0 的电影和 < 3.0 的评分被丢弃，
// 没有任何合格评分的电影不建顶点。
func (r *Recommender) LoadDataset(movieFile, ratingFile string) error {
	movies, err := dataset.LoadMovieFile(movieFile)
	if err != nil {
		return err
	}
	ratings, err := dataset.LoadRatingFile(ratingFile)
	if err != nil {
		return err
	}
	return r.AddMoviesUsers(movies, ratings)
}

// AddMoviesUsers 把清洗后的记录灌进图：每部电影一个顶点，每个
// 评分用户一个顶点，评分关系一条边。
func (r *Recommender) AddMoviesUsers(movies []dataset.MovieRecord, ratings []dataset.RatingRecord) error {
	combined := dataset.Combine(movies, ratings)
	seeds := make([]graph.MovieSeed, 0, len(combined))
	for _, m := range combined {
		seeds = append(seeds, graph.MovieSeed{
			ID:        m.ID,
			Title:     m.Title,
			Genres:    m.Genres,
			AvgRating: m.AvgRating,
			NumRaters: m.VoteCount,
			RaterIDs:  m.RaterIDs,
		})
	}
	return r.graph.AddMoviesUsers(seeds)
}

// ReturnMovies 根据三部喜欢的电影返回候选集：共评召回 → 种子/已看
// 过滤 → 按平均分排序。候选集排过序但未截断，交给 ApplyFilters 出
// 最终结果。
func (r *Recommender) ReturnMovies(ctx context.Context, likedTitles []string) ([]*core.Item, error) {
	if timeout := r.cfg.DefaultTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	rctx := &core.RecommendContext{LikedTitles: likedTitles}
	return r.pipe.Run(ctx, rctx, nil)
}

// ApplyFilters 在候选集上做类型重排，返回最终的 TopN 推荐。
// genre 为空时退化为纯 TopN。
func (r *Recommender) ApplyFilters(ctx context.Context, items []*core.Item, genre string) ([]Recommendation, error) {
	node := &rerank.GenreTopN{Genre: genre, N: r.cfg.DefaultTopN()}
	picked, err := node.Process(ctx, &core.RecommendContext{Genre: genre}, items)
	if err != nil {
		return nil, err
	}
	out := make([]Recommendation, 0, len(picked))
	for _, it := range picked {
		out = append(out, Recommendation{
			Title:     it.Title,
			Genres:    it.Genres,
			AvgRating: it.AvgRating,
		})
	}
	return out, nil
}

// Recommend 是 ReturnMovies + ApplyFilters 的组合捷径。
func (r *Recommender) Recommend(ctx context.Context, likedTitles []string, genre string) ([]Recommendation, error) {
	items, err := r.ReturnMovies(ctx, likedTitles)
	if err != nil {
		return nil, err
	}
	return r.ApplyFilters(ctx, items, genre)
}

// SubmitReview 提交一条评论。标题已存在时更新运行均值，不存在时
// 建新电影顶点；每条评论都会生成一个新的匿名用户顶点和一条边。
// 返回评论落到的电影顶点 id。
func (r *Recommender) SubmitReview(_ context.Context, title string, rating float64) (int64, error) {
	return r.graph.SubmitReview(title, rating)
}

// ReturnAvgRating 返回电影的当前平均分。
func (r *Recommender) ReturnAvgRating(_ context.Context, title string) (float64, error) {
	avg, ok := r.graph.AvgRating(title)
	if !ok {
		return 0, core.NewDomainError(core.ModuleService, core.ErrorCodeNotFound,
			"service: movie not found: "+title)
	}
	return avg, nil
}

// Genres 返回目录里出现过的全部类型，按字典序排列。前端用它渲染
// 类型下拉框。
func (r *Recommender) Genres(ctx context.Context) ([]string, error) {
	movieIDs, err := r.graph.GetAllMovies(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, id := range movieIDs {
		it, err := r.graph.GetMovie(ctx, id)
		if err != nil {
			continue
		}
		for _, g := range it.Genres {
			seen[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out, nil
}
