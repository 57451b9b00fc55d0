package graph

import (
	"context"
	"fmt"

	"github.com/rushteam/filmrec/core"
)

// MovieSeed 是批量建图的电影记录：dataset 包的清洗产物经 service 转换后
// 进入这里。ID 已是负数编码的顶点 id，RaterIDs 是评过分的用户 id。
type MovieSeed struct {
	ID        int64
	Title     string
	Genres    []string
	AvgRating float64
	NumRaters int
	RaterIDs  []int64
}

// Store 是内存实现的评分二部图：一个 id→顶点的共享顶点表同时容纳
// 用户（正 id）与电影（负 id）两类顶点。
//
// 倒排索引（标题→id、用户→已看电影）在加边时增量维护，
// 查询阶段不做全量重扫。
//
// 并发模型：单线程同步访问。所有操作运行到返回为止，调用方保证
// 一次只有一个调用在进行；并发写（尤其是 max id + 1 的 id 分配）
// 需要调用方自行串行化。
type Store struct {
	vertices map[int64]*Vertex
	titleID  map[string]int64

	// maxMovieID 是外部（正数）电影 id 的最大值；maxUserID 同理。
	// 提交新评价时据此分配新 id。
	maxMovieID int64
	maxUserID  int64
}

func NewStore() *Store {
	return &Store{
		vertices: make(map[int64]*Vertex),
		titleID:  make(map[string]int64),
	}
}

// AddUserVertex 插入一个没有任何边的用户顶点。
// id 已存在时返回 INVALID_INPUT：调用方必须保证 id 新鲜。
func (s *Store) AddUserVertex(userID int64) error {
	if _, ok := s.vertices[userID]; ok {
		return core.NewDomainError(core.ModuleGraph, core.ErrorCodeInvalidInput,
			fmt.Sprintf("graph: duplicate vertex id %d", userID))
	}
	s.vertices[userID] = &Vertex{
		Kind: KindUser,
		User: &User{ID: userID, ReviewedMovies: make(map[int64]struct{})},
	}
	if userID > s.maxUserID {
		s.maxUserID = userID
	}
	return nil
}

// AddMovieVertex 插入一个没有任何边的电影顶点。movieID 是负数编码的顶点 id。
func (s *Store) AddMovieVertex(movieID int64, title string, avgRating float64, numRaters int, genres []string) error {
	if _, ok := s.vertices[movieID]; ok {
		return core.NewDomainError(core.ModuleGraph, core.ErrorCodeInvalidInput,
			fmt.Sprintf("graph: duplicate vertex id %d", movieID))
	}
	s.vertices[movieID] = &Vertex{
		Kind: KindMovie,
		Movie: &Movie{
			ID:          movieID,
			LinkedUsers: make(map[int64]struct{}),
			Title:       title,
			Genres:      genres,
			AvgRating:   avgRating,
			NumRaters:   numRaters,
		},
	}
	s.titleID[title] = movieID
	if ext := -movieID; ext > s.maxMovieID {
		s.maxMovieID = ext
	}
	return nil
}

// AddEdge 在用户顶点与电影顶点之间加一条无向边，两侧对称记录。
// 任一 id 不在图中返回 NOT_FOUND；userID == movieID 返回 INVALID_INPUT
// （两类 id 空间不相交，出现相等只能是调用方误用）。
func (s *Store) AddEdge(userID, movieID int64) error {
	if userID == movieID {
		return core.NewDomainError(core.ModuleGraph, core.ErrorCodeInvalidInput,
			fmt.Sprintf("graph: self loop on id %d", userID))
	}
	uv, ok := s.vertices[userID]
	if !ok || uv.Kind != KindUser {
		return core.NewDomainError(core.ModuleGraph, core.ErrorCodeNotFound,
			fmt.Sprintf("graph: user vertex %d not found", userID))
	}
	mv, ok := s.vertices[movieID]
	if !ok || mv.Kind != KindMovie {
		return core.NewDomainError(core.ModuleGraph, core.ErrorCodeNotFound,
			fmt.Sprintf("graph: movie vertex %d not found", movieID))
	}
	uv.User.ReviewedMovies[movieID] = struct{}{}
	mv.Movie.LinkedUsers[userID] = struct{}{}
	return nil
}

// AddMoviesUsers 批量建图：对每条电影记录创建电影顶点，再为每个评分
// 用户惰性创建用户顶点（同一用户出现多次是幂等的）并加边。
// 这是全量建图的唯一入口，复杂度 O(电影数 × 单片评分人数)。
func (s *Store) AddMoviesUsers(seeds []MovieSeed) error {
	for _, seed := range seeds {
		if err := s.AddMovieVertex(seed.ID, seed.Title, seed.AvgRating, seed.NumRaters, seed.Genres); err != nil {
			return err
		}
		for _, userID := range seed.RaterIDs {
			if _, ok := s.vertices[userID]; !ok {
				if err := s.AddUserVertex(userID); err != nil {
					return err
				}
			}
			if err := s.AddEdge(userID, seed.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// SubmitReview 应用一条新的（标题, 评分）评价。
//
// 标题未知时：分配新电影 id（外部 id 取现有最大值 + 1，顶点 id 取其负数），
// 以 NumRaters=1、AvgRating=rating 创建电影顶点。
// 标题已知时：在线均值更新 AvgRating = (AvgRating*NumRaters + rating) / (NumRaters+1)。
// 不保留单条评分历史，也不做 Welford 式稳定化；在这个规模下是设计取舍。
//
// 无论哪种情况，都分配一个新的合成用户 id（现有最大用户 id + 1）并加一条边。
// 返回被评价电影的顶点 id。
func (s *Store) SubmitReview(title string, rating float64) (int64, error) {
	if rating < 0.0 || rating > 10.0 {
		return 0, core.NewDomainError(core.ModuleGraph, core.ErrorCodeInvalidInput,
			fmt.Sprintf("graph: rating %.2f out of range [0, 10]", rating))
	}

	movieID, known := s.titleID[title]
	if !known {
		movieID = -(s.maxMovieID + 1)
		if err := s.AddMovieVertex(movieID, title, rating, 1, nil); err != nil {
			return 0, err
		}
	} else {
		m := s.vertices[movieID].Movie
		total := m.AvgRating*float64(m.NumRaters) + rating
		m.NumRaters++
		m.AvgRating = total / float64(m.NumRaters)
	}

	userID := s.maxUserID + 1
	if err := s.AddUserVertex(userID); err != nil {
		return 0, err
	}
	if err := s.AddEdge(userID, movieID); err != nil {
		return 0, err
	}
	return movieID, nil
}

// AvgRating 返回标题对应电影的平均分；标题未知时第二个返回值为 false。
func (s *Store) AvgRating(title string) (float64, bool) {
	movieID, ok := s.titleID[title]
	if !ok {
		return 0, false
	}
	return s.vertices[movieID].Movie.AvgRating, true
}

// Len 返回顶点总数。
func (s *Store) Len() int {
	return len(s.vertices)
}

// MovieUsers 返回电影顶点的已连接用户 id 集合（测试边对称时使用）。
func (s *Store) MovieUsers(movieID int64) (map[int64]struct{}, bool) {
	v, ok := s.vertices[movieID]
	if !ok || v.Kind != KindMovie {
		return nil, false
	}
	return v.Movie.LinkedUsers, true
}

// ========== core.RatingGraph 实现 ==========

func (s *Store) Name() string { return "graph.memory" }

func (s *Store) ResolveTitle(_ context.Context, title string) (int64, error) {
	movieID, ok := s.titleID[title]
	if !ok {
		return 0, core.NewDomainError(core.ModuleGraph, core.ErrorCodeNotFound,
			fmt.Sprintf("graph: title %q not found", title))
	}
	return movieID, nil
}

func (s *Store) GetMovie(_ context.Context, movieID int64) (*core.Item, error) {
	v, ok := s.vertices[movieID]
	if !ok || v.Kind != KindMovie {
		return nil, core.NewDomainError(core.ModuleGraph, core.ErrorCodeNotFound,
			fmt.Sprintf("graph: movie vertex %d not found", movieID))
	}
	m := v.Movie
	it := core.NewItem(m.ID)
	it.Title = m.Title
	it.Genres = m.Genres
	it.AvgRating = m.AvgRating
	it.NumRaters = m.NumRaters
	return it, nil
}

func (s *Store) GetUserMovies(_ context.Context, userID int64) (map[int64]struct{}, error) {
	v, ok := s.vertices[userID]
	if !ok || v.Kind != KindUser {
		return nil, core.NewDomainError(core.ModuleGraph, core.ErrorCodeNotFound,
			fmt.Sprintf("graph: user vertex %d not found", userID))
	}
	return v.User.ReviewedMovies, nil
}

func (s *Store) GetAllUsers(_ context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(s.vertices))
	for id, v := range s.vertices {
		if v.Kind == KindUser {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *Store) GetAllMovies(_ context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(s.vertices))
	for id, v := range s.vertices {
		if v.Kind == KindMovie {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// 确保 Store 实现了 core.RatingGraph 接口
var _ core.RatingGraph = (*Store)(nil)
