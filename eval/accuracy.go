// Package eval 提供推荐准确率的离线评估：用历史评分做训练集建图，
// 用留出的评分文件做测试集，比较推荐列表和用户真实观影记录的重合度。
package eval

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/filmrec/core"
	"github.com/rushteam/filmrec/dataset"
	"github.com/rushteam/filmrec/graph"
	"github.com/rushteam/filmrec/recall"
	"github.com/rushteam/filmrec/service"
)

// Result 是单个测试用户的评估结果。
type Result struct {
	UserID int64

	// Matched 推荐列表和用户真实观影记录的重合比例，
	// 分母剔除了作为查询输入的三部电影
	Matched float64
}

// Options 控制评估口径。零值等同默认：热门榜 50 部、入榜最少 30 人评分。
type Options struct {
	PopularSize      int
	PopularMinRaters int
}

// EvaluateFiles 从 CSV 文件做一轮完整评估。
func EvaluateFiles(ctx context.Context, movieFile, ratingFile, testingFile string, opts Options) ([]Result, error) {
	movies, err := dataset.LoadMovieFile(movieFile)
	if err != nil {
		return nil, err
	}
	ratings, err := dataset.LoadRatingFile(ratingFile)
	if err != nil {
		return nil, err
	}
	testing, err := dataset.LoadRatingFile(testingFile)
	if err != nil {
		return nil, err
	}
	return Evaluate(ctx, movies, ratings, testing, opts)
}

// Evaluate 对每个"热门用户"跑一次推荐并打分。
//
// 热门用户指测试集里看过超过 3 部热门电影的用户：取他看过的前三部
// 热门电影作为查询输入，拿完整候选集和他在测试集里的全部观影记录
// 求重合比例。
func Evaluate(
	ctx context.Context,
	movies []dataset.MovieRecord,
	ratings []dataset.RatingRecord,
	testing []dataset.RatingRecord,
	opts Options,
) ([]Result, error) {
	g := graph.NewStore()
	rec := service.New(g, nil)
	if err := rec.AddMoviesUsers(movies, ratings); err != nil {
		return nil, err
	}

	popularIDs, err := popularSet(ctx, g, opts)
	if err != nil {
		return nil, err
	}

	titleByID := make(map[int64]string, len(movies))
	order := make([]int64, 0, len(movies))
	for _, m := range movies {
		if _, ok := titleByID[m.ID]; !ok {
			titleByID[m.ID] = m.Title
			order = append(order, m.ID)
		}
	}

	userMovies := dataset.UserMovies(movies, testing)
	userIDs := make([]int64, 0, len(userMovies))
	for userID := range userMovies {
		userIDs = append(userIDs, userID)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	results := make([]Result, 0, len(userIDs))
	for _, userID := range userIDs {
		watched := userMovies[userID]

		// 用户看过的热门电影，按目录顺序排，保证输入可复现
		popularLinked := make([]string, 0, 4)
		for _, movieID := range order {
			if _, inPopular := popularIDs[movieID]; !inPopular {
				continue
			}
			if _, ok := watched[movieID]; ok {
				popularLinked = append(popularLinked, titleByID[movieID])
			}
		}
		if len(popularLinked) <= 3 {
			continue
		}

		items, err := rec.ReturnMovies(ctx, popularLinked[:3])
		if err != nil {
			// 单个用户失败不中断整轮评估
			if core.IsDomainError(err) {
				continue
			}
			return nil, err
		}
		recommended := make(map[string]struct{}, len(items))
		for _, it := range items {
			recommended[it.Title] = struct{}{}
		}

		// 用户在测试集里的全部观影记录（标题）
		connected := make([]string, 0, len(watched))
		for _, movieID := range order {
			if _, ok := watched[movieID]; ok {
				connected = append(connected, titleByID[movieID])
			}
		}

		results = append(results, Result{
			UserID:  userID,
			Matched: percentMatched(connected, recommended),
		})
	}
	return results, nil
}

func popularSet(ctx context.Context, g *graph.Store, opts Options) (map[int64]struct{}, error) {
	src := &recall.Popular{Graph: g, Size: opts.PopularSize, MinRaters: opts.PopularMinRaters}
	items, err := src.Recall(ctx, &core.RecommendContext{})
	if err != nil {
		return nil, err
	}
	out := make(map[int64]struct{}, len(items))
	for _, it := range items {
		out[it.ID] = struct{}{}
	}
	return out, nil
}

// percentMatched 计算重合比例：分母剔除作为查询输入的三部电影，
// 结果保留三位小数。
func percentMatched(connected []string, recommended map[string]struct{}) float64 {
	if len(connected) <= 3 {
		return 0
	}
	matched := 0
	for _, title := range connected {
		if _, ok := recommended[title]; ok {
			matched++
		}
	}
	return math.Round(float64(matched)/float64(len(connected)-3)*1000) / 1000
}
