// Package dataset 读取并清洗原始表格数据集（电影元数据 + 用户评分），
// 产出建图所需的记录。清洗规则：
//   - 缺失关键列的行直接丢弃
//   - 平均分低于 5.0（满分 10.0）的电影丢弃
//   - 低于 3.0（满分 5.0）的用户评分丢弃
//   - 电影 id 取负数编码，与正数用户 id 共用一个顶点空间
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rushteam/filmrec/core"
)

// MovieRecord 是清洗后的电影记录。ID 已是负数编码的顶点 id。
type MovieRecord struct {
	ID        int64
	Title     string
	Genres    []string
	AvgRating float64
	VoteCount int
	RaterIDs  []int64
}

// RatingRecord 是清洗后的评分记录。MovieID 已是负数编码的顶点 id。
type RatingRecord struct {
	UserID  int64
	MovieID int64
	Rating  float64
}

// LoadMovies 读取电影元数据 CSV（movies_metadata 格式，按表头定位
// id/title/genres/vote_average/vote_count 列）并按清洗规则过滤。
func LoadMovies(r io.Reader) ([]MovieRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read movie header: %w", err)
	}
	col := headerIndex(header)
	for _, name := range []string{"id", "title", "genres", "vote_average", "vote_count"} {
		if _, ok := col[name]; !ok {
			return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
				fmt.Sprintf("dataset: movie file missing column %q", name))
		}
	}

	var out []MovieRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// 源数据里有格式破损的行，跳过而不是整体失败
			continue
		}

		id, ok1 := intField(row, col["id"])
		title, ok2 := strField(row, col["title"])
		genresRaw, ok3 := strField(row, col["genres"])
		voteAvg, ok4 := floatField(row, col["vote_average"])
		voteCount, ok5 := intField(row, col["vote_count"])
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
			continue
		}
		if voteAvg < 5.0 {
			continue
		}

		out = append(out, MovieRecord{
			ID:        -id,
			Title:     title,
			Genres:    parseGenres(genresRaw),
			AvgRating: voteAvg,
			VoteCount: int(voteCount),
		})
	}
	return out, nil
}

// LoadRatings 读取评分 CSV（列 userId/movieId/rating）并按清洗规则过滤。
func LoadRatings(r io.Reader) ([]RatingRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read rating header: %w", err)
	}
	col := headerIndex(header)
	for _, name := range []string{"userid", "movieid", "rating"} {
		if _, ok := col[name]; !ok {
			return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
				fmt.Sprintf("dataset: rating file missing column %q", name))
		}
	}

	var out []RatingRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		userID, ok1 := intField(row, col["userid"])
		movieID, ok2 := intField(row, col["movieid"])
		rating, ok3 := floatField(row, col["rating"])
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		if rating < 3.0 {
			continue
		}

		out = append(out, RatingRecord{UserID: userID, MovieID: -movieID, Rating: rating})
	}
	return out, nil
}

// Combine 给每条电影记录补上评分用户 id 列表，没有任何用户评分的电影
// 被排除在结果之外。
func Combine(movies []MovieRecord, ratings []RatingRecord) []MovieRecord {
	raters := make(map[int64][]int64, len(movies))
	seen := make(map[int64]map[int64]struct{}, len(movies))
	for _, r := range ratings {
		if seen[r.MovieID] == nil {
			seen[r.MovieID] = make(map[int64]struct{})
		}
		if _, dup := seen[r.MovieID][r.UserID]; dup {
			continue
		}
		seen[r.MovieID][r.UserID] = struct{}{}
		raters[r.MovieID] = append(raters[r.MovieID], r.UserID)
	}

	out := make([]MovieRecord, 0, len(movies))
	for _, m := range movies {
		ids, ok := raters[m.ID]
		if !ok {
			continue
		}
		m.RaterIDs = ids
		out = append(out, m)
	}
	return out
}

// UserMovies 返回用户 id → 已评分电影顶点 id 集合的倒排，只统计目录内
// （movies 中出现）的电影；离线评估时对测试集评分文件使用。
func UserMovies(movies []MovieRecord, ratings []RatingRecord) map[int64]map[int64]struct{} {
	inCatalog := make(map[int64]struct{}, len(movies))
	for _, m := range movies {
		inCatalog[m.ID] = struct{}{}
	}

	out := make(map[int64]map[int64]struct{})
	for _, r := range ratings {
		if _, ok := inCatalog[r.MovieID]; !ok {
			continue
		}
		if out[r.UserID] == nil {
			out[r.UserID] = make(map[int64]struct{})
		}
		out[r.UserID][r.MovieID] = struct{}{}
	}
	return out
}

// Genres 返回数据集中出现过的所有题材（排序去重）。
func Genres(movies []MovieRecord) []string {
	set := make(map[string]struct{})
	for _, m := range movies {
		for _, g := range m.Genres {
			set[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// LoadMovieFile 与 LoadRatingFile 是基于文件路径的便捷入口。
func LoadMovieFile(path string) ([]MovieRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open movie file: %w", err)
	}
	defer f.Close()
	return LoadMovies(f)
}

func LoadRatingFile(path string) ([]RatingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open rating file: %w", err)
	}
	defer f.Close()
	return LoadRatings(f)
}

// parseGenres 从元数据里的题材列提取题材名。源数据是 Python 字面量
// 形式的字典列表（[{'id': 16, 'name': 'Animation'}, ...]），不是合法
// JSON，这里直接扫描 'name' 键取值，单双引号都兼容。
func parseGenres(raw string) []string {
	var out []string
	rest := raw
	for {
		idx := strings.Index(rest, "'name'")
		quote := byte('\'')
		if j := strings.Index(rest, `"name"`); j >= 0 && (idx < 0 || j < idx) {
			idx = j
			quote = '"'
		}
		if idx < 0 {
			break
		}
		rest = rest[idx+len("'name'"):]

		// 跳过冒号与空白，找到值的起始引号
		k := strings.IndexByte(rest, quote)
		if k < 0 {
			break
		}
		rest = rest[k+1:]
		end := strings.IndexByte(rest, quote)
		if end < 0 {
			break
		}
		name := rest[:end]
		if name != "" {
			out = append(out, name)
		}
		rest = rest[end+1:]
	}
	return out
}

func headerIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return col
}

func strField(row []string, i int) (string, bool) {
	if i >= len(row) {
		return "", false
	}
	s := strings.TrimSpace(row[i])
	return s, s != ""
}

func intField(row []string, i int) (int64, bool) {
	s, ok := strField(row, i)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func floatField(row []string, i int) (float64, bool) {
	s, ok := strField(row, i)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
