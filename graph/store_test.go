package graph

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/filmrec/core"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	seeds := []MovieSeed{
		{ID: -1, Title: "A", Genres: []string{"Drama"}, AvgRating: 8.0, NumRaters: 2, RaterIDs: []int64{10, 11}},
		{ID: -2, Title: "B", Genres: []string{"Drama"}, AvgRating: 7.0, NumRaters: 1, RaterIDs: []int64{10}},
		{ID: -3, Title: "C", Genres: []string{"Comedy"}, AvgRating: 9.0, NumRaters: 1, RaterIDs: []int64{12}},
	}
	if err := s.AddMoviesUsers(seeds); err != nil {
		t.Fatalf("AddMoviesUsers() error = %v", err)
	}
	return s
}

func TestStore_EdgeSymmetry(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	users, err := s.GetAllUsers(ctx)
	if err != nil {
		t.Fatalf("GetAllUsers() error = %v", err)
	}
	for _, userID := range users {
		movies, err := s.GetUserMovies(ctx, userID)
		if err != nil {
			t.Fatalf("GetUserMovies(%d) error = %v", userID, err)
		}
		for movieID := range movies {
			linked, ok := s.MovieUsers(movieID)
			if !ok {
				t.Fatalf("movie %d referenced by user %d is not a movie vertex", movieID, userID)
			}
			if _, ok := linked[userID]; !ok {
				t.Errorf("edge asymmetry: user %d has movie %d but movie does not link back", userID, movieID)
			}
		}
	}
}

func TestStore_AddUserVertex_Duplicate(t *testing.T) {
	s := NewStore()
	if err := s.AddUserVertex(1); err != nil {
		t.Fatalf("AddUserVertex(1) error = %v", err)
	}
	err := s.AddUserVertex(1)
	if !core.IsInvalidInput(err) {
		t.Errorf("duplicate AddUserVertex(1) error = %v, want INVALID_INPUT", err)
	}
}

func TestStore_AddEdge(t *testing.T) {
	tests := []struct {
		name     string
		userID   int64
		movieID  int64
		wantCode string
	}{
		{name: "ok", userID: 10, movieID: -3, wantCode: ""},
		{name: "self loop", userID: 5, movieID: 5, wantCode: core.ErrorCodeInvalidInput},
		{name: "missing user", userID: 99, movieID: -1, wantCode: core.ErrorCodeNotFound},
		{name: "missing movie", userID: 10, movieID: -99, wantCode: core.ErrorCodeNotFound},
		{name: "kind mismatch", userID: 10, movieID: 11, wantCode: core.ErrorCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seedStore(t)
			err := s.AddEdge(tt.userID, tt.movieID)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("AddEdge(%d, %d) error = %v", tt.userID, tt.movieID, err)
				}
				return
			}
			domainErr := core.GetDomainError(err)
			if domainErr == nil || domainErr.Code != tt.wantCode {
				t.Errorf("AddEdge(%d, %d) error = %v, want code %s", tt.userID, tt.movieID, err, tt.wantCode)
			}
		})
	}
}

func TestStore_SubmitReview_NewMovie(t *testing.T) {
	s := NewStore()
	movieID, err := s.SubmitReview("New Movie", 6.0)
	if err != nil {
		t.Fatalf("SubmitReview() error = %v", err)
	}

	ctx := context.Background()
	it, err := s.GetMovie(ctx, movieID)
	if err != nil {
		t.Fatalf("GetMovie(%d) error = %v", movieID, err)
	}
	if it.AvgRating != 6.0 {
		t.Errorf("AvgRating = %v, want 6.0", it.AvgRating)
	}
	if it.NumRaters != 1 {
		t.Errorf("NumRaters = %v, want 1", it.NumRaters)
	}

	linked, ok := s.MovieUsers(movieID)
	if !ok || len(linked) != 1 {
		t.Errorf("linked users = %v, want exactly one synthetic user", linked)
	}
}

func TestStore_SubmitReview_RunningMean(t *testing.T) {
	s := seedStore(t)

	// 对一个新标题依次提交 n 条评分，平均分应等于算术均值，人数等于 n。
	ratings := []float64{6.0, 7.5, 9.0, 4.5}
	var sum float64
	for _, r := range ratings {
		if _, err := s.SubmitReview("New Movie", r); err != nil {
			t.Fatalf("SubmitReview(%v) error = %v", r, err)
		}
		sum += r
	}

	avg, ok := s.AvgRating("New Movie")
	if !ok {
		t.Fatal("AvgRating(New Movie) absent")
	}
	want := sum / float64(len(ratings))
	if math.Abs(avg-want) > 1e-9 {
		t.Errorf("AvgRating = %v, want %v", avg, want)
	}

	movieID, err := s.ResolveTitle(context.Background(), "New Movie")
	if err != nil {
		t.Fatalf("ResolveTitle() error = %v", err)
	}
	it, _ := s.GetMovie(context.Background(), movieID)
	if it.NumRaters != len(ratings) {
		t.Errorf("NumRaters = %v, want %v", it.NumRaters, len(ratings))
	}
}

func TestStore_SubmitReview_AllocatesFreshIDs(t *testing.T) {
	s := seedStore(t)

	before := s.Len()
	movieID, err := s.SubmitReview("D", 8.0)
	if err != nil {
		t.Fatalf("SubmitReview() error = %v", err)
	}
	// 新电影顶点 id 延续负数空间：外部 id = 现有最大电影 id + 1
	if movieID != -4 {
		t.Errorf("new movie vertex id = %d, want -4", movieID)
	}
	// 新增一个电影顶点 + 一个合成用户顶点
	if s.Len() != before+2 {
		t.Errorf("vertex count = %d, want %d", s.Len(), before+2)
	}

	// 已知标题：只新增合成用户
	before = s.Len()
	if _, err := s.SubmitReview("A", 9.0); err != nil {
		t.Fatalf("SubmitReview(A) error = %v", err)
	}
	if s.Len() != before+1 {
		t.Errorf("vertex count = %d, want %d", s.Len(), before+1)
	}
}

func TestStore_SubmitReview_RatingRange(t *testing.T) {
	s := NewStore()
	for _, rating := range []float64{-0.1, 10.1} {
		if _, err := s.SubmitReview("X", rating); !core.IsInvalidInput(err) {
			t.Errorf("SubmitReview(X, %v) error = %v, want INVALID_INPUT", rating, err)
		}
	}
}

func TestStore_AvgRating_Absent(t *testing.T) {
	s := seedStore(t)
	if _, ok := s.AvgRating("nope"); ok {
		t.Error("AvgRating(nope) present, want absent")
	}
	avg, ok := s.AvgRating("C")
	if !ok || avg != 9.0 {
		t.Errorf("AvgRating(C) = %v, %v, want 9.0, true", avg, ok)
	}
}

func TestStore_IDUniqueness(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	users, _ := s.GetAllUsers(ctx)
	movies, _ := s.GetAllMovies(ctx)
	seen := make(map[int64]bool, len(users)+len(movies))
	for _, id := range append(users, movies...) {
		if seen[id] {
			t.Errorf("duplicate vertex id %d", id)
		}
		seen[id] = true
	}
}
