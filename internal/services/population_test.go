package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/coursepath/coursepath-backend/internal/apperr"
	"github.com/coursepath/coursepath-backend/internal/clients/youtube"
	"github.com/coursepath/coursepath-backend/internal/types"
)

func testVideos(n int) []youtube.Video {
	videos := make([]youtube.Video, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("vid%d", i)
		videos = append(videos, youtube.Video{
			VideoID:      id,
			Title:        fmt.Sprintf("Video %d", i),
			URL:          "https://www.youtube.com/embed/" + id,
			ThumbnailURL: "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg",
			Channel:      "Test Channel",
			Duration:     "4:13",
			ViewCount:    int64(1000 * (i + 1)),
		})
	}
	return videos
}

func newPopulationFixture(tb testing.TB, provider VideoProvider) (PopulationService, *fakeCourseRepo, *fakeTopicRepo, *fakeWatchProgressRepo) {
	tb.Helper()
	courses := &fakeCourseRepo{}
	topics := &fakeTopicRepo{}
	progress := &fakeWatchProgressRepo{topics: topics}
	svc := NewPopulationService(newTestDB(tb), testLogger(tb), provider, courses, topics, progress, 15)
	return svc, courses, topics, progress
}

func TestPopulateCreatesTopicsOnce(t *testing.T) {
	provider := &fakeProvider{videos: testVideos(3)}
	svc, courses, topics, _ := newPopulationFixture(t, provider)

	course := &types.Course{ID: uuid.New(), Title: "Go Basics"}
	courses.courses = append(courses.courses, course)

	created, err := svc.Populate(context.Background(), course.ID)
	if err != nil {
		t.Fatalf("populate: %v", err)
	}
	if created != 3 {
		t.Fatalf("expected 3 topics created, got %d", created)
	}
	if len(topics.topics) != 3 {
		t.Fatalf("expected 3 topics stored, got %d", len(topics.topics))
	}
	for _, topic := range topics.topics {
		if !topic.IsRecommended {
			t.Errorf("topic %q should be recommended", topic.Name)
		}
		if topic.VideoID == "" {
			t.Errorf("topic %q has no video id", topic.Name)
		}
	}

	// A second populate hits the existence gate and never searches again.
	created, err = svc.Populate(context.Background(), course.ID)
	if err != nil {
		t.Fatalf("second populate: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected 0 topics on repopulate, got %d", created)
	}
	if provider.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", provider.calls)
	}
}

func TestPopulateUnknownCourse(t *testing.T) {
	svc, _, _, _ := newPopulationFixture(t, &fakeProvider{videos: testVideos(3)})

	_, err := svc.Populate(context.Background(), uuid.New())
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPopulateSkipsFailingCandidate(t *testing.T) {
	provider := &fakeProvider{videos: testVideos(3)}
	svc, courses, topics, _ := newPopulationFixture(t, provider)
	topics.failNames = map[string]bool{"Video 1": true}

	course := &types.Course{ID: uuid.New(), Title: "Go Basics"}
	courses.courses = append(courses.courses, course)

	created, err := svc.Populate(context.Background(), course.ID)
	if err != nil {
		t.Fatalf("populate: %v", err)
	}
	if created != 2 {
		t.Fatalf("expected 2 topics created, got %d", created)
	}
}

func TestRefreshReplacesTopicsAndDropsProgress(t *testing.T) {
	provider := &fakeProvider{videos: testVideos(2)}
	svc, courses, topics, progress := newPopulationFixture(t, provider)

	course := &types.Course{ID: uuid.New(), Title: "Go Basics"}
	courses.courses = append(courses.courses, course)

	if _, err := svc.Populate(context.Background(), course.ID); err != nil {
		t.Fatalf("populate: %v", err)
	}
	userID := uuid.New()
	progress.rows = append(progress.rows, &types.WatchProgress{
		ID:      uuid.New(),
		UserID:  userID,
		TopicID: topics.topics[0].ID,
	})

	provider.videos = testVideos(4)
	created, err := svc.Refresh(context.Background(), course.ID)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if created != 4 {
		t.Fatalf("expected 4 topics after refresh, got %d", created)
	}
	if len(topics.topics) != 4 {
		t.Fatalf("expected 4 topics stored, got %d", len(topics.topics))
	}
	if len(progress.rows) != 0 {
		t.Fatalf("expected watch progress cleared, got %d rows", len(progress.rows))
	}
}
