package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/coursepath/coursepath-backend/internal/repos"
	"github.com/coursepath/coursepath-backend/internal/repos/testutil"
	"github.com/coursepath/coursepath-backend/internal/types"
)

func TestWatchProgressGetAbsentReturnsNil(t *testing.T) {
	tx := repoFixture(t)
	repo := repos.NewWatchProgressRepo(tx, testutil.Logger(t))

	row, err := repo.GetByUserAndTopic(context.Background(), tx, uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row != nil {
		t.Fatal("expected nil for an absent row")
	}
}

func TestWatchProgressUpdateOverwrites(t *testing.T) {
	tx := repoFixture(t)
	repo := repos.NewWatchProgressRepo(tx, testutil.Logger(t))

	user := seedUser(t, tx)
	field := seedField(t, tx, "Backend")
	course := seedCourse(t, tx, field.ID, "Go Basics")
	topic := seedTopic(t, tx, course.ID, "Intro")

	rows, err := repo.Create(context.Background(), tx, []*types.WatchProgress{{
		ID:             uuid.New(),
		UserID:         user.ID,
		TopicID:        topic.ID,
		ElapsedSeconds: 30,
	}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	row := rows[0]
	row.ElapsedSeconds = 90
	row.Completed = true
	row.UpdatedAt = time.Now().UTC()
	if err := repo.Update(context.Background(), tx, row); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByUserAndTopic(context.Background(), tx, user.ID, topic.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ElapsedSeconds != 90 || !got.Completed {
		t.Fatalf("expected overwritten row, got %+v", got)
	}
}

func TestWatchProgressCountCompletedInCourses(t *testing.T) {
	tx := repoFixture(t)
	repo := repos.NewWatchProgressRepo(tx, testutil.Logger(t))

	user := seedUser(t, tx)
	field := seedField(t, tx, "Backend")
	inCourse := seedCourse(t, tx, field.ID, "In")
	outCourse := seedCourse(t, tx, field.ID, "Out")
	inTopic := seedTopic(t, tx, inCourse.ID, "a")
	outTopic := seedTopic(t, tx, outCourse.ID, "b")

	_, err := repo.Create(context.Background(), tx, []*types.WatchProgress{
		{ID: uuid.New(), UserID: user.ID, TopicID: inTopic.ID, Completed: true},
		{ID: uuid.New(), UserID: user.ID, TopicID: outTopic.ID, Completed: true},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := repo.CountCompletedInCourses(context.Background(), tx, user.ID, []uuid.UUID{inCourse.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 completed in course, got %d", n)
	}
}

func TestWatchProgressRecentOrder(t *testing.T) {
	tx := repoFixture(t)
	repo := repos.NewWatchProgressRepo(tx, testutil.Logger(t))

	user := seedUser(t, tx)
	field := seedField(t, tx, "Backend")
	course := seedCourse(t, tx, field.ID, "Go Basics")

	base := time.Now().UTC().Add(-time.Hour)
	var last uuid.UUID
	for i := 0; i < 3; i++ {
		topic := seedTopic(t, tx, course.ID, "t")
		last = topic.ID
		_, err := repo.Create(context.Background(), tx, []*types.WatchProgress{{
			ID:        uuid.New(),
			UserID:    user.ID,
			TopicID:   topic.ID,
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	rows, err := repo.ListRecentByUser(context.Background(), tx, user.ID, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].TopicID != last {
		t.Fatal("expected the newest row first")
	}
	if rows[0].Topic == nil {
		t.Fatal("expected the topic preloaded")
	}
}
