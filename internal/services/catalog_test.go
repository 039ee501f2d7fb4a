package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/coursepath/coursepath-backend/internal/types"
)

func TestBrowseAnnotatesEnrollment(t *testing.T) {
	db := newTestDB(t)
	log := testLogger(t)
	fields := &fakeFieldRepo{}
	topics := &fakeTopicRepo{}
	courses := &fakeCourseRepo{}
	enrollments := &fakeEnrollmentRepo{courses: courses}
	svc := NewCatalogService(db, log, fields, topics, enrollments)

	enrolledCourse := types.Course{ID: uuid.New(), Title: "Go Basics"}
	otherCourse := types.Course{ID: uuid.New(), Title: "SQL Basics"}
	fields.fields = append(fields.fields,
		&types.Field{ID: uuid.New(), Name: "Backend", Courses: []types.Course{enrolledCourse, otherCourse}},
		&types.Field{ID: uuid.New(), Name: "Algorithms"},
	)
	addTopic(topics, enrolledCourse.ID, "Intro")
	addTopic(topics, enrolledCourse.ID, "Structs")

	userID := uuid.New()
	enrollments.rows = append(enrollments.rows, &types.Enrollment{ID: uuid.New(), UserID: userID, CourseID: enrolledCourse.ID})

	out, err := svc.Browse(context.Background(), userID)
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(out))
	}
	if out[0].Field.Name != "Algorithms" {
		t.Fatalf("expected fields ordered by name, got %q first", out[0].Field.Name)
	}

	backend := out[1]
	if len(backend.Courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(backend.Courses))
	}
	for _, c := range backend.Courses {
		switch c.Course.ID {
		case enrolledCourse.ID:
			if !c.Enrolled {
				t.Error("expected enrolled flag on enrolled course")
			}
			if c.TopicCount != 2 {
				t.Errorf("expected 2 topics, got %d", c.TopicCount)
			}
		case otherCourse.ID:
			if c.Enrolled {
				t.Error("unexpected enrolled flag")
			}
			if c.TopicCount != 0 {
				t.Errorf("expected 0 topics, got %d", c.TopicCount)
			}
		}
	}
}

func TestSubmitContactMessage(t *testing.T) {
	repo := &fakeContactMessageRepo{}
	svc := NewContactService(newTestDB(t), testLogger(t), repo)

	msg, err := svc.Submit(context.Background(), ContactInput{
		Name:    " Ada ",
		Email:   "ada@example.com",
		Message: "Hello",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if msg.Name != "Ada" {
		t.Fatalf("expected trimmed name, got %q", msg.Name)
	}
	if len(repo.messages) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(repo.messages))
	}
}

func TestSubmitContactMessageRequiresFields(t *testing.T) {
	repo := &fakeContactMessageRepo{}
	svc := NewContactService(newTestDB(t), testLogger(t), repo)

	if _, err := svc.Submit(context.Background(), ContactInput{Name: "Ada"}); err == nil {
		t.Fatal("expected validation error")
	}
}
