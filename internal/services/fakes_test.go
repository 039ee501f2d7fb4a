package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/coursepath/coursepath-backend/internal/clients/youtube"
	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/types"
)

// The service tests run against in-memory repo fakes. The gorm handle only
// supplies transaction plumbing, so an empty sqlite database is enough.
func newTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	return db
}

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("new logger: %v", err)
	}
	return log
}

type fakeProvider struct {
	videos []youtube.Video
	calls  int
}

func (f *fakeProvider) Search(ctx context.Context, query string, maxResults int) []youtube.Video {
	f.calls++
	if len(f.videos) > maxResults {
		return f.videos[:maxResults]
	}
	return f.videos
}

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	return f.data[key], nil
}

func (f *fakeCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	f.data[key] = val
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeCache) Close() error { return nil }

type fakeCourseRepo struct {
	courses []*types.Course
}

func (f *fakeCourseRepo) Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error) {
	f.courses = append(f.courses, courses...)
	return courses, nil
}

func (f *fakeCourseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Course, error) {
	var out []*types.Course
	for _, c := range f.courses {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
	for _, c := range f.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCourseRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Course, error) {
	return f.courses, nil
}

type fakeTopicRepo struct {
	topics    []*types.Topic
	failNames map[string]bool
}

func (f *fakeTopicRepo) Create(ctx context.Context, tx *gorm.DB, topics []*types.Topic) ([]*types.Topic, error) {
	for _, t := range topics {
		if f.failNames[t.Name] {
			return nil, gorm.ErrInvalidData
		}
	}
	f.topics = append(f.topics, topics...)
	return topics, nil
}

func (f *fakeTopicRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Topic, error) {
	var out []*types.Topic
	for _, t := range f.topics {
		for _, id := range ids {
			if t.ID == id {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (f *fakeTopicRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Topic, error) {
	for _, t := range f.topics {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTopicRepo) ListByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Topic, error) {
	var out []*types.Topic
	for _, t := range f.topics {
		if t.CourseID == courseID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTopicRepo) ListIDsByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, t := range f.topics {
		if t.CourseID == courseID {
			out = append(out, t.ID)
		}
	}
	return out, nil
}

func (f *fakeTopicRepo) ListRecommended(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID, excludeTopicIDs []uuid.UUID, limit int) ([]*types.Topic, error) {
	inCourse := make(map[uuid.UUID]bool, len(courseIDs))
	for _, id := range courseIDs {
		inCourse[id] = true
	}
	excluded := make(map[uuid.UUID]bool, len(excludeTopicIDs))
	for _, id := range excludeTopicIDs {
		excluded[id] = true
	}
	var out []*types.Topic
	for _, t := range f.topics {
		if len(out) >= limit {
			break
		}
		if t.IsRecommended && inCourse[t.CourseID] && !excluded[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTopicRepo) CountByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error) {
	var n int64
	for _, t := range f.topics {
		if t.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

func (f *fakeTopicRepo) CountByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := map[uuid.UUID]int64{}
	for _, id := range courseIDs {
		for _, t := range f.topics {
			if t.CourseID == id {
				out[id]++
			}
		}
	}
	return out, nil
}

func (f *fakeTopicRepo) ExistsForCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (bool, error) {
	for _, t := range f.topics {
		if t.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTopicRepo) DeleteByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error {
	kept := f.topics[:0]
	for _, t := range f.topics {
		if t.CourseID != courseID {
			kept = append(kept, t)
		}
	}
	f.topics = kept
	return nil
}

type fakeEnrollmentRepo struct {
	rows    []*types.Enrollment
	courses *fakeCourseRepo
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) (*types.Enrollment, error) {
	for _, e := range f.rows {
		if e.UserID == enrollment.UserID && e.CourseID == enrollment.CourseID {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	f.rows = append(f.rows, enrollment)
	return enrollment, nil
}

func (f *fakeEnrollmentRepo) Exists(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (bool, error) {
	for _, e := range f.rows {
		if e.UserID == userID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollmentRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Enrollment, error) {
	var out []*types.Enrollment
	for _, e := range f.rows {
		if e.UserID != userID {
			continue
		}
		if e.Course == nil && f.courses != nil {
			e.Course, _ = f.courses.GetByID(ctx, tx, e.CourseID)
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) ListCourseIDsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, e := range f.rows {
		if e.UserID == userID {
			out = append(out, e.CourseID)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var n int64
	for _, e := range f.rows {
		if e.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeEnrollmentRepo) DeleteByUserAndCourseIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, courseIDs []uuid.UUID) error {
	drop := make(map[uuid.UUID]bool, len(courseIDs))
	for _, id := range courseIDs {
		drop[id] = true
	}
	kept := f.rows[:0]
	for _, e := range f.rows {
		if e.UserID == userID && drop[e.CourseID] {
			continue
		}
		kept = append(kept, e)
	}
	f.rows = kept
	return nil
}

type fakeWatchProgressRepo struct {
	rows   []*types.WatchProgress
	topics *fakeTopicRepo
}

func (f *fakeWatchProgressRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.WatchProgress) ([]*types.WatchProgress, error) {
	f.rows = append(f.rows, rows...)
	return rows, nil
}

func (f *fakeWatchProgressRepo) GetByUserAndTopic(ctx context.Context, tx *gorm.DB, userID, topicID uuid.UUID) (*types.WatchProgress, error) {
	for _, r := range f.rows {
		if r.UserID == userID && r.TopicID == topicID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeWatchProgressRepo) ListByUserAndTopicIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, topicIDs []uuid.UUID) ([]*types.WatchProgress, error) {
	want := make(map[uuid.UUID]bool, len(topicIDs))
	for _, id := range topicIDs {
		want[id] = true
	}
	var out []*types.WatchProgress
	for _, r := range f.rows {
		if r.UserID == userID && want[r.TopicID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeWatchProgressRepo) ListRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.WatchProgress, error) {
	var out []*types.WatchProgress
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	if f.topics != nil {
		for _, r := range out {
			if r.Topic == nil {
				r.Topic, _ = f.topics.GetByID(ctx, tx, r.TopicID)
			}
		}
	}
	return out, nil
}

func (f *fakeWatchProgressRepo) ListTopicIDsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r.TopicID)
		}
	}
	return out, nil
}

func (f *fakeWatchProgressRepo) Update(ctx context.Context, tx *gorm.DB, row *types.WatchProgress) error {
	for i, r := range f.rows {
		if r.ID == row.ID {
			f.rows[i] = row
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeWatchProgressRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var n int64
	for _, r := range f.rows {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeWatchProgressRepo) CountCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var n int64
	for _, r := range f.rows {
		if r.UserID == userID && r.Completed {
			n++
		}
	}
	return n, nil
}

func (f *fakeWatchProgressRepo) CountCompletedInCourses(ctx context.Context, tx *gorm.DB, userID uuid.UUID, courseIDs []uuid.UUID) (int64, error) {
	inCourse := make(map[uuid.UUID]bool, len(courseIDs))
	for _, id := range courseIDs {
		inCourse[id] = true
	}
	var n int64
	for _, r := range f.rows {
		if r.UserID != userID || !r.Completed {
			continue
		}
		if f.topics == nil {
			continue
		}
		t, _ := f.topics.GetByID(ctx, tx, r.TopicID)
		if t != nil && inCourse[t.CourseID] {
			n++
		}
	}
	return n, nil
}

func (f *fakeWatchProgressRepo) DeleteByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) error {
	drop := make(map[uuid.UUID]bool, len(topicIDs))
	for _, id := range topicIDs {
		drop[id] = true
	}
	kept := f.rows[:0]
	for _, r := range f.rows {
		if !drop[r.TopicID] {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

type fakeUserRepo struct {
	users []*types.User
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	f.users = append(f.users, users...)
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.users {
		for _, e := range emails {
			if u.Email == e {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByUsernames(ctx context.Context, tx *gorm.DB, usernames []string) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.users {
		for _, n := range usernames {
			if u.Username == n {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string, excludeID uuid.UUID) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UsernameExists(ctx context.Context, tx *gorm.DB, username string, excludeID uuid.UUID) (bool, error) {
	for _, u := range f.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, tx *gorm.DB, user *types.User) error {
	for i, u := range f.users {
		if u.ID == user.ID {
			f.users[i] = user
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeUserProfileRepo struct {
	profiles []*types.UserProfile
}

func (f *fakeUserProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.UserProfile) ([]*types.UserProfile, error) {
	f.profiles = append(f.profiles, profiles...)
	return profiles, nil
}

func (f *fakeUserProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProfile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeUserProfileRepo) Update(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) error {
	for i, p := range f.profiles {
		if p.ID == profile.ID {
			f.profiles[i] = profile
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeUserProfileRepo) TouchLastActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	for _, p := range f.profiles {
		if p.UserID == userID {
			p.LastActive = time.Now().UTC()
			return nil
		}
	}
	return nil
}

type fakeUserTokenRepo struct {
	tokens []*types.UserToken
}

func (f *fakeUserTokenRepo) Create(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) ([]*types.UserToken, error) {
	f.tokens = append(f.tokens, tokens...)
	return tokens, nil
}

func (f *fakeUserTokenRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserToken, error) {
	var out []*types.UserToken
	for _, t := range f.tokens {
		for _, id := range userIDs {
			if t.UserID == id {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (f *fakeUserTokenRepo) GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.UserToken, error) {
	var out []*types.UserToken
	for _, t := range f.tokens {
		for _, a := range accessTokens {
			if t.AccessToken == a {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (f *fakeUserTokenRepo) GetByRefreshTokens(ctx context.Context, tx *gorm.DB, refreshTokens []string) ([]*types.UserToken, error) {
	var out []*types.UserToken
	for _, t := range f.tokens {
		for _, r := range refreshTokens {
			if t.RefreshToken == r {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (f *fakeUserTokenRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := f.tokens[:0]
	for _, t := range f.tokens {
		if !drop[t.ID] {
			kept = append(kept, t)
		}
	}
	f.tokens = kept
	return nil
}

func (f *fakeUserTokenRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time) error {
	kept := f.tokens[:0]
	for _, t := range f.tokens {
		if !t.ExpiresAt.Before(cutoff) {
			kept = append(kept, t)
		}
	}
	f.tokens = kept
	return nil
}

type fakeFieldRepo struct {
	fields []*types.Field
}

func (f *fakeFieldRepo) Create(ctx context.Context, tx *gorm.DB, fields []*types.Field) ([]*types.Field, error) {
	f.fields = append(f.fields, fields...)
	return fields, nil
}

func (f *fakeFieldRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Field, error) {
	var out []*types.Field
	for _, fld := range f.fields {
		for _, id := range ids {
			if fld.ID == id {
				out = append(out, fld)
			}
		}
	}
	return out, nil
}

func (f *fakeFieldRepo) ListWithCourses(ctx context.Context, tx *gorm.DB) ([]*types.Field, error) {
	sorted := make([]*types.Field, len(f.fields))
	copy(sorted, f.fields)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return sorted, nil
}

type fakeContactMessageRepo struct {
	messages []*types.ContactMessage
}

func (f *fakeContactMessageRepo) Create(ctx context.Context, tx *gorm.DB, messages []*types.ContactMessage) ([]*types.ContactMessage, error) {
	f.messages = append(f.messages, messages...)
	return messages, nil
}
