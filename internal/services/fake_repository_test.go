package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-portal-service/internal/models"
	"github.com/SAP-F-2025/school-portal-service/internal/repositories"
)

// memState is the whole in-memory database. Transactions snapshot and
// restore it.
type memState struct {
	nextID        uint
	users         map[uint]models.User
	students      map[uint]models.Student
	teachers      map[uint]models.Teacher
	modules       map[uint]models.Module
	grades        map[uint]models.Grade
	attendance    map[uint]models.Attendance
	notifications map[uint]models.Notification
}

func newMemState() *memState {
	return &memState{
		users:         map[uint]models.User{},
		students:      map[uint]models.Student{},
		teachers:      map[uint]models.Teacher{},
		modules:       map[uint]models.Module{},
		grades:        map[uint]models.Grade{},
		attendance:    map[uint]models.Attendance{},
		notifications: map[uint]models.Notification{},
	}
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *memState) clone() *memState {
	return &memState{
		nextID:        s.nextID,
		users:         cloneMap(s.users),
		students:      cloneMap(s.students),
		teachers:      cloneMap(s.teachers),
		modules:       cloneMap(s.modules),
		grades:        cloneMap(s.grades),
		attendance:    cloneMap(s.attendance),
		notifications: cloneMap(s.notifications),
	}
}

func (s *memState) id() uint {
	s.nextID++
	return s.nextID
}

// fakeRepository implements repositories.Repository in memory.
type fakeRepository struct {
	mu    *sync.Mutex
	state **memState
	fails map[string]error
	now   func() time.Time
}

func newFakeRepository() *fakeRepository {
	st := newMemState()
	return &fakeRepository{
		mu:    &sync.Mutex{},
		state: &st,
		fails: map[string]error{},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// failOn makes the named operation (e.g. "notification.create") return err.
func (f *fakeRepository) failOn(op string, err error) {
	f.mu.Lock()
	f.fails[op] = err
	f.mu.Unlock()
}

func (f *fakeRepository) fail(op string) error {
	if err, ok := f.fails[op]; ok {
		return fmt.Errorf("%s failed: %w", op, err)
	}
	return nil
}

func (f *fakeRepository) st() *memState { return *f.state }

func notFound(op string) error {
	return fmt.Errorf("%s failed: %w", op, gorm.ErrRecordNotFound)
}

func duplicate(op string) error {
	return fmt.Errorf("%s failed: %w", op, gorm.ErrDuplicatedKey)
}

func (f *fakeRepository) User() repositories.UserRepository       { return (*fakeUsers)(f) }
func (f *fakeRepository) Student() repositories.StudentRepository { return (*fakeStudents)(f) }
func (f *fakeRepository) Teacher() repositories.TeacherRepository { return (*fakeTeachers)(f) }
func (f *fakeRepository) Module() repositories.ModuleRepository   { return (*fakeModules)(f) }
func (f *fakeRepository) Grade() repositories.GradeRepository     { return (*fakeGrades)(f) }

func (f *fakeRepository) Attendance() repositories.AttendanceRepository {
	return (*fakeAttendance)(f)
}

func (f *fakeRepository) Notification() repositories.NotificationRepository {
	return (*fakeNotifications)(f)
}

func (f *fakeRepository) Dashboard() repositories.DashboardRepository {
	return (*fakeDashboard)(f)
}

func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	f.mu.Lock()
	snapshot := f.st().clone()
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		*f.state = snapshot
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

// ===== seed helpers =====

func (f *fakeRepository) addStudent(username, gradeLevel string) *Principal {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.st()
	user := models.User{ID: st.id(), Username: username, Email: username + "@example.com", Role: models.RoleStudent}
	st.users[user.ID] = user
	student := models.Student{ID: st.id(), UserID: user.ID, FirstName: username, LastName: "Student", GradeLevel: gradeLevel}
	st.students[student.ID] = student
	return &Principal{User: &user, Student: &student}
}

func (f *fakeRepository) addTeacher(username string) *Principal {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.st()
	user := models.User{ID: st.id(), Username: username, Email: username + "@example.com", Role: models.RoleTeacher}
	st.users[user.ID] = user
	teacher := models.Teacher{ID: st.id(), UserID: user.ID, FirstName: username, LastName: "Teacher"}
	st.teachers[teacher.ID] = teacher
	return &Principal{User: &user, Teacher: &teacher}
}

func (f *fakeRepository) addAdmin(username string) *Principal {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.st()
	user := models.User{ID: st.id(), Username: username, Email: username + "@example.com", Role: models.RoleAdmin}
	st.users[user.ID] = user
	return &Principal{User: &user}
}

func (f *fakeRepository) addModule(teacher *Principal, title, gradeLevel string) *models.Module {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.st()
	m := models.Module{ID: st.id(), Title: title, TeacherID: teacher.Teacher.ID, GradeLevel: gradeLevel, Subject: "mathematics", CreatedAt: f.now()}
	st.modules[m.ID] = m
	return &m
}

func (f *fakeRepository) counts() (grades, notifications, attendance, users int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.st()
	return len(st.grades), len(st.notifications), len(st.attendance), len(st.users)
}

// ===== users =====

type fakeUsers fakeRepository

func (r *fakeUsers) Create(ctx context.Context, user *models.User) error {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("user.create"); err != nil {
		return err
	}
	st := f.st()
	for _, u := range st.users {
		if u.Username == user.Username || u.Email == user.Email {
			return duplicate("create user")
		}
	}
	user.ID = st.id()
	user.CreatedAt = f.now()
	st.users[user.ID] = *user
	return nil
}

func (r *fakeUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.st().users[id]
	if !ok {
		return nil, notFound("get user")
	}
	return &u, nil
}

func (r *fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.st().users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, notFound("get user by username")
}

func (r *fakeUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if repositories.IsNotFoundError(err) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.st().users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUsers) Count(ctx context.Context) (int64, error) {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.st().users)), nil
}

// ===== students / teachers =====

type fakeStudents fakeRepository

func (r *fakeStudents) Create(ctx context.Context, student *models.Student) error {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("student.create"); err != nil {
		return err
	}
	st := f.st()
	student.ID = st.id()
	st.students[student.ID] = *student
	return nil
}

func (r *fakeStudents) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.st().students[id]
	if !ok {
		return nil, notFound("get student")
	}
	return &s, nil
}

func (r *fakeStudents) GetByUserID(ctx context.Context, userID uint) (*models.Student, error) {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.st().students {
		if s.UserID == userID {
			return &s, nil
		}
	}
	return nil, notFound("get student by user")
}

func (r *fakeStudents) List(ctx context.Context) ([]*models.Student, error) {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Student, 0, len(f.st().students))
	for _, s := range f.st().students {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (r *fakeStudents) Count(ctx context.Context) (int64, error) {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.st().students)), nil
}

type fakeTeachers fakeRepository

func (r *fakeTeachers) Create(ctx context.Context, teacher *models.Teacher) error {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("teacher.create"); err != nil {
		return err
	}
	st := f.st()
	teacher.ID = st.id()
	st.teachers[teacher.ID] = *teacher
	return nil
}

func (r *fakeTeachers) GetByID(ctx context.Context, id uint) (*models.Teacher, error) {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.st().teachers[id]
	if !ok {
		return nil, notFound("get teacher")
	}
	return &t, nil
}

func (r *fakeTeachers) GetByUserID(ctx context.Context, userID uint) (*models.Teacher, error) {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.st().teachers {
		if t.UserID == userID {
			return &t, nil
		}
	}
	return nil, notFound("get teacher by user")
}

// ===== modules =====

type fakeModules fakeRepository

func (r *fakeModules) Create(ctx context.Context, module *models.Module) error {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("module.create"); err != nil {
		return err
	}
	st := f.st()
	module.ID = st.id()
	module.CreatedAt = f.now()
	st.modules[module.ID] = *module
	return nil
}

func (r *fakeModules) GetByID(ctx context.Context, id uint) (*models.Module, error) {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.st().modules[id]
	if !ok {
		return nil, notFound("get module")
	}
	return &m, nil
}

func (r *fakeModules) list(match func(models.Module) bool, limit int) []*models.Module {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Module
	for _, m := range f.st().modules {
		if match(m) {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *fakeModules) ListByGradeLevel(ctx context.Context, gradeLevel string) ([]*models.Module, error) {
	return r.list(func(m models.Module) bool { return m.GradeLevel == gradeLevel }, 0), nil
}

func (r *fakeModules) ListByTeacher(ctx context.Context, teacherID uint, limit int) ([]*models.Module, error) {
	return r.list(func(m models.Module) bool { return m.TeacherID == teacherID }, limit), nil
}

func (r *fakeModules) CountByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	return int64(len(r.list(func(m models.Module) bool { return m.TeacherID == teacherID }, 0))), nil
}

func (r *fakeModules) CountByGradeLevel(ctx context.Context, gradeLevel string) (int64, error) {
	return int64(len(r.list(func(m models.Module) bool { return m.GradeLevel == gradeLevel }, 0))), nil
}

// ===== grades =====

type fakeGrades fakeRepository

func (r *fakeGrades) Create(ctx context.Context, grade *models.Grade) error {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("grade.create"); err != nil {
		return err
	}
	st := f.st()
	grade.ID = st.id()
	stored := *grade
	stored.Student, stored.Module = nil, nil
	st.grades[grade.ID] = stored
	return nil
}

func (r *fakeGrades) list(match func(models.Grade, *memState) bool, limit int) []*models.Grade {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.st()
	var out []*models.Grade
	for _, g := range st.grades {
		if !match(g, st) {
			continue
		}
		g := g
		if m, ok := st.modules[g.ModuleID]; ok {
			g.Module = &m
		}
		if s, ok := st.students[g.StudentID]; ok {
			g.Student = &s
		}
		out = append(out, &g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *fakeGrades) ListByStudent(ctx context.Context, studentID uint, limit int) ([]*models.Grade, error) {
	return r.list(func(g models.Grade, _ *memState) bool { return g.StudentID == studentID }, limit), nil
}

func (r *fakeGrades) ListByModuleOwner(ctx context.Context, teacherID uint) ([]*models.Grade, error) {
	return r.list(func(g models.Grade, st *memState) bool {
		m, ok := st.modules[g.ModuleID]
		return ok && m.TeacherID == teacherID
	}, 0), nil
}

// ===== attendance =====

type fakeAttendance fakeRepository

func (r *fakeAttendance) Upsert(ctx context.Context, a *models.Attendance) (bool, error) {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("attendance.upsert"); err != nil {
		return false, err
	}
	st := f.st()
	now := f.now()
	day := time.Time(a.Date)
	for id, existing := range st.attendance {
		if existing.StudentID == a.StudentID && time.Time(existing.Date).Equal(day) {
			existing.Status = a.Status
			existing.Notes = a.Notes
			existing.RecordedBy = a.RecordedBy
			existing.UpdatedAt = now
			st.attendance[id] = existing
			a.ID, a.CreatedAt, a.UpdatedAt = id, existing.CreatedAt, now
			return false, nil
		}
	}
	a.ID = st.id()
	a.CreatedAt, a.UpdatedAt = now, now
	st.attendance[a.ID] = *a
	return true, nil
}

func (r *fakeAttendance) list(match func(models.Attendance) bool, limit int) []*models.Attendance {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Attendance
	for _, a := range f.st().attendance {
		if match(a) {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := time.Time(out[i].Date), time.Time(out[j].Date)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *fakeAttendance) ListByStudent(ctx context.Context, studentID uint, limit int) ([]*models.Attendance, error) {
	return r.list(func(a models.Attendance) bool { return a.StudentID == studentID }, limit), nil
}

func (r *fakeAttendance) ListRecordedBy(ctx context.Context, teacherID uint, limit int) ([]*models.Attendance, error) {
	return r.list(func(a models.Attendance) bool { return a.RecordedBy != nil && *a.RecordedBy == teacherID }, limit), nil
}

// ===== notifications =====

type fakeNotifications fakeRepository

func (r *fakeNotifications) Create(ctx context.Context, n *models.Notification) error {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("notification.create"); err != nil {
		return err
	}
	st := f.st()
	n.ID = st.id()
	n.CreatedAt = f.now()
	st.notifications[n.ID] = *n
	return nil
}

func (r *fakeNotifications) list(match func(models.Notification) bool) []*models.Notification {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Notification
	for _, n := range f.st().notifications {
		if match(n) {
			n := n
			out = append(out, &n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *fakeNotifications) ListByStudent(ctx context.Context, studentID uint) ([]*models.Notification, error) {
	return r.list(func(n models.Notification) bool { return n.StudentID == studentID }), nil
}

func (r *fakeNotifications) ListBySender(ctx context.Context, teacherID uint) ([]*models.Notification, error) {
	return r.list(func(n models.Notification) bool { return n.SenderID != nil && *n.SenderID == teacherID }), nil
}

func (r *fakeNotifications) CountUnread(ctx context.Context, studentID uint) (int64, error) {
	return int64(len(r.list(func(n models.Notification) bool { return n.StudentID == studentID && !n.Read }))), nil
}

func (r *fakeNotifications) MarkAllRead(ctx context.Context, studentID uint) (int64, error) {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("notification.mark_read"); err != nil {
		return 0, err
	}
	var n int64
	st := f.st()
	for id, row := range st.notifications {
		if row.StudentID == studentID && !row.Read {
			row.Read = true
			st.notifications[id] = row
			n++
		}
	}
	return n, nil
}

// ===== dashboard =====

type fakeDashboard fakeRepository

func (r *fakeDashboard) GetSystemCounts(ctx context.Context) (*models.SystemCounts, error) {
	f := (*fakeRepository)(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.st()
	return &models.SystemCounts{
		Users:      int64(len(st.users)),
		Students:   int64(len(st.students)),
		Teachers:   int64(len(st.teachers)),
		Modules:    int64(len(st.modules)),
		Grades:     int64(len(st.grades)),
		Attendance: int64(len(st.attendance)),
	}, nil
}
