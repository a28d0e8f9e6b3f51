package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/app/repositories"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
	"github.com/tce-csbs/participation-portal/internal/pkg/email"
	"github.com/tce-csbs/participation-portal/internal/pkg/websocket"
)

// fakeState is an in-memory database. memUnitOfWork snapshots it before a unit
// and restores the snapshot when the unit fails.
type fakeState struct {
	students    map[int64]models.Student
	proctors    map[int64]models.Proctor
	admins      map[int64]models.Admin
	hackathons  map[int64]models.Hackathon
	internships map[int64]models.Internship
	assigned    map[int64][]int64
	nextID      int64
}

func newFakeState() *fakeState {
	return &fakeState{
		students:    map[int64]models.Student{},
		proctors:    map[int64]models.Proctor{},
		admins:      map[int64]models.Admin{},
		hackathons:  map[int64]models.Hackathon{},
		internships: map[int64]models.Internship{},
		assigned:    map[int64][]int64{},
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	for k, v := range s.students {
		c.students[k] = v
	}
	for k, v := range s.proctors {
		c.proctors[k] = v
	}
	for k, v := range s.admins {
		c.admins[k] = v
	}
	for k, v := range s.hackathons {
		c.hackathons[k] = v
	}
	for k, v := range s.internships {
		c.internships[k] = v
	}
	for k, v := range s.assigned {
		c.assigned[k] = append([]int64(nil), v...)
	}
	c.nextID = s.nextID
	return c
}

func (s *fakeState) id() int64 {
	s.nextID++
	return s.nextID
}

type fakeDB struct {
	mu    sync.Mutex
	state *fakeState

	// hooks used by individual tests
	onCreateHackathon func(h *models.Hackathon) error
	afterRollback     func()
	updateCreditsErr  error
	listErr           error
}

func newFakeDB() *fakeDB {
	return &fakeDB{state: newFakeState()}
}

func (db *fakeDB) stores() Stores {
	return Stores{
		Students:    &fakeStudents{db},
		Proctors:    &fakeProctors{db},
		Admins:      &fakeAdmins{db},
		Hackathons:  &fakeHackathons{db},
		Internships: &fakeInternships{db},
	}
}

func (db *fakeDB) addStudent(name, dept string, credits float64) models.Student {
	db.mu.Lock()
	defer db.mu.Unlock()
	st := models.Student{
		ID:         db.state.id(),
		Name:       name,
		Email:      strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@student.tce.edu",
		RegisterNo: "REG" + strings.ToUpper(name[:1]) + "0001",
		Department: dept,
		Year:       "3",
		Credits:    credits,
	}
	db.state.students[st.ID] = st
	return st
}

func (db *fakeDB) addProctor(name, dept string) models.Proctor {
	db.mu.Lock()
	defer db.mu.Unlock()
	p := models.Proctor{ID: db.state.id(), Name: name, Email: strings.ToLower(name) + "@tce.edu", Department: dept}
	db.state.proctors[p.ID] = p
	return p
}

func (db *fakeDB) addAdmin(name string) models.Admin {
	db.mu.Lock()
	defer db.mu.Unlock()
	a := models.Admin{ID: db.state.id(), Name: name, Email: strings.ToLower(name) + "@tce.edu"}
	db.state.admins[a.ID] = a
	return a
}

func (db *fakeDB) addHackathon(h models.Hackathon) models.Hackathon {
	db.mu.Lock()
	defer db.mu.Unlock()
	h.ID = db.state.id()
	if h.ParticipantCount == 0 {
		h.ParticipantCount = 1
	}
	if h.Status == "" {
		h.Status = models.HackathonPending
	}
	db.state.hackathons[h.ID] = h
	return h
}

func (db *fakeDB) addInternship(in models.Internship) models.Internship {
	db.mu.Lock()
	defer db.mu.Unlock()
	in.ID = db.state.id()
	if in.Status == "" {
		in.Status = models.InternshipPending
	}
	db.state.internships[in.ID] = in
	return in
}

func (db *fakeDB) student(id int64) models.Student {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.students[id]
}

func (db *fakeDB) hackathon(id int64) models.Hackathon {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.hackathons[id]
}

func (db *fakeDB) internship(id int64) models.Internship {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.internships[id]
}

func (db *fakeDB) hackathonCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.state.hackathons)
}

func (db *fakeDB) assignedTo(proctorID int64) []int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]int64(nil), db.state.assigned[proctorID]...)
}

// memUnitOfWork runs units serially against fakeDB with snapshot rollback
type memUnitOfWork struct {
	db    *fakeDB
	runs  int
	unitM sync.Mutex
}

func (u *memUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error {
	u.unitM.Lock()
	defer u.unitM.Unlock()
	u.runs++

	u.db.mu.Lock()
	snapshot := u.db.state.clone()
	u.db.mu.Unlock()

	if err := fn(ctx, u.db.stores()); err != nil {
		u.db.mu.Lock()
		u.db.state = snapshot
		hook := u.db.afterRollback
		u.db.afterRollback = nil
		u.db.mu.Unlock()
		if hook != nil {
			hook()
		}
		return err
	}
	return nil
}

type fakeStudents struct{ db *fakeDB }

func (f *fakeStudents) Create(_ context.Context, s *models.Student) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.state.students {
		if existing.Email == s.Email {
			return apperrors.ErrEmailAlreadyExists
		}
		if existing.RegisterNo == s.RegisterNo {
			return apperrors.ErrRegisterNoExists
		}
	}
	s.ID = f.db.state.id()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	f.db.state.students[s.ID] = *s
	return nil
}

func (f *fakeStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	st, ok := f.db.state.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return &st, nil
}

func (f *fakeStudents) GetByEmail(_ context.Context, email string) (*models.Student, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, st := range f.db.state.students {
		if st.Email == email {
			return &st, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudents) sorted() []models.Student {
	out := make([]models.Student, 0, len(f.db.state.students))
	for _, st := range f.db.state.students {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStudents) List(_ context.Context, page repositories.Page) ([]models.Student, int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	all := f.sorted()
	start := min(int(page.Offset), len(all))
	end := min(start+page.Limit, len(all))
	return all[start:end], int64(len(all)), nil
}

func (f *fakeStudents) ListBelowCredits(_ context.Context, threshold float64) ([]models.Student, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.listErr != nil {
		return nil, f.db.listErr
	}
	var out []models.Student
	for _, st := range f.sorted() {
		if st.Credits < threshold {
			out = append(out, st)
		}
	}
	return out, nil
}

func (f *fakeStudents) Update(_ context.Context, s *models.Student) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.state.students[s.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	f.db.state.students[s.ID] = *s
	return nil
}

func (f *fakeStudents) UpdateCredits(_ context.Context, id int64, credits float64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.updateCreditsErr != nil {
		return f.db.updateCreditsErr
	}
	st, ok := f.db.state.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	st.Credits = credits
	f.db.state.students[id] = st
	return nil
}

func (f *fakeStudents) Delete(_ context.Context, id int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.state.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(f.db.state.students, id)
	for hid, h := range f.db.state.hackathons {
		if h.StudentID == id {
			delete(f.db.state.hackathons, hid)
		}
	}
	for iid, in := range f.db.state.internships {
		if in.StudentID == id {
			delete(f.db.state.internships, iid)
		}
	}
	return nil
}

func (f *fakeStudents) Count(context.Context) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return int64(len(f.db.state.students)), nil
}

func (f *fakeStudents) CountBelowCredits(_ context.Context, threshold float64) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var n int64
	for _, st := range f.db.state.students {
		if st.Credits < threshold {
			n++
		}
	}
	return n, nil
}

type fakeProctors struct{ db *fakeDB }

func (f *fakeProctors) Create(_ context.Context, p *models.Proctor) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.state.proctors {
		if existing.Email == p.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	p.ID = f.db.state.id()
	f.db.state.proctors[p.ID] = *p
	return nil
}

func (f *fakeProctors) GetByID(_ context.Context, id int64) (*models.Proctor, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.state.proctors[id]
	if !ok {
		return nil, apperrors.ErrProctorNotFound
	}
	return &p, nil
}

func (f *fakeProctors) GetByEmail(_ context.Context, email string) (*models.Proctor, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, p := range f.db.state.proctors {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, apperrors.ErrProctorNotFound
}

func (f *fakeProctors) FirstByDepartment(_ context.Context, department string) (*models.Proctor, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var found *models.Proctor
	for _, p := range f.db.state.proctors {
		if p.Department == department && (found == nil || p.ID < found.ID) {
			p := p
			found = &p
		}
	}
	if found == nil {
		return nil, apperrors.ErrProctorNotFound
	}
	return found, nil
}

func (f *fakeProctors) AssignStudent(_ context.Context, proctorID, studentID int64) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, id := range f.db.state.assigned[proctorID] {
		if id == studentID {
			return false, nil
		}
	}
	f.db.state.assigned[proctorID] = append(f.db.state.assigned[proctorID], studentID)
	return true, nil
}

func (f *fakeProctors) List(_ context.Context, page repositories.Page) ([]models.Proctor, int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := make([]models.Proctor, 0, len(f.db.state.proctors))
	for _, p := range f.db.state.proctors {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	start := min(int(page.Offset), len(out))
	end := min(start+page.Limit, len(out))
	return out[start:end], int64(len(out)), nil
}

func (f *fakeProctors) Update(_ context.Context, p *models.Proctor) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.state.proctors[p.ID]; !ok {
		return apperrors.ErrProctorNotFound
	}
	f.db.state.proctors[p.ID] = *p
	return nil
}

func (f *fakeProctors) Delete(_ context.Context, id int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.state.proctors[id]; !ok {
		return apperrors.ErrProctorNotFound
	}
	delete(f.db.state.proctors, id)
	delete(f.db.state.assigned, id)
	return nil
}

func (f *fakeProctors) Count(context.Context) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return int64(len(f.db.state.proctors)), nil
}

type fakeAdmins struct{ db *fakeDB }

func (f *fakeAdmins) Create(_ context.Context, a *models.Admin) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.state.admins {
		if existing.Email == a.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	a.ID = f.db.state.id()
	f.db.state.admins[a.ID] = *a
	return nil
}

func (f *fakeAdmins) GetByID(_ context.Context, id int64) (*models.Admin, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	a, ok := f.db.state.admins[id]
	if !ok {
		return nil, apperrors.ErrAdminNotFound
	}
	return &a, nil
}

func (f *fakeAdmins) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, a := range f.db.state.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, apperrors.ErrAdminNotFound
}

func (f *fakeAdmins) List(_ context.Context, page repositories.Page) ([]models.Admin, int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := make([]models.Admin, 0, len(f.db.state.admins))
	for _, a := range f.db.state.admins {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	start := min(int(page.Offset), len(out))
	end := min(start+page.Limit, len(out))
	return out[start:end], int64(len(out)), nil
}

func (f *fakeAdmins) Update(_ context.Context, a *models.Admin) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.state.admins[a.ID]; !ok {
		return apperrors.ErrAdminNotFound
	}
	f.db.state.admins[a.ID] = *a
	return nil
}

func (f *fakeAdmins) Delete(_ context.Context, id int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.state.admins[id]; !ok {
		return apperrors.ErrAdminNotFound
	}
	delete(f.db.state.admins, id)
	return nil
}

func (f *fakeAdmins) Count(context.Context) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return int64(len(f.db.state.admins)), nil
}

type fakeHackathons struct{ db *fakeDB }

func (f *fakeHackathons) Create(_ context.Context, h *models.Hackathon) error {
	f.db.mu.Lock()
	hook := f.db.onCreateHackathon
	f.db.mu.Unlock()
	if hook != nil {
		if err := hook(h); err != nil {
			return err
		}
	}

	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.state.hackathons {
		if existing.Title == h.Title && existing.Year == h.Year {
			return apperrors.ErrHackathonExists
		}
	}
	h.ID = f.db.state.id()
	f.db.state.hackathons[h.ID] = *h
	return nil
}

func (f *fakeHackathons) GetByIDForUpdate(_ context.Context, id int64) (*models.Hackathon, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	h, ok := f.db.state.hackathons[id]
	if !ok {
		return nil, apperrors.ErrHackathonNotFound
	}
	return &h, nil
}

func (f *fakeHackathons) FindByTitleYear(_ context.Context, title string, year int) (*models.Hackathon, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, h := range f.db.state.hackathons {
		if h.Title == title && h.Year == year {
			return &h, nil
		}
	}
	return nil, apperrors.ErrHackathonNotFound
}

func (f *fakeHackathons) IncrementParticipants(_ context.Context, id int64) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	h, ok := f.db.state.hackathons[id]
	if !ok {
		return 0, apperrors.ErrHackathonNotFound
	}
	h.ParticipantCount++
	f.db.state.hackathons[id] = h
	return h.ParticipantCount, nil
}

func (f *fakeHackathons) UpdateStatus(_ context.Context, h *models.Hackathon) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	stored, ok := f.db.state.hackathons[h.ID]
	if !ok {
		return apperrors.ErrHackathonNotFound
	}
	stored.Status = h.Status
	stored.RejectionReason = h.RejectionReason
	f.db.state.hackathons[h.ID] = stored
	return nil
}

func (f *fakeHackathons) List(_ context.Context, filter repositories.HackathonFilter) ([]models.Hackathon, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Hackathon
	for _, h := range f.db.state.hackathons {
		switch {
		case filter.StudentID != 0 && h.StudentID != filter.StudentID,
			filter.ProctorID != 0 && (h.ProctorID == nil || *h.ProctorID != filter.ProctorID),
			filter.Status != "" && h.Status != filter.Status,
			filter.Year != 0 && h.Year != filter.Year,
			filter.Title != "" && h.Title != filter.Title:
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeHackathons) AcceptedHackathons(ctx context.Context, studentID int64) ([]models.Hackathon, error) {
	return f.List(ctx, repositories.HackathonFilter{StudentID: studentID, Status: models.HackathonAccepted})
}

func (f *fakeHackathons) StatsByYear(context.Context) ([]models.HackathonYearStats, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	byYear := map[int]*models.HackathonYearStats{}
	titles := map[int]map[string]bool{}
	for _, h := range f.db.state.hackathons {
		st, ok := byYear[h.Year]
		if !ok {
			st = &models.HackathonYearStats{Year: h.Year}
			byYear[h.Year] = st
			titles[h.Year] = map[string]bool{}
		}
		st.TotalHackathons++
		st.TotalParticipants += int64(h.ParticipantCount)
		titles[h.Year][h.Title] = true
	}
	var out []models.HackathonYearStats
	for year, st := range byYear {
		st.UniqueHackathonCount = int64(len(titles[year]))
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out, nil
}

func (f *fakeHackathons) CountByStatus(context.Context) (map[models.HackathonStatus]int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := map[models.HackathonStatus]int64{}
	for _, h := range f.db.state.hackathons {
		out[h.Status]++
	}
	return out, nil
}

func (f *fakeHackathons) CountByMode(context.Context) (map[models.Mode]int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := map[models.Mode]int64{}
	for _, h := range f.db.state.hackathons {
		out[h.Mode]++
	}
	return out, nil
}

func (f *fakeHackathons) CountStudentsWithAccepted(context.Context) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	seen := map[int64]bool{}
	for _, h := range f.db.state.hackathons {
		if h.Status == models.HackathonAccepted {
			seen[h.StudentID] = true
		}
	}
	return int64(len(seen)), nil
}

func (f *fakeHackathons) CountByProctor(_ context.Context, proctorID int64) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var n int64
	for _, h := range f.db.state.hackathons {
		if h.ProctorID != nil && *h.ProctorID == proctorID {
			n++
		}
	}
	return n, nil
}

type fakeInternships struct{ db *fakeDB }

func (f *fakeInternships) Create(_ context.Context, in *models.Internship) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	in.ID = f.db.state.id()
	f.db.state.internships[in.ID] = *in
	return nil
}

func (f *fakeInternships) GetByIDForUpdate(_ context.Context, id int64) (*models.Internship, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	in, ok := f.db.state.internships[id]
	if !ok {
		return nil, apperrors.ErrInternshipNotFound
	}
	return &in, nil
}

func (f *fakeInternships) UpdateStatus(_ context.Context, in *models.Internship) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	stored, ok := f.db.state.internships[in.ID]
	if !ok {
		return apperrors.ErrInternshipNotFound
	}
	stored.Status = in.Status
	stored.RejectionReason = in.RejectionReason
	f.db.state.internships[in.ID] = stored
	return nil
}

func (f *fakeInternships) List(_ context.Context, filter repositories.InternshipFilter) ([]models.Internship, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Internship
	for _, in := range f.db.state.internships {
		switch {
		case filter.StudentID != 0 && in.StudentID != filter.StudentID,
			filter.ProctorID != 0 && (in.ProctorID == nil || *in.ProctorID != filter.ProctorID),
			filter.Status != "" && in.Status != filter.Status:
			continue
		}
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeInternships) ApprovedInternships(ctx context.Context, studentID int64) ([]models.Internship, error) {
	return f.List(ctx, repositories.InternshipFilter{StudentID: studentID, Status: models.InternshipApproved})
}

func (f *fakeInternships) CountByStatus(context.Context) (map[models.InternshipStatus]int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := map[models.InternshipStatus]int64{}
	for _, in := range f.db.state.internships {
		out[in.Status]++
	}
	return out, nil
}

func (f *fakeInternships) CountByProctor(_ context.Context, proctorID int64) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var n int64
	for _, in := range f.db.state.internships {
		if in.ProctorID != nil && *in.ProctorID == proctorID {
			n++
		}
	}
	return n, nil
}

var errSendFailed = errors.New("smtp: connection refused")

type sentMail struct {
	Template string
	To       string
	Update   email.StatusUpdate
}

// recordingNotifier records every send and fails for addresses in failFor
type recordingNotifier struct {
	mu      sync.Mutex
	sent    []sentMail
	failFor map[string]bool
	failAll bool
}

func (n *recordingNotifier) record(template, to string, update email.StatusUpdate) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failAll || n.failFor[to] {
		return errSendFailed
	}
	n.sent = append(n.sent, sentMail{Template: template, To: to, Update: update})
	return nil
}

func (n *recordingNotifier) SendWelcome(_ context.Context, _, to string) error {
	return n.record("welcome", to, email.StatusUpdate{})
}

func (n *recordingNotifier) SendHackathonSubmitted(_ context.Context, _, to, title string) error {
	return n.record("hackathon_submitted", to, email.StatusUpdate{Title: title})
}

func (n *recordingNotifier) SendInternshipSubmitted(_ context.Context, _, to, company string) error {
	return n.record("internship_submitted", to, email.StatusUpdate{Title: company})
}

func (n *recordingNotifier) SendStatusChanged(_ context.Context, _, to string, update email.StatusUpdate) error {
	return n.record("status_changed", to, update)
}

func (n *recordingNotifier) SendCreditAlert(_ context.Context, _, to string, _, _ float64) error {
	return n.record("credit_alert", to, email.StatusUpdate{})
}

func (n *recordingNotifier) templates() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, m := range n.sent {
		out = append(out, m.Template)
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (p *recordingPublisher) Publish(e websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) all() []websocket.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]websocket.Event(nil), p.events...)
}
