package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"osas-connect/internal/model"
	"osas-connect/internal/repository"
	pkgerrors "osas-connect/pkg/errors"
)

// In-memory repositories. Reads return copies the way gorm does, so a
// service mutating a loaded row does not change the stored one until Update.

var mockSeq int

func nextID(prefix string) string {
	mockSeq++
	return fmt.Sprintf("%s-%04d", prefix, mockSeq)
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users    map[string]*model.User
	profiles *mockProfileRepo
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = nextID("user")
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	if m.profiles != nil {
		if p, ok := m.profiles.profiles[id]; ok {
			pc := *p
			cp.Profile = &pc
		}
	}
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	cp.Profile = nil
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		if kw := strings.ToLower(filter.Keyword); kw != "" &&
			!strings.Contains(strings.ToLower(u.FullName()), kw) &&
			!strings.Contains(strings.ToLower(u.Email), kw) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return page(all, offset, limit), int64(len(all)), nil
}

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	profiles map[string]*model.StudentProfile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*model.StudentProfile)}
}

func (m *mockProfileRepo) Create(_ context.Context, profile *model.StudentProfile) error {
	cp := *profile
	m.profiles[profile.UserID] = &cp
	return nil
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID string) (*model.StudentProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProfileRepo) GetByStudentID(_ context.Context, studentID string) (*model.StudentProfile, error) {
	for _, p := range m.profiles {
		if p.StudentID != nil && *p.StudentID == studentID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) Update(_ context.Context, profile *model.StudentProfile) error {
	if profile.StudentID != nil {
		for uid, p := range m.profiles {
			if uid != profile.UserID && p.StudentID != nil && *p.StudentID == *profile.StudentID {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	cp := *profile
	m.profiles[profile.UserID] = &cp
	return nil
}

// ── Mock ScholarshipRepository ──

type mockScholarshipRepo struct {
	scholarships map[string]*model.Scholarship
}

func newMockScholarshipRepo() *mockScholarshipRepo {
	return &mockScholarshipRepo{scholarships: make(map[string]*model.Scholarship)}
}

func (m *mockScholarshipRepo) Create(_ context.Context, s *model.Scholarship) error {
	if s.ScholarshipID == "" {
		s.ScholarshipID = nextID("sch")
	}
	cp := *s
	m.scholarships[s.ScholarshipID] = &cp
	return nil
}

func (m *mockScholarshipRepo) GetByID(_ context.Context, id string) (*model.Scholarship, error) {
	s, ok := m.scholarships[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockScholarshipRepo) Update(_ context.Context, s *model.Scholarship) error {
	cp := *s
	m.scholarships[s.ScholarshipID] = &cp
	return nil
}

func (m *mockScholarshipRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.scholarships, id)
	return nil
}

func (m *mockScholarshipRepo) List(_ context.Context, filter repository.ScholarshipFilter) ([]model.Scholarship, error) {
	var out []model.Scholarship
	for _, s := range m.scholarships {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.Type != "" && s.Type != filter.Type {
			continue
		}
		if filter.OpenAt != nil && !s.IsOpen(*filter.OpenAt, filter.OpenAt.Location()) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Mock ApplicationRepository ──

type mockApplicationRepo struct {
	apps         map[string]*model.ScholarshipApplication
	users        *mockUserRepo
	scholarships *mockScholarshipRepo
	documents    *mockDocumentRepo
	updateErr    error
	createErr    error
}

func newMockApplicationRepo() *mockApplicationRepo {
	return &mockApplicationRepo{apps: make(map[string]*model.ScholarshipApplication)}
}

func (m *mockApplicationRepo) hydrate(a *model.ScholarshipApplication) *model.ScholarshipApplication {
	cp := *a
	cp.User, cp.Scholarship, cp.Documents = nil, nil, nil
	if m.users != nil {
		if u, err := m.users.GetByID(context.Background(), a.UserID); err == nil {
			cp.User = u
		}
	}
	if m.scholarships != nil {
		if s, err := m.scholarships.GetByID(context.Background(), a.ScholarshipID); err == nil {
			cp.Scholarship = s
		}
	}
	if m.documents != nil {
		cp.Documents, _ = m.documents.ListByApplication(context.Background(), a.ApplicationID)
	}
	return &cp
}

func (m *mockApplicationRepo) Create(_ context.Context, app *model.ScholarshipApplication) error {
	if m.createErr != nil {
		return m.createErr
	}
	if app.ApplicationID == "" {
		app.ApplicationID = nextID("app")
	}
	if app.Version == 0 {
		app.Version = 1
	}
	cp := *app
	m.apps[app.ApplicationID] = &cp
	return nil
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id string) (*model.ScholarshipApplication, error) {
	a, ok := m.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.hydrate(a), nil
}

func (m *mockApplicationRepo) FindActive(_ context.Context, userID, scholarshipID string) (*model.ScholarshipApplication, error) {
	for _, a := range m.apps {
		if a.UserID == userID && a.ScholarshipID == scholarshipID && a.Status != model.AppStatusRejected {
			return m.hydrate(a), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) Update(_ context.Context, app *model.ScholarshipApplication) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.apps[app.ApplicationID]
	if !ok || stored.Version != app.Version {
		return pkgerrors.ErrOptimisticLock
	}
	app.Version++
	cp := *app
	cp.User, cp.Scholarship, cp.Documents = nil, nil, nil
	m.apps[app.ApplicationID] = &cp
	return nil
}

func (m *mockApplicationRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.apps, id)
	return nil
}

func (m *mockApplicationRepo) List(_ context.Context, filter repository.ApplicationFilter, offset, limit int) ([]model.ScholarshipApplication, int64, error) {
	var out []model.ScholarshipApplication
	for _, a := range m.apps {
		if filter.UserID != "" && a.UserID != filter.UserID {
			continue
		}
		if filter.ScholarshipID != "" && a.ScholarshipID != filter.ScholarshipID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		h := m.hydrate(a)
		if kw := strings.ToLower(filter.Keyword); kw != "" &&
			(h.User == nil || !strings.Contains(strings.ToLower(h.User.FullName()+" "+h.User.Email), kw)) {
			continue
		}
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApplicationID < out[j].ApplicationID })
	return page(out, offset, limit), int64(len(out)), nil
}

func (m *mockApplicationRepo) CountByStatus(_ context.Context, scholarshipID, status string) (int64, error) {
	var n int64
	for _, a := range m.apps {
		if a.ScholarshipID == scholarshipID && a.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockApplicationRepo) CountGroupedByStatus(_ context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, a := range m.apps {
		out[a.Status]++
	}
	return out, nil
}

func (m *mockApplicationRepo) ListApprovedRenewable(_ context.Context) ([]model.ScholarshipApplication, error) {
	var out []model.ScholarshipApplication
	for _, a := range m.apps {
		if a.Status != model.AppStatusApproved {
			continue
		}
		h := m.hydrate(a)
		if h.Scholarship == nil || !h.Scholarship.IsRenewable {
			continue
		}
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApplicationID < out[j].ApplicationID })
	return out, nil
}

// ── Mock DocumentRepository ──

type mockDocumentRepo struct {
	docs map[string]*model.Document
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{docs: make(map[string]*model.Document)}
}

func (m *mockDocumentRepo) Create(_ context.Context, doc *model.Document) error {
	if doc.DocumentID == "" {
		doc.DocumentID = nextID("doc")
	}
	cp := *doc
	m.docs[doc.DocumentID] = &cp
	return nil
}

func (m *mockDocumentRepo) GetByID(_ context.Context, id string) (*model.Document, error) {
	d, ok := m.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDocumentRepo) Update(_ context.Context, doc *model.Document) error {
	cp := *doc
	m.docs[doc.DocumentID] = &cp
	return nil
}

func (m *mockDocumentRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.docs, id)
	return nil
}

func (m *mockDocumentRepo) ListByApplication(_ context.Context, applicationID string) ([]model.Document, error) {
	var out []model.Document
	for _, d := range m.docs {
		if d.ApplicationID == applicationID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocumentID < out[j].DocumentID })
	return out, nil
}

func (m *mockDocumentRepo) CountPending(_ context.Context) (int64, error) {
	var n int64
	for _, d := range m.docs {
		if d.VerificationStatus == model.DocPending {
			n++
		}
	}
	return n, nil
}

// ── Mock InterviewRepository ──

type mockInterviewRepo struct {
	interviews   map[string]*model.Interview
	applications *mockApplicationRepo
	users        *mockUserRepo
	updateErr    error
}

func newMockInterviewRepo() *mockInterviewRepo {
	return &mockInterviewRepo{interviews: make(map[string]*model.Interview)}
}

func (m *mockInterviewRepo) hydrate(i *model.Interview) *model.Interview {
	cp := *i
	cp.Application, cp.Interviewer = nil, nil
	if m.applications != nil {
		if a, err := m.applications.GetByID(context.Background(), i.ApplicationID); err == nil {
			cp.Application = a
		}
	}
	if m.users != nil {
		if u, err := m.users.GetByID(context.Background(), i.InterviewerID); err == nil {
			cp.Interviewer = u
		}
	}
	return &cp
}

func (m *mockInterviewRepo) Create(_ context.Context, interview *model.Interview) error {
	if interview.InterviewID == "" {
		interview.InterviewID = nextID("iv")
	}
	cp := *interview
	cp.Application, cp.Interviewer = nil, nil
	m.interviews[interview.InterviewID] = &cp
	return nil
}

func (m *mockInterviewRepo) GetByID(_ context.Context, id string) (*model.Interview, error) {
	i, ok := m.interviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.hydrate(i), nil
}

func (m *mockInterviewRepo) Update(_ context.Context, interview *model.Interview) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	cp := *interview
	cp.Application, cp.Interviewer = nil, nil
	m.interviews[interview.InterviewID] = &cp
	return nil
}

func (m *mockInterviewRepo) List(_ context.Context, filter repository.InterviewFilter, offset, limit int) ([]model.Interview, int64, error) {
	var out []model.Interview
	for _, i := range m.interviews {
		h := m.hydrate(i)
		if filter.UserID != "" && (h.Application == nil || h.Application.UserID != filter.UserID) {
			continue
		}
		if filter.InterviewerID != "" && i.InterviewerID != filter.InterviewerID {
			continue
		}
		if filter.ApplicationID != "" && i.ApplicationID != filter.ApplicationID {
			continue
		}
		if filter.Status != "" && i.Status != filter.Status {
			continue
		}
		if filter.From != nil && i.Schedule.Before(*filter.From) {
			continue
		}
		if filter.To != nil && i.Schedule.After(*filter.To) {
			continue
		}
		out = append(out, *h)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Schedule.Before(out[b].Schedule) })
	return page(out, offset, limit), int64(len(out)), nil
}

func (m *mockInterviewRepo) FindInterviewerConflicts(_ context.Context, interviewerID string, from, to time.Time, excludeID string) ([]model.Interview, error) {
	var out []model.Interview
	for _, i := range m.interviews {
		if i.InterviewerID != interviewerID || !i.IsUpcoming() || i.InterviewID == excludeID {
			continue
		}
		if i.Schedule.Before(from) || i.Schedule.After(to) {
			continue
		}
		out = append(out, *i)
	}
	return out, nil
}

func (m *mockInterviewRepo) ListDueForReminder(_ context.Context, from, to time.Time) ([]model.Interview, error) {
	var out []model.Interview
	for _, i := range m.interviews {
		if !i.IsUpcoming() || i.ReminderSentAt != nil {
			continue
		}
		if !i.Schedule.After(from) || i.Schedule.After(to) {
			continue
		}
		out = append(out, *m.hydrate(i))
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Schedule.Before(out[b].Schedule) })
	return out, nil
}

func (m *mockInterviewRepo) CountUpcoming(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, i := range m.interviews {
		if i.IsUpcoming() && !i.Schedule.Before(from) && !i.Schedule.After(to) {
			n++
		}
	}
	return n, nil
}

// ── Mock StipendRepository ──

type mockStipendRepo struct {
	records []model.StipendRecord
}

func newMockStipendRepo() *mockStipendRepo {
	return &mockStipendRepo{}
}

func (m *mockStipendRepo) Create(_ context.Context, record *model.StipendRecord) error {
	if record.StipendID == "" {
		record.StipendID = nextID("stp")
	}
	m.records = append(m.records, *record)
	return nil
}

func (m *mockStipendRepo) GetByApplicationAndPeriod(_ context.Context, applicationID, period string) (*model.StipendRecord, error) {
	for i := range m.records {
		if m.records[i].ApplicationID == applicationID && m.records[i].Period == period {
			cp := m.records[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStipendRepo) ListByApplication(_ context.Context, applicationID string) ([]model.StipendRecord, error) {
	var out []model.StipendRecord
	for _, r := range m.records {
		if r.ApplicationID == applicationID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStipendRepo) List(_ context.Context, period string) ([]model.StipendRecord, error) {
	var out []model.StipendRecord
	for _, r := range m.records {
		if period == "" || r.Period == period {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStipendRepo) SumReleased(_ context.Context) (float64, error) {
	var sum float64
	for _, r := range m.records {
		sum += r.Amount
	}
	return sum, nil
}

// ── Mock RenewalRepository ──

type mockRenewalRepo struct {
	renewals     map[string]*model.RenewalApplication
	scholarships *mockScholarshipRepo
	createErr    error
}

func newMockRenewalRepo() *mockRenewalRepo {
	return &mockRenewalRepo{renewals: make(map[string]*model.RenewalApplication)}
}

func (m *mockRenewalRepo) hydrate(r *model.RenewalApplication) *model.RenewalApplication {
	cp := *r
	if m.scholarships != nil {
		if s, err := m.scholarships.GetByID(context.Background(), r.ScholarshipID); err == nil {
			cp.Scholarship = s
		}
	}
	return &cp
}

func (m *mockRenewalRepo) Create(_ context.Context, renewal *model.RenewalApplication) error {
	if m.createErr != nil {
		return m.createErr
	}
	if renewal.RenewalID == "" {
		renewal.RenewalID = nextID("ren")
	}
	if renewal.Version == 0 {
		renewal.Version = 1
	}
	cp := *renewal
	cp.Scholarship, cp.User, cp.OriginalApplication = nil, nil, nil
	m.renewals[renewal.RenewalID] = &cp
	return nil
}

func (m *mockRenewalRepo) GetByID(_ context.Context, id string) (*model.RenewalApplication, error) {
	r, ok := m.renewals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.hydrate(r), nil
}

func (m *mockRenewalRepo) Update(_ context.Context, renewal *model.RenewalApplication) error {
	stored, ok := m.renewals[renewal.RenewalID]
	if !ok || stored.Version != renewal.Version {
		return pkgerrors.ErrOptimisticLock
	}
	renewal.Version++
	cp := *renewal
	cp.Scholarship, cp.User, cp.OriginalApplication = nil, nil, nil
	m.renewals[renewal.RenewalID] = &cp
	return nil
}

func (m *mockRenewalRepo) ListByApplication(_ context.Context, applicationID string) ([]model.RenewalApplication, error) {
	var out []model.RenewalApplication
	for _, r := range m.renewals {
		if r.OriginalApplicationID == applicationID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRenewalRepo) List(_ context.Context, filter repository.RenewalFilter, offset, limit int) ([]model.RenewalApplication, int64, error) {
	var out []model.RenewalApplication
	for _, r := range m.renewals {
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		if filter.ScholarshipID != "" && r.ScholarshipID != filter.ScholarshipID {
			continue
		}
		if filter.Period != "" && r.RenewalPeriod != filter.Period {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, *m.hydrate(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RenewalID < out[j].RenewalID })
	return page(out, offset, limit), int64(len(out)), nil
}

func (m *mockRenewalRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, r := range m.renewals {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	items []*model.Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.NotificationID == "" {
		n.NotificationID = nextID("ntf")
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	cp := *n
	m.items = append(m.items, &cp)
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	for _, n := range m.items {
		if n.NotificationID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var out []model.Notification
	for _, n := range m.items {
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		out = append(out, *n)
	}
	return page(out, offset, limit), int64(len(out)), nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	for _, n := range m.items {
		if n.NotificationID == id {
			n.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var updated int64
	for _, n := range m.items {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) ExistsSince(_ context.Context, userID, notifyType, relatedID string, since time.Time) (bool, error) {
	for _, n := range m.items {
		if n.UserID == userID && n.Type == notifyType && n.RelatedID != nil && *n.RelatedID == relatedID && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockNotificationRepo) ofType(notifyType string) []*model.Notification {
	var out []*model.Notification
	for _, n := range m.items {
		if n.Type == notifyType {
			out = append(out, n)
		}
	}
	return out
}

// ── Mock job.Dispatcher ──

type dispatched struct {
	jobType string
	payload interface{}
}

type mockDispatcher struct {
	mu   sync.Mutex
	jobs []dispatched
	err  error
}

func (d *mockDispatcher) Dispatch(_ context.Context, jobType string, payload interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.jobs = append(d.jobs, dispatched{jobType: jobType, payload: payload})
	return nil
}

func (d *mockDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.jobs)
}

// ── Mock ReminderDeduper ──

type mockDeduper struct {
	keys map[string]time.Duration
}

func (d *mockDeduper) SetOnce(_ context.Context, key string, ttl time.Duration) (bool, error) {
	if d.keys == nil {
		d.keys = make(map[string]time.Duration)
	}
	if _, ok := d.keys[key]; ok {
		return false, nil
	}
	d.keys[key] = ttl
	return true, nil
}

func (d *mockDeduper) Release(_ context.Context, key string) error {
	delete(d.keys, key)
	return nil
}

// ── helpers ──

func page[T any](all []T, offset, limit int) []T {
	if limit <= 0 {
		return all
	}
	if offset > len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
