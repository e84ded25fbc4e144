package service

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"osas-connect/config"
	"osas-connect/internal/mail"
	"osas-connect/internal/model"
	"osas-connect/internal/repository"
	"osas-connect/pkg/jwt"
	"osas-connect/pkg/storage"
)

// ── shared test environment ──

type testEnv struct {
	cfg           *config.Config
	repo          *repository.Repository
	users         *mockUserRepo
	profiles      *mockProfileRepo
	scholarships  *mockScholarshipRepo
	applications  *mockApplicationRepo
	documents     *mockDocumentRepo
	interviews    *mockInterviewRepo
	stipends      *mockStipendRepo
	renewals      *mockRenewalRepo
	notifications *mockNotificationRepo
	dispatcher    *mockDispatcher
	deduper       *mockDeduper
	store         *storage.LocalStore
	jwtMgr        *jwt.Manager
	now           time.Time
	svc           *Service
}

// testNow Wednesday 20 August 2025, 10:00 in Manila: 1st semester of 2025-2026
var testNow = time.Date(2025, 8, 20, 10, 0, 0, 0, manila())

func manila() *time.Location {
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		return time.FixedZone("PHT", 8*3600)
	}
	return loc
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:        8080,
			BaseURL:     "http://osas.test",
			MaxUploadMB: 1,
		},
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 7 * 24 * time.Hour,
		},
		Mail: config.MailConfig{From: "osas@university.test", FromName: "OSAS"},
		Scheduler: config.SchedulerConfig{
			Timezone:            "Asia/Manila",
			InterviewReminderAt: "0 9 * * *",
			RenewalReminderAt:   "0 8 * * *",
		},
		Renewal: config.RenewalConfig{
			ReminderWindowDays:     14,
			FirstSemesterDeadline:  "09-15",
			SecondSemesterDeadline: "02-15",
		},
		Queue: config.QueueConfig{MaxAttempts: 3, Backoff: []time.Duration{time.Minute, 2 * time.Minute, 5 * time.Minute}},
	}
}

// newTestEnv wires every service onto linked in-memory repositories
func newTestEnv(storeDir string) *testEnv {
	env := &testEnv{
		cfg:           testConfig(),
		users:         newMockUserRepo(),
		profiles:      newMockProfileRepo(),
		scholarships:  newMockScholarshipRepo(),
		applications:  newMockApplicationRepo(),
		documents:     newMockDocumentRepo(),
		interviews:    newMockInterviewRepo(),
		stipends:      newMockStipendRepo(),
		renewals:      newMockRenewalRepo(),
		notifications: newMockNotificationRepo(),
		dispatcher:    &mockDispatcher{},
		deduper:       &mockDeduper{},
		now:           testNow,
	}
	env.users.profiles = env.profiles
	env.applications.users = env.users
	env.applications.scholarships = env.scholarships
	env.applications.documents = env.documents
	env.interviews.applications = env.applications
	env.interviews.users = env.users
	env.renewals.scholarships = env.scholarships

	env.repo = &repository.Repository{
		User:         env.users,
		Profile:      env.profiles,
		Scholarship:  env.scholarships,
		Application:  env.applications,
		Document:     env.documents,
		Interview:    env.interviews,
		Stipend:      env.stipends,
		Renewal:      env.renewals,
		Notification: env.notifications,
	}

	renderer, err := mail.NewRenderer()
	if err != nil {
		panic(err)
	}
	opts := Options{
		Dispatcher: env.dispatcher,
		Renderer:   renderer,
		Deduper:    env.deduper,
		Now:        func() time.Time { return env.now },
	}
	if storeDir != "" {
		env.store, err = storage.NewLocalStore(storeDir)
		if err != nil {
			panic(err)
		}
		opts.Store = env.store
	}

	env.jwtMgr = jwt.NewManager(&env.cfg.Auth)
	env.svc = NewService(env.cfg, env.repo, env.jwtMgr, opts, zap.NewNop())
	return env
}

// ── fixtures ──

func (env *testEnv) addUser(id, first, last, role, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		UserID:       id,
		FirstName:    first,
		LastName:     last,
		Email:        id + "@university.test",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	env.users.users[id] = u
	return u
}

func (env *testEnv) addStaff(id string) *model.User {
	return env.addUser(id, "Staff", id, model.RoleOSASStaff, "password123")
}

// addStudent a student with a complete profile
func (env *testEnv) addStudent(id string) (*model.User, *model.StudentProfile) {
	u := env.addUser(id, "Maria", "Santos", model.RoleStudent, "password123")
	u.MiddleName = "Reyes"
	sid := "2021-" + id
	birth := time.Date(2003, 5, 1, 0, 0, 0, 0, time.UTC)
	gwa := 1.40
	income := 15000.0
	p := &model.StudentProfile{
		UserID:              id,
		StudentID:           &sid,
		Course:              "BS Computer Science",
		YearLevel:           3,
		Sex:                 "female",
		CivilStatus:         "single",
		Birthdate:           &birth,
		Mobile:              "09171234567",
		Address:             model.Address{Street: "1 Rizal St", Barangay: "San Roque", City: "Naga", Province: "Camarines Sur", ZipCode: "4400"},
		FatherName:          "Jose Santos",
		MotherName:          "Ana Santos",
		MonthlyFamilyIncome: &income,
		CurrentGWA:          &gwa,
		EnrollmentStatus:    model.EnrollmentEnrolled,
	}
	env.profiles.profiles[id] = p
	return u, p
}

func (env *testEnv) addScholarship(id, schType string, slots int, docs ...string) *model.Scholarship {
	s := &model.Scholarship{
		ScholarshipID:     id,
		Name:              "Scholarship " + id,
		Type:              schType,
		StipendAmount:     5000,
		TotalSlots:        slots,
		OpenDate:          time.Date(2025, 8, 1, 0, 0, 0, 0, manila()),
		Deadline:          time.Date(2025, 8, 31, 0, 0, 0, 0, manila()),
		Status:            model.ScholarshipStatusActive,
		Criteria:          datatypes.NewJSONType(model.ScholarshipCriteria{}),
		RequiredDocuments: datatypes.JSONSlice[string](docs),
		IsRenewable:       true,
	}
	env.scholarships.scholarships[id] = s
	return s
}

func (env *testEnv) addApplication(id, userID, scholarshipID, status string) *model.ScholarshipApplication {
	a := &model.ScholarshipApplication{
		ApplicationID: id,
		UserID:        userID,
		ScholarshipID: scholarshipID,
		Status:        status,
		StipendStatus: model.StipendNone,
	}
	a.Version = 1
	env.applications.apps[id] = a
	return a
}

func (env *testEnv) addDocument(id, applicationID, userID, docType, status string) *model.Document {
	d := &model.Document{
		DocumentID:         id,
		ApplicationID:      applicationID,
		UserID:             userID,
		DocumentType:       docType,
		StoredName:         id + ".pdf",
		OriginalName:       docType + ".pdf",
		MimeType:           "application/pdf",
		Size:               1024,
		VerificationStatus: status,
	}
	env.documents.docs[id] = d
	return d
}

func ptr[T any](v T) *T { return &v }

func nopLogger() *zap.Logger { return zap.NewNop() }
