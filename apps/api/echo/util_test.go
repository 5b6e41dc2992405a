package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachhub/backend/core"
	"github.com/teachhub/backend/core/course"
	"github.com/teachhub/backend/core/progress"
	"github.com/teachhub/backend/core/user"
	emailsvc "github.com/teachhub/backend/services/email"
	logsvc "github.com/teachhub/backend/services/logger"
	dummydb "github.com/teachhub/backend/storage/database/dummy"
)

var (
	usrRepo        user.Repository
	courseRepo     course.Repository
	completionRepo progress.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func setup(t *testing.T) Server {
	conf := &core.Config{
		AppName:         "TeachHub",
		SecretKey:       []byte("s3cr3t"),
		TestMode:        true,
		AdminEmail:      "root@test.cd",
		FrontendBaseURL: "http://localhost:3000",
		Server: core.ServerConfig{
			JWTExpirationDelta: 10 * time.Minute,
		},
	}
	emailsvc.ClearSentMessages()

	// set up DB & repos
	db, err := dummydb.Open()
	require.NoError(t, err)
	usrRepo = dummydb.NewUserRepository(db)
	courseRepo = dummydb.NewCourseRepository(db)
	completionRepo = dummydb.NewCompletionRepository(db)

	// set up services
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	courseSvc := course.NewService(courseRepo)
	progressSvc := progress.NewService(completionRepo, courseRepo)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	// set up server
	return NewServer(
		&ServerDeps{
			Conf:        conf,
			Logger:      logger,
			UserSvc:     usrSvc,
			CourseSvc:   courseSvc,
			ProgressSvc: progressSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)
}

func createTestUser(t *testing.T, name, email, pwd, role string, isActive bool) user.User {
	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, usr.SetPassword(pwd))
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	require.NoError(t, err)
	return usr
}

func createTestCourse(t *testing.T, title, ownerID string) course.Course {
	now := time.Now().UTC()
	crs, err := courseRepo.CreateCourse(context.Background(), course.Course{
		Title:       title,
		Description: "a test course",
		CreatedBy:   ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
	return crs
}

func createTestLesson(t *testing.T, crs course.Course, title string) course.Lesson {
	now := time.Now().UTC()
	lsn, err := courseRepo.CreateLesson(context.Background(), course.Lesson{
		CourseID:  crs.ID,
		Title:     title,
		Type:      course.LessonTypeText,
		Content:   json.RawMessage(`{"body":"hello"}`),
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return lsn
}

func completeTestLesson(t *testing.T, usr user.User, lsn course.Lesson) {
	_, err := completionRepo.UpsertCompletion(context.Background(), progress.Completion{
		UserID:      usr.ID,
		LessonID:    lsn.ID,
		CompletedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
