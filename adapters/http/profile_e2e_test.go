package http

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/profile-builder/adapters/event"
	"github.com/khoahotran/profile-builder/adapters/media_storage"
	"github.com/khoahotran/profile-builder/adapters/persistence"
	profileUC "github.com/khoahotran/profile-builder/internal/application/usecase/profile"
	"github.com/khoahotran/profile-builder/pkg/logger"
)

type ProfileE2ETestSuite struct {
	suite.Suite
	Router    *gin.Engine
	uploadDir string
}

func (s *ProfileE2ETestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	appLogger := logger.NewNop()

	s.uploadDir = s.T().TempDir()
	assets, err := media_storage.NewLocalDiskAdapter(s.uploadDir)
	s.Require().NoError(err)

	uc := profileUC.NewProfileUseCase(
		persistence.NewMemoryProfileRepo(),
		assets,
		event.LogPublisher{Logger: appLogger},
		appLogger,
	)
	s.Router = NewRouter(
		RouterConfig{ServiceName: "profile-builder-test", UploadDir: s.uploadDir},
		NewProfileHandler(uc, appLogger),
		NewPictureHandler(uc, appLogger),
		appLogger,
	)
}

func TestProfileE2E(t *testing.T) {
	suite.Run(t, new(ProfileE2ETestSuite))
}

func (s *ProfileE2ETestSuite) do(method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return s.serve(req)
}

func (s *ProfileE2ETestSuite) upload(field, filename string, content []byte) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		s.Require().NoError(err)
		_, err = part.Write(content)
		s.Require().NoError(err)
	} else {
		s.Require().NoError(mw.WriteField("note", "no file here"))
	}
	s.Require().NoError(mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/api/profile/upload-picture", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.serve(req)
}

func (s *ProfileE2ETestSuite) serve(req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func (s *ProfileE2ETestSuite) storedFiles() []string {
	entries, err := os.ReadDir(s.uploadDir)
	s.Require().NoError(err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func pngBytes(s *ProfileE2ETestSuite) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	s.Require().NoError(png.Encode(&buf, img))
	return buf.Bytes()
}

func (s *ProfileE2ETestSuite) Test_RootAndHealth() {
	w, resp := s.do(http.MethodGet, "/", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("Profile API Server is running", resp["message"])

	w, resp = s.do(http.MethodGet, "/api/health", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("UP", resp["status"])
	s.NotEmpty(w.Header().Get(HeaderCorrelationID))
}

func (s *ProfileE2ETestSuite) Test_GetCreatesEmptyProfile() {
	w, resp := s.do(http.MethodGet, "/api/profile", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	for _, field := range []string{"fullName", "email", "phone", "title", "summary"} {
		s.Equal("", resp[field], field)
	}
	s.Nil(resp["profilePicture"])
	s.Equal([]any{}, resp["education"])
	s.Equal([]any{}, resp["projects"])
	s.Equal([]any{}, resp["skills"])
	s.Equal(map[string]any{"github": "", "linkedin": "", "portfolio": ""}, resp["links"])
}

func (s *ProfileE2ETestSuite) Test_UpdateMergesFields() {
	w, _ := s.do(http.MethodPut, "/api/profile", map[string]any{"fullName": "A"})
	s.Require().Equal(http.StatusOK, w.Code)

	w, resp := s.do(http.MethodPut, "/api/profile", map[string]any{
		"email":    "b@x.com",
		"fullName": "  ",
		"links":    map[string]any{"github": "https://github.com/a"},
	})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("A", resp["fullName"])
	s.Equal("b@x.com", resp["email"])

	_, resp = s.do(http.MethodPut, "/api/profile", map[string]any{"links": map[string]any{"portfolio": "https://a.dev"}})
	links := resp["links"].(map[string]any)
	s.Equal("https://github.com/a", links["github"])
	s.Equal("https://a.dev", links["portfolio"])
}

func (s *ProfileE2ETestSuite) Test_UpdateRejectsMalformedJSON() {
	req, _ := http.NewRequest(http.MethodPut, "/api/profile", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w, resp := s.serve(req)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("invalid input", resp["error"])
}

func (s *ProfileE2ETestSuite) Test_EducationDedup() {
	entry := map[string]any{"degree": "BS", "college": "MIT", "year": "2020"}

	w, resp := s.do(http.MethodPut, "/api/profile/education", entry)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(resp["education"], 1)

	w, resp = s.do(http.MethodPut, "/api/profile/education", entry)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(resp["education"], 1)
	s.Equal("Education already exists", resp["message"])
}

func (s *ProfileE2ETestSuite) Test_DeleteProjectKeepsOrder() {
	var ids []string
	for _, name := range []string{"one", "two", "three"} {
		w, resp := s.do(http.MethodPut, "/api/profile/projects", map[string]any{"name": name, "techStack": []string{"go"}})
		s.Require().Equal(http.StatusOK, w.Code)
		projects := resp["projects"].([]any)
		ids = append(ids, projects[len(projects)-1].(map[string]any)["id"].(string))
	}

	w, resp := s.do(http.MethodDelete, "/api/profile/projects/"+ids[1], nil)
	s.Require().Equal(http.StatusOK, w.Code)

	projects := resp["projects"].([]any)
	s.Require().Len(projects, 2)
	s.Equal("one", projects[0].(map[string]any)["name"])
	s.Equal("three", projects[1].(map[string]any)["name"])
}

func (s *ProfileE2ETestSuite) Test_ProjectNameRequired() {
	w, _ := s.do(http.MethodPut, "/api/profile/projects", map[string]any{"description": "nameless"})
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPut, "/api/profile/projects", map[string]any{"name": "   "})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ProfileE2ETestSuite) Test_SkillValidationAndRerate() {
	w, _ := s.do(http.MethodPut, "/api/profile/skills", map[string]any{"name": "Go", "rating": 6})
	s.Equal(http.StatusBadRequest, w.Code)
	w, _ = s.do(http.MethodPut, "/api/profile/skills", map[string]any{"rating": 3})
	s.Equal(http.StatusBadRequest, w.Code)

	_, _ = s.do(http.MethodPut, "/api/profile/skills", map[string]any{"name": "Go", "rating": 2})
	w, resp := s.do(http.MethodPut, "/api/profile/skills", map[string]any{"name": "Go", "rating": 5})
	s.Require().Equal(http.StatusOK, w.Code)
	skills := resp["skills"].([]any)
	s.Require().Len(skills, 1)
	s.Equal(float64(5), skills[0].(map[string]any)["rating"])
}

func (s *ProfileE2ETestSuite) Test_DeleteNotFound() {
	w, resp := s.do(http.MethodDelete, "/api/profile/education/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("not found", resp["error"])

	_, _ = s.do(http.MethodGet, "/api/profile", nil)
	w, resp = s.do(http.MethodDelete, "/api/profile/skills/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("skill not found", resp["message"])
}

func (s *ProfileE2ETestSuite) Test_PictureReplacesPrevious() {
	w, first := s.upload("profilePicture", "a.png", pngBytes(s))
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotEmpty(first["filename"])

	w, second := s.upload("file", "b.PNG", pngBytes(s))
	s.Require().Equal(http.StatusOK, w.Code)
	filename := second["filename"].(string)
	s.Regexp(`^profile-picture-\d+\.png$`, filename)

	s.Equal([]string{filename}, s.storedFiles())
	s.Equal(filename, second["profile"].(map[string]any)["profilePicture"])

	_, resp := s.do(http.MethodGet, "/api/profile", nil)
	s.Equal(filename, resp["profilePicture"])

	w = httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/uploads/"+filename, nil)
	s.Router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(pngBytes(s), w.Body.Bytes())
}

func (s *ProfileE2ETestSuite) Test_PictureDeleteIsIdempotent() {
	_, _ = s.upload("profilePicture", "a.png", pngBytes(s))

	for i := 0; i < 2; i++ {
		w, resp := s.do(http.MethodDelete, "/api/profile/picture", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Nil(resp["profile"].(map[string]any)["profilePicture"])
	}
	s.Empty(s.storedFiles())
}

func (s *ProfileE2ETestSuite) Test_PictureRejections() {
	w, resp := s.upload("", "", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("No file uploaded", resp["message"])

	w, _ = s.upload("profilePicture", "notes.txt", []byte("plain text"))
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.upload("profilePicture", "fake.png", []byte("plain text pretending to be a png"))
	s.Equal(http.StatusBadRequest, w.Code)

	big := append(pngBytes(s), make([]byte, 6<<20)...)
	w, _ = s.upload("profilePicture", "big.png", big)
	s.Equal(http.StatusBadRequest, w.Code)

	s.Empty(s.storedFiles())
	_, profileResp := s.do(http.MethodGet, "/api/profile", nil)
	s.Nil(profileResp["profilePicture"])
}

func (s *ProfileE2ETestSuite) Test_SkillLifecycle() {
	w, resp := s.do(http.MethodPut, "/api/profile", map[string]any{"fullName": "Jane Doe", "email": "jane@x.com"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("Jane Doe", resp["fullName"])

	w, resp = s.do(http.MethodPut, "/api/profile/skills", map[string]any{"name": "Go", "rating": 4})
	s.Require().Equal(http.StatusOK, w.Code)
	skills := resp["skills"].([]any)
	s.Require().Len(skills, 1)
	skill := skills[0].(map[string]any)
	s.Equal("Go", skill["name"])
	s.Equal(float64(4), skill["rating"])
	id := skill["id"].(string)
	s.NotEmpty(id)

	w, resp = s.do(http.MethodDelete, "/api/profile/skills/"+id, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal([]any{}, resp["skills"])
}
