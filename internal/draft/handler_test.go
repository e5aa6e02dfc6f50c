package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"cvstudio-backend/internal/coverletter"
	"cvstudio-backend/internal/cv"
	"cvstudio-backend/internal/export"
	"cvstudio-backend/internal/notify"
	"cvstudio-backend/internal/shared/auth"
	"cvstudio-backend/internal/shared/server/middleware"
)

type testServer struct {
	router      *gin.Engine
	cvStore     *Store[*CVDraft]
	letterStore *Store[*CoverLetterDraft]
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, cv.NewMemoryRepo(), coverletter.NewMemoryRepo())
}

func newTestServerWith(t *testing.T, cvRepo cv.Repo, letterRepo coverletter.Repo) *testServer {
	t.Helper()
	t.Setenv("JWT_SECRET", "draft-test-secret")
	gin.SetMode(gin.TestMode)

	renderer := export.NewRenderer(nil, nil)
	cvStore := NewStore[*CVDraft](time.Hour)
	letterStore := NewStore[*CoverLetterDraft](time.Hour)

	router := gin.New()
	router.Use(middleware.Auth())
	api := router.Group("/api/v1")
	NewCVHandler(cvStore, cv.NewGateway(cvRepo, nil), renderer).RegisterRoutes(api)
	NewCoverLetterHandler(letterStore, coverletter.NewGateway(letterRepo, nil), renderer).RegisterRoutes(api)
	return &testServer{router: router, cvStore: cvStore, letterStore: letterStore}
}

func (s *testServer) do(t *testing.T, user, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		token, err := auth.SignJWT(auth.Claims{Sub: user})
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	s.router.ServeHTTP(resp, req)
	return resp
}

var errRepoDown = errors.New("connection refused")

// flakyCVRepo fails the calls whose switch is on.
type flakyCVRepo struct {
	cv.Repo
	failList   bool
	failInsert bool
}

func (r *flakyCVRepo) ListByUser(ctx context.Context, userID string) ([]cv.Record, error) {
	if r.failList {
		return nil, errRepoDown
	}
	return r.Repo.ListByUser(ctx, userID)
}

func (r *flakyCVRepo) Insert(ctx context.Context, rec cv.Record) error {
	if r.failInsert {
		return errRepoDown
	}
	return r.Repo.Insert(ctx, rec)
}

type flakyLetterRepo struct {
	coverletter.Repo
	failList bool
}

func (r *flakyLetterRepo) ListByUser(ctx context.Context, userID string) ([]coverletter.Record, error) {
	if r.failList {
		return nil, errRepoDown
	}
	return r.Repo.ListByUser(ctx, userID)
}

type saveResponse struct {
	Notices    []notify.Notice `json:"notices"`
	SavedStale bool            `json:"savedStale"`
}

type cvDraftResponse struct {
	Draft CVState `json:"draft"`
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", resp.Body.String(), err)
	}
	return out
}

func (s *testServer) newCVDraft(t *testing.T, user string) string {
	t.Helper()
	resp := s.do(t, user, http.MethodPost, "/api/v1/drafts/cv", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create draft: %d %s", resp.Code, resp.Body.String())
	}
	return decode[cvDraftResponse](t, resp).Draft.ID
}

func TestCVDraftEditSaveAndExport(t *testing.T) {
	s := newTestServer(t)
	id := s.newCVDraft(t, "u1")
	base := "/api/v1/drafts/cv/" + id

	resp := s.do(t, "u1", http.MethodPatch, base, map[string]string{"firstName": "Ada", "lastName": "Lovelace", "skills": "Math, Logic"})
	if resp.Code != http.StatusOK {
		t.Fatalf("patch: %d %s", resp.Code, resp.Body.String())
	}
	if got := decode[cvDraftResponse](t, resp).Draft.SkillsText; got != "Math, Logic" {
		t.Fatalf("unexpected skills text %q", got)
	}

	resp = s.do(t, "u1", http.MethodPatch, base+"/entries/experiences/0", map[string]string{"title": "Analyst", "endMonth": cv.Present, "endYear": "1999"})
	if resp.Code != http.StatusOK {
		t.Fatalf("update entry: %d %s", resp.Code, resp.Body.String())
	}

	resp = s.do(t, "u1", http.MethodPost, base+"/save", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("save: %d %s", resp.Code, resp.Body.String())
	}
	saved := decode[struct {
		Document   cv.Document   `json:"document"`
		Draft      CVState       `json:"draft"`
		Saved      []cv.Document `json:"saved"`
		SavedStale bool          `json:"savedStale"`
	}](t, resp)
	if saved.Document.Title != "Ada Lovelace's CV" || saved.Document.ID == "" {
		t.Fatalf("unexpected saved document: %+v", saved.Document)
	}
	if saved.Draft.Document.ID != saved.Document.ID {
		t.Fatalf("draft did not learn the saved id")
	}
	if saved.Draft.Document.Title != "Ada Lovelace's CV" {
		t.Fatalf("draft did not learn the default title, got %q", saved.Draft.Document.Title)
	}
	if len(saved.Saved) != 1 || saved.SavedStale {
		t.Fatalf("expected refreshed saved list, got %d stale=%v", len(saved.Saved), saved.SavedStale)
	}

	resp = s.do(t, "u1", http.MethodGet, base+"/preview", nil)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "Ada Lovelace") {
		t.Fatalf("preview: %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "1999") {
		t.Fatalf("preview must not show the end year of an ongoing entry")
	}

	resp = s.do(t, "u1", http.MethodPost, base+"/export/doc", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("export: %d %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="Ada_Lovelace's_CV.doc"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if got := resp.Header().Get("Content-Type"); got != export.WordContentType {
		t.Fatalf("unexpected content type %q", got)
	}
}

func TestCVDraftRejectsConcurrentSave(t *testing.T) {
	s := newTestServer(t)
	id := s.newCVDraft(t, "u1")

	sess, err := s.cvStore.Get("u1", id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	sess.BeginSave()

	resp := s.do(t, "u1", http.MethodPost, "/api/v1/drafts/cv/"+id+"/save", nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "save_in_progress") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}

	sess.EndSave()
	resp = s.do(t, "u1", http.MethodPost, "/api/v1/drafts/cv/"+id+"/save", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected save after release, got %d", resp.Code)
	}
}

func TestCVDraftEntryValidation(t *testing.T) {
	s := newTestServer(t)
	id := s.newCVDraft(t, "u1")
	base := "/api/v1/drafts/cv/" + id

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"index past end", http.MethodPatch, base + "/entries/education/3", map[string]string{"degree": "BA"}, http.StatusBadRequest},
		{"negative index", http.MethodDelete, base + "/entries/education/-1", nil, http.StatusBadRequest},
		{"non numeric index", http.MethodDelete, base + "/entries/education/x", nil, http.StatusBadRequest},
		{"unknown list", http.MethodPost, base + "/entries/hobbies", nil, http.StatusNotFound},
		{"unknown field", http.MethodPatch, base + "/entries/education/0", map[string]string{"gpa": "4"}, http.StatusBadRequest},
		{"unknown scalar", http.MethodPatch, base, map[string]string{"middleName": "x"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := s.do(t, "u1", tc.method, tc.path, tc.body)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
		})
	}

	resp := s.do(t, "u1", http.MethodPost, base+"/entries/education", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("add entry: %d", resp.Code)
	}
	resp = s.do(t, "u1", http.MethodDelete, base+"/entries/education/1", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("remove entry: %d", resp.Code)
	}
	if got := len(decode[cvDraftResponse](t, resp).Draft.Document.Education); got != 1 {
		t.Fatalf("expected one education entry, got %d", got)
	}
}

func TestDraftsAreScopedToOwner(t *testing.T) {
	s := newTestServer(t)
	id := s.newCVDraft(t, "u1")

	resp := s.do(t, "u2", http.MethodGet, "/api/v1/drafts/cv/"+id, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user, got %d", resp.Code)
	}
	resp = s.do(t, "", http.MethodGet, "/api/v1/drafts/cv/"+id, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous caller, got %d", resp.Code)
	}
}

func TestHydrateUnknownDocument(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, "u1", http.MethodPost, "/api/v1/drafts/cv", map[string]string{"id": "missing"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "Failed to load the CV") {
		t.Fatalf("expected load failure notice, got %s", resp.Body.String())
	}
}

func TestBlankCoverLetterExportsPlaceholderPDF(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, "u1", http.MethodPost, "/api/v1/drafts/cover-letter", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: %d", resp.Code)
	}
	id := decode[struct {
		Draft CoverLetterState `json:"draft"`
	}](t, resp).Draft.ID

	resp = s.do(t, "u1", http.MethodPost, "/api/v1/drafts/cover-letter/"+id+"/export/pdf", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("export: %d %s", resp.Code, resp.Body.String())
	}
	if resp.Header().Get("X-Page-Count") != "1" {
		t.Fatalf("expected one page, got %q", resp.Header().Get("X-Page-Count"))
	}
	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="Cover_Letter.pdf"` {
		t.Fatalf("unexpected disposition %q", got)
	}

	resp = s.do(t, "u1", http.MethodPost, "/api/v1/drafts/cover-letter/"+id+"/export/rtf", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported format, got %d", resp.Code)
	}
}

func TestCVExportWithoutPreviewElement(t *testing.T) {
	s := newTestServer(t)
	id := s.newCVDraft(t, "u1")
	resp := s.do(t, "u1", http.MethodPost, "/api/v1/drafts/cv/"+id+"/export/doc", map[string]string{"markup": "<p>nothing</p>"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	if resp.Header().Get("Content-Disposition") != "" {
		t.Fatalf("no file may be sent when the preview is missing")
	}
}

func TestSaveSucceedsWhenListRefreshFails(t *testing.T) {
	cvRepo := &flakyCVRepo{Repo: cv.NewMemoryRepo(), failList: true}
	s := newTestServerWith(t, cvRepo, coverletter.NewMemoryRepo())
	id := s.newCVDraft(t, "u1")
	base := "/api/v1/drafts/cv/" + id

	if resp := s.do(t, "u1", http.MethodPatch, base, map[string]string{"firstName": "Ada"}); resp.Code != http.StatusOK {
		t.Fatalf("patch: %d", resp.Code)
	}
	resp := s.do(t, "u1", http.MethodPost, base+"/save", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	out := decode[saveResponse](t, resp)
	if !out.SavedStale {
		t.Fatalf("expected savedStale when the list refresh fails")
	}
	want := []notify.Notice{notify.Success("Your CV has been saved successfully")}
	if len(out.Notices) != 1 || out.Notices[0] != want[0] {
		t.Fatalf("expected only the success notice, got %+v", out.Notices)
	}

	cvRepo.failList = false
	recs, err := cvRepo.ListByUser(context.Background(), "u1")
	if err != nil || len(recs) != 1 {
		t.Fatalf("expected the cv to be stored, got %d (%v)", len(recs), err)
	}
}

func TestLetterSaveSucceedsWhenListRefreshFails(t *testing.T) {
	letterRepo := &flakyLetterRepo{Repo: coverletter.NewMemoryRepo(), failList: true}
	s := newTestServerWith(t, cv.NewMemoryRepo(), letterRepo)

	resp := s.do(t, "u1", http.MethodPost, "/api/v1/drafts/cover-letter", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: %d", resp.Code)
	}
	base := "/api/v1/drafts/cover-letter/" + decode[struct {
		Draft CoverLetterState `json:"draft"`
	}](t, resp).Draft.ID

	if resp := s.do(t, "u1", http.MethodPatch, base, map[string]string{"company": "Acme", "position": "Engineer"}); resp.Code != http.StatusOK {
		t.Fatalf("patch: %d", resp.Code)
	}
	resp = s.do(t, "u1", http.MethodPost, base+"/save", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	out := decode[struct {
		saveResponse
		Draft CoverLetterState `json:"draft"`
	}](t, resp)
	if !out.SavedStale {
		t.Fatalf("expected savedStale when the list refresh fails")
	}
	if len(out.Notices) != 1 || out.Notices[0] != notify.Success("Your cover letter has been saved successfully") {
		t.Fatalf("expected only the success notice, got %+v", out.Notices)
	}
	if out.Draft.Document.Title != "Engineer at Acme" {
		t.Fatalf("draft did not learn the default title, got %q", out.Draft.Document.Title)
	}

	resp = s.do(t, "u1", http.MethodPost, base+"/export/doc", nil)
	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="Engineer_at_Acme.doc"` {
		t.Fatalf("unexpected disposition %q", got)
	}
}

func TestFailedSaveLeavesDraftEditable(t *testing.T) {
	cvRepo := &flakyCVRepo{Repo: cv.NewMemoryRepo(), failInsert: true}
	s := newTestServerWith(t, cvRepo, coverletter.NewMemoryRepo())
	id := s.newCVDraft(t, "u1")
	base := "/api/v1/drafts/cv/" + id

	if resp := s.do(t, "u1", http.MethodPatch, base, map[string]string{"firstName": "Ada"}); resp.Code != http.StatusOK {
		t.Fatalf("patch: %d", resp.Code)
	}
	resp := s.do(t, "u1", http.MethodPost, base+"/save", nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "Failed to save your CV") {
		t.Fatalf("expected failure notice, got %s", resp.Body.String())
	}

	sess, err := s.cvStore.Get("u1", id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.Saving() {
		t.Fatalf("save must be re-enabled after a failure")
	}

	resp = s.do(t, "u1", http.MethodPatch, base, map[string]string{"lastName": "Lovelace"})
	if resp.Code != http.StatusOK {
		t.Fatalf("patch after failed save: %d", resp.Code)
	}
	draft := decode[cvDraftResponse](t, resp).Draft
	if draft.Document.ID != "" || draft.Document.FirstName != "Ada" || draft.Document.LastName != "Lovelace" {
		t.Fatalf("failed save must leave the draft unchanged apart from edits: %+v", draft.Document)
	}

	cvRepo.failInsert = false
	resp = s.do(t, "u1", http.MethodPost, base+"/save", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("retry save: %d %s", resp.Code, resp.Body.String())
	}
	if got := decode[cvDraftResponse](t, resp).Draft.Document.ID; got == "" {
		t.Fatalf("expected the retried save to assign an id")
	}
}
