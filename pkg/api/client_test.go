package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mathevilla/mathevilla/pkg/api"
	"github.com/mathevilla/mathevilla/pkg/model"
)

func intPtr(v int) *int { return &v }

func TestLogin(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("login must not carry an Authorization header, got %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["email"] != "a@b.de" || body["password"] != "pw" {
			t.Errorf("unexpected credentials: %v", body)
		}
		_ = json.NewEncoder(w).Encode(api.AuthResponse{
			AccessToken: "tok1",
			User:        model.User{ID: "u1", Email: "a@b.de", Role: model.RoleStudent, Grade: intPtr(7), Level: 1},
		})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	resp, err := client.Login(context.Background(), "a@b.de", "pw")
	if err != nil {
		t.Fatalf("Login: unexpected error: %v", err)
	}
	if resp.AccessToken != "tok1" {
		t.Fatalf("want token tok1, got %q", resp.AccessToken)
	}
	if !resp.User.IsStudent() || resp.User.Grade == nil || *resp.User.Grade != 7 {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
}

func TestLoginRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Incorrect email or password"}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	_, err := client.Login(context.Background(), "a@b.de", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *api.Error, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Incorrect email or password" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if !apiErr.IsAuth() {
		t.Fatal("401 must classify as auth error")
	}
}

func TestBearerHeaderLifecycle(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(model.User{ID: "u1", Role: model.RoleAdmin})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	client.SetToken("tok1")
	if _, err := client.Me(context.Background()); err != nil {
		t.Fatalf("Me: unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok1" {
		t.Fatalf("want Bearer tok1, got %q", gotAuth)
	}

	client.ClearToken()
	if _, err := client.Me(context.Background()); err != nil {
		t.Fatalf("Me: unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header after ClearToken, got %q", gotAuth)
	}
}

func TestTasksPathEscaping(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_ = json.NewEncoder(w).Encode([]model.Task{{ID: "t1", Grade: 7, Topic: "Brüche"}})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	tasks, err := client.Tasks(context.Background(), 7, "Brüche & Dezimalzahlen")
	if err != nil {
		t.Fatalf("Tasks: unexpected error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
	if strings.Contains(gotPath, " ") || !strings.HasPrefix(gotPath, "/api/tasks/7/") {
		t.Fatalf("unexpected path: %q", gotPath)
	}
}

func TestSubmitAnswer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks/submit" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["task_id"] != "t1" || body["answer"] != "42" {
			t.Errorf("unexpected body: %v", body)
		}
		_ = json.NewEncoder(w).Encode(model.SubmitResult{
			Correct: true, XPEarned: 10, NewXP: 110, NewLevel: 2, LeveledUp: true,
		})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	result, err := client.SubmitAnswer(context.Background(), "t1", "42")
	if err != nil {
		t.Fatalf("SubmitAnswer: unexpected error: %v", err)
	}
	want := &model.SubmitResult{Correct: true, XPEarned: 10, NewXP: 110, NewLevel: 2, LeveledUp: true}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("SubmitAnswer mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateGrade(t *testing.T) {
	t.Parallel()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	if err := client.UpdateGrade(context.Background(), 8); err != nil {
		t.Fatalf("UpdateGrade: unexpected error: %v", err)
	}
	if gotQuery != "grade=8" {
		t.Fatalf("want grade=8, got %q", gotQuery)
	}

	// Out-of-range grades are rejected before any request is made.
	if err := client.UpdateGrade(context.Background(), 12); !errors.Is(err, model.ErrGradeOutOfRange) {
		t.Fatalf("want ErrGradeOutOfRange, got %v", err)
	}
}

func TestImportTasksCSV(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer func() { _ = file.Close() }()
		if header.Filename != "tasks.csv" {
			t.Errorf("unexpected filename: %q", header.Filename)
		}
		_ = json.NewEncoder(w).Encode(api.ImportResult{Imported: 3})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	result, err := client.ImportTasksCSV(context.Background(), "tasks.csv", strings.NewReader("grade,topic,question\n"))
	if err != nil {
		t.Fatalf("ImportTasksCSV: unexpected error: %v", err)
	}
	if result.Imported != 3 {
		t.Fatalf("want 3 imported, got %d", result.Imported)
	}
}

func TestErrorWithoutDetailFallsBackToStatusText(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	_, err := client.Me(context.Background())
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *api.Error, got %v", err)
	}
	if apiErr.Message != "Internal Server Error" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
	if apiErr.IsAuth() {
		t.Fatal("500 must not classify as auth error")
	}
}
