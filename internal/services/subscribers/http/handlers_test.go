package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	perr "bandwatch/internal/platform/errors"
	phttp "bandwatch/internal/platform/net/http"
	"bandwatch/internal/services/subscribers/domain"
)

type fakeAdmin struct {
	created  []domain.CreateInput
	deleted  []string
	genres   []domain.Genre
	createFn func(domain.CreateInput) (domain.Subscriber, error)
	deleteFn func(string) error
}

func (f *fakeAdmin) Create(_ context.Context, in domain.CreateInput) (domain.Subscriber, error) {
	f.created = append(f.created, in)
	if f.createFn != nil {
		return f.createFn(in)
	}
	return domain.Subscriber{ID: 1, Email: in.Email, Alerts: in.Alerts, Genres: in.Genres}, nil
}

func (f *fakeAdmin) Delete(_ context.Context, email string) error {
	f.deleted = append(f.deleted, email)
	if f.deleteFn != nil {
		return f.deleteFn(email)
	}
	return nil
}

func (f *fakeAdmin) Genres(context.Context) ([]domain.Genre, error) {
	return f.genres, nil
}

func newRouter(svc domain.AdminPort) *chi.Mux {
	m := chi.NewRouter()
	Register(phttp.AdaptChi(m), svc)
	return m
}

func TestCreateSubscriber(t *testing.T) {
	admin := &fakeAdmin{}
	mux := newRouter(admin)

	body := `{"email":"fan@example.com","alerts":true,"genres":["jazz"]}`
	req := httptest.NewRequest("POST", "/subscribers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != 201 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(admin.created) != 1 || admin.created[0].Email != "fan@example.com" {
		t.Fatalf("create not forwarded: %+v", admin.created)
	}

	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if env.Status != "Created" {
		t.Fatalf("envelope status = %q", env.Status)
	}
}

func TestCreateSubscriberRejectsBadEmail(t *testing.T) {
	admin := &fakeAdmin{}
	mux := newRouter(admin)

	req := httptest.NewRequest("POST", "/subscribers", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(admin.created) != 0 {
		t.Fatal("invalid input should not reach the service")
	}
}

func TestDeleteSubscriber(t *testing.T) {
	admin := &fakeAdmin{}
	mux := newRouter(admin)

	req := httptest.NewRequest("DELETE", "/subscribers/fan@example.com", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != 204 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(admin.deleted) != 1 || admin.deleted[0] != "fan@example.com" {
		t.Fatalf("delete not forwarded: %+v", admin.deleted)
	}
}

func TestDeleteUnknownSubscriber(t *testing.T) {
	admin := &fakeAdmin{deleteFn: func(string) error {
		return perr.NotFoundf("no such subscriber")
	}}
	mux := newRouter(admin)

	req := httptest.NewRequest("DELETE", "/subscribers/ghost@example.com", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != 404 {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListGenres(t *testing.T) {
	admin := &fakeAdmin{genres: []domain.Genre{{ID: 1, Name: "ambient"}, {ID: 2, Name: "jazz"}}}
	mux := newRouter(admin)

	req := httptest.NewRequest("GET", "/genres", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ambient") {
		t.Fatalf("body missing genres: %s", rec.Body.String())
	}
}
