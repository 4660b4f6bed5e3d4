package users_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/rai/user-management-api/modules/shared/events"
	"github.com/rai/user-management-api/modules/users"
)

type resource struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
	IsActive bool   `json:"is_active"`
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.EventType
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.EventType())
	return nil
}

func newServer(t *testing.T, publisher events.Publisher) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	users.New(users.Config{
		EventPublisher: publisher,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, data
}

func mustCreate(t *testing.T, srv *httptest.Server, name, email string, age int) resource {
	t.Helper()
	status, data := call(t, srv, http.MethodPost, "/users",
		fmt.Sprintf(`{"name":%q,"email":%q,"age":%d}`, name, email, age))
	if status != http.StatusCreated {
		t.Fatalf("create %s: status %d %s", email, status, data)
	}
	var r resource
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatal(err)
	}
	return r
}

func list(t *testing.T, srv *httptest.Server, query string) []resource {
	t.Helper()
	status, data := call(t, srv, http.MethodGet, "/users?"+query, "")
	if status != http.StatusOK {
		t.Fatalf("list %s: status %d %s", query, status, data)
	}
	var rs []resource
	if err := json.Unmarshal(data, &rs); err != nil {
		t.Fatal(err)
	}
	return rs
}

func TestConcurrentCreateSameEmail(t *testing.T) {
	srv := newServer(t, nil)

	statuses := make([]int, 2)
	var wg sync.WaitGroup
	for i := range statuses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			statuses[i], _ = call(t, srv, http.MethodPost, "/users", `{"name":"Twin","email":"twin@x.io","age":20}`)
		}()
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, s := range statuses {
		switch s {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		}
	}
	if created != 1 || conflicts != 1 {
		t.Errorf("statuses %v: want one 201 and one 409", statuses)
	}
}

func TestListAgeRangeIsSortedAndBounded(t *testing.T) {
	srv := newServer(t, nil)
	for i, age := range []int{15, 18, 22, 30, 31, 45} {
		mustCreate(t, srv, fmt.Sprintf("User %c", 'F'-i), fmt.Sprintf("u%d@x.io", i), age)
	}

	got := list(t, srv, "min_age=18&max_age=30")

	if len(got) != 3 {
		t.Fatalf("expected 3 users, got %d", len(got))
	}
	for i, u := range got {
		if u.Age < 18 || u.Age > 30 {
			t.Errorf("age %d out of range", u.Age)
		}
		if i > 0 && got[i-1].Name > u.Name {
			t.Errorf("not sorted by name: %q before %q", got[i-1].Name, u.Name)
		}
	}
}

func TestPaginationIsDisjoint(t *testing.T) {
	srv := newServer(t, nil)
	for i := 0; i < 15; i++ {
		mustCreate(t, srv, "Member "+strings.Repeat("a", i+1), fmt.Sprintf("m%d@x.io", i), 20)
	}

	first := list(t, srv, "page=1&limit=10")
	second := list(t, srv, "page=2&limit=10")

	if len(first) != 10 || len(second) != 5 {
		t.Fatalf("page sizes %d and %d, want 10 and 5", len(first), len(second))
	}
	seen := make(map[string]bool)
	for _, u := range append(first, second...) {
		if seen[u.ID] {
			t.Errorf("id %s appears on both pages", u.ID)
		}
		seen[u.ID] = true
	}
}

func TestDeleteTwice(t *testing.T) {
	srv := newServer(t, nil)
	u := mustCreate(t, srv, "Alice", "a@x.io", 30)

	if status, _ := call(t, srv, http.MethodDelete, "/users/"+u.ID, ""); status != http.StatusNoContent {
		t.Fatalf("first delete: %d", status)
	}
	if status, _ := call(t, srv, http.MethodDelete, "/users/"+u.ID, ""); status != http.StatusNotFound {
		t.Fatalf("second delete: %d", status)
	}
	if status, _ := call(t, srv, http.MethodGet, "/users/"+u.ID, ""); status != http.StatusNotFound {
		t.Fatalf("get after delete: %d", status)
	}
}

func TestRoundTripAndEvents(t *testing.T) {
	publisher := &recordingPublisher{}
	srv := newServer(t, publisher)

	created := mustCreate(t, srv, "Alice", "a@x.io", 30)

	status, data := call(t, srv, http.MethodGet, "/users/"+created.ID, "")
	if status != http.StatusOK {
		t.Fatalf("get: %d", status)
	}
	var fetched resource
	if err := json.Unmarshal(data, &fetched); err != nil {
		t.Fatal(err)
	}
	if fetched != created {
		t.Errorf("round trip: got %+v, want %+v", fetched, created)
	}

	status, data = call(t, srv, http.MethodPut, "/users/"+created.ID, `{"name":"Alicia"}`)
	if status != http.StatusOK {
		t.Fatalf("update: %d %s", status, data)
	}
	var updated resource
	if err := json.Unmarshal(data, &updated); err != nil {
		t.Fatal(err)
	}
	want := created
	want.Name = "Alicia"
	if updated != want {
		t.Errorf("update: got %+v, want %+v", updated, want)
	}

	call(t, srv, http.MethodDelete, "/users/"+created.ID, "")

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	wantEvents := []events.EventType{"users.UserCreated", "users.UserUpdated", "users.UserDeleted"}
	if fmt.Sprint(publisher.events) != fmt.Sprint(wantEvents) {
		t.Errorf("events: got %v, want %v", publisher.events, wantEvents)
	}
}
