//go:build integration || !unit

package integration

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "steam_reviews/internal/adapters/http_server"
	redisad "steam_reviews/internal/adapters/redis"
	"steam_reviews/internal/adapters/steam"
	"steam_reviews/internal/app"
	"steam_reviews/internal/domain"
	mysqlrepo "steam_reviews/internal/storage/mysql"
)

// ---------- helpers ----------

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest unavailable: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=steam",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Skipf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/steam?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// ---------- fake store ----------

type storeReview struct {
	id      string
	up      bool
	minutes float64
	votes   int
}

var e2eReviews = []storeReview{
	{"p1", true, 600, 40},
	{"p2", true, 3000, 12},
	{"p3", true, 180, 3},
	{"n1", false, 36000, 90},
	{"n2", false, 1500, 7},
	{"n3", false, 18000, 2},
}

// fakeStore answers the three store endpoints the client uses.
func fakeStore(t *testing.T) *httptest.Server {
	t.Helper()
	text := strings.Repeat("Played this for a long while and have opinions. ", 4)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/storesearch/":
			if !strings.Contains(strings.ToLower(r.URL.Query().Get("term")), "portal") {
				_, _ = w.Write([]byte(`{"total":0,"items":[]}`))
				return
			}
			_, _ = w.Write([]byte(`{"total":1,"items":[{"id":620,"name":"Portal 2"}]}`))
		case r.URL.Path == "/api/appdetails":
			_, _ = w.Write([]byte(`{"620":{"success":true,"data":{"name":"Portal 2"}}}`))
		case r.URL.Path == "/appreviews/620":
			if r.URL.Query().Get("cursor") != "*" {
				_, _ = w.Write([]byte(`{"success":1,"cursor":"end","reviews":[]}`))
				return
			}
			want := r.URL.Query().Get("review_type") == "positive"
			var out []map[string]any
			for _, sr := range e2eReviews {
				if sr.up != want {
					continue
				}
				out = append(out, map[string]any{
					"recommendationid":  sr.id,
					"author":            map[string]any{"playtime_forever": sr.minutes},
					"review":            text,
					"voted_up":          sr.up,
					"votes_up":          sr.votes,
					"timestamp_created": 1700000000,
				})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"success": 1, "cursor": "next", "reviews": out})
		default:
			http.NotFound(w, r)
		}
	}))
}

func body(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

// ---------- the test ----------

func TestHTTP_EndToEnd_SnapshotFlow(t *testing.T) {
	db := startMySQL(t)

	store := fakeStore(t)
	defer store.Close()
	mr := miniredis.RunT(t)

	client, err := steam.New(store.URL, 50)
	if err != nil {
		t.Fatalf("steam.New: %v", err)
	}
	policy := domain.DefaultPolicy()
	reports := app.NewReportService(steam.NewSource(client, policy), redisad.New(mr.Addr(), "", 0), policy, time.Minute)
	snaps := app.NewSnapshotService(reports, mysqlrepo.New(db))

	srv := server.New(30 * time.Second)
	srv.MountHandlers(&server.Handlers{Reports: reports, Snapshots: snaps})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// create
	res, err := http.Post(ts.URL+"/v1/apps/portal%202/snapshots?count=20", "", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status %d: %s", res.StatusCode, body(t, res))
	}
	var created struct {
		ID    string `json:"id"`
		AppID int64  `json:"app_id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	res.Body.Close()
	if created.ID == "" || created.AppID != 620 {
		t.Fatalf("unexpected create response: %+v", created)
	}

	// read back
	res, err = http.Get(ts.URL + "/v1/snapshots/" + created.ID)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	md := body(t, res)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", res.StatusCode, md)
	}
	if !strings.Contains(md, "Portal 2") {
		t.Fatalf("snapshot missing app name:\n%s", md)
	}
	// most helpful negative closes the sequence
	last := strings.LastIndex(md, "[NEGATIVE | Playtime: 600.0h | Helpful: 90")
	if last < 0 || strings.Contains(md[last:], "[POSITIVE") {
		t.Fatalf("top negative is not last:\n%s", md)
	}

	// persisted reviews
	res, err = http.Get(ts.URL + "/v1/apps/620/stored-reviews?limit=50")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var stored struct {
		Items []domain.Review `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&stored); err != nil {
		t.Fatalf("decode: %v", err)
	}
	res.Body.Close()
	if len(stored.Items) != len(e2eReviews) {
		t.Fatalf("expected %d stored reviews, got %d", len(e2eReviews), len(stored.Items))
	}

	// unknown app is a 404 and recorded as a miss
	res, err = http.Post(ts.URL+"/v1/apps/nothing-here/snapshots", "", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
	var misses int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ingest_misses WHERE query = ?`, "nothing-here").Scan(&misses); err != nil {
		t.Fatalf("count misses: %v", err)
	}
	if misses != 1 {
		t.Fatalf("expected 1 miss row, got %d", misses)
	}
}
