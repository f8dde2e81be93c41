//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"service_review/internal/domain"
	mysqlrepo "service_review/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pfloat(f float64) *float64 { return &f }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

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
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
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
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=services",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "services")

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

// ---------- the tests ----------

func TestRepo_MySQL_ServiceCRUDAndFilters(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	id, err := repo.CreateService(ctx, domain.Service{
		Email:       "a@x.com",
		Category:    "Drama",
		Title:       "Grand Budapest",
		Description: "a movie",
		Price:       pfloat(12.5),
		ImageURL:    pstr("https://img.example/1.png"),
	})
	if err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	if _, err := repo.CreateService(ctx, domain.Service{
		Email: "b@y.com", Category: "comedy", Title: "Other",
	}); err != nil {
		t.Fatalf("CreateService: %v", err)
	}

	got, err := repo.GetService(ctx, id)
	if err != nil {
		t.Fatalf("GetService: %v", err)
	}
	if got.Email != "a@x.com" || got.Category != "Drama" || got.ReviewCount != nil {
		t.Fatalf("unexpected service: %+v", got)
	}

	// case-insensitive category substring
	out, err := repo.ListServices(ctx, domain.ServicesQuery{Category: pstr("dRaM")})
	if err != nil {
		t.Fatalf("ListServices: %v", err)
	}
	if len(out) != 1 || out[0].ID != id {
		t.Fatalf("category filter: %+v", out)
	}

	// owner filter
	out, err = repo.ListServices(ctx, domain.ServicesQuery{Email: pstr("b@y.com")})
	if err != nil {
		t.Fatalf("ListServices: %v", err)
	}
	if len(out) != 1 || out[0].Email != "b@y.com" {
		t.Fatalf("email filter: %+v", out)
	}

	// title substring
	out, err = repo.ListServices(ctx, domain.ServicesQuery{Title: pstr("budapest")})
	if err != nil {
		t.Fatalf("ListServices: %v", err)
	}
	if len(out) != 1 || out[0].ID != id {
		t.Fatalf("title filter: %+v", out)
	}

	// partial update keeps unspecified fields
	if err := repo.UpdateService(ctx, id, domain.ServicePatch{Title: pstr("X")}); err != nil {
		t.Fatalf("UpdateService: %v", err)
	}
	got, err = repo.GetService(ctx, id)
	if err != nil {
		t.Fatalf("GetService: %v", err)
	}
	if got.Title != "X" || got.Category != "Drama" || got.Description != "a movie" {
		t.Fatalf("partial update: %+v", got)
	}

	// zero-match update and delete are no-op successes
	if err := repo.UpdateService(ctx, 99999, domain.ServicePatch{Title: pstr("Y")}); err != nil {
		t.Fatalf("zero-match update: %v", err)
	}
	if err := repo.DeleteService(ctx, 99999); err != nil {
		t.Fatalf("zero-match delete: %v", err)
	}

	if err := repo.DeleteService(ctx, id); err != nil {
		t.Fatalf("DeleteService: %v", err)
	}
	if _, err := repo.GetService(ctx, id); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRepo_MySQL_ReviewCounter(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	sid, err := repo.CreateService(ctx, domain.Service{Email: "a@x.com", Category: "drama", Title: "A"})
	if err != nil {
		t.Fatalf("CreateService: %v", err)
	}

	// counter starts NULL; first bump must land on exactly 1
	if n, err := repo.BumpReviewCount(ctx, sid); err != nil || n != 1 {
		t.Fatalf("first bump: n=%d err=%v", n, err)
	}
	got, err := repo.GetService(ctx, sid)
	if err != nil {
		t.Fatalf("GetService: %v", err)
	}
	if got.ReviewCount == nil || *got.ReviewCount != 1 {
		t.Fatalf("expected reviewCount 1: %+v", got)
	}

	if n, err := repo.BumpReviewCount(ctx, sid); err != nil || n != 1 {
		t.Fatalf("second bump: n=%d err=%v", n, err)
	}
	got, _ = repo.GetService(ctx, sid)
	if got.ReviewCount == nil || *got.ReviewCount != 2 {
		t.Fatalf("expected reviewCount 2: %+v", got)
	}

	// decrement floors at zero
	for i := 0; i < 3; i++ {
		if _, err := repo.DropReviewCount(ctx, sid); err != nil {
			t.Fatalf("drop %d: %v", i, err)
		}
	}
	got, _ = repo.GetService(ctx, sid)
	if got.ReviewCount == nil || *got.ReviewCount != 0 {
		t.Fatalf("expected floored counter 0: %+v", got)
	}

	// bump on a missing service matches nothing
	if n, err := repo.BumpReviewCount(ctx, 99999); err != nil || n != 0 {
		t.Fatalf("bump missing: n=%d err=%v", n, err)
	}
}

func TestRepo_MySQL_ReviewCRUD(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	sid, err := repo.CreateService(ctx, domain.Service{Email: "a@x.com", Category: "drama", Title: "A"})
	if err != nil {
		t.Fatalf("CreateService: %v", err)
	}

	rid, err := repo.CreateReview(ctx, domain.Review{
		ReviewID: sid, Email: "b@y.com", Rating: pfloat(5), Text: pstr("great"),
	})
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if _, err := repo.CreateReview(ctx, domain.Review{ReviewID: sid, Email: "c@z.com", Rating: pfloat(3)}); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	got, err := repo.GetReview(ctx, rid)
	if err != nil {
		t.Fatalf("GetReview: %v", err)
	}
	if got.ReviewID != sid || got.Email != "b@y.com" || got.Text == nil || *got.Text != "great" {
		t.Fatalf("unexpected review: %+v", got)
	}

	bySvc, err := repo.ListReviews(ctx, domain.ReviewsQuery{ServiceID: &sid})
	if err != nil {
		t.Fatalf("ListReviews by service: %v", err)
	}
	if len(bySvc) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(bySvc))
	}

	byOwner, err := repo.ListReviews(ctx, domain.ReviewsQuery{Email: pstr("b@y.com")})
	if err != nil {
		t.Fatalf("ListReviews by owner: %v", err)
	}
	if len(byOwner) != 1 || byOwner[0].ID != rid {
		t.Fatalf("owner filter: %+v", byOwner)
	}

	if err := repo.UpdateReview(ctx, rid, domain.ReviewPatch{Rating: pfloat(4)}); err != nil {
		t.Fatalf("UpdateReview: %v", err)
	}
	got, _ = repo.GetReview(ctx, rid)
	if got.Rating == nil || *got.Rating != 4 || got.Text == nil || *got.Text != "great" {
		t.Fatalf("partial review update: %+v", got)
	}

	removed, err := repo.DeleteReview(ctx, rid)
	if err != nil || !removed {
		t.Fatalf("DeleteReview: removed=%v err=%v", removed, err)
	}
	removed, err = repo.DeleteReview(ctx, rid)
	if err != nil || removed {
		t.Fatalf("second DeleteReview: removed=%v err=%v", removed, err)
	}
}
