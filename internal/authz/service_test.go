package authz

import (
	"fmt"
	"testing"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:authz_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("failed to create authz service: %v", err)
	}
	if err := Bootstrap(svc); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	return svc
}

func TestEnforceManagementHasFullAccess(t *testing.T) {
	svc := setupAuthzTest(t)

	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE"} {
		ok, err := svc.EnforceRole(constants.AdviserRoleManagement, "/api/v1/admin/campaigns/7", method)
		if err != nil {
			t.Fatalf("enforce failed: %v", err)
		}
		if !ok {
			t.Fatalf("management should be allowed %s", method)
		}
	}
}

func TestEnforceViewerIsReadOnly(t *testing.T) {
	svc := setupAuthzTest(t)

	ok, err := svc.EnforceRole(constants.AdviserRoleViewer, "/api/v1/admin/campaigns", "GET")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if !ok {
		t.Fatalf("viewer should read campaigns")
	}

	ok, err = svc.EnforceRole(constants.AdviserRoleViewer, "/api/v1/admin/campaigns", "POST")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if ok {
		t.Fatalf("viewer must not write campaigns")
	}
}

func TestEnforceAdviserScopedWrites(t *testing.T) {
	svc := setupAuthzTest(t)

	ok, err := svc.EnforceRole(constants.AdviserRoleAdviser, "/api/v1/admin/links/5/assign", "POST")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if !ok {
		t.Fatalf("adviser should assign links")
	}

	ok, err = svc.EnforceRole(constants.AdviserRoleAdviser, "/api/v1/admin/campaigns", "POST")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if ok {
		t.Fatalf("adviser must not create campaigns")
	}
}

func TestEnforceUnknownRoleIsDenied(t *testing.T) {
	svc := setupAuthzTest(t)

	ok, err := svc.EnforceRole("intern", "/api/v1/admin/campaigns", "GET")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if ok {
		t.Fatalf("unknown role must be denied")
	}
}

func TestReportColumnsPerRole(t *testing.T) {
	svc := setupAuthzTest(t)

	columns, err := svc.ReportColumns(constants.AdviserRoleViewer)
	if err != nil {
		t.Fatalf("report columns failed: %v", err)
	}
	if len(columns) != len(viewerReportColumns) {
		t.Fatalf("expected %d viewer columns, got %d", len(viewerReportColumns), len(columns))
	}
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		seen[col] = struct{}{}
	}
	if _, ok := seen["fixed_income"]; ok {
		t.Fatalf("viewer must not see house economics")
	}
	if _, ok := seen["cpa_count"]; !ok {
		t.Fatalf("viewer should see cpa_count")
	}

	full, err := svc.ReportColumns(constants.AdviserRoleManagement)
	if err != nil {
		t.Fatalf("report columns failed: %v", err)
	}
	if len(full) != len(allReportColumns) {
		t.Fatalf("expected %d management columns, got %d", len(allReportColumns), len(full))
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	svc := setupAuthzTest(t)

	if err := Bootstrap(svc); err != nil {
		t.Fatalf("rerun bootstrap failed: %v", err)
	}
	columns, err := svc.ReportColumns(constants.AdviserRoleViewer)
	if err != nil {
		t.Fatalf("report columns failed: %v", err)
	}
	if len(columns) != len(viewerReportColumns) {
		t.Fatalf("duplicate grants after rerun: %d", len(columns))
	}
}

func TestGrantCustomRole(t *testing.T) {
	svc := setupAuthzTest(t)

	if err := svc.GrantRolePolicy("auditor", "/admin/reports/*", "GET"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	ok, err := svc.EnforceRole("auditor", "/api/v1/admin/reports/daily", "GET")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if !ok {
		t.Fatalf("granted route should be allowed")
	}
	ok, err = svc.EnforceRole("auditor", "/api/v1/admin/campaigns", "GET")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if ok {
		t.Fatalf("ungranted route must be denied")
	}
}

func TestNormalizeObject(t *testing.T) {
	if got := NormalizeObject("/api/v1/admin/links"); got != "/admin/links" {
		t.Fatalf("unexpected normalization: %s", got)
	}
	if got := NormalizeObject("/admin/links"); got != "/admin/links" {
		t.Fatalf("unprefixed object must pass through: %s", got)
	}
}
