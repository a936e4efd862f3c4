package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alexvillacis/instituciones-app/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.User{},
		&models.SocialNetwork{},
	))
	return db
}

type mailRecord struct {
	To       string
	Subject  string
	Template string
}

type fakeMailer struct {
	sent []mailRecord
}

func (m *fakeMailer) SendTemplate(to, subject, template string, data map[string]interface{}) error {
	m.sent = append(m.sent, mailRecord{To: to, Subject: subject, Template: template})
	return nil
}

func (m *fakeMailer) countTemplate(template string) int {
	count := 0
	for _, record := range m.sent {
		if record.Template == template {
			count++
		}
	}
	return count
}

type eventRecord struct {
	UserID       uint
	Kind         string
	PermissionID uint
}

type fakeNotifier struct {
	events []eventRecord
}

func (n *fakeNotifier) NotifyPermissionChange(userID uint, kind string, permissionID uint) {
	n.events = append(n.events, eventRecord{UserID: userID, Kind: kind, PermissionID: permissionID})
}

type stubVerifier struct {
	identity *Identity
	err      error
}

func (v *stubVerifier) Verify(ctx context.Context, assertion string) (*Identity, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.identity, nil
}

// testRoutes matches the shape of routes.ProtectedRoutes without importing it.
var testRoutes = []RouteEntry{
	{Path: "/permisos", Methods: []string{"GET", "POST"}},
}
