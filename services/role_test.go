package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexvillacis/instituciones-app/models"
)

func TestSeedCreatesAdminRoleCoveringAllPermissions(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	svc := NewRoleService(db, NewPermissionService(db, &fakeMailer{}), notifier)

	require.NoError(t, svc.Seed(testRoutes))

	var admin models.Role
	require.NoError(t, db.Preload("Permissions").Where("name = ?", "admin").First(&admin).Error)
	assert.True(t, admin.IsDefault)
	assert.Equal(t, "all", admin.AccessScope)
	assert.Len(t, admin.Permissions, 2)

	// A second boot does not duplicate the role.
	require.NoError(t, svc.Seed(testRoutes))
	var count int64
	require.NoError(t, db.Model(&models.Role{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateRejectsDuplicateRoleName(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db, NewPermissionService(db, &fakeMailer{}), &fakeNotifier{})

	require.Equal(t, 201, svc.Create(CreateRoleInput{Name: "editor"}).Status)
	assert.Equal(t, 400, svc.Create(CreateRoleInput{Name: "editor"}).Status)
}

func TestCreateFallsBackToDefaultPermissions(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db, NewPermissionService(db, &fakeMailer{}), &fakeNotifier{})

	standard := models.Permission{Name: "/users", Method: "get", UserIDs: []uint{}, IsDefault: true}
	restricted := models.Permission{Name: "/roles", Method: "post", UserIDs: []uint{}}
	require.NoError(t, db.Create(&standard).Error)
	require.NoError(t, db.Create(&restricted).Error)

	resp := svc.Create(CreateRoleInput{Name: "viewer"})
	require.Equal(t, 201, resp.Status)
	role := resp.Data.(models.Role)
	require.Len(t, role.Permissions, 1)
	assert.Equal(t, standard.ID, role.Permissions[0].ID)
}

func TestUpdateNotifiesExactPermissionDelta(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	svc := NewRoleService(db, NewPermissionService(db, &fakeMailer{}), notifier)

	var a, b, c, d models.Permission
	for name, target := range map[string]*models.Permission{
		"/a": &a, "/b": &b, "/c": &c, "/d": &d,
	} {
		*target = models.Permission{Name: name, Method: "get", UserIDs: []uint{}}
		require.NoError(t, db.Create(target).Error)
	}

	role := models.Role{Name: "staff", Permissions: []models.Permission{a, b, c}}
	require.NoError(t, db.Create(&role).Error)
	user := models.User{Name: "Uma", Email: "uma@x.com", RoleID: role.ID}
	require.NoError(t, db.Create(&user).Error)

	newSet := []uint{b.ID, c.ID, d.ID}
	resp := svc.Update(role.ID, UpdateRoleInput{PermissionIDs: &newSet})
	require.Equal(t, 200, resp.Status)

	require.Len(t, notifier.events, 2)
	assert.Contains(t, notifier.events, eventRecord{UserID: user.ID, Kind: PermissionRemoved, PermissionID: a.ID})
	assert.Contains(t, notifier.events, eventRecord{UserID: user.ID, Kind: PermissionAdded, PermissionID: d.ID})
}

func TestUpdateWithoutPermissionChangeStaysSilent(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	svc := NewRoleService(db, NewPermissionService(db, &fakeMailer{}), notifier)

	role := models.Role{Name: "staff"}
	require.NoError(t, db.Create(&role).Error)
	user := models.User{Name: "Uma", Email: "uma@x.com", RoleID: role.ID}
	require.NoError(t, db.Create(&user).Error)

	scope := "all"
	resp := svc.Update(role.ID, UpdateRoleInput{AccessScope: &scope})
	require.Equal(t, 200, resp.Status)
	assert.Empty(t, notifier.events)
}

func TestUpdateUnknownRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db, NewPermissionService(db, &fakeMailer{}), &fakeNotifier{})

	assert.Equal(t, 404, svc.Update(42, UpdateRoleInput{}).Status)
}

func TestDeleteRejectedWhileUsersHoldTheRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db, NewPermissionService(db, &fakeMailer{}), &fakeNotifier{})

	role := models.Role{Name: "staff"}
	require.NoError(t, db.Create(&role).Error)
	user := models.User{Name: "Uma", Email: "uma@x.com", RoleID: role.ID}
	require.NoError(t, db.Create(&user).Error)

	assert.Equal(t, 400, svc.Delete(role.ID).Status)

	// After the last holder is gone the role can be removed.
	require.NoError(t, db.Delete(&user).Error)
	assert.Equal(t, 200, svc.Delete(role.ID).Status)
	assert.Equal(t, 404, svc.Delete(role.ID).Status)
}

func TestGetDefaultRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db, NewPermissionService(db, &fakeMailer{}), &fakeNotifier{})

	role, err := svc.GetDefaultRole()
	require.NoError(t, err)
	assert.Nil(t, role)

	require.NoError(t, db.Create(&models.Role{Name: "member", IsDefault: true}).Error)
	role, err = svc.GetDefaultRole()
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, "member", role.Name)
}

func TestCreateBatchReportsPartialFailure(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db, NewPermissionService(db, &fakeMailer{}), &fakeNotifier{})

	resp := svc.CreateBatch([]CreateRoleInput{
		{Name: "editor"},
		{Name: "viewer"},
		{Name: "editor"}, // duplicate
	})
	assert.Equal(t, 207, resp.Status)
	assert.Len(t, resp.Data.([]models.Role), 2)
	assert.Len(t, resp.Error.([]BatchError), 1)
}
