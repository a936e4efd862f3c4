package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alexvillacis/instituciones-app/models"
)

func newUserFixture(t *testing.T) (*UserService, *gorm.DB, *fakeMailer) {
	t.Helper()
	db := newTestDB(t)
	mailer := &fakeMailer{}
	roles := NewRoleService(db, NewPermissionService(db, mailer), &fakeNotifier{})
	svc := NewUserService(db, roles, mailer)
	return svc, db, mailer
}

func seedDefaultRole(t *testing.T, db *gorm.DB) models.Role {
	t.Helper()
	role := models.Role{Name: "user", IsDefault: true}
	require.NoError(t, db.Create(&role).Error)
	return role
}

func TestCreateUserFallsBackToDefaultRole(t *testing.T) {
	svc, db, mailer := newUserFixture(t)
	role := seedDefaultRole(t, db)

	resp := svc.Create(CreateUserInput{Name: "Ana", Email: "ana@x.com", Password: "secret123"})
	require.Equal(t, 201, resp.Status)

	user := resp.Data.(models.User)
	assert.Equal(t, role.ID, user.RoleID)
	assert.True(t, user.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
	assert.Equal(t, 1, mailer.countTemplate("welcome.html"))
}

func TestCreateUserWithoutAnyDefaultRole(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	resp := svc.Create(CreateUserInput{Name: "Ana", Email: "ana@x.com"})
	assert.Equal(t, 400, resp.Status)
	assert.Equal(t, "No default role found.", resp.Message)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	svc, db, _ := newUserFixture(t)
	seedDefaultRole(t, db)

	require.Equal(t, 201, svc.Create(CreateUserInput{Name: "Ana", Email: "ana@x.com"}).Status)
	resp := svc.Create(CreateUserInput{Name: "Otra Ana", Email: "ana@x.com"})
	assert.Equal(t, 400, resp.Status)
	assert.Equal(t, "The user already exists.", resp.Message)
}

func TestUpdateUserRoleChangeSendsRoleNotice(t *testing.T) {
	svc, db, mailer := newUserFixture(t)
	seedDefaultRole(t, db)
	editor := models.Role{Name: "editor"}
	require.NoError(t, db.Create(&editor).Error)

	created := svc.Create(CreateUserInput{Name: "Ana", Email: "ana@x.com"})
	require.Equal(t, 201, created.Status)
	user := created.Data.(models.User)

	resp := svc.Update(user.ID, UpdateUserInput{RoleID: &editor.ID})
	require.Equal(t, 200, resp.Status)
	assert.Equal(t, 1, mailer.countTemplate("role_change.html"))
	assert.Equal(t, 0, mailer.countTemplate("update_account.html"))

	name := "Ana Maria"
	resp = svc.Update(user.ID, UpdateUserInput{Name: &name})
	require.Equal(t, 200, resp.Status)
	assert.Equal(t, 1, mailer.countTemplate("update_account.html"))
}

func TestUpdateUnknownUser(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	assert.Equal(t, 404, svc.Update(99, UpdateUserInput{}).Status)
}

func TestDeleteUserRemovesSocialIdentities(t *testing.T) {
	svc, db, mailer := newUserFixture(t)
	seedDefaultRole(t, db)

	created := svc.Create(CreateUserInput{Name: "Ana", Email: "ana@x.com"})
	require.Equal(t, 201, created.Status)
	user := created.Data.(models.User)
	require.NoError(t, db.Create(&models.SocialNetwork{
		Provider: "google", ProviderID: "goog-1", UserID: user.ID,
	}).Error)

	require.Equal(t, 200, svc.Delete(user.ID).Status)

	var networks int64
	require.NoError(t, db.Model(&models.SocialNetwork{}).Count(&networks).Error)
	assert.Zero(t, networks)
	assert.Equal(t, 1, mailer.countTemplate("account_deleted.html"))

	assert.Equal(t, 404, svc.Delete(user.ID).Status)
}

func TestCreateUserBatchIsolatesFailures(t *testing.T) {
	svc, db, _ := newUserFixture(t)
	seedDefaultRole(t, db)

	resp := svc.CreateBatch([]CreateUserInput{
		{Name: "Ana", Email: "ana@x.com"},
		{Name: "Beto", Email: "beto@x.com"},
		{Name: "Carla", Email: "carla@x.com"},
		{Name: "Impostora", Email: "ana@x.com"},
	})
	assert.Equal(t, 207, resp.Status)
	assert.Len(t, resp.Data.([]models.User), 3)

	batchErrors := resp.Error.([]BatchError)
	require.Len(t, batchErrors, 1)
	assert.Equal(t, "ana@x.com", batchErrors[0].Item)
}
