package services

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/alexvillacis/instituciones-app/models"
	"github.com/alexvillacis/instituciones-app/utils"
)

type CreateRoleInput struct {
	Name          string `json:"name"`
	AccessScope   string `json:"access_scope"`
	IsDefault     bool   `json:"is_default"`
	PermissionIDs []uint `json:"permissions"`
}

type UpdateRoleInput struct {
	ID            uint    `json:"id"`
	Name          *string `json:"name"`
	AccessScope   *string `json:"access_scope"`
	IsDefault     *bool   `json:"is_default"`
	PermissionIDs *[]uint `json:"permissions"`
}

type RoleService struct {
	db          *gorm.DB
	permissions *PermissionService
	notifier    ChangeNotifier
}

func NewRoleService(db *gorm.DB, permissions *PermissionService, notifier ChangeNotifier) *RoleService {
	return &RoleService{db: db, permissions: permissions, notifier: notifier}
}

// Seed creates the bootstrap "admin" role holding every permission. It first
// delegates to PermissionService.Seed when no permissions exist, then re-reads
// the catalog so the admin role covers what seeding just produced. A no-op
// when any role already exists.
func (s *RoleService) Seed(routes []RouteEntry) error {
	var permissions []models.Permission
	if err := s.db.Find(&permissions).Error; err != nil {
		return err
	}
	if len(permissions) == 0 {
		if err := s.permissions.Seed(routes); err != nil {
			return err
		}
		if err := s.db.Find(&permissions).Error; err != nil {
			return err
		}
	}

	var count int64
	if err := s.db.Model(&models.Role{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Roles already exist in the database.")
		return nil
	}

	adminRole := models.Role{
		Name:        "admin",
		AccessScope: "all",
		IsDefault:   true,
		Permissions: permissions,
	}
	if err := s.db.Create(&adminRole).Error; err != nil {
		return err
	}
	log.Println("Admin role created.")
	return nil
}

func (s *RoleService) FindAll(filter map[string]interface{}, relations []string) *utils.APIResponse {
	query := s.db.Model(&models.Role{})
	if len(filter) > 0 {
		query = query.Where(filter)
	}
	for _, relation := range relations {
		query = query.Preload(relation)
	}

	var roles []models.Role
	if err := query.Order("created_at DESC").Find(&roles).Error; err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}
	return utils.Response(200, "Roles retrieved successfully.", roles, nil)
}

func (s *RoleService) FindByID(id uint) *utils.APIResponse {
	var role models.Role
	err := s.db.Preload("Permissions").First(&role, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Response(404, "Role not found.", nil, nil)
	}
	if err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}
	return utils.Response(200, "", role, nil)
}

// Create persists a new role. An empty permission list falls back to every
// permission currently flagged is_default.
func (s *RoleService) Create(input CreateRoleInput) *utils.APIResponse {
	var existing models.Role
	if s.db.Where("name = ?", input.Name).First(&existing).RowsAffected > 0 {
		return utils.Response(400, "A role with that name already exists.", nil, nil)
	}

	var permissions []models.Permission
	var err error
	if len(input.PermissionIDs) > 0 {
		err = s.db.Find(&permissions, input.PermissionIDs).Error
	} else {
		err = s.db.Where("is_default = ?", true).Find(&permissions).Error
	}
	if err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}

	role := models.Role{
		Name:        input.Name,
		AccessScope: input.AccessScope,
		IsDefault:   input.IsDefault,
		Permissions: permissions,
	}
	if role.AccessScope == "" {
		role.AccessScope = "own"
	}
	if err := s.db.Create(&role).Error; err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}
	return utils.Response(201, "Role created successfully.", role, nil)
}

// Update applies the partial update, then diffs the permission set before and
// after. Every user holding the role gets one event per removed and per added
// permission. Role changes are rare administrative actions, so the
// users x delta fan-out is acceptable. Two concurrent updates on the same
// role interleave read-modify-write: last write wins and the loser's diff is
// computed against stale state.
func (s *RoleService) Update(id uint, input UpdateRoleInput) *utils.APIResponse {
	var role models.Role
	err := s.db.Preload("Permissions").First(&role, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Response(404, "Role not found.", nil, nil)
	}
	if err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}
	prior := role.Permissions

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.AccessScope != nil {
		updates["access_scope"] = *input.AccessScope
	}
	if input.IsDefault != nil {
		updates["is_default"] = *input.IsDefault
	}
	if len(updates) > 0 {
		if err := s.db.Model(&role).Updates(updates).Error; err != nil {
			return utils.Response(500, "ERROR", nil, err.Error())
		}
	}

	if input.PermissionIDs != nil {
		var permissions []models.Permission
		if len(*input.PermissionIDs) > 0 {
			if err := s.db.Find(&permissions, *input.PermissionIDs).Error; err != nil {
				return utils.Response(500, "ERROR", nil, err.Error())
			}
		}
		if err := s.db.Model(&role).Association("Permissions").Replace(permissions); err != nil {
			return utils.Response(500, "ERROR", nil, err.Error())
		}
	}

	var updated models.Role
	if err := s.db.Preload("Permissions").First(&updated, id).Error; err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}

	removed := diffPermissions(prior, updated.Permissions)
	added := diffPermissions(updated.Permissions, prior)
	if len(removed) > 0 || len(added) > 0 {
		var users []models.User
		if err := s.db.Where("role_id = ?", id).Find(&users).Error; err != nil {
			log.Printf("Failed to load users for role %d notifications: %v", id, err)
		}
		for _, user := range users {
			for _, permission := range removed {
				s.notifier.NotifyPermissionChange(user.ID, PermissionRemoved, permission.ID)
			}
			for _, permission := range added {
				s.notifier.NotifyPermissionChange(user.ID, PermissionAdded, permission.ID)
			}
		}
	}

	return utils.Response(200, "Role updated successfully.", updated, nil)
}

// Delete refuses to remove a role while any user still references it. A user
// always has exactly one role; cascading here would leave dangling accounts.
func (s *RoleService) Delete(id uint) *utils.APIResponse {
	var role models.Role
	err := s.db.First(&role, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Response(404, "Role not found.", nil, nil)
	}
	if err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}

	var assigned int64
	if err := s.db.Model(&models.User{}).Where("role_id = ?", id).Count(&assigned).Error; err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}
	if assigned > 0 {
		return utils.Response(400, "The role is still assigned to users and cannot be deleted.", nil, nil)
	}

	if err := s.db.Model(&role).Association("Permissions").Clear(); err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}
	if err := s.db.Delete(&role).Error; err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}
	return utils.Response(200, "Role deleted successfully.", nil, nil)
}

// GetDefaultRole returns the role flagged is_default, or nil when none is.
func (s *RoleService) GetDefaultRole() (*models.Role, error) {
	var role models.Role
	err := s.db.Where("is_default = ?", true).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *RoleService) CreateBatch(inputs []CreateRoleInput) *utils.APIResponse {
	created := []models.Role{}
	batchErrors := []BatchError{}

	for _, input := range inputs {
		resp := s.Create(input)
		if resp.Status != 201 {
			batchErrors = append(batchErrors, BatchError{Item: input, Message: resp.Message})
			continue
		}
		created = append(created, resp.Data.(models.Role))
	}

	if len(batchErrors) > 0 {
		return utils.Response(207, "Some roles could not be created.", created, batchErrors)
	}
	return utils.Response(201, "Roles created successfully.", created, batchErrors)
}

func (s *RoleService) UpdateBatch(inputs []UpdateRoleInput) *utils.APIResponse {
	updated := []models.Role{}
	batchErrors := []BatchError{}

	for _, input := range inputs {
		resp := s.Update(input.ID, input)
		if resp.Status != 200 {
			batchErrors = append(batchErrors, BatchError{Item: input.ID, Message: resp.Message})
			continue
		}
		updated = append(updated, resp.Data.(models.Role))
	}

	if len(batchErrors) > 0 {
		return utils.Response(207, "Some roles could not be updated.", updated, batchErrors)
	}
	return utils.Response(200, "Roles updated successfully.", updated, batchErrors)
}

// diffPermissions returns the permissions present in a but not in b,
// compared by ID.
func diffPermissions(a, b []models.Permission) []models.Permission {
	present := make(map[uint]bool, len(b))
	for _, permission := range b {
		present[permission.ID] = true
	}
	var missing []models.Permission
	for _, permission := range a {
		if !present[permission.ID] {
			missing = append(missing, permission)
		}
	}
	return missing
}
