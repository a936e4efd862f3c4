package services

import (
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/alexvillacis/instituciones-app/models"
	"github.com/alexvillacis/instituciones-app/utils"
)

// RouteEntry is one protected operation of the HTTP surface. The table is
// declared statically in the routes package and handed to Seed at startup;
// routes added later without re-running Seed produce no new permissions.
type RouteEntry struct {
	Path    string
	Methods []string
}

type CreatePermissionInput struct {
	Name      string `json:"name"`
	Method    string `json:"method"`
	UserIDs   []uint `json:"users"`
	IsDefault bool   `json:"is_default"`
}

type UpdatePermissionInput struct {
	ID        uint    `json:"id"`
	Name      *string `json:"name"`
	Method    *string `json:"method"`
	UserIDs   *[]uint `json:"users"`
	IsDefault *bool   `json:"is_default"`
}

type PermissionService struct {
	db     *gorm.DB
	mailer Mailer
}

func NewPermissionService(db *gorm.DB, mailer Mailer) *PermissionService {
	return &PermissionService{db: db, mailer: mailer}
}

// Seed creates one permission per (path, verb) pair of the route table. A
// no-op when any permission already exists. Per-row failures (typically the
// (name, method) unique index under a concurrent first boot) are logged and
// skipped; partial seeding is accepted, all-or-nothing is not the contract.
func (s *PermissionService) Seed(routes []RouteEntry) error {
	var count int64
	if err := s.db.Model(&models.Permission{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Permissions already exist in the database.")
		return nil
	}

	for _, route := range routes {
		for _, method := range route.Methods {
			permission := models.Permission{
				Name:    route.Path,
				Method:  strings.ToLower(method),
				UserIDs: []uint{},
			}
			if err := s.db.Create(&permission).Error; err != nil {
				log.Printf("Failed to save permission %s %s: %v", permission.Name, permission.Method, err)
				continue
			}
			log.Printf("Permission saved: %s %s", permission.Name, permission.Method)
		}
	}

	log.Println("Permissions initialized.")
	return nil
}

// FindAll returns permissions matching the filter, with the requested
// relations expanded and offset pagination applied.
func (s *PermissionService) FindAll(filter map[string]interface{}, relations []string, page, limit int) *utils.APIResponse {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := s.db.Model(&models.Permission{})
	if len(filter) > 0 {
		query = query.Where(filter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}

	for _, relation := range relations {
		query = query.Preload(relation)
	}

	var permissions []models.Permission
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&permissions).Error
	if err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}

	return utils.Response(200, "Permissions retrieved successfully.", map[string]interface{}{
		"permissions": permissions,
		"total":       total,
	}, nil)
}

func (s *PermissionService) FindByID(id uint) *utils.APIResponse {
	var permission models.Permission
	err := s.db.Preload("Roles").First(&permission, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Response(404, "Permission not found.", nil, nil)
	}
	if err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}
	return utils.Response(200, "", permission, nil)
}

// Create persists an administrative permission and emails every user listed
// in the input that a new permission was granted to them.
func (s *PermissionService) Create(input CreatePermissionInput) *utils.APIResponse {
	var existing models.Permission
	if s.db.Where("name = ?", input.Name).First(&existing).RowsAffected > 0 {
		return utils.Response(400, "A permission with that name already exists.", nil, nil)
	}

	permission := models.Permission{
		Name:      input.Name,
		Method:    strings.ToLower(input.Method),
		UserIDs:   input.UserIDs,
		IsDefault: input.IsDefault,
	}
	if permission.UserIDs == nil {
		permission.UserIDs = []uint{}
	}
	if err := s.db.Create(&permission).Error; err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}

	for _, userID := range permission.UserIDs {
		var user models.User
		if err := s.db.First(&user, userID).Error; err != nil {
			continue
		}
		sendMail(s.mailer, user.Email, "Nuevo permiso otorgado", "permission_granted.html", map[string]interface{}{
			"name":       user.Name + " " + user.LastName,
			"permission": permission.Name,
			"method":     permission.Method,
		})
	}

	return utils.Response(201, "Permission created successfully.", permission, nil)
}

func (s *PermissionService) Update(id uint, input UpdatePermissionInput) *utils.APIResponse {
	var permission models.Permission
	err := s.db.First(&permission, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Response(404, "Permission not found.", nil, nil)
	}
	if err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}

	if input.Name != nil {
		permission.Name = *input.Name
	}
	if input.Method != nil {
		permission.Method = strings.ToLower(*input.Method)
	}
	if input.UserIDs != nil {
		permission.UserIDs = *input.UserIDs
	}
	if input.IsDefault != nil {
		permission.IsDefault = *input.IsDefault
	}

	if err := s.db.Save(&permission).Error; err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}
	return utils.Response(200, "Permission updated successfully.", permission, nil)
}

func (s *PermissionService) Delete(id uint) *utils.APIResponse {
	result := s.db.Delete(&models.Permission{}, id)
	if result.Error != nil {
		return utils.Response(500, "ERROR", nil, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return utils.Response(404, "Permission not found.", nil, nil)
	}
	return utils.Response(200, "Permission deleted successfully.", nil, nil)
}

// CreateBatch processes every item independently: one bad permission lands
// in the error list without aborting the rest.
func (s *PermissionService) CreateBatch(inputs []CreatePermissionInput) *utils.APIResponse {
	created := []models.Permission{}
	batchErrors := []BatchError{}

	for _, input := range inputs {
		permission := models.Permission{
			Name:      input.Name,
			Method:    strings.ToLower(input.Method),
			UserIDs:   input.UserIDs,
			IsDefault: input.IsDefault,
		}
		if permission.UserIDs == nil {
			permission.UserIDs = []uint{}
		}
		if err := s.db.Create(&permission).Error; err != nil {
			batchErrors = append(batchErrors, BatchError{Item: input, Message: err.Error()})
			continue
		}
		created = append(created, permission)
	}

	if len(batchErrors) > 0 {
		return utils.Response(207, "Some permissions could not be created.", created, batchErrors)
	}
	return utils.Response(201, "Permissions created successfully.", created, batchErrors)
}

func (s *PermissionService) UpdateBatch(inputs []UpdatePermissionInput) *utils.APIResponse {
	updated := []models.Permission{}
	batchErrors := []BatchError{}

	for _, input := range inputs {
		resp := s.Update(input.ID, input)
		if resp.Status != 200 {
			batchErrors = append(batchErrors, BatchError{Item: input.ID, Message: resp.Message})
			continue
		}
		updated = append(updated, resp.Data.(models.Permission))
	}

	if len(batchErrors) > 0 {
		return utils.Response(207, "Some permissions could not be updated.", updated, batchErrors)
	}
	return utils.Response(200, "Permissions updated successfully.", updated, batchErrors)
}
