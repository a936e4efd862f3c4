package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alexvillacis/instituciones-app/models"
	"github.com/alexvillacis/instituciones-app/utils"
)

type CreateUserInput struct {
	Name     string  `json:"name"`
	LastName string  `json:"last_name"`
	DNI      *string `json:"dni"`
	Phone    string  `json:"phone"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Photo    string  `json:"photo"`
	RoleID   uint    `json:"role_id"`
}

type UpdateUserInput struct {
	ID       uint    `json:"id"`
	Name     *string `json:"name"`
	LastName *string `json:"last_name"`
	DNI      *string `json:"dni"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Photo    *string `json:"photo"`
	Status   *bool   `json:"status"`
	Verified *bool   `json:"verificado"`
	RoleID   *uint   `json:"role_id"`
}

type UserService struct {
	db     *gorm.DB
	roles  *RoleService
	mailer Mailer
}

func NewUserService(db *gorm.DB, roles *RoleService, mailer Mailer) *UserService {
	return &UserService{db: db, roles: roles, mailer: mailer}
}

func (s *UserService) FindAll(filter map[string]interface{}, relations []string) *utils.APIResponse {
	query := s.db.Model(&models.User{})
	if len(filter) > 0 {
		query = query.Where(filter)
	}
	for _, relation := range relations {
		query = query.Preload(relation)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}
	return utils.Response(200, "Users retrieved successfully.", users, nil)
}

func (s *UserService) FindByID(id uint) *utils.APIResponse {
	var user models.User
	err := s.db.Preload("Role").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Response(404, "User not found.", nil, nil)
	}
	if err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}
	return utils.Response(200, "User retrieved successfully.", user, nil)
}

// Create registers a user. Missing role falls back to the default role; a
// duplicate email or dni is reported as a recovered business outcome, not an
// internal error. The welcome email is best-effort.
func (s *UserService) Create(input CreateUserInput) *utils.APIResponse {
	user := models.User{
		Name:     input.Name,
		LastName: input.LastName,
		DNI:      input.DNI,
		Phone:    input.Phone,
		Email:    input.Email,
		Photo:    input.Photo,
		RoleID:   input.RoleID,
		Status:   true,
	}

	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return utils.Response(500, "Failed to hash password.", nil, err.Error())
		}
		user.Password = string(hashed)
	}

	if user.RoleID == 0 {
		defaultRole, err := s.roles.GetDefaultRole()
		if err != nil {
			return utils.Response(500, "ERROR", nil, err.Error())
		}
		if defaultRole == nil {
			return utils.Response(400, "No default role found.", nil, nil)
		}
		user.RoleID = defaultRole.ID
	}

	// Admin-created accounts start unverified and get a code to confirm with.
	user.VerificationCode = utils.GenerateVerificationCode()

	if err := s.db.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return utils.Response(400, "The user already exists.", nil, nil)
		}
		return utils.Response(500, "Failed to create the user.", nil, err.Error())
	}

	sendMail(s.mailer, user.Email, "Nuevo usuario registrado", "welcome.html", map[string]interface{}{
		"name":      user.Name,
		"last_name": user.LastName,
		"email":     user.Email,
	})

	return utils.Response(201, "User created successfully.", user, nil)
}

// Update applies the partial update and emails the user: a role change gets
// the role-change notice with the new role's name, anything else a plain
// account-update notice.
func (s *UserService) Update(id uint, input UpdateUserInput) *utils.APIResponse {
	var user models.User
	err := s.db.Preload("Role").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Response(404, "User not found.", nil, nil)
	}
	if err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}
	priorRoleID := user.RoleID

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.DNI != nil {
		updates["dni"] = *input.DNI
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Photo != nil {
		updates["photo"] = *input.Photo
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Verified != nil {
		updates["verified"] = *input.Verified
	}
	if input.RoleID != nil {
		updates["role_id"] = *input.RoleID
	}
	if input.Password != nil && *input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return utils.Response(500, "Failed to hash password.", nil, err.Error())
		}
		updates["password"] = string(hashed)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			if isDuplicateKey(err) {
				return utils.Response(400, "The user already exists.", nil, nil)
			}
			return utils.Response(500, "ERROR", nil, err.Error())
		}
	}

	var updated models.User
	if err := s.db.Preload("Role").First(&updated, id).Error; err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}

	if updated.RoleID != priorRoleID {
		sendMail(s.mailer, updated.Email, "Cambio de rol", "role_change.html", map[string]interface{}{
			"name": updated.Name,
			"role": updated.Role.Name,
		})
	} else {
		sendMail(s.mailer, updated.Email, "Actualización de información", "update_account.html", map[string]interface{}{
			"name": updated.Name,
		})
	}

	return utils.Response(200, "User updated successfully.", updated, nil)
}

func (s *UserService) Delete(id uint) *utils.APIResponse {
	var user models.User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Response(404, "User not found.", nil, nil)
	}
	if err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}

	// Social identities cascade with the user.
	if err := s.db.Where("user_id = ?", id).Delete(&models.SocialNetwork{}).Error; err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}
	if err := s.db.Delete(&user).Error; err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}

	sendMail(s.mailer, user.Email, "Eliminación de cuenta", "account_deleted.html", map[string]interface{}{
		"name":      user.Name,
		"last_name": user.LastName,
		"email":     user.Email,
	})

	return utils.Response(200, "User deleted successfully.", user, nil)
}

func (s *UserService) CreateBatch(inputs []CreateUserInput) *utils.APIResponse {
	created := []models.User{}
	batchErrors := []BatchError{}

	for _, input := range inputs {
		resp := s.Create(input)
		if resp.Status != 201 {
			batchErrors = append(batchErrors, BatchError{Item: input.Email, Message: resp.Message})
			continue
		}
		created = append(created, resp.Data.(models.User))
	}

	if len(batchErrors) > 0 {
		return utils.Response(207, "Some users could not be created.", created, batchErrors)
	}
	return utils.Response(201, "Users created successfully.", created, batchErrors)
}

func (s *UserService) UpdateBatch(inputs []UpdateUserInput) *utils.APIResponse {
	updated := []models.User{}
	batchErrors := []BatchError{}

	for _, input := range inputs {
		resp := s.Update(input.ID, input)
		if resp.Status != 200 {
			batchErrors = append(batchErrors, BatchError{Item: input.ID, Message: resp.Message})
			continue
		}
		updated = append(updated, resp.Data.(models.User))
	}

	if len(batchErrors) > 0 {
		return utils.Response(207, "Some users could not be updated.", updated, batchErrors)
	}
	return utils.Response(200, "Users updated successfully.", updated, batchErrors)
}
