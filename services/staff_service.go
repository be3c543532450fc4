package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-booking/events"
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type StaffInput struct {
	Email       string   `json:"email" binding:"required" validate:"required,email"`
	Password    string   `json:"password" binding:"required" validate:"required,min=6"`
	FullName    string   `json:"full_name" binding:"required" validate:"required"`
	PhoneNumber *string  `json:"phone_number"`
	HourlyRate  *float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
}

type StaffService struct {
	DB     *gorm.DB
	Events events.Publisher
}

func NewStaffService(db *gorm.DB) *StaffService {
	return &StaffService{DB: db, Events: events.Noop{}}
}

// CreateAccount creates the login identity and then its role. If the role
// cannot be stored the identity is deleted again.
func (s *StaffService) CreateAccount(ctx context.Context, in StaffInput, role string) (*models.UserRole, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	if err := validate(in); err != nil {
		return nil, err
	}

	var taken int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", in.Email).Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{Email: in.Email, Password: string(hashed)}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	userRole := models.UserRole{
		UserID:      user.ID,
		Role:        role,
		FullName:    in.FullName,
		PhoneNumber: in.PhoneNumber,
		HourlyRate:  in.HourlyRate,
	}
	if err := validate(userRole); err != nil {
		s.rollbackUser(ctx, user.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrRoleAssignment, err)
	}
	if err := s.DB.WithContext(ctx).Create(&userRole).Error; err != nil {
		s.rollbackUser(ctx, user.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrRoleAssignment, err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{"user_id": user.ID, "role": role}).
		Printf("Account created for %s", user.Email)
	if err := s.Events.Publish(ctx, events.EventStaffCreated, user.ID, userRole); err != nil {
		utils.ErrorLogger.Printf("Error publishing %s: %v", events.EventStaffCreated, err)
	}
	return &userRole, nil
}

func (s *StaffService) CreateStaff(ctx context.Context, in StaffInput) (*models.UserRole, error) {
	return s.CreateAccount(ctx, in, utils.RoleStaff)
}

func (s *StaffService) rollbackUser(ctx context.Context, userID string, cause error) {
	utils.ErrorLogger.Printf("Role assignment for %s failed, deleting identity: %v", userID, cause)
	if err := s.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", userID).Error; err != nil {
		utils.ErrorLogger.Printf("Error deleting identity %s: %v", userID, err)
	}
}

// EnsureOwner creates the owner account on first start.
func (s *StaffService) EnsureOwner(ctx context.Context, email, password, fullName string) error {
	if email == "" || password == "" {
		return nil
	}
	var owners int64
	if err := s.DB.WithContext(ctx).Model(&models.UserRole{}).Where("role = ?", utils.RoleOwner).Count(&owners).Error; err != nil {
		return err
	}
	if owners > 0 {
		return nil
	}
	_, err := s.CreateAccount(ctx, StaffInput{Email: email, Password: password, FullName: fullName}, utils.RoleOwner)
	return err
}

func (s *StaffService) ListStaff(ctx context.Context) ([]models.UserRole, error) {
	var roles []models.UserRole
	err := s.DB.WithContext(ctx).
		Where("role = ?", utils.RoleStaff).
		Order("full_name ASC").
		Find(&roles).Error
	return roles, err
}

// UpdateRate changes the hourly rate used for payroll estimates.
func (s *StaffService) UpdateRate(ctx context.Context, userID string, rate float64) (*models.UserRole, error) {
	if rate < 0 {
		return nil, fieldError("HourlyRate", "Minimum is 0")
	}
	role, err := s.Role(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(role).Update("hourly_rate", rate).Error; err != nil {
		return nil, err
	}
	role.HourlyRate = &rate
	return role, nil
}

func (s *StaffService) Role(ctx context.Context, userID string) (*models.UserRole, error) {
	var role models.UserRole
	if err := s.DB.WithContext(ctx).First(&role, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// Authenticate checks email and password and returns the identity with its role.
func (s *StaffService) Authenticate(ctx context.Context, email, password string) (*models.User, *models.UserRole, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	role, err := s.Role(ctx, user.ID)
	if err != nil {
		// an identity without a role cannot use the portal
		return nil, nil, ErrInvalidCredentials
	}
	return &user, role, nil
}
