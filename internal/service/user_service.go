package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const entityUser = "User"

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role model.UserRole) error
	UpsertDoctorProfile(ctx context.Context, profile *model.DoctorProfile) error
	GetDoctorProfile(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error)
	GetDoctor(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
	ListDoctorsByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Doctor, error)
}

// UserService handles accounts, authentication and doctor assignment.
type UserService struct {
	users     UserStore
	records   HealthRecordStore
	audit     *AuditService
	jwtSecret []byte
	jwtExpiry time.Duration
	logger    *zap.Logger
}

func NewUserService(users UserStore, records HealthRecordStore, audit *AuditService, jwtSecret string, jwtExpiry time.Duration, logger *zap.Logger) *UserService {
	return &UserService{
		users:     users,
		records:   records,
		audit:     audit,
		jwtSecret: []byte(jwtSecret),
		jwtExpiry: jwtExpiry,
		logger:    logger,
	}
}

// AccessClaims is the JWT payload issued at login.
type AccessClaims struct {
	UserID uuid.UUID      `json:"user_id"`
	Role   model.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type RegisterRequest struct {
	UserName    string
	Email       string
	Password    string
	DateOfBirth time.Time
	Gender      model.Gender
	Province    string
	District    string
	Address     string
	PhoneNumber string
}

// Register creates a new account with the plain user role.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if req.UserName == "" || req.Email == "" || req.Password == "" {
		return nil, badRequest(MsgMissingRequiredFields)
	}

	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if existing != nil {
		return nil, badRequest(MsgEmailInUse)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		UserName:    req.UserName,
		Email:       req.Email,
		Password:    string(hash),
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Province:    req.Province,
		District:    req.District,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Role:        model.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// The empty health record is filled in by the user later; failing to
	// seed it must not fail the registration.
	if err := s.records.Create(ctx, &model.HealthRecord{UserID: user.ID}); err != nil {
		s.logger.Error("Failed to create health record",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, badRequest(MsgMissingRequiredFields)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("get user by email: %w", err)
	}
	if user == nil {
		return "", nil, badRequest(MsgInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, badRequest(MsgInvalidCredentials)
	}

	now := time.Now()
	claims := AccessClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign access token: %w", err)
	}

	return token, user, nil
}

// ParseAccessToken validates a token and returns its claims.
func (s *UserService) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid access token")
	}

	return claims, nil
}

// GetByID returns one user.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, notFound(MsgUserNotFound)
	}
	return user, nil
}

type PromoteToDoctorRequest struct {
	UserID           uuid.UUID
	ClinicID         *uuid.UUID
	MedicalServiceID *uuid.UUID
	Specialty        string
	Qualification    string
}

// PromoteToDoctor turns a plain user into a doctor with an assignment
// profile. Admin only.
func (s *UserService) PromoteToDoctor(ctx context.Context, actor model.ActorContext, req PromoteToDoctorRequest) (*model.Doctor, error) {
	if !actor.IsAdmin() {
		return nil, forbidden(MsgForbidden)
	}
	if req.UserID == uuid.Nil || req.Specialty == "" {
		return nil, badRequest(MsgMissingRequiredFields)
	}

	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, notFound(MsgUserNotFound)
	}
	if user.Role == model.RoleDoctor {
		return nil, badRequest(MsgUserAlreadyDoctor)
	}

	if err := s.users.UpdateRole(ctx, req.UserID, model.RoleDoctor); err != nil {
		return nil, fmt.Errorf("update user role: %w", err)
	}

	profile := &model.DoctorProfile{
		UserID:           req.UserID,
		ClinicID:         req.ClinicID,
		MedicalServiceID: req.MedicalServiceID,
		Specialty:        req.Specialty,
		Qualification:    req.Qualification,
	}
	if err := s.users.UpsertDoctorProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert doctor profile: %w", err)
	}

	s.audit.Record(ctx, &req.UserID, model.AuditUpdate,
		"Promote user to doctor", actor.UserID, entityUser, req.UserID)

	s.logger.Info("User promoted to doctor",
		zap.String("user_id", req.UserID.String()),
	)

	return s.users.GetDoctor(ctx, req.UserID)
}

type AssignDoctorRequest struct {
	DoctorID         uuid.UUID
	ClinicID         *uuid.UUID
	MedicalServiceID *uuid.UUID
	Specialty        *string
	Qualification    *string
}

// AssignDoctor moves a doctor's clinic and service assignment. Admin only.
// Fields left nil are unchanged.
func (s *UserService) AssignDoctor(ctx context.Context, actor model.ActorContext, req AssignDoctorRequest) (*model.Doctor, error) {
	if !actor.IsAdmin() {
		return nil, forbidden(MsgForbidden)
	}

	profile, err := s.users.GetDoctorProfile(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("get doctor profile: %w", err)
	}
	if profile == nil {
		return nil, notFound(MsgDoctorNotFound)
	}

	if req.ClinicID != nil {
		profile.ClinicID = req.ClinicID
	}
	if req.MedicalServiceID != nil {
		profile.MedicalServiceID = req.MedicalServiceID
	}
	if req.Specialty != nil {
		profile.Specialty = *req.Specialty
	}
	if req.Qualification != nil {
		profile.Qualification = *req.Qualification
	}

	if err := s.users.UpsertDoctorProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert doctor profile: %w", err)
	}

	s.audit.Record(ctx, &req.DoctorID, model.AuditUpdate,
		"Update doctor assignment", actor.UserID, entityUser, req.DoctorID)

	return s.users.GetDoctor(ctx, req.DoctorID)
}

// GetDoctor returns the joined user+profile view of one doctor.
func (s *UserService) GetDoctor(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.users.GetDoctor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if doctor == nil {
		return nil, notFound(MsgDoctorNotFound)
	}
	return doctor, nil
}

// ListDoctorsByClinic returns the doctors attached to a clinic.
func (s *UserService) ListDoctorsByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Doctor, error) {
	return s.users.ListDoctorsByClinic(ctx, clinicID)
}
