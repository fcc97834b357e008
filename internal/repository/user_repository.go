package repository

import (
	"context"
	"fmt"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, user_name, email, password, date_of_birth, gender, province, district, address, phone_number, avatar, role, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.UserName,
		&user.Email,
		&user.Password,
		&user.DateOfBirth,
		&user.Gender,
		&user.Province,
		&user.District,
		&user.Address,
		&user.PhoneNumber,
		&user.Avatar,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (user_name, email, password, date_of_birth, gender, province, district, address, phone_number, avatar, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		user.UserName,
		user.Email,
		user.Password,
		user.DateOfBirth,
		user.Gender,
		user.Province,
		user.District,
		user.Address,
		user.PhoneNumber,
		user.Avatar,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID returns a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// GetByEmail returns a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

// UpdateRole changes a user's role.
func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.UserRole) error {
	query := `UPDATE users SET role = $1, updated_at = now() WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, role, id)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// UpsertDoctorProfile creates or replaces a doctor profile.
func (r *UserRepository) UpsertDoctorProfile(ctx context.Context, profile *model.DoctorProfile) error {
	query := `
		INSERT INTO doctor_profiles (user_id, clinic_id, medical_service_id, specialty, qualification)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET clinic_id = EXCLUDED.clinic_id,
		    medical_service_id = EXCLUDED.medical_service_id,
		    specialty = EXCLUDED.specialty,
		    qualification = EXCLUDED.qualification,
		    updated_at = now()
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		profile.UserID,
		profile.ClinicID,
		profile.MedicalServiceID,
		profile.Specialty,
		profile.Qualification,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert doctor profile: %w", err)
	}

	return nil
}

// GetDoctorProfile returns the doctor profile for a user.
func (r *UserRepository) GetDoctorProfile(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	query := `
		SELECT user_id, clinic_id, medical_service_id, specialty, qualification, created_at, updated_at
		FROM doctor_profiles
		WHERE user_id = $1
	`

	var profile model.DoctorProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.ClinicID,
		&profile.MedicalServiceID,
		&profile.Specialty,
		&profile.Qualification,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get doctor profile: %w", err)
	}

	return &profile, nil
}

const doctorColumns = `
	u.id, u.user_name, u.email, u.password, u.date_of_birth, u.gender, u.province, u.district, u.address, u.phone_number, u.avatar, u.role, u.created_at, u.updated_at,
	p.user_id, p.clinic_id, p.medical_service_id, p.specialty, p.qualification, p.created_at, p.updated_at
`

func scanDoctor(row pgx.Row) (*model.Doctor, error) {
	var doctor model.Doctor
	err := row.Scan(
		&doctor.User.ID,
		&doctor.User.UserName,
		&doctor.User.Email,
		&doctor.User.Password,
		&doctor.User.DateOfBirth,
		&doctor.User.Gender,
		&doctor.User.Province,
		&doctor.User.District,
		&doctor.User.Address,
		&doctor.User.PhoneNumber,
		&doctor.User.Avatar,
		&doctor.User.Role,
		&doctor.User.CreatedAt,
		&doctor.User.UpdatedAt,
		&doctor.Profile.UserID,
		&doctor.Profile.ClinicID,
		&doctor.Profile.MedicalServiceID,
		&doctor.Profile.Specialty,
		&doctor.Profile.Qualification,
		&doctor.Profile.CreatedAt,
		&doctor.Profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

// GetDoctor returns the joined user+profile view of a doctor.
func (r *UserRepository) GetDoctor(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM users u
		JOIN doctor_profiles p ON p.user_id = u.id
		WHERE u.id = $1
	`

	doctor, err := scanDoctor(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get doctor: %w", err)
	}

	return doctor, nil
}

// CountDoctorsByClinic counts the doctors attached to a clinic.
func (r *UserRepository) CountDoctorsByClinic(ctx context.Context, clinicID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM doctor_profiles WHERE clinic_id = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, clinicID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count doctors by clinic: %w", err)
	}

	return count, nil
}

// ListDoctorsByClinic returns all doctors attached to a clinic.
func (r *UserRepository) ListDoctorsByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM users u
		JOIN doctor_profiles p ON p.user_id = u.id
		WHERE p.clinic_id = $1
		ORDER BY u.user_name
	`

	rows, err := r.pool.Query(ctx, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("list doctors by clinic: %w", err)
	}
	defer rows.Close()

	var doctors []*model.Doctor
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, doctor)
	}

	return doctors, nil
}

// ListDoctorsByClinicAndService returns the doctors attached to a clinic for
// one medical service.
func (r *UserRepository) ListDoctorsByClinicAndService(ctx context.Context, clinicID, medicalServiceID uuid.UUID) ([]*model.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM users u
		JOIN doctor_profiles p ON p.user_id = u.id
		WHERE p.clinic_id = $1 AND p.medical_service_id = $2
		ORDER BY u.user_name
	`

	rows, err := r.pool.Query(ctx, query, clinicID, medicalServiceID)
	if err != nil {
		return nil, fmt.Errorf("list doctors by clinic and service: %w", err)
	}
	defer rows.Close()

	var doctors []*model.Doctor
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, doctor)
	}

	return doctors, nil
}
