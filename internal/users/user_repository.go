package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"toolmove/internal/repository"
	custom_error "toolmove/pkg/errors"
	"toolmove/pkg/models"
	"toolmove/pkg/roles"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

type UserRepository interface {
	PersistUser(ctx context.Context, req models.CreateUserRequest, hashedPassword []byte) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, changes *models.UserChanges) error
	DeleteUser(ctx context.Context, id string) error
}

var userColumns = []interface{}{"id", "email", "fullname", "department", "password_hash", "role", "created_at"}

// PostgresRepository also serves login lookups, admin seeding and notification recipients.
type PostgresRepository struct {
	repository *repository.Repository
	now        func() time.Time
}

func NewRepository(r *repository.Repository) *PostgresRepository {
	return &PostgresRepository{repository: r, now: time.Now}
}

func (r *PostgresRepository) PersistUser(ctx context.Context, req models.CreateUserRequest, hashedPassword []byte) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = roles.User
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Fullname:     req.Fullname,
		Department:   req.Department,
		PasswordHash: string(hashedPassword),
		Role:         role,
		CreatedAt:    r.now().UTC(),
	}

	_, err := r.repository.GoquDBWrapper.Insert("users").
		Rows(goqu.Record{
			"id":            user.ID,
			"email":         user.Email,
			"fullname":      user.Fullname,
			"department":    user.Department,
			"password_hash": user.PasswordHash,
			"role":          string(user.Role),
			"created_at":    user.CreatedAt,
		}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", custom_error.FromPQ(err))
	}

	return user, nil
}

// EnsureUser inserts the account unless the email is already taken and reports whether it did.
func (r *PostgresRepository) EnsureUser(ctx context.Context, email string, hashedPassword []byte, role roles.Role) (bool, error) {
	result, err := r.repository.GoquDBWrapper.Insert("users").
		Rows(goqu.Record{
			"id":            uuid.NewString(),
			"email":         strings.ToLower(strings.TrimSpace(email)),
			"password_hash": string(hashedPassword),
			"role":          string(role),
			"created_at":    r.now().UTC(),
		}).
		OnConflict(goqu.DoNothing()).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to seed user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

func (r *PostgresRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	query := r.repository.GoquDBWrapper.Select(userColumns...).
		From("users").
		Order(goqu.I("created_at").Desc())

	if err := query.Executor().ScanStructsContext(ctx, &users); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return users, nil
}

// ListUserIDs returns every registered user id, the recipients of a broadcast.
func (r *PostgresRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	query := r.repository.GoquDBWrapper.Select("id").
		From("users").
		Order(goqu.I("created_at").Asc())

	if err := query.Executor().ScanValsContext(ctx, &ids); err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}

	return ids, nil
}

func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	if !repository.IsUUID(id) {
		return nil, repository.ErrNotFound
	}
	return r.getUserBy(ctx, goqu.Ex{"id": id})
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUserBy(ctx, goqu.Ex{"email": email})
}

func (r *PostgresRepository) getUserBy(ctx context.Context, where goqu.Ex) (*models.User, error) {
	var user models.User
	query := r.repository.GoquDBWrapper.Select(userColumns...).
		From("users").
		Where(where)

	found, err := query.Executor().ScanStructContext(ctx, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, repository.ErrNotFound
	}

	return &user, nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, id string, changes *models.UserChanges) error {
	if !repository.IsUUID(id) {
		return repository.ErrNotFound
	}

	record := goqu.Record{}
	if changes.Email != nil {
		record["email"] = strings.ToLower(strings.TrimSpace(*changes.Email))
	}
	if changes.PasswordHash != nil {
		record["password_hash"] = *changes.PasswordHash
	}
	if changes.Fullname != nil {
		record["fullname"] = *changes.Fullname
	}
	if changes.Department != nil {
		record["department"] = *changes.Department
	}
	if changes.Role != nil {
		record["role"] = *changes.Role
	}
	if len(record) == 0 {
		return nil
	}

	result, err := r.repository.GoquDBWrapper.Update("users").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", custom_error.FromPQ(err))
	}

	return repository.ExpectAffected(result)
}

func (r *PostgresRepository) DeleteUser(ctx context.Context, id string) error {
	if !repository.IsUUID(id) {
		return repository.ErrNotFound
	}

	result, err := r.repository.GoquDBWrapper.Delete("users").
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return repository.ExpectAffected(result)
}
