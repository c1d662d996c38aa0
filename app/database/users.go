package database

import (
	"database/sql"

	"edusphere-extension/app/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password, first_name, last_name, role, is_active, created_at, updated_at
			  FROM users WHERE email = $1 AND is_active = true`

	err := db.QueryRow(query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName,
		&user.LastName, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByID(db *sql.DB, userID string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password, first_name, last_name, role, is_active, created_at, updated_at
			  FROM users WHERE id = $1 AND is_active = true`

	err := db.QueryRow(query, userID).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName,
		&user.LastName, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a directory user, hashing the supplied plain password.
func CreateUser(db *sql.DB, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	hashed, err := hashPassword(user.Password)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (id, email, password, first_name, last_name, role)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = db.Exec(query, user.ID, user.Email, hashed, user.FirstName, user.LastName, string(user.Role))
	return err
}

func UpdateUserPassword(db *sql.DB, userID, hashedPassword string) error {
	query := `UPDATE users SET password = $1, updated_at = now() WHERE id = $2`
	_, err := db.Exec(query, hashedPassword, userID)
	return err
}

// Directory wraps the user queries behind an injectable value so handlers
// and the edusphere client can be tested with fakes.
type Directory struct {
	db *sql.DB
}

func NewDirectory(db *sql.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) UserByEmail(email string) (*models.User, error) {
	return GetUserByEmail(d.db, email)
}

func (d *Directory) UserByID(userID string) (*models.User, error) {
	return GetUserByID(d.db, userID)
}
