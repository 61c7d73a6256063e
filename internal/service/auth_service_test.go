package service

import (
	"errors"
	"testing"

	"go-password-vault/internal/model"
	"go-password-vault/internal/repository"
	"go-password-vault/internal/vaulterrors"
	"go-password-vault/pkg/config"
	"go-password-vault/pkg/db"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	if err := config.InitTest(); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	// 配置测试数据库连接
	if err := db.InitDB(); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	cleanupAllTables(t)
}

// 帮助函数：清空全部表数据
func cleanupAllTables(t *testing.T) {
	session := db.DB.Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := db.DB.Exec("DELETE FROM user_organizations").Error; err != nil {
		t.Logf("Failed to cleanup user_organizations table: %v", err)
	}
	if err := db.DB.Exec("DELETE FROM organization_passwords").Error; err != nil {
		t.Logf("Failed to cleanup organization_passwords table: %v", err)
	}
	for _, m := range []interface{}{&model.Share{}, &model.Password{}, &model.Organization{}, &model.User{}} {
		if err := session.Unscoped().Delete(m).Error; err != nil {
			t.Logf("Failed to cleanup table for %T: %v", m, err)
		}
	}
}

// 帮助函数：直接创建测试用户
func createServiceTestUser(t *testing.T, email string) *model.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &model.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: "Test",
		LastName:  "User",
	}
	if err := repository.NewUserRepository().Create(user); err != nil {
		t.Fatalf("Failed to create test user %s: %v", email, err)
	}
	return user
}

func TestAuthService_Register(t *testing.T) {
	setupTestDB(t)
	userRepo := repository.NewUserRepository()
	service := NewAuthService(userRepo)

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{
			name: "Valid registration",
			req: RegisterRequest{
				FirstName:       "Ada",
				LastName:        "Lovelace",
				Email:           "ada@example.com",
				Password:        "password123",
				ConfirmPassword: "password123",
			},
		},
		{
			name: "Duplicate email",
			req: RegisterRequest{
				FirstName:       "Other",
				LastName:        "Person",
				Email:           "ada@example.com",
				Password:        "password123",
				ConfirmPassword: "password123",
			},
			wantErr: vaulterrors.ErrConflict,
		},
		{
			name: "Password mismatch",
			req: RegisterRequest{
				FirstName:       "Grace",
				LastName:        "Hopper",
				Email:           "grace@example.com",
				Password:        "password123",
				ConfirmPassword: "different456",
			},
			wantErr: vaulterrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := service.Register(tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("Register() error = %v", err)
				return
			}
			if user == nil {
				t.Fatal("Register() returned nil user for successful registration")
			}
			if user.Email != tt.req.Email {
				t.Errorf("Register() got email = %v, want %v", user.Email, tt.req.Email)
			}
			if user.Password == tt.req.Password {
				t.Error("Register() stored plaintext login password")
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	setupTestDB(t)
	userRepo := repository.NewUserRepository()
	service := NewAuthService(userRepo)

	// 先注册一个测试用户
	_, err := service.Register(RegisterRequest{
		FirstName:       "Login",
		LastName:        "Test",
		Email:           "login@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	tests := []struct {
		name    string
		req     LoginRequest
		wantErr bool
	}{
		{
			name: "Valid login",
			req: LoginRequest{
				Email:    "login@example.com",
				Password: "password123",
			},
			wantErr: false,
		},
		{
			name: "Unknown email",
			req: LoginRequest{
				Email:    "nonexistent@example.com",
				Password: "password123",
			},
			wantErr: true,
		},
		{
			name: "Invalid password",
			req: LoginRequest{
				Email:    "login@example.com",
				Password: "wrongpassword",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, user, err := service.Login(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("Login() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if token == "" {
					t.Error("Login() returned empty token for successful login")
				}
				if user == nil {
					t.Error("Login() returned nil user for successful login")
				}
			}
		})
	}
}
