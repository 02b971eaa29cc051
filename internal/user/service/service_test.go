package service

import (
	"context"
	"errors"
	"testing"

	"subtrack/internal/user"
	"subtrack/pkg/hash"
)

type MockUserRepo struct {
	CreateFunc     func(ctx context.Context, u *user.User) error
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	GetByIDFunc    func(ctx context.Context, id int64) (*user.User, error)
}

func (m *MockUserRepo) Create(ctx context.Context, u *user.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, errors.New("not found")
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("not found")
}

func TestRegisterHashesPassword(t *testing.T) {
	var created *user.User
	repo := &MockUserRepo{
		CreateFunc: func(ctx context.Context, u *user.User) error {
			created = u
			return nil
		},
	}
	svc := NewUserService(repo)

	u, err := svc.Register(context.Background(), "a@b.com", "secret123", "Ada", "L")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if created == nil {
		t.Fatal("repository Create was not called")
	}
	if created.Password == "secret123" {
		t.Error("password stored in plaintext")
	}
	if !hash.CheckPassword(created.Password, "secret123") {
		t.Error("stored hash does not verify against the original password")
	}
	if u.Email != "a@b.com" || u.FirstName != "Ada" {
		t.Errorf("returned user = %+v", u)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
			return &user.User{ID: 1, Email: email}, nil
		},
	}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), "a@b.com", "secret123", "", "")
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("Register() error = %v, want ErrUserExists", err)
	}
}

func TestLogin(t *testing.T) {
	hashed, err := hash.HashPassword("secret123")
	if err != nil {
		t.Fatal(err)
	}
	repo := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
			if email != "a@b.com" {
				return nil, errors.New("not found")
			}
			return &user.User{ID: 5, Email: email, Password: hashed}, nil
		},
	}
	svc := NewUserService(repo)

	u, err := svc.Login(context.Background(), "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if u.ID != 5 {
		t.Errorf("user id = %d, want 5", u.ID)
	}

	if _, err := svc.Login(context.Background(), "a@b.com", "wrong"); !errors.Is(err, ErrInvalidCreds) {
		t.Errorf("Login(wrong password) error = %v, want ErrInvalidCreds", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@b.com", "secret123"); !errors.Is(err, ErrInvalidCreds) {
		t.Errorf("Login(unknown email) error = %v, want ErrInvalidCreds", err)
	}
}
