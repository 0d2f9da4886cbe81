package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"shop_backend/internal/feature/auth/domain/entity"
)

const (
	// passwordCost はbcryptのコストです。
	passwordCost = 10

	// dummyHash はユーザーが存在しない場合でも比較を行うためのハッシュです。
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// UserChanges lists the columns a partial user update may touch. Nil fields are left alone.
type UserChanges struct {
	Username     *string
	Gender       *entity.Gender
	Phone        *string
	PasswordHash *string
}

// IsEmpty reports whether no field is set.
func (c UserChanges) IsEmpty() bool {
	return c.Username == nil && c.Gender == nil && c.Phone == nil && c.PasswordHash == nil
}

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化します。
	// ユーザー名またはメールアドレスが重複する場合、ErrUserAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByID はIDでユーザーを取得します。存在しない場合はErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByLogin はユーザー名、または小文字化したメールアドレスに一致するユーザーを取得します。
	FindByLogin(ctx context.Context, identifier string) (*entity.User, error)

	// ExistsByUsernameOrEmail は同じユーザー名またはメールアドレスが登録済みかを返します。
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// List は全ユーザーをID順で返します。
	List(ctx context.Context) ([]entity.User, error)

	// Update は指定されたフィールドのみ更新します。
	Update(ctx context.Context, id uint, changes UserChanges) error

	// Delete はユーザーを削除します。存在しない場合はErrUserNotFoundを返します。
	Delete(ctx context.Context, id uint) error
}

// AdminRepository は管理者エンティティの永続化層を抽象化します。
type AdminRepository interface {
	Create(ctx context.Context, admin *entity.Admin) error
	FindByLogin(ctx context.Context, identifier string) (*entity.Admin, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

// RegisterInput は新規登録の入力です。
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
	Gender          string
}

// ProfileInput はプロフィールの部分更新の入力です。
// パスワードはOldPasswordとNewPasswordの両方が指定された場合のみ変更されます。
type ProfileInput struct {
	Username    *string
	Gender      *string
	Phone       *string
	OldPassword string
	NewPassword string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users  UserRepository
	admins AdminRepository
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, admins AdminRepository) *authUsecase {
	return &authUsecase{
		users:  users,
		admins: admins,
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateUsername(username string) error {
	if username == "" {
		return ErrMissingFields
	}
	if utf8.RuneCountInString(username) > entity.MaxUsernameLength {
		return ErrUsernameTooLong
	}
	return nil
}

func validateGender(gender string) (entity.Gender, error) {
	g := entity.Gender(gender)
	if !g.Valid() {
		return "", ErrInvalidGender
	}
	return g, nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録し、IDを返します。
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (uint, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)

	if username == "" || email == "" || in.Password == "" || in.Gender == "" {
		return 0, ErrMissingFields
	}
	if in.Password != in.ConfirmPassword {
		return 0, ErrPasswordMismatch
	}
	if err := validate.Var(email, "email,max=50"); err != nil {
		return 0, ErrInvalidEmail
	}
	if err := validateUsername(username); err != nil {
		return 0, err
	}
	gender, err := validateGender(in.Gender)
	if err != nil {
		return 0, err
	}

	exists, err := u.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrUserAlreadyExists
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return 0, err
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Phone:    strings.TrimSpace(in.Phone),
		Gender:   gender,
	}
	// 事前チェックと作成の間の競合は一意制約でErrUserAlreadyExistsになる
	if err := u.users.Create(ctx, user); err != nil {
		return 0, err
	}
	return user.ID, nil
}

// compare はハッシュが見つからない場合でもbcrypt比較を実行します。
func compare(hash string, found bool, password string) bool {
	if !found {
		hash = dummyHash
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return found && err == nil
}

// VerifyCredentials はユーザー名またはメールアドレスとパスワードを検証します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) VerifyCredentials(ctx context.Context, identifier, password string) (*entity.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := u.users.FindByLogin(ctx, identifier)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	var hash string
	if user != nil {
		hash = user.Password
	}
	if !compare(hash, user != nil, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// VerifyAdminCredentials は管理者の資格情報を検証します。
func (u *authUsecase) VerifyAdminCredentials(ctx context.Context, identifier, password string) (*entity.Admin, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := u.admins.FindByLogin(ctx, identifier)
	if err != nil && !errors.Is(err, ErrAdminNotFound) {
		return nil, err
	}

	var hash string
	if admin != nil {
		hash = admin.Password
	}
	if !compare(hash, admin != nil, password) {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// newPasswordHash checks oldPassword against the stored hash and returns the hash of newPassword.
func newPasswordHash(stored, oldPassword, newPassword string) (string, error) {
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(oldPassword)) != nil {
		return "", ErrWrongOldPassword
	}
	// 平文同士ではなく保存済みハッシュと比較する
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(newPassword)) == nil {
		return "", ErrSamePassword
	}
	return hashPassword(newPassword)
}

// UpdatePassword は現在のパスワードを検証した上でパスワードを変更します。
func (u *authUsecase) UpdatePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrIncompletePasswordChange
	}
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	hashed, err := newPasswordHash(user.Password, oldPassword, newPassword)
	if err != nil {
		return err
	}
	return u.users.Update(ctx, userID, UserChanges{PasswordHash: &hashed})
}

// GetUser はIDでユーザーを取得します。
func (u *authUsecase) GetUser(ctx context.Context, id uint) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}

// ListUsers は全ユーザーを返します。
func (u *authUsecase) ListUsers(ctx context.Context) ([]entity.User, error) {
	return u.users.List(ctx)
}

func (u *authUsecase) buildChanges(username, gender, phone *string) (UserChanges, error) {
	var changes UserChanges
	if username != nil && strings.TrimSpace(*username) != "" {
		name := strings.TrimSpace(*username)
		if err := validateUsername(name); err != nil {
			return changes, err
		}
		changes.Username = &name
	}
	if gender != nil && *gender != "" {
		g, err := validateGender(*gender)
		if err != nil {
			return changes, err
		}
		changes.Gender = &g
	}
	if phone != nil {
		p := strings.TrimSpace(*phone)
		changes.Phone = &p
	}
	return changes, nil
}

// UpdateProfile は本人によるプロフィールの部分更新を行い、更新後のユーザーを返します。
func (u *authUsecase) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changes, err := u.buildChanges(in.Username, in.Gender, in.Phone)
	if err != nil {
		return nil, err
	}

	switch {
	case in.OldPassword != "" && in.NewPassword != "":
		hashed, err := newPasswordHash(user.Password, in.OldPassword, in.NewPassword)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hashed
	case in.OldPassword != "" || in.NewPassword != "":
		return nil, ErrIncompletePasswordChange
	}

	if !changes.IsEmpty() {
		if err := u.users.Update(ctx, userID, changes); err != nil {
			return nil, err
		}
	}
	return u.users.FindByID(ctx, userID)
}

// UpdateUser は管理者によるユーザー名・性別・電話番号の更新を行います。
func (u *authUsecase) UpdateUser(ctx context.Context, id uint, username, gender, phone *string) (*entity.User, error) {
	if _, err := u.users.FindByID(ctx, id); err != nil {
		return nil, err
	}
	changes, err := u.buildChanges(username, gender, phone)
	if err != nil {
		return nil, err
	}
	if !changes.IsEmpty() {
		if err := u.users.Update(ctx, id, changes); err != nil {
			return nil, err
		}
	}
	return u.users.FindByID(ctx, id)
}

// DeleteUser はユーザーを削除します。
func (u *authUsecase) DeleteUser(ctx context.Context, id uint) error {
	return u.users.Delete(ctx, id)
}

// EnsureDefaultAdmin は同じユーザー名・メールアドレスの管理者がいない場合のみ作成します。
// 作成した場合trueを返します。
func (u *authUsecase) EnsureDefaultAdmin(ctx context.Context, username, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return false, ErrMissingFields
	}

	exists, err := u.admins.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	admin := &entity.Admin{Username: username, Email: email, Password: hashed, Role: entity.RoleAdmin}
	if err := u.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	slog.Info("default admin created", "username", username)
	return true, nil
}
