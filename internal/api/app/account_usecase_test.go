package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"workwhiz/internal/api/app"
	"workwhiz/internal/api/domain/entities"
	"workwhiz/internal/api/domain/services"
	"workwhiz/internal/api/ports/api"
	"workwhiz/internal/queue"
	"workwhiz/internal/transform"
	"workwhiz/internal/validation"
	"workwhiz/pkg/logger"
)

const strongPassword = "Str0ng!Passw0rd"

type fixture struct {
	users     *mockUserRepository
	profiles  *mockProfileRepository
	tx        *inlineTx
	passwords *mockPasswordService
	tokens    *mockTokenService
	emails    *mockEmailQueue
	svc       api.AccountService
}

func newFixture() *fixture {
	f := &fixture{
		users:     &mockUserRepository{},
		profiles:  &mockProfileRepository{},
		tx:        &inlineTx{},
		passwords: &mockPasswordService{},
		tokens:    &mockTokenService{},
		emails:    &mockEmailQueue{},
	}
	f.svc = app.NewAccountUseCase(
		validation.NewPipeline(validation.MustRegistry()),
		transform.New(),
		f.users, f.profiles, f.tx, f.passwords, f.tokens, f.emails,
		func(role entities.Role) string { return "https://" + string(role) + ".workwhiz.test" },
	)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.users.AssertExpectations(t)
	f.profiles.AssertExpectations(t)
	f.passwords.AssertExpectations(t)
	f.tokens.AssertExpectations(t)
	f.emails.AssertExpectations(t)
}

func testCtx() context.Context {
	return logger.NewContext(context.Background(), logger.NewNop())
}

func candidateInput() map[string]any {
	return map[string]any{
		"email":     "john@gmail.com",
		"phone":     "+27821234567",
		"firstName": "John",
		"lastName":  "Doe",
		"title":     "Software Engineer",
		"isAdmin":   true,
	}
}

func TestRegister_Candidate(t *testing.T) {
	ctx := testCtx()
	f := newFixture()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	user := &entities.User{ID: "user-1", Email: "john@gmail.com", Phone: "+27821234567", Role: entities.RoleCandidate, CreatedAt: now, UpdatedAt: now}

	f.users.On("ExistsByEmail", mock.Anything, "john@gmail.com").Return(false, nil)
	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
		return u.Email == "john@gmail.com" && u.Role == entities.RoleCandidate && !u.IsActive && !u.HasPassword()
	})).Return(user, nil)
	f.profiles.On("CreateCandidate", mock.Anything, mock.MatchedBy(func(c *entities.Candidate) bool {
		return c.UserID == "user-1" && c.FirstName == "John" && c.Title == "Software Engineer"
	})).Return(&entities.Candidate{
		ID: "cand-1", UserID: "user-1", FirstName: "John", LastName: "Doe", Title: "Software Engineer",
		CreatedAt: now, UpdatedAt: now,
	}, nil)
	f.tokens.On("Issue", mock.Anything, services.TokenClaims{
		UserID: "user-1", Email: "john@gmail.com", Role: "candidate", Purpose: services.PurposePasswordSetup,
	}).Return("a+b", nil)
	f.emails.On("Enqueue", mock.Anything, mock.MatchedBy(func(j queue.EmailJob) bool {
		return j.Email == "john@gmail.com" &&
			j.Subject == app.SubjectPasswordSetup &&
			j.Template.Name == queue.TemplatePasswordSetup &&
			j.Template.Content.URI == "https://candidate.workwhiz.test/auth/setup-password?token=a%2Bb" &&
			j.Template.Content.Username == "John"
	})).Return("job-1", nil)

	dto, err := f.svc.Register(ctx, entities.RoleCandidate, candidateInput())
	require.NoError(t, err)

	assert.Equal(t, "cand-1", dto["id"])
	assert.Equal(t, "John Doe", dto["fullName"])
	assert.Equal(t, []string{}, dto["skills"])
	assert.NotContains(t, dto, "userId")

	nested, ok := dto["user"].(transform.DTO)
	require.True(t, ok)
	assert.Equal(t, "inactive", nested["status"])
	assert.NotContains(t, nested, "password")

	assert.Equal(t, 1, f.tx.calls)
	f.assertExpectations(t)
}

func TestRegister_EmployerMapsCompanyToName(t *testing.T) {
	ctx := testCtx()
	f := newFixture()

	user := &entities.User{ID: "user-2", Email: "hr@acme.co.za", Role: entities.RoleEmployer}
	f.users.On("ExistsByEmail", mock.Anything, "hr@acme.co.za").Return(false, nil)
	f.users.On("Create", mock.Anything, mock.Anything).Return(user, nil)
	f.profiles.On("CreateEmployer", mock.Anything, mock.MatchedBy(func(e *entities.Employer) bool {
		return e.Name == "Acme" && e.Industry == "Retail"
	})).Return(&entities.Employer{ID: "emp-1", UserID: "user-2", Name: "Acme", Industry: "Retail"}, nil)
	f.tokens.On("Issue", mock.Anything, mock.Anything).Return("tok", nil)
	f.emails.On("Enqueue", mock.Anything, mock.MatchedBy(func(j queue.EmailJob) bool {
		return j.Template.Content.Username == "Acme"
	})).Return("job-2", nil)

	dto, err := f.svc.Register(ctx, entities.RoleEmployer, map[string]any{
		"email":    "hr@acme.co.za",
		"phone":    "0821234567",
		"company":  "Acme",
		"industry": "Retail",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", dto["name"])
	assert.Equal(t, map[string]any{"name": "Acme", "industry": "Retail", "size": nil, "founded": nil}, dto["companyInfo"])
	f.assertExpectations(t)
}

func TestRegister_Admin(t *testing.T) {
	ctx := testCtx()
	f := newFixture()

	user := &entities.User{ID: "user-3", Email: "root@workwhiz.io", Role: entities.RoleAdmin}
	f.users.On("ExistsByEmail", mock.Anything, "root@workwhiz.io").Return(false, nil)
	f.users.On("Create", mock.Anything, mock.Anything).Return(user, nil)
	f.profiles.On("CreateAdmin", mock.Anything, mock.MatchedBy(func(a *entities.Admin) bool {
		return assert.ObjectsAreEqual(entities.AdminPermissions, a.Permissions)
	})).Return(&entities.Admin{ID: "adm-1", UserID: "user-3", FirstName: "Ada", LastName: "Root", Permissions: entities.AdminPermissions}, nil)
	f.tokens.On("Issue", mock.Anything, mock.Anything).Return("tok", nil)
	f.emails.On("Enqueue", mock.Anything, mock.Anything).Return("job-3", nil)

	dto, err := f.svc.Register(ctx, entities.RoleAdmin, map[string]any{
		"email":     "root@workwhiz.io",
		"phone":     "0721234567",
		"firstName": "Ada",
		"lastName":  "Root",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.AdminPermissions, dto["permissions"])
	f.assertExpectations(t)
}

func TestRegister_ValidationFailure(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Register(testCtx(), entities.RoleCandidate, map[string]any{})

	var verr *app.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, app.ErrValidation)
	assert.Len(t, verr.Messages, 8)
	assert.Equal(t, "Email is required", verr.Messages[0])
	f.assertExpectations(t)
}

func TestRegister_Errors(t *testing.T) {
	t.Run("неизвестная роль", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Register(testCtx(), entities.Role("guest"), candidateInput())
		assert.ErrorIs(t, err, entities.ErrUnknownRole)
	})

	t.Run("email занят", func(t *testing.T) {
		f := newFixture()
		f.users.On("ExistsByEmail", mock.Anything, "john@gmail.com").Return(true, nil)

		_, err := f.svc.Register(testCtx(), entities.RoleCandidate, candidateInput())
		assert.ErrorIs(t, err, entities.ErrEmailAlreadyExists)
		assert.Zero(t, f.tx.calls)
	})

	t.Run("телефон занят", func(t *testing.T) {
		f := newFixture()
		f.users.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)
		f.users.On("Create", mock.Anything, mock.Anything).Return(nil, entities.ErrPhoneAlreadyExists)

		_, err := f.svc.Register(testCtx(), entities.RoleCandidate, candidateInput())
		assert.ErrorIs(t, err, entities.ErrPhoneAlreadyExists)
	})

	t.Run("ошибка профиля", func(t *testing.T) {
		f := newFixture()
		dbErr := errors.New("insert failed")
		f.users.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)
		f.users.On("Create", mock.Anything, mock.Anything).Return(&entities.User{ID: "u", Role: entities.RoleCandidate}, nil)
		f.profiles.On("CreateCandidate", mock.Anything, mock.Anything).Return(nil, dbErr)

		_, err := f.svc.Register(testCtx(), entities.RoleCandidate, candidateInput())
		assert.ErrorIs(t, err, dbErr)
		f.tokens.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
	})

	t.Run("очередь недоступна", func(t *testing.T) {
		f := newFixture()
		f.users.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)
		f.users.On("Create", mock.Anything, mock.Anything).Return(&entities.User{ID: "u", Email: "john@gmail.com", Role: entities.RoleCandidate}, nil)
		f.profiles.On("CreateCandidate", mock.Anything, mock.Anything).
			Return(&entities.Candidate{ID: "c", FirstName: "John", LastName: "Doe"}, nil)
		f.tokens.On("Issue", mock.Anything, mock.Anything).Return("tok", nil)
		f.emails.On("Enqueue", mock.Anything, mock.Anything).Return("", errors.New("redis down"))

		dto, err := f.svc.Register(testCtx(), entities.RoleCandidate, candidateInput())
		require.NoError(t, err, "account is kept when the email cannot be queued")
		assert.Equal(t, "c", dto["id"])
	})
}

func passwordRequest() services.PasswordRequest {
	return services.PasswordRequest{Token: "tok", Password: strongPassword, ConfirmPassword: " " + strongPassword + " ", Device: "Firefox"}
}

func TestSetupPassword(t *testing.T) {
	ctx := testCtx()
	f := newFixture()

	f.tokens.On("Parse", mock.Anything, "tok", services.PurposePasswordSetup).
		Return(&services.TokenClaims{UserID: "user-1", Purpose: services.PurposePasswordSetup}, nil)
	f.users.On("FindByID", mock.Anything, "user-1").Return(&entities.User{ID: "user-1", Email: "john@gmail.com"}, nil)
	f.passwords.On("Hash", mock.Anything, strongPassword).Return("$2a$hash", nil)
	f.users.On("SetPassword", mock.Anything, "user-1", "$2a$hash").Return(nil)
	f.emails.On("Enqueue", mock.Anything, mock.MatchedBy(func(j queue.EmailJob) bool {
		return j.Template.Name == queue.TemplatePasswordUpdate && j.Template.Content.Device == "Firefox"
	})).Return("job", nil)

	require.NoError(t, f.svc.SetupPassword(ctx, passwordRequest()))
	f.assertExpectations(t)
}

func TestSetupPassword_Errors(t *testing.T) {
	t.Run("токен недействителен", func(t *testing.T) {
		f := newFixture()
		f.tokens.On("Parse", mock.Anything, "tok", services.PurposePasswordSetup).Return(nil, services.ErrExpiredToken)

		err := f.svc.SetupPassword(testCtx(), passwordRequest())
		assert.ErrorIs(t, err, services.ErrExpiredToken)
	})

	t.Run("слабый пароль", func(t *testing.T) {
		f := newFixture()
		f.tokens.On("Parse", mock.Anything, "tok", services.PurposePasswordSetup).
			Return(&services.TokenClaims{UserID: "user-1"}, nil)

		req := passwordRequest()
		req.Password = "short"
		err := f.svc.SetupPassword(testCtx(), req)

		var verr *app.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{
			validation.MsgPasswordTooShort,
			validation.MsgPasswordWeak,
		}, verr.Messages)
	})

	t.Run("подтверждение не совпадает", func(t *testing.T) {
		f := newFixture()
		f.tokens.On("Parse", mock.Anything, "tok", services.PurposePasswordSetup).
			Return(&services.TokenClaims{UserID: "user-1"}, nil)

		req := passwordRequest()
		req.ConfirmPassword = "Other!Passw0rd"
		err := f.svc.SetupPassword(testCtx(), req)
		assert.ErrorIs(t, err, app.ErrValidation)
		assert.ErrorIs(t, err, services.ErrPasswordMismatch)
	})

	t.Run("пароль уже задан", func(t *testing.T) {
		f := newFixture()
		hash := "$2a$old"
		f.tokens.On("Parse", mock.Anything, "tok", services.PurposePasswordSetup).
			Return(&services.TokenClaims{UserID: "user-1"}, nil)
		f.users.On("FindByID", mock.Anything, "user-1").Return(&entities.User{ID: "user-1", PasswordHash: &hash}, nil)

		err := f.svc.SetupPassword(testCtx(), passwordRequest())
		assert.ErrorIs(t, err, services.ErrPasswordAlreadySet)
		f.passwords.AssertNotCalled(t, "Hash", mock.Anything, mock.Anything)
	})

	t.Run("заблокирован", func(t *testing.T) {
		f := newFixture()
		f.tokens.On("Parse", mock.Anything, "tok", services.PurposePasswordSetup).
			Return(&services.TokenClaims{UserID: "user-1"}, nil)
		f.users.On("FindByID", mock.Anything, "user-1").Return(&entities.User{ID: "user-1", IsLocked: true}, nil)

		err := f.svc.SetupPassword(testCtx(), passwordRequest())
		assert.ErrorIs(t, err, entities.ErrUserLocked)
	})
}

func TestResetPassword_ReplacesExistingPassword(t *testing.T) {
	f := newFixture()
	hash := "$2a$old"

	f.tokens.On("Parse", mock.Anything, "tok", services.PurposePasswordReset).
		Return(&services.TokenClaims{UserID: "user-1", Purpose: services.PurposePasswordReset}, nil)
	f.users.On("FindByID", mock.Anything, "user-1").Return(&entities.User{ID: "user-1", Email: "a@b.io", PasswordHash: &hash}, nil)
	f.passwords.On("Hash", mock.Anything, strongPassword).Return("$2a$new", nil)
	f.users.On("SetPassword", mock.Anything, "user-1", "$2a$new").Return(nil)
	f.emails.On("Enqueue", mock.Anything, mock.Anything).Return("", errors.New("redis down"))

	require.NoError(t, f.svc.ResetPassword(testCtx(), passwordRequest()), "notification failure is not fatal")
	f.assertExpectations(t)
}

func TestRequestPasswordReset(t *testing.T) {
	t.Run("известный пользователь", func(t *testing.T) {
		f := newFixture()
		user := &entities.User{ID: "user-1", Email: "john@gmail.com", Role: entities.RoleEmployer}
		f.users.On("FindByEmail", mock.Anything, "john@gmail.com").Return(user, nil)
		f.tokens.On("Issue", mock.Anything, services.TokenClaims{
			UserID: "user-1", Email: "john@gmail.com", Role: "employer", Purpose: services.PurposePasswordReset,
		}).Return("tok", nil)
		f.emails.On("Enqueue", mock.Anything, mock.MatchedBy(func(j queue.EmailJob) bool {
			return j.Subject == app.SubjectPasswordReset &&
				j.Template.Name == queue.TemplatePasswordReset &&
				j.Template.Content.URI == "https://employer.workwhiz.test/auth/reset-password?token=tok"
		})).Return("job", nil)

		require.NoError(t, f.svc.RequestPasswordReset(testCtx(), map[string]any{"email": "john@gmail.com"}))
		f.assertExpectations(t)
	})

	t.Run("неизвестный email не раскрывается", func(t *testing.T) {
		f := newFixture()
		f.users.On("FindByEmail", mock.Anything, "ghost@gmail.com").Return(nil, entities.ErrUserNotFound)

		require.NoError(t, f.svc.RequestPasswordReset(testCtx(), map[string]any{"email": "ghost@gmail.com"}))
		f.emails.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	})

	t.Run("невалидный email", func(t *testing.T) {
		f := newFixture()
		err := f.svc.RequestPasswordReset(testCtx(), map[string]any{"email": "nope"})
		assert.ErrorIs(t, err, app.ErrValidation)
	})

	t.Run("очередь недоступна", func(t *testing.T) {
		f := newFixture()
		f.users.On("FindByEmail", mock.Anything, "john@gmail.com").Return(&entities.User{ID: "u", Email: "john@gmail.com"}, nil)
		f.tokens.On("Issue", mock.Anything, mock.Anything).Return("tok", nil)
		f.emails.On("Enqueue", mock.Anything, mock.Anything).Return("", errors.New("redis down"))

		assert.Error(t, f.svc.RequestPasswordReset(testCtx(), map[string]any{"email": "john@gmail.com"}))
	})
}
