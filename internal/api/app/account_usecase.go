package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"workwhiz/internal/api/domain/entities"
	"workwhiz/internal/api/domain/services"
	"workwhiz/internal/api/ports/api"
	"workwhiz/internal/api/ports/repositories"
	svc "workwhiz/internal/api/ports/services"
	"workwhiz/internal/queue"
	"workwhiz/internal/transform"
	"workwhiz/internal/validation"
	"workwhiz/pkg/logger"
)

const (
	methodRegister             = "Register"
	methodSetupPassword        = "SetupPassword"
	methodResetPassword        = "ResetPassword"
	methodRequestPasswordReset = "RequestPasswordReset"

	msgStartRegistration  = "starting registration"
	msgUserRegistered     = "user registered successfully"
	msgInputRejected      = "input rejected by validation"
	msgEmailExists        = "user with this email already exists"
	msgPasswordSet        = "password set successfully"
	msgResetUnknownEmail  = "password reset requested for unknown email"
	msgResetLockedUser    = "password reset requested for locked user"
	msgResetRequested     = "password reset email queued"
	msgErrEnqueueEmail    = "failed to enqueue email"
	msgErrCheckingUser    = "failed to check existing user"
	msgErrCreatingAccount = "failed to create account"

	errCtxValidating      = "validating input"
	errCtxDecoding        = "decoding validated input"
	errCtxCheckingUser    = "checking existing user"
	errCtxCreatingAccount = "creating account"
	errCtxIssuingToken    = "issuing token"
	errCtxParsingToken    = "parsing token"
	errCtxFindingUser     = "finding user"
	errCtxHashingPassword = "hashing password"
	errCtxSettingPassword = "setting password"
	errCtxEnqueueEmail    = "enqueueing email"
	errCtxTransforming    = "transforming profile"
)

// Темы писем.
const (
	SubjectPasswordSetup  = "Welcome to WorkWhiz: set up your password"
	SubjectPasswordReset  = "Reset your WorkWhiz password"
	SubjectPasswordUpdate = "Your WorkWhiz password was changed"
)

// Пути страниц фронтенда, в которые подставляется токен.
const (
	PathPasswordSetup = "/auth/setup-password"
	PathPasswordReset = "/auth/reset-password"
)

// MsgPasswordMismatch - сообщение о несовпадении подтверждения пароля.
const MsgPasswordMismatch = "Passwords do not match"

// URLResolver возвращает публичный адрес фронтенда роли.
type URLResolver func(role entities.Role) string

// AccountUseCaseImpl реализует api.AccountService.
type AccountUseCaseImpl struct {
	pipeline    *validation.Pipeline
	transformer *transform.Transformer
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	tx          repositories.Transactor
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
	emails      svc.EmailQueue
	appURL      URLResolver
}

// NewAccountUseCase создает сценарии учетной записи.
func NewAccountUseCase(
	pipeline *validation.Pipeline,
	transformer *transform.Transformer,
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	tx repositories.Transactor,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
	emails svc.EmailQueue,
	appURL URLResolver,
) api.AccountService {
	return &AccountUseCaseImpl{
		pipeline:    pipeline,
		transformer: transformer,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tx:          tx,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		emails:      emails,
		appURL:      appURL,
	}
}

// validate прогоняет raw через схему kind и декодирует результат в out.
func validate(ctx context.Context, pipeline *validation.Pipeline, kind validation.Kind, raw any, out any) error {
	res, err := pipeline.Validate(ctx, kind, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxValidating, err)
	}
	if !res.IsValid {
		logger.Log(ctx).Debug(ctx, msgInputRejected, zap.String("kind", string(kind)), zap.Strings("errors", res.Errors))
		return &ValidationError{Messages: res.Errors}
	}
	if err := res.Decode(out); err != nil {
		return fmt.Errorf("%s: %w", errCtxDecoding, err)
	}
	return nil
}

// Register проверяет вход схемой роли, создает пользователя и профиль в одной транзакции
// и ставит письмо установки пароля.
func (a *AccountUseCaseImpl) Register(ctx context.Context, role entities.Role, raw any) (transform.DTO, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("role", string(role)))
	log.Debug(ctx, msgStartRegistration)

	if !role.Valid() {
		return nil, entities.ErrUnknownRole
	}

	var req services.RegistrationRequest
	if err := validate(ctx, a.pipeline, validation.Kind(role), raw, &req); err != nil {
		return nil, err
	}

	exists, err := a.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		log.Error(ctx, msgErrCheckingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if exists {
		log.Debug(ctx, msgEmailExists)
		return nil, entities.ErrEmailAlreadyExists
	}

	var profile entities.Profile
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := a.userRepo.Create(ctx, &entities.User{
			Email: strings.TrimSpace(req.Email),
			Phone: strings.TrimSpace(req.Phone),
			Role:  role,
		})
		if err != nil {
			return err
		}
		profile, err = a.createProfile(ctx, user, req)
		return err
	})
	if err != nil {
		if errors.Is(err, entities.ErrEmailAlreadyExists) || errors.Is(err, entities.ErrPhoneAlreadyExists) {
			log.Debug(ctx, msgEmailExists, zap.Error(err))
			return nil, err
		}
		log.Error(ctx, msgErrCreatingAccount, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingAccount, err)
	}

	user := profile.Owner()
	if err := a.sendTokenEmail(ctx, user, services.PurposePasswordSetup, displayName(profile)); err != nil {
		// Учетная запись уже создана; ссылку можно получить повторно через сброс пароля.
		log.Error(ctx, msgErrEnqueueEmail, zap.Error(err))
	}

	dto, err := a.transformer.ToResponse(role.TransformKind(), profile.Record())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxTransforming, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", user.ID))
	return dto, nil
}

func (a *AccountUseCaseImpl) createProfile(ctx context.Context, user *entities.User, req services.RegistrationRequest) (entities.Profile, error) {
	switch user.Role {
	case entities.RoleAdmin:
		admin, err := a.profileRepo.CreateAdmin(ctx, &entities.Admin{
			UserID:      user.ID,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Permissions: entities.AdminPermissions,
		})
		if err != nil {
			return nil, err
		}
		admin.User = user
		return admin, nil
	case entities.RoleCandidate:
		candidate, err := a.profileRepo.CreateCandidate(ctx, &entities.Candidate{
			UserID:    user.ID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Title:     req.Title,
		})
		if err != nil {
			return nil, err
		}
		candidate.User = user
		return candidate, nil
	case entities.RoleEmployer:
		employer, err := a.profileRepo.CreateEmployer(ctx, &entities.Employer{
			UserID:   user.ID,
			Name:     req.Company,
			Industry: req.Industry,
		})
		if err != nil {
			return nil, err
		}
		employer.User = user
		return employer, nil
	}
	return nil, entities.ErrUnknownRole
}

func displayName(p entities.Profile) string {
	switch v := p.(type) {
	case *entities.Admin:
		return v.FirstName
	case *entities.Candidate:
		return v.FirstName
	case *entities.Employer:
		return v.Name
	}
	return ""
}

// sendTokenEmail выпускает токен назначения purpose и ставит письмо со ссылкой.
func (a *AccountUseCaseImpl) sendTokenEmail(ctx context.Context, user *entities.User, purpose services.TokenPurpose, name string) error {
	token, err := a.tokenSvc.Issue(ctx, services.TokenClaims{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    string(user.Role),
		Purpose: purpose,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxIssuingToken, err)
	}

	job := queue.EmailJob{Email: user.Email}
	switch purpose {
	case services.PurposePasswordReset:
		job.Subject = SubjectPasswordReset
		job.Template = queue.TemplateRef{
			Name:    queue.TemplatePasswordReset,
			Content: queue.TemplateData{URI: a.link(user.Role, PathPasswordReset, token), Username: name},
		}
	default:
		job.Subject = SubjectPasswordSetup
		job.Template = queue.TemplateRef{
			Name:    queue.TemplatePasswordSetup,
			Content: queue.TemplateData{URI: a.link(user.Role, PathPasswordSetup, token), Username: name},
		}
	}

	if _, err := a.emails.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("%s: %w", errCtxEnqueueEmail, err)
	}
	return nil
}

func (a *AccountUseCaseImpl) link(role entities.Role, path, token string) string {
	return a.appURL(role) + path + "?token=" + url.QueryEscape(token)
}

// SetupPassword задает первый пароль по токену установки.
func (a *AccountUseCaseImpl) SetupPassword(ctx context.Context, req services.PasswordRequest) error {
	return a.setPassword(ctx, methodSetupPassword, services.PurposePasswordSetup, req)
}

// ResetPassword заменяет пароль по токену сброса.
func (a *AccountUseCaseImpl) ResetPassword(ctx context.Context, req services.PasswordRequest) error {
	return a.setPassword(ctx, methodResetPassword, services.PurposePasswordReset, req)
}

func (a *AccountUseCaseImpl) setPassword(ctx context.Context, method string, purpose services.TokenPurpose, req services.PasswordRequest) error {
	log := logger.Log(ctx).With(zap.String("method", method))

	claims, err := a.tokenSvc.Parse(ctx, req.Token, purpose)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxParsingToken, err)
	}
	log = log.With(zap.String("userID", claims.UserID))

	var input struct {
		Password string `json:"password"`
	}
	if err := validate(ctx, a.pipeline, validation.KindPassword, map[string]any{"password": req.Password}, &input); err != nil {
		return err
	}
	if !validation.ValidateInput(req.ConfirmPassword, req.Password) {
		return &ValidationError{Messages: []string{MsgPasswordMismatch}, Cause: services.ErrPasswordMismatch}
	}

	user, err := a.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}
	if user.IsLocked {
		return entities.ErrUserLocked
	}
	if purpose == services.PurposePasswordSetup && user.HasPassword() {
		return services.ErrPasswordAlreadySet
	}

	hash, err := a.passwordSvc.Hash(ctx, input.Password)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}
	if err := a.userRepo.SetPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("%s: %w", errCtxSettingPassword, err)
	}
	log.Info(ctx, msgPasswordSet)

	_, err = a.emails.Enqueue(ctx, queue.EmailJob{
		Email:   user.Email,
		Subject: SubjectPasswordUpdate,
		Template: queue.TemplateRef{
			Name:    queue.TemplatePasswordUpdate,
			Content: queue.TemplateData{Username: user.Email, Device: req.Device},
		},
	})
	if err != nil {
		log.Error(ctx, msgErrEnqueueEmail, zap.Error(err))
	}
	return nil
}

// RequestPasswordReset ставит письмо сброса. Неизвестный email не раскрывается вызывающему.
func (a *AccountUseCaseImpl) RequestPasswordReset(ctx context.Context, raw any) error {
	log := logger.Log(ctx).With(zap.String("method", methodRequestPasswordReset))

	var req struct {
		Email string `json:"email"`
	}
	if err := validate(ctx, a.pipeline, validation.KindForgotPassword, raw, &req); err != nil {
		return err
	}

	user, err := a.userRepo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgResetUnknownEmail)
			return nil
		}
		return fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}
	if user.IsLocked {
		log.Debug(ctx, msgResetLockedUser, zap.String("userID", user.ID))
		return nil
	}

	if err := a.sendTokenEmail(ctx, user, services.PurposePasswordReset, user.Email); err != nil {
		log.Error(ctx, msgErrEnqueueEmail, zap.Error(err))
		return err
	}
	log.Info(ctx, msgResetRequested, zap.String("userID", user.ID))
	return nil
}
