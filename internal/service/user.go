package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/domussolis/domus/internal/apperror"
	"github.com/domussolis/domus/internal/auth"
	"github.com/domussolis/domus/internal/model"
	"github.com/domussolis/domus/internal/repository"
)

const (
	MinUserNameLength = 3
	MinPasswordLength = 8
)

const (
	msgUserCreated  = "Usuário criado com sucesso!"
	msgUserDB       = "Erro de banco de dados: Não foi possível criar o usuário."
	msgUserEmailDup = "Já existe um usuário com este email."
)

// UserInput is the new-account form field bag. Senha arrives in plaintext
// over the form post and is hashed before it touches the repository.
type UserInput struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
	Name     string `json:"nome"`
}

// UserService handles the admin user management paths.
type UserService struct {
	repo      repository.UserRepository
	passwords *auth.PasswordService
	reval     Revalidator
	logger    *slog.Logger
}

func NewUserService(
	repo repository.UserRepository,
	passwords *auth.PasswordService,
	reval Revalidator,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		repo:      repo,
		passwords: passwords,
		reval:     reval,
		logger:    logger,
	}
}

// Create validates the form, hashes the password, and inserts the account.
func (s *UserService) Create(ctx context.Context, in UserInput) Result[*model.User] {
	errs := FieldErrors{}

	email := strings.TrimSpace(strings.ToLower(in.Email))
	if !validEmail(email) {
		errs.Add("email", "O email é inválido.")
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		errs.Add("senha", "A senha deve ter pelo menos 8 caracteres.")
	}
	name := strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(name) < MinUserNameLength {
		errs.Add("nome", "O nome deve ter pelo menos 3 caracteres.")
	}
	if len(errs) > 0 {
		return Invalid[*model.User](msgValidation, errs)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		errs.Add("senha", "A senha é inválida.")
		return Invalid[*model.User](msgValidation, errs)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			errs := FieldErrors{}
			errs.Add("email", msgUserEmailDup)
			return Invalid[*model.User](msgValidation, errs)
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return Fail[*model.User](msgUserDB)
	}

	s.reval.Invalidate(PathAdminUsers)
	s.logger.Info("user created", slog.Int64("id", user.ID))

	return OK(user, msgUserCreated)
}

// ListPage returns one page of accounts matching nome OR email. Password
// hashes never leave the repository row scan; the model drops them from
// JSON regardless.
func (s *UserService) ListPage(ctx context.Context, page int, query string) ([]model.User, int) {
	users, total, err := s.repo.List(ctx, repository.ListOptions{Page: page, Query: query})
	if err != nil {
		s.logger.Error("failed to list users",
			slog.Int("page", page),
			slog.String("error", err.Error()),
		)
		return []model.User{}, 0
	}
	return users, total
}

// validEmail applies the minimal structural check the original form used:
// something before and after a single @, with a dot in the domain.
func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if strings.IndexByte(domain, '@') >= 0 {
		return false
	}
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
