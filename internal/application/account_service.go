package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// RegisterAccountInput is the account-creation form submitted by a merchant
type RegisterAccountInput struct {
	Company              string `json:"company" validate:"max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,max=72,password"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required"`
	OrderCountPerMonth   string `json:"orderCountPerMonth" validate:"required,oneof=1 2 3"`
	Overview             string `json:"overview" validate:"required,max=2000"`
	OrderAveragePrice    string `json:"orderAveragePrice" validate:"required,number,max=18"`
}

// AccountService handles merchant account registration
type AccountService struct {
	repo       ports.AccountRepository
	validator  ports.Validator
	bcryptCost int
	logger     zerolog.Logger
}

// NewAccountService creates a new account service. A cost outside bcrypt's range uses bcrypt.DefaultCost.
func NewAccountService(
	repo ports.AccountRepository,
	validator ports.Validator,
	bcryptCost int,
	logger zerolog.Logger,
) *AccountService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{
		repo:       repo,
		validator:  validator,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register validates the form, hashes the password and stores the account
func (s *AccountService) Register(ctx context.Context, input RegisterAccountInput) (*domain.Account, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	if input.Password != input.PasswordConfirmation {
		return nil, domain.ErrPasswordMismatch
	}

	price, err := strconv.ParseInt(input.OrderAveragePrice, 10, 64)
	if err != nil {
		return nil, domain.NewValidationError("orderAveragePrice", "must be a non-negative whole number")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		Company:            input.Company,
		Email:              input.Email,
		OrderCountPerMonth: domain.OrderCountBucket(input.OrderCountPerMonth),
		Overview:           input.Overview,
		OrderAveragePrice:  price,
		PasswordHash:       string(hash),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("accountId", account.ID).
		Str("orderCountPerMonth", account.OrderCountPerMonth.Label()).
		Msg("Account registered")
	return account, nil
}
