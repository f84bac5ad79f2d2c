// File: internal/usecase/methods_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/repository"
	"learnhub-checkout/internal/infra/security"
)

var _ SavedMethodUseCase = (*savedMethodUC)(nil)

// SavedMethodUseCase exposes a user's tokenized card references.
type SavedMethodUseCase interface {
	// List is fail-open: storage errors degrade to an empty slice so the
	// checkout can still offer non-saved methods.
	List(ctx context.Context, userID string) []*model.SavedPaymentMethod
	// Resolve returns the saved method with its gateway token decrypted.
	Resolve(ctx context.Context, id string) (*model.SavedPaymentMethod, error)
	Save(ctx context.Context, m *model.SavedPaymentMethod) error
	Delete(ctx context.Context, id string) error
}

type savedMethodUC struct {
	methods repository.SavedMethodRepository
	vault   *security.TokenVault
	log     *zerolog.Logger
}

func NewSavedMethodUseCase(methods repository.SavedMethodRepository, vault *security.TokenVault, logger *zerolog.Logger) *savedMethodUC {
	return &savedMethodUC{methods: methods, vault: vault, log: logger}
}

func (u *savedMethodUC) List(ctx context.Context, userID string) []*model.SavedPaymentMethod {
	list, err := u.methods.ListByUser(ctx, userID)
	if err != nil {
		u.log.Warn().Err(err).Str("user_id", userID).Msg("saved methods: list failed, degrading to none")
		return nil
	}
	return list
}

func (u *savedMethodUC) Resolve(ctx context.Context, id string) (*model.SavedPaymentMethod, error) {
	m, err := u.methods.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	token, err := u.vault.Decrypt(m.ExternalReference)
	if err != nil {
		return nil, err
	}
	cp := *m
	cp.ExternalReference = token
	return &cp, nil
}

func (u *savedMethodUC) Save(ctx context.Context, m *model.SavedPaymentMethod) error {
	enc, err := u.vault.Encrypt(m.ExternalReference)
	if err != nil {
		return err
	}
	cp := *m
	cp.ExternalReference = enc
	return u.methods.Save(ctx, &cp)
}

func (u *savedMethodUC) Delete(ctx context.Context, id string) error {
	return u.methods.Delete(ctx, id)
}

// DefaultSavedMethod picks the entry flagged default, else the first one.
func DefaultSavedMethod(list []*model.SavedPaymentMethod) *model.SavedPaymentMethod {
	for _, m := range list {
		if m.IsDefault {
			return m
		}
	}
	if len(list) > 0 {
		return list[0]
	}
	return nil
}
