package common

import (
	"context"
	"errors"

	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

var ErrPermissionDenied = errors.New("role does not have permission")

type RoleVerifier struct{}

func NewRoleVerifier() *RoleVerifier {
	return &RoleVerifier{}
}

func (verifier *RoleVerifier) Verify(ctx context.Context, requiredRoles ...entity.Role) error {
	if xcontext.RequestUserID(ctx) == "" {
		return ErrPermissionDenied
	}

	if !slices.Contains(requiredRoles, entity.Role(xcontext.RequestRole(ctx))) {
		return ErrPermissionDenied
	}

	return nil
}
