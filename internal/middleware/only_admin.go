package middleware

import (
	"context"

	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/router"
)

type OnlyAdmin struct {
	roleVerifier *common.RoleVerifier
}

func NewOnlyAdmin() *OnlyAdmin {
	return &OnlyAdmin{roleVerifier: common.NewRoleVerifier()}
}

func (a *OnlyAdmin) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if err := a.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		return nil, nil
	}
}
