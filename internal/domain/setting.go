package domain

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fatih/structs"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/enum"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/xcontext"
)

const (
	settingQuickAmounts = "quick_amounts"
	settingSocialLinks  = "social_links"
)

type SettingDomain interface {
	GetPlatformSettings(context.Context, *model.GetPlatformSettingsRequest) (*model.GetPlatformSettingsResponse, error)
	UpdatePlatformSettings(context.Context, *model.UpdatePlatformSettingsRequest) (*model.UpdatePlatformSettingsResponse, error)
	GetPaymentSettings(context.Context, *model.GetPaymentSettingsRequest) (*model.GetPaymentSettingsResponse, error)
	UpdatePaymentSettings(context.Context, *model.UpdatePaymentSettingsRequest) (*model.UpdatePaymentSettingsResponse, error)
}

type settingDomain struct {
	settingRepo  repository.SettingRepository
	roleVerifier *common.RoleVerifier
	activity     activityRecorder
}

func NewSettingDomain(
	settingRepo repository.SettingRepository,
	activityLogRepo repository.ActivityLogRepository,
) *settingDomain {
	return &settingDomain{
		settingRepo:  settingRepo,
		roleVerifier: common.NewRoleVerifier(),
		activity:     activityRecorder{activityLogRepo: activityLogRepo},
	}
}

func DefaultPlatformSettings() model.PlatformSettings {
	return model.PlatformSettings{
		AppName:    "Wealth Fund",
		ThemeColor: string(entity.ThemeGreen),
		SocialLinks: model.SocialLinks{
			Telegram: "https://t.me/example",
			Whatsapp: "https://wa.me/1234567890",
		},
		PaymentQuickAmounts: []int{500, 1000, 2000, 5000},
	}
}

// DefaultSettings returns the rows holding the default value of every setting
// key.
func DefaultSettings() ([]entity.Setting, error) {
	return encodeSettings(structs.Map(DefaultPlatformSettings()))
}

func encodeSettings(values map[string]any) ([]entity.Setting, error) {
	settings := make([]entity.Setting, 0, len(values))
	for key, value := range values {
		b, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}

		settings = append(settings, entity.Setting{Key: key, Value: string(b)})
	}

	return settings, nil
}

// loadSettings returns the stored settings laid over the defaults, both as a
// raw map keyed by setting key and decoded.
func (d *settingDomain) loadSettings(ctx context.Context) (map[string]any, *model.PlatformSettings, error) {
	values := structs.Map(DefaultPlatformSettings())

	settings, err := d.settingRepo.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	for _, s := range settings {
		var value any
		if err := json.Unmarshal([]byte(s.Value), &value); err != nil {
			xcontext.Logger(ctx).Warnf("Invalid value of setting %s: %v", s.Key, err)
			continue
		}

		values[s.Key] = value
	}

	result := model.PlatformSettings{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &result,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := decoder.Decode(values); err != nil {
		return nil, nil, err
	}

	return values, &result, nil
}

func (d *settingDomain) GetPlatformSettings(
	ctx context.Context, req *model.GetPlatformSettingsRequest,
) (*model.GetPlatformSettingsResponse, error) {
	_, settings, err := d.loadSettings(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load settings: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetPlatformSettingsResponse(*settings)
	return &resp, nil
}

func (d *settingDomain) UpdatePlatformSettings(
	ctx context.Context, req *model.UpdatePlatformSettingsRequest,
) (*model.UpdatePlatformSettingsResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	req.AppName = strings.TrimSpace(req.AppName)
	if req.ThemeColor != "" {
		if _, err := enum.ToEnum[entity.ThemeColor](req.ThemeColor); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid theme color")
		}
	}

	current, _, err := d.loadSettings(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load settings: %v", err)
		return nil, errorx.Unknown
	}

	changes := structs.Map(req)
	if links, ok := changes[settingSocialLinks].(map[string]any); ok {
		merged := map[string]any{}
		if old, ok := current[settingSocialLinks].(map[string]any); ok {
			for k, v := range old {
				merged[k] = v
			}
		}

		for k, v := range links {
			merged[k] = v
		}
		changes[settingSocialLinks] = merged
	}

	if len(changes) > 0 {
		settings, err := encodeSettings(changes)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot encode settings: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.settingRepo.Upsert(ctx, settings...); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update settings: %v", err)
			return nil, errorx.Unknown
		}
	}

	_, settings, err := d.loadSettings(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load settings: %v", err)
		return nil, errorx.Unknown
	}

	d.activity.record(ctx, xcontext.RequestUserID(ctx), "admin", "Updated platform settings")
	resp := model.UpdatePlatformSettingsResponse(*settings)
	return &resp, nil
}

func (d *settingDomain) GetPaymentSettings(
	ctx context.Context, req *model.GetPaymentSettingsRequest,
) (*model.GetPaymentSettingsResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	methods, err := d.settingRepo.GetPaymentMethods(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get payment methods: %v", err)
		return nil, errorx.Unknown
	}

	_, settings, err := d.loadSettings(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load settings: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetPaymentSettingsResponse{
		PaymentMethods: []model.PaymentMethod{},
		QuickAmounts:   settings.PaymentQuickAmounts,
	}
	for i := range methods {
		resp.PaymentMethods = append(resp.PaymentMethods, model.ConvertPaymentMethod(&methods[i]))
	}

	return resp, nil
}

func (d *settingDomain) UpdatePaymentSettings(
	ctx context.Context, req *model.UpdatePaymentSettingsRequest,
) (*model.UpdatePaymentSettingsResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	activeCount := 0
	methods := []entity.PaymentMethod{}
	for i, m := range req.PaymentMethods {
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.UPIID) == "" {
			return nil, errorx.New(errorx.BadRequest, "Payment method needs a name and an UPI id")
		}

		if m.IsActive {
			activeCount++
		}

		id := m.ID
		if id == "" {
			id = uuid.NewString()
		}

		methods = append(methods, entity.PaymentMethod{
			Base:     entity.Base{ID: id},
			Name:     strings.TrimSpace(m.Name),
			UPIID:    strings.TrimSpace(m.UPIID),
			QRCode:   m.QRCode,
			IsActive: m.IsActive,
			Position: i,
		})
	}

	if activeCount > 1 {
		return nil, errorx.New(errorx.BadRequest, "Only one payment method can be active")
	}

	for _, amount := range req.QuickAmounts {
		if amount <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Quick amounts must be positive")
		}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.settingRepo.ReplacePaymentMethods(ctx, methods); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot replace payment methods: %v", err)
		return nil, errorx.Unknown
	}

	if req.QuickAmounts != nil {
		settings, err := encodeSettings(map[string]any{settingQuickAmounts: req.QuickAmounts})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot encode quick amounts: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.settingRepo.Upsert(ctx, settings...); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update quick amounts: %v", err)
			return nil, errorx.Unknown
		}
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit payment settings: %v", err)
		return nil, errorx.Unknown
	}
	d.activity.record(ctx, xcontext.RequestUserID(ctx), "admin", "Updated payment settings")
	return &model.UpdatePaymentSettingsResponse{}, nil
}
