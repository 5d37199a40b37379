package service

import (
	"refearn/config"
	"refearn/internal/domain"
	"refearn/internal/repository"

	"github.com/shopspring/decimal"
)

// CommissionPolicy is the distribution policy in effect for one purchase:
// per-level rates as decimal fractions of profit and the minimum qualifying
// purchase in whole currency units.
type CommissionPolicy struct {
	Level1Rate  decimal.Decimal
	Level2Rate  decimal.Decimal
	MinPurchase decimal.Decimal
}

// PolicyProvider resolves the active policy from system_settings, falling
// back to the boot-time config defaults. Settings are read per purchase so
// an admin change takes effect without a restart.
type PolicyProvider struct {
	settings *repository.SettingRepository
	defaults CommissionPolicy
}

func NewPolicyProvider(settings *repository.SettingRepository, cfg config.CommissionConfig) *PolicyProvider {
	return &PolicyProvider{
		settings: settings,
		defaults: CommissionPolicy{
			Level1Rate:  mustDecimal(cfg.Level1Rate, "0.05"),
			Level2Rate:  mustDecimal(cfg.Level2Rate, "0.01"),
			MinPurchase: decimal.NewFromInt(cfg.MinPurchase),
		},
	}
}

// StaticPolicy returns a provider pinned to the given values, bypassing the
// settings store.
func StaticPolicy(p CommissionPolicy) *PolicyProvider {
	return &PolicyProvider{defaults: p}
}

func (p *PolicyProvider) Current() CommissionPolicy {
	out := p.defaults
	if p.settings == nil {
		return out
	}
	out.Level1Rate = p.settingDecimal(domain.SettingLevel1Rate, out.Level1Rate)
	out.Level2Rate = p.settingDecimal(domain.SettingLevel2Rate, out.Level2Rate)
	out.MinPurchase = p.settingDecimal(domain.SettingMinPurchase, out.MinPurchase)
	return out
}

// Defaults returns the seedable string form of the boot-time policy.
func (p *PolicyProvider) Defaults() map[string]string {
	return map[string]string{
		domain.SettingLevel1Rate:  p.defaults.Level1Rate.String(),
		domain.SettingLevel2Rate:  p.defaults.Level2Rate.String(),
		domain.SettingMinPurchase: p.defaults.MinPurchase.String(),
	}
}

func (p *PolicyProvider) settingDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	val, err := p.settings.Get(key)
	if err != nil || val == "" {
		return fallback
	}
	d, err := decimal.NewFromString(val)
	if err != nil {
		return fallback
	}
	return d
}

func mustDecimal(s, fallback string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.RequireFromString(fallback)
	}
	return d
}
