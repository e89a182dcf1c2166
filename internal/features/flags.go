// Package features decides which optional platform capabilities are exposed
// to a tenant, combining static defaults, subscription-tier gating, and
// TTL-bounded operator overrides.
package features

import (
	"github.com/puneethvarma-001/worksense-sub000/internal/models"
)

// Flag is the closed set of optional capabilities.
type Flag string

const (
	FlagAIAssistant       Flag = "ai_assistant"
	FlagAdvancedAnalytics Flag = "advanced_analytics"
	FlagRecruitmentModule Flag = "recruitment_module"
	FlagPayrollAutomation Flag = "payroll_automation"
	FlagCustomBranding    Flag = "custom_branding"
	FlagAPIAccess         Flag = "api_access"
)

// FlagConfig describes one flag: its static default, a human description,
// and the tiers for which the capability is purchasable at all.
type FlagConfig struct {
	Default     bool                      `json:"default"`
	Description string                    `json:"description"`
	Tiers       []models.SubscriptionTier `json:"tiers"`
}

var registry = map[Flag]FlagConfig{
	FlagAIAssistant: {
		Default:     false,
		Description: "AI assistant for HR queries and document drafting",
		Tiers:       []models.SubscriptionTier{models.TierProfessional, models.TierEnterprise},
	},
	FlagAdvancedAnalytics: {
		Default:     false,
		Description: "Workforce analytics dashboards and trend reports",
		Tiers:       []models.SubscriptionTier{models.TierEnterprise},
	},
	FlagRecruitmentModule: {
		Default:     true,
		Description: "Job postings, candidate pipeline and interview scheduling",
		Tiers:       []models.SubscriptionTier{models.TierProfessional, models.TierEnterprise},
	},
	FlagPayrollAutomation: {
		Default:     true,
		Description: "Automated payroll runs and payslip generation",
		Tiers:       []models.SubscriptionTier{models.TierStarter, models.TierProfessional, models.TierEnterprise},
	},
	FlagCustomBranding: {
		Default:     false,
		Description: "Tenant logo, colors and custom domain on the portal",
		Tiers:       []models.SubscriptionTier{models.TierEnterprise},
	},
	FlagAPIAccess: {
		Default:     false,
		Description: "REST API tokens for third-party integrations",
		Tiers:       []models.SubscriptionTier{models.TierProfessional, models.TierEnterprise},
	},
}

// Flags returns every registered flag in a stable order.
func Flags() []Flag {
	return []Flag{
		FlagAIAssistant,
		FlagAdvancedAnalytics,
		FlagRecruitmentModule,
		FlagPayrollAutomation,
		FlagCustomBranding,
		FlagAPIAccess,
	}
}

// GetConfig returns the registry entry for the flag.
func GetConfig(flag Flag) (FlagConfig, bool) {
	cfg, ok := registry[flag]
	return cfg, ok
}

func tierAllowed(cfg FlagConfig, tier models.SubscriptionTier) bool {
	for _, t := range cfg.Tiers {
		if t == tier {
			return true
		}
	}
	return false
}
