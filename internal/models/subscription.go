package models

import "github.com/google/uuid"

// SubscriptionTier: тариф из каталога подписок. Цена хранится в центах.
type SubscriptionTier struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	Price           int       `json:"price"`
	Currency        string    `json:"currency,omitempty"`
	Features        []string  `json:"features"`
	IsActive        bool      `json:"is_active"`
	BillingCycle    string    `json:"billing_cycle,omitempty"`
	TrialPeriodDays int       `json:"trial_period_days,omitempty"`
}

// SubscriptionCatalog: упорядоченный список тарифов.
type SubscriptionCatalog []SubscriptionTier

// TierInput: тело запроса администратора на создание или изменение тарифа.
type TierInput struct {
	Name            string   `json:"name" validate:"required,min=2,max=64"`
	Description     *string  `json:"description,omitempty"`
	Price           int      `json:"price" validate:"gte=0"`
	Currency        string   `json:"currency" validate:"required,len=3"`
	Features        []string `json:"features" validate:"dive,required"`
	IsActive        bool     `json:"is_active"`
	BillingCycle    string   `json:"billing_cycle" validate:"required,oneof=monthly yearly"`
	TrialPeriodDays int      `json:"trial_period_days" validate:"gte=0"`
}
