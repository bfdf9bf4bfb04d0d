// Package models содержит доменные структуры клиентского ядра: профиль пользователя,
// шаги онбординга, каталог подписок, сессию и результаты входа.
package models

import "fmt"

// SetupStep: серверный шаг онбординга. Двигается только вперёд.
type SetupStep string

const (
	StepVerifyEmail           SetupStep = "verify_email"
	StepProfileCompletion     SetupStep = "profile_completion"
	StepSubscriptionSelection SetupStep = "subscription_selection"
	StepCompleted             SetupStep = "completed"
)

var stepRank = map[SetupStep]int{
	StepVerifyEmail:           0,
	StepProfileCompletion:     1,
	StepSubscriptionSelection: 2,
	StepCompleted:             3,
}

// Valid сообщает, является ли значение известным шагом.
func (s SetupStep) Valid() bool {
	_, ok := stepRank[s]
	return ok
}

// Rank возвращает порядковый номер шага, -1 для неизвестных значений.
func (s SetupStep) Rank() int {
	r, ok := stepRank[s]
	if !ok {
		return -1
	}
	return r
}

// ParseSetupStep разбирает строку в SetupStep.
func ParseSetupStep(raw string) (SetupStep, error) {
	s := SetupStep(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown setup step %q", ErrValidation, raw)
	}
	return s, nil
}

// UserProfile: профиль пользователя в том виде, в котором его отдаёт GET /users/profile.
type UserProfile struct {
	ID               string    `json:"id,omitempty"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Bio              *string   `json:"bio,omitempty"`
	FitnessGoals     *string   `json:"fitness_goals,omitempty"`
	ProfilePicture   *string   `json:"profile_picture,omitempty"`
	UserType         string    `json:"user_type,omitempty"`
	IsVerified       bool      `json:"is_verified"`
	SetupStep        SetupStep `json:"setup_step"`
	ProfileVersion   int       `json:"profile_version"`
	SubscriptionTier string    `json:"subscription_tier,omitempty"`
}

// ProfilePatch: частичное обновление профиля, nil-поля не отправляются.
type ProfilePatch struct {
	Username       *string    `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Bio            *string    `json:"bio,omitempty" validate:"omitempty,max=500"`
	FitnessGoals   *string    `json:"fitness_goals,omitempty" validate:"omitempty,max=500"`
	ProfilePicture *string    `json:"profile_picture,omitempty" validate:"omitempty,url"`
	SetupStep      *SetupStep `json:"setup_step,omitempty"`
}

// RegisterRequest: данные формы регистрации. Поля подтверждения на бэкенд не уходят.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email"`
	ConfirmEmail    string `json:"confirm_email" validate:"required,eqfield=Email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}
