// Package auth implements credential checking, JWT issuance and the
// request middleware that resolves the current principal.
package auth

import "time"

// User represents a user account.
type User struct {
	ID           int64      `json:"id"`
	Nome         string     `json:"nome"`
	Email        string     `json:"email"`
	SenhaHash    string     `json:"-"`
	Cargo        *string    `json:"cargo,omitempty"`
	Departamento *string    `json:"departamento,omitempty"`
	EmpresaID    *int64     `json:"empresaId,omitempty"`
	PapelID      *int64     `json:"papelId,omitempty"`
	IsAdmin      bool       `json:"isAdmin"`
	IsSuperAdmin bool       `json:"isSuperAdmin"`
	Ativo        bool       `json:"ativo"`
	UltimoAcesso *time.Time `json:"ultimoAcesso,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ResetToken is a single-use password reset token.
type ResetToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
