package entities

import "time"

// ApiKey is the stored record of a long-lived credential. Only the hash of
// the plaintext key is persisted; the plaintext exists once, at issuance,
// and cannot be recovered afterwards.
type ApiKey struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	KeyHash   string    `json:"-"`
	UserID    int64     `json:"userId"`
	CompanyID int64     `json:"companyId"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Preview returns a masked representation safe to list: fixed marker, dots,
// and the tail of the stored hash.
func (k *ApiKey) Preview() string {
	if len(k.KeyHash) < 4 {
		return "etk_••••••••••"
	}
	return "etk_••••••••••••" + k.KeyHash[len(k.KeyHash)-4:]
}

// Snapshot captures the auditable state of a key. The hash is not part of
// the snapshot.
func (k *ApiKey) Snapshot() Snapshot {
	return Snapshot{
		"name":      k.Name,
		"userId":    k.UserID,
		"companyId": k.CompanyID,
		"isActive":  k.IsActive,
	}
}

// ApiKeyListItem is the list representation of a key.
type ApiKeyListItem struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	KeyPreview string    `json:"keyPreview"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateApiKeyInput represents input for creating an API key
type CreateApiKeyInput struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreateApiKeyResponse carries the plaintext key. It is returned exactly
// once; there is no way to obtain it again.
type CreateApiKeyResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ApiKeyContext is the authentication result of the API-key path: the
// principal and company the validated key is bound to.
type ApiKeyContext struct {
	KeyID     int64
	UserID    int64
	CompanyID int64
}
