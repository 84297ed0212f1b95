package domain

import (
	"strings"
	"time"
)

// OfflineSessionPrefix prefixes the id of a shop's offline (non-expiring) session
const OfflineSessionPrefix = "offline_"

// Session represents an OAuth session persisted on behalf of the Shopify host layer
type Session struct {
	ID               string            `json:"id" bson:"shopifyId"` // Externally supplied session id
	Shop             string            `json:"shop" bson:"shop"`
	State            string            `json:"state" bson:"state"`
	IsOnline         bool              `json:"isOnline" bson:"isOnline"`
	Scope            string            `json:"scope,omitempty" bson:"scope,omitempty"`
	Expires          *time.Time        `json:"expires,omitempty" bson:"expires,omitempty"`
	OnlineAccessInfo *OnlineAccessInfo `json:"onlineAccessInfo,omitempty" bson:"onlineAccessInfo,omitempty"`
	AccessToken      string            `json:"accessToken,omitempty" bson:"accessToken,omitempty"`
	CreatedAt        time.Time         `json:"createdAt" bson:"createdAt"`
}

// OnlineAccessInfo carries the user bound to an online session
type OnlineAccessInfo struct {
	ExpiresIn           int            `json:"expires_in" bson:"expiresIn"`
	AssociatedUserScope string         `json:"associated_user_scope" bson:"associatedUserScope"`
	AssociatedUser      AssociatedUser `json:"associated_user" bson:"associatedUser"`
}

// AssociatedUser is the staff member who authorized an online session
type AssociatedUser struct {
	ID            int64  `json:"id" bson:"id"`
	FirstName     string `json:"first_name" bson:"firstName"`
	LastName      string `json:"last_name" bson:"lastName"`
	Email         string `json:"email" bson:"email"`
	EmailVerified bool   `json:"email_verified" bson:"emailVerified"`
	AccountOwner  bool   `json:"account_owner" bson:"accountOwner"`
	Locale        string `json:"locale" bson:"locale"`
	Collaborator  bool   `json:"collaborator" bson:"collaborator"`
}

// OfflineSessionID returns the id under which the host layer stores a shop's offline session
func OfflineSessionID(shop string) string {
	return OfflineSessionPrefix + shop
}

// IsActive reports whether the session holds a token that has not expired at now
func (s *Session) IsActive(now time.Time) bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	if s.Expires != nil && !now.Before(*s.Expires) {
		return false
	}
	return true
}

// Scopes splits the comma separated granted scope
func (s *Session) Scopes() []string {
	if s.Scope == "" {
		return nil
	}
	parts := strings.Split(s.Scope, ",")
	scopes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			scopes = append(scopes, p)
		}
	}
	return scopes
}
