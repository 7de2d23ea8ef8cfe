// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the authenticated auditor's identity.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access auditor information without depending on Gin.
type Identity interface {
	// AuditorID returns the authenticated auditor's ID.
	AuditorID() uuid.UUID
	// Roles returns the auditor's assigned roles.
	Roles() []string
	// HasRole checks if the auditor has a specific role.
	HasRole(role string) bool
	// IsAuthenticated returns true if the auditor is authenticated.
	IsAuthenticated() bool
}

// identity is the concrete implementation of Identity.
type identity struct {
	auditorID     uuid.UUID
	roles         []string
	authenticated bool
}

func (i *identity) AuditorID() uuid.UUID {
	return i.auditorID
}

func (i *identity) Roles() []string {
	return i.roles
}

func (i *identity) HasRole(role string) bool {
	for _, r := range i.roles {
		if r == role {
			return true
		}
	}
	return false
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if auditor info is not present.
func GetIdentity(c *gin.Context) Identity {
	auditorID, idOK := c.Get(ContextAuditorIDKey)
	roles, rolesOK := c.Get(ContextRolesKey)

	if !idOK {
		return &identity{authenticated: false}
	}

	uid, ok := auditorID.(uuid.UUID)
	if !ok {
		return &identity{authenticated: false}
	}

	var roleList []string
	if rolesOK {
		roleList, _ = roles.([]string)
	}

	return &identity{
		auditorID:     uid,
		roles:         roleList,
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the auditor is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
