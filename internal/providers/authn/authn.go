package authn

import (
	"context"

	"github.com/yoockh/yoojob/internal/models"
)

// Provider is the hosted identity service. Passwords and sessions never live in this process.
type Provider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.AuthSession, error)
	SignIn(ctx context.Context, email, password string) (*models.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	AuthorizeURL(provider, redirectTo string) (string, error)
}
