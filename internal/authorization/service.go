package authorization

import "context"

// Service answers "may this role perform this action on this object".
// Roles are flat, there is no tenancy dimension.
type Service interface {
	Authorize(ctx context.Context, role string, object string, action string) error
}
