package ports

import (
	"context"

	"github.com/taskstack/task-tracker/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (string, *domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
