package repository

import (
	"github.com/imartins/task-api/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User  UserRepository
	Token TokenRepository
	Task  TaskRepository
}

// NewRepositories creates all repositories. hashKey keys the HMAC under which
// refresh tokens are stored.
func NewRepositories(db *database.Postgres, hashKey []byte) *Repositories {
	return &Repositories{
		User:  NewUserRepository(db),
		Token: NewTokenRepository(db, hashKey),
		Task:  NewTaskRepository(db),
	}
}
