// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package gitlab

import (
	"context"
	"sync"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
)

// User is the account behind a Service's token, resolved on first use.
type User struct {
	service *Service

	mu     sync.Mutex
	cached *gl.User
}

var _ forge.User = (*User)(nil)

// Username returns the login of the current user.
func (u *User) Username(ctx context.Context) (string, error) {
	cur, err := u.load(ctx)
	if err != nil {
		return "", err
	}
	return cur.Username, nil
}

// Email returns the primary e-mail of the current user.
func (u *User) Email(ctx context.Context) (string, error) {
	cur, err := u.load(ctx)
	if err != nil {
		return "", err
	}
	return cur.Email, nil
}

func (u *User) load(ctx context.Context) (*gl.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.cached != nil {
		return u.cached, nil
	}
	cur, resp, err := u.service.client.Users.CurrentUser(gl.WithContext(ctx))
	if err := check(ctx, "get current user", resp, err); err != nil {
		return nil, err
	}
	u.cached = cur
	return cur, nil
}
