package profile

import (
	"context"
	"net/http"

	"github.com/fkhayef/profiles/internal/icon"
	"github.com/fkhayef/profiles/internal/user"
)

const testSite = "https://social.example.com/"

type directoryStub struct {
	users   map[string]*user.User
	err     error
	lookups []string
}

func newDirectory(users ...*user.User) *directoryStub {
	d := &directoryStub{users: map[string]*user.User{}}
	for _, u := range users {
		d.users[u.Username] = u
	}
	return d
}

func (d *directoryStub) LookupByUsername(_ context.Context, username string) (*user.User, error) {
	d.lookups = append(d.lookups, username)
	if d.err != nil {
		return nil, d.err
	}
	return d.users[username], nil
}

func (d *directoryStub) HasElevatedPrivilege(caller *user.User) bool {
	return caller != nil && caller.IsAdmin
}

type iconStub struct{}

func (iconStub) URL(_ context.Context, owner *user.User, size icon.Size) string {
	return testSite + "icons/" + owner.Username + "/" + string(size)
}

func (s iconStub) All(ctx context.Context, owner *user.User) map[icon.Size]string {
	out := map[icon.Size]string{}
	for _, size := range icon.Sizes {
		out[size] = s.URL(ctx, owner, size)
	}
	return out
}

type translatorStub struct{}

func (translatorStub) T(_ *http.Request, key string) string {
	return "t:" + key
}
