package services

import (
	"context"
	"strings"

	"omonat/internal/core"
	"omonat/internal/log"
	"omonat/internal/session"
)

type ProfileService struct {
	base
}

func NewProfileService(sess *session.Session, deps Deps) *ProfileService {
	return &ProfileService{base: newBase(sess, deps, log.ComponentProfile)}
}

func (s *ProfileService) Get(ctx context.Context, refresh bool) (core.User, error) {
	u, err := read(ctx, &s.base, KeyMe, refresh, s.api().Auth.Me)
	if err != nil {
		return core.User{}, fail("get profile", MsgGeneric, err)
	}
	return u, nil
}

// Update sends the profile and replaces the cached user with the answer,
// without refetching it.
func (s *ProfileService) Update(ctx context.Context, in core.ProfileInput) (Mutation[core.User], error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return Mutation[core.User]{}, err
	}

	u, err := s.api().Auth.UpdateProfile(ctx, in)
	if err != nil {
		return Mutation[core.User]{}, fail("update profile", MsgGeneric, err)
	}
	s.sess.Gate.SetUser(u)
	s.publish(ctx, []string{KeyMe})
	return done(u, "/profile", success(MsgProfileUpdated)), nil
}
