package services

import (
	"context"

	"omonat/internal/core"
	"omonat/internal/log"
	"omonat/internal/session"
	"omonat/internal/views"
)

// AdminService backs the admin panel. The gate keeps non-admins out
// before any of these run.
type AdminService struct {
	base
}

func NewAdminService(sess *session.Session, deps Deps) *AdminService {
	return &AdminService{base: newBase(sess, deps, log.ComponentAdmin)}
}

func (s *AdminService) Stats(ctx context.Context, refresh bool) (views.AdminStatsView, error) {
	stats, err := read(ctx, &s.base, KeyAdminStats, refresh, s.api().Admin.Stats)
	if err != nil {
		return views.AdminStatsView{}, fail("admin stats", MsgGeneric, err)
	}
	return views.AdminStats(stats), nil
}

func (s *AdminService) Users(ctx context.Context, query string, refresh bool) (views.AdminUsersView, error) {
	users, err := read(ctx, &s.base, KeyAdminUsers, refresh, s.api().Admin.Users)
	if err != nil {
		return views.AdminUsersView{}, fail("admin users", MsgGeneric, err)
	}
	return views.AdminUsers(users, query), nil
}

func (s *AdminService) User(ctx context.Context, id string, refresh bool) (views.AdminUserDetailView, error) {
	d, err := read(ctx, &s.base, EntityKey(KeyAdminUsers, id), refresh, func(ctx context.Context) (core.AdminUserDetail, error) {
		return s.api().Admin.User(ctx, id)
	})
	if err != nil {
		return views.AdminUserDetailView{}, fail("admin user", MsgGeneric, err)
	}
	return views.AdminUserDetail(d), nil
}

func (s *AdminService) ToggleBlock(ctx context.Context, id string) (Mutation[core.ToggleResult], error) {
	res, err := s.api().Admin.ToggleBlock(ctx, id)
	if err != nil {
		return Mutation[core.ToggleResult]{}, fail("toggle block", MsgGeneric, err)
	}
	s.logger.InfoContext(ctx, "User block toggled", log.FieldUserID, id, "blocked", res.IsBlocked)
	s.invalidate(ctx, KeyAdminUsers, EntityKey(KeyAdminUsers, id), KeyAdminStats)

	msg := MsgUserUnblocked
	if res.IsBlocked {
		msg = MsgUserBlocked
	}
	return done(res, KeyAdminUsers, success(msg)), nil
}
