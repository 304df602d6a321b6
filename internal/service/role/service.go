package role

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	permissionCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payroll_permission_cache_hits_total",
		Help: "Role permission lookups served from the cache.",
	})
	permissionCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payroll_permission_cache_misses_total",
		Help: "Role permission lookups that went to the database.",
	})
)

type RoleServiceImpl struct {
	roleRepo role.RoleRepository
	cache    *expirable.LRU[role.Name, role.PermissionMap]
	logger   *slog.Logger
}

// NewRoleService returns the role service. It also implements
// user.PermissionResolver on top of the same cache.
func NewRoleService(roleRepo role.RoleRepository, cacheSize int, cacheTTL time.Duration, logger *slog.Logger) *RoleServiceImpl {
	return &RoleServiceImpl{
		roleRepo: roleRepo,
		cache:    expirable.NewLRU[role.Name, role.PermissionMap](cacheSize, nil, cacheTTL),
		logger:   logger,
	}
}

var (
	_ role.RoleService        = (*RoleServiceImpl)(nil)
	_ user.PermissionResolver = (*RoleServiceImpl)(nil)
)

// Defaults implements role.RoleService.
func (s *RoleServiceImpl) Defaults(ctx context.Context, name role.Name) (role.PermissionMap, error) {
	if perms, ok := s.cache.Get(name); ok {
		permissionCacheHits.Inc()
		return perms, nil
	}
	permissionCacheMisses.Inc()

	r, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	s.cache.Add(name, r.Permissions)
	return r.Permissions, nil
}

// load reads a role and seeds the built-in defaults when it has no record.
func (s *RoleServiceImpl) load(ctx context.Context, name role.Name) (role.Role, error) {
	r, err := s.roleRepo.GetByName(ctx, name)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, role.ErrRoleNotFound) {
		return role.Role{}, fmt.Errorf("failed to get role %s: %w", name, err)
	}
	if !name.Valid() {
		return role.Role{}, role.ErrRoleNotFound
	}

	r = role.Role{Name: name, Permissions: role.DefaultPermissions(name)}
	if err := s.roleRepo.Upsert(ctx, r); err != nil {
		return role.Role{}, fmt.Errorf("failed to seed role %s: %w", name, err)
	}
	s.logger.Info("seeded default role permissions", slog.String("role", string(name)))
	return r, nil
}

// List implements role.RoleService.
func (s *RoleServiceImpl) List(ctx context.Context) ([]role.RoleResponse, error) {
	out := make([]role.RoleResponse, 0, len(role.Names))
	for _, name := range role.Names {
		r, err := s.load(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, role.NewRoleResponse(r))
	}
	return out, nil
}

// UpdatePermission implements role.RoleService.
func (s *RoleServiceImpl) UpdatePermission(ctx context.Context, req role.UpdateRolePermissionRequest) (role.RoleResponse, error) {
	if err := req.Validate(); err != nil {
		return role.RoleResponse{}, err
	}

	r, err := s.load(ctx, req.Role)
	if err != nil {
		return role.RoleResponse{}, err
	}
	if r.Locked() {
		return role.RoleResponse{}, role.ErrRoleLocked
	}

	perms := r.Permissions.Clone()
	if perms == nil {
		perms = role.PermissionMap{}
	}
	p := perms[req.Module]
	if req.View != nil {
		p = p.With(role.AccessView, *req.View)
	}
	if req.Edit != nil {
		p = p.With(role.AccessEdit, *req.Edit)
	}
	perms[req.Module] = p
	r.Permissions = perms

	if err := s.roleRepo.Upsert(ctx, r); err != nil {
		return role.RoleResponse{}, fmt.Errorf("failed to update role %s: %w", r.Name, err)
	}
	s.cache.Remove(r.Name)

	return role.NewRoleResponse(r), nil
}

// GetPermission implements user.PermissionResolver.
func (s *RoleServiceImpl) GetPermission(ctx context.Context, u user.User, module role.Module, access role.Access) (bool, error) {
	defaults, err := s.Defaults(ctx, u.Role)
	if err != nil {
		if errors.Is(err, role.ErrRoleNotFound) {
			return user.GetPermission(u, nil, module, access), nil
		}
		return false, err
	}
	return user.GetPermission(u, defaults, module, access), nil
}

// Matrix implements user.PermissionResolver.
func (s *RoleServiceImpl) Matrix(ctx context.Context, u user.User) (map[role.Module]role.ModuleAccess, error) {
	defaults, err := s.Defaults(ctx, u.Role)
	if err != nil && !errors.Is(err, role.ErrRoleNotFound) {
		return nil, err
	}
	return user.Matrix(u, defaults), nil
}
