package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"stayledger/shared/constant"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed on one route pattern. Skip marks a public route.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the route. superadmin is always allowed and an
// empty role list admits any authenticated caller.
func (p Permission) Allows(role string) bool {
	if p.Skip || len(p.Permissions) == 0 || role == constant.RoleSuperAdmin {
		return true
	}

	return slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// FindPermissions returns the entry for a chi route pattern. Unknown routes get the zero
// Permission, which admits any authenticated caller.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r.index != nil {
		return r.index[routeKey(method, path)]
	}

	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return rp.Path == path && strings.EqualFold(rp.Method, method)
	})

	if idx == -1 {
		return Permission{}
	}

	return r.Endpoints[idx]
}

// Parse decodes a permissions document and rejects duplicate routes.
func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	permissions.index = make(map[string]Permission, len(permissions.Endpoints))

	for _, endpoint := range permissions.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)
		if _, ok := permissions.index[key]; ok {
			return nil, fmt.Errorf("duplicate permission for %s", key)
		}

		permissions.index[key] = endpoint
	}

	return &permissions, nil
}

// Get loads the embedded permissions.json. A broken document yields nil, which the RBAC
// middleware treats as deny-all.
func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Loaded embedded permissions")

	return permissions
}
