package postprocess

import (
	"strconv"
	"strings"

	"raid-parser/internal/models"
)

// roleAliases maps loose model spellings onto the normalized role ids.
var roleAliases = map[string]models.Role{
	"tank":       models.RoleTank,
	"healer":     models.RoleHealer,
	"heal":       models.RoleHealer,
	"support":    models.RoleSupport,
	"melee_dps":  models.RoleMeleeDPS,
	"melee dps":  models.RoleMeleeDPS,
	"melee":      models.RoleMeleeDPS,
	"dps":        models.RoleMeleeDPS,
	"ranged_dps": models.RoleRangedDPS,
	"ranged dps": models.RoleRangedDPS,
	"ranged":     models.RoleRangedDPS,
	"mount":      models.RoleMount,
	"caller":     models.RoleCaller,
	"shotcaller": models.RoleCaller,
}

// normalizeRoles turns the draft's role entries into RoleSlots: the user
// reference is coerced to a string, count is forced to 1 and the role id is
// aligned with the fixed enum. When the model returned no roles at all, the
// preprocessor's slots become the slot list.
func normalizeRoles(ctx Context) (Context, error) {
	var slots []models.RoleSlot

	if len(ctx.Draft.Roles) > 0 {
		slots = make([]models.RoleSlot, 0, len(ctx.Draft.Roles))
		for _, r := range ctx.Draft.Roles {
			name := strings.TrimSpace(r.Name)
			if name == "" {
				continue
			}
			slots = append(slots, models.RoleSlot{
				Name:            name,
				Role:            normalizeRoleID(r.Role),
				Count:           1,
				PreAssignedUser: coerceUserRef(r.PreAssignedUser),
			})
		}
	} else {
		preRoles := make(map[string]models.Role, len(ctx.Pre.PreAssignedRoles))
		for _, pr := range ctx.Pre.PreAssignedRoles {
			preRoles[pr.SlotName] = pr.Role
		}
		for _, s := range ctx.Pre.ExtractedSlots {
			slots = append(slots, models.RoleSlot{
				Name:            s.Label,
				Role:            preRoles[s.Label],
				Count:           1,
				PreAssignedUser: s.UserRef,
			})
		}
	}

	ctx.Record.Roles = slots
	return ctx, nil
}

func normalizeRoleID(raw string) models.Role {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "-", "_")
	if role, ok := roleAliases[key]; ok {
		return role
	}
	return models.Role(key)
}

// coerceUserRef turns whatever the model put in preAssignedUser into a
// string; null and unexpected types become empty.
func coerceUserRef(v any) string {
	switch u := v.(type) {
	case string:
		return strings.TrimSpace(u)
	case float64:
		return strconv.FormatFloat(u, 'f', -1, 64)
	default:
		return ""
	}
}
