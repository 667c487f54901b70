package preprocess

import "raid-parser/internal/models"

// preAssignRoles looks each extracted slot label up in the merged role table.
// The first matching dictionary entry wins and carries that entry's fixed
// confidence. Merging is by slot name, first writer wins: a slot already
// pre-assigned by an earlier stage is never overwritten by a new hit.
func preAssignRoles(ctx Context) Context {
	assigned := make(map[string]struct{}, len(ctx.PreAssignedRoles))
	for _, r := range ctx.PreAssignedRoles {
		assigned[r.SlotName] = struct{}{}
	}

	roles := ctx.PreAssignedRoles
	for _, slot := range ctx.ExtractedSlots {
		if _, done := assigned[slot.Label]; done {
			continue
		}
		entry, ok := ctx.Dict.MatchRole(slot.Label)
		if !ok {
			continue
		}
		assigned[slot.Label] = struct{}{}
		roles = append(roles, models.PreAssignedRole{
			SlotName:   slot.Label,
			Role:       entry.Role,
			Confidence: entry.Confidence,
		})
	}

	ctx.PreAssignedRoles = roles
	ctx.Metadata.RoleCount = len(roles)
	return ctx
}
