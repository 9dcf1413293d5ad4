package hyprland

import (
	"context"
	"strconv"

	"github.com/1broseidon/limbo/internal/compositor"
)

// Snapshot queries the full compositor state and derives the workspace list
// from scratch.
func (c *Client) Snapshot(ctx context.Context) ([]compositor.WorkspaceInfo, error) {
	var (
		monitors   []monitor
		clients    []client
		rules      []workspaceRule
		workspaces []workspace
	)
	if err := c.query(ctx, "monitors", &monitors); err != nil {
		return nil, err
	}
	if err := c.query(ctx, "clients", &clients); err != nil {
		return nil, err
	}
	if err := c.query(ctx, "workspacerules", &rules); err != nil {
		return nil, err
	}
	if err := c.query(ctx, "workspaces", &workspaces); err != nil {
		return nil, err
	}
	return workspaceInfos(monitors, clients, rules, workspaces), nil
}

// workspaceInfos merges live workspaces with numeric workspace rules, so
// persistent workspaces show up before Hyprland has created them. Special
// workspaces (negative ids) are left out.
func workspaceInfos(monitors []monitor, clients []client, rules []workspaceRule, workspaces []workspace) []compositor.WorkspaceInfo {
	active := make(map[int64]bool, len(monitors))
	for _, m := range monitors {
		if !m.Disabled {
			active[m.ActiveWorkspace.ID] = true
		}
	}

	floating := make(map[int64][]bool)
	for _, cl := range clients {
		floating[cl.Workspace.ID] = append(floating[cl.Workspace.ID], cl.Floating)
	}

	infos := make([]compositor.WorkspaceInfo, 0, len(workspaces)+len(rules))
	seen := make(map[int64]bool, len(workspaces))
	for _, w := range workspaces {
		if w.ID <= 0 || seen[w.ID] {
			continue
		}
		seen[w.ID] = true
		infos = append(infos, compositor.WorkspaceInfo{
			Output:         w.Monitor,
			ID:             compositor.WorkspaceID(w.ID),
			Idx:            int(w.ID),
			IsActive:       active[w.ID],
			HasWindows:     w.Windows > 0,
			TransparentBar: w.Windows == 0 || compositor.TransparentBar(false, floating[w.ID]),
		})
	}

	for _, r := range rules {
		id, err := strconv.ParseInt(r.WorkspaceString, 10, 64)
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		infos = append(infos, compositor.WorkspaceInfo{
			Output:         r.Monitor,
			ID:             compositor.WorkspaceID(id),
			Idx:            int(id),
			TransparentBar: true,
		})
	}

	compositor.SortByIdx(infos)
	return infos
}
